package app

import (
	"context"
	"testing"

	"github.com/iov-one/sharepool/errors"
	"github.com/iov-one/sharepool/store"
	"github.com/iov-one/sharepool/weavetest"
	"github.com/iov-one/sharepool/weavetest/assert"
)

func TestRouterDispatch(t *testing.T) {
	var (
		ctx = context.Background()
		db  = store.MemStore()
		rt  = NewRouter()

		h1 = &weavetest.Handler{}
		h2 = &weavetest.Handler{DeliverErr: errors.ErrThreshold}
	)
	rt.Handle(&weavetest.Msg{RoutePath: "test/first"}, h1)
	rt.Handle(&weavetest.Msg{RoutePath: "test/second"}, h2)

	_, err := rt.Check(ctx, db, &weavetest.Tx{Msg: &weavetest.Msg{RoutePath: "test/first"}})
	assert.Nil(t, err)
	_, err = rt.Deliver(ctx, db, &weavetest.Tx{Msg: &weavetest.Msg{RoutePath: "test/second"}})
	assert.IsErr(t, errors.ErrThreshold, err)
	assert.Equal(t, 1, h1.CheckCallCount())
	assert.Equal(t, 1, h2.DeliverCallCount())

	_, err = rt.Deliver(ctx, db, &weavetest.Tx{Msg: &weavetest.Msg{RoutePath: "test/unknown"}})
	assert.IsErr(t, errors.ErrNotFound, err)

	_, err = rt.Check(ctx, db, &weavetest.Tx{})
	assert.IsErr(t, errors.ErrMsg, err)

	_, err = rt.Check(ctx, db, &weavetest.Tx{Err: errors.ErrType})
	assert.IsErr(t, errors.ErrType, err)
}

func TestRouterRejectsInvalidRoutes(t *testing.T) {
	cases := map[string]string{
		"no extension":    "first",
		"upper case":      "test/First",
		"empty":           "",
		"too many chunks": "a/b/c",
		"invalid chars":   "test/fir$t",
	}
	for testName, path := range cases {
		t.Run(testName, func(t *testing.T) {
			assert.Panics(t, func() {
				NewRouter().Handle(&weavetest.Msg{RoutePath: path}, &weavetest.Handler{})
			})
		})
	}

	rt := NewRouter()
	rt.Handle(&weavetest.Msg{RoutePath: "test/first"}, &weavetest.Handler{})
	assert.Panics(t, func() {
		rt.Handle(&weavetest.Msg{RoutePath: "test/first"}, &weavetest.Handler{})
	})
}
