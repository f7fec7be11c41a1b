package app

import (
	"context"
	"testing"

	"github.com/iov-one/sharepool"
	"github.com/iov-one/sharepool/errors"
	"github.com/iov-one/sharepool/store"
	"github.com/iov-one/sharepool/weavetest"
	"github.com/iov-one/sharepool/weavetest/assert"
)

func TestChain(t *testing.T) {
	var nilDecorator *weavetest.Decorator

	d1 := &weavetest.Decorator{}
	d2 := &weavetest.Decorator{}
	h := &weavetest.Handler{}
	stack := ChainDecorators(d1, nil, nilDecorator).Chain(d2).WithHandler(h)

	ctx := context.Background()
	db := store.MemStore()
	tx := &weavetest.Tx{}

	_, err := stack.Check(ctx, db, tx)
	assert.Nil(t, err)
	_, err = stack.Deliver(ctx, db, tx)
	assert.Nil(t, err)
	assert.Equal(t, 1, d1.CheckCallCount())
	assert.Equal(t, 1, d2.DeliverCallCount())
	assert.Equal(t, 1, h.CheckCallCount())
	assert.Equal(t, 1, h.DeliverCallCount())

	// A failing decorator stops the execution.
	d2.DeliverErr = errors.ErrUnauthorized
	_, err = stack.Deliver(ctx, db, tx)
	assert.IsErr(t, errors.ErrUnauthorized, err)
	assert.Equal(t, 2, d1.DeliverCallCount())
	assert.Equal(t, 1, h.DeliverCallCount())
}

func TestChainDoesNotShareBackingArray(t *testing.T) {
	base := ChainDecorators(&weavetest.Decorator{})
	failA := &weavetest.Decorator{DeliverErr: errors.ErrThreshold}
	a := base.Chain(failA).WithHandler(&weavetest.Handler{})
	b := base.Chain(&weavetest.Decorator{}).WithHandler(&weavetest.Handler{})

	ctx := context.Background()
	var tx sharepool.Tx = &weavetest.Tx{}
	_, err := a.Deliver(ctx, store.MemStore(), tx)
	assert.IsErr(t, errors.ErrThreshold, err)
	_, err = b.Deliver(ctx, store.MemStore(), tx)
	assert.Nil(t, err)
}
