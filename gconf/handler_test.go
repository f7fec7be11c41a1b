package gconf

import (
	"context"
	"testing"

	"github.com/iov-one/sharepool"
	"github.com/iov-one/sharepool/errors"
	"github.com/iov-one/sharepool/store"
	"github.com/iov-one/sharepool/weavetest"
	"github.com/iov-one/sharepool/weavetest/assert"
)

func TestUpdateConfigurationHandler(t *testing.T) {
	cond := weavetest.NewCondition()
	admin := weavetest.NewCondition()

	cases := map[string]struct {
		// If Init is provided, initialize the database before running
		// handler code. Use nil to not provide initial state.
		Init *myconfig

		Msg            sharepool.Msg
		MsgConditions  []sharepool.Condition
		WantCheckErr   *errors.Error
		WantDeliverErr *errors.Error

		// When not nil database state will be tested to contain the
		// exact version of the configuration.
		WantConfig *myconfig
	}{
		"success": {
			Init:          &myconfig{Owner: cond.Address(), Num: 5125, Str: "foobar"},
			Msg:           &myconfigMsg{Patch: &myconfig{Owner: cond.Address(), Num: 333, Str: "boing!"}},
			MsgConditions: []sharepool.Condition{cond},
			WantConfig:    &myconfig{Owner: cond.Address(), Num: 333, Str: "boing!"},
		},
		"message must be signed by the configuration owner": {
			Init:           &myconfig{Owner: cond.Address(), Num: 5125, Str: "foobar"},
			Msg:            &myconfigMsg{Patch: &myconfig{Num: 1}},
			MsgConditions:  []sharepool.Condition{weavetest.NewCondition()},
			WantCheckErr:   errors.ErrUnauthorized,
			WantDeliverErr: errors.ErrUnauthorized,
			WantConfig:     &myconfig{Owner: cond.Address(), Num: 5125, Str: "foobar"},
		},
		"zero values are not updating the configuration": {
			Init:          &myconfig{Owner: cond.Address(), Num: 5125, Str: "foobar"},
			Msg:           &myconfigMsg{Patch: &myconfig{Str: "changed"}},
			MsgConditions: []sharepool.Condition{cond},
			WantConfig:    &myconfig{Owner: cond.Address(), Num: 5125, Str: "changed"},
		},
		"ownership can be transferred": {
			Init:          &myconfig{Owner: cond.Address(), Num: 1},
			Msg:           &myconfigMsg{Patch: &myconfig{Owner: admin.Address()}},
			MsgConditions: []sharepool.Condition{cond},
			WantConfig:    &myconfig{Owner: admin.Address(), Num: 1},
		},
		"invalid configuration is not accepted": {
			Init:           &myconfig{Owner: cond.Address(), Num: 5125},
			Msg:            &myconfigMsg{Patch: &myconfig{Num: -4}},
			MsgConditions:  []sharepool.Condition{cond},
			WantCheckErr:   errors.ErrInput,
			WantDeliverErr: errors.ErrInput,
			WantConfig:     &myconfig{Owner: cond.Address(), Num: 5125},
		},
		"missing configuration is created by the admin": {
			Msg:           &myconfigMsg{Patch: &myconfig{Owner: cond.Address(), Num: 9}},
			MsgConditions: []sharepool.Condition{admin},
			WantConfig:    &myconfig{Owner: cond.Address(), Num: 9},
		},
		"missing configuration cannot be created by anybody else": {
			Msg:            &myconfigMsg{Patch: &myconfig{Owner: cond.Address(), Num: 9}},
			MsgConditions:  []sharepool.Condition{cond},
			WantCheckErr:   errors.ErrUnauthorized,
			WantDeliverErr: errors.ErrUnauthorized,
		},
		"message without a patch": {
			Init:           &myconfig{Owner: cond.Address(), Num: 5125},
			Msg:            &myconfigMsg{},
			MsgConditions:  []sharepool.Condition{cond},
			WantCheckErr:   errors.ErrMsg,
			WantDeliverErr: errors.ErrMsg,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()

			if tc.Init != nil {
				if err := Save(db, "mypkg", tc.Init); err != nil {
					t.Fatalf("cannot save initial configuration: %s", err)
				}
			}

			auth := &weavetest.CtxAuth{Key: "auth"}
			initAdmin := func(sharepool.ReadOnlyKVStore) (sharepool.Address, error) {
				return admin.Address(), nil
			}
			handler := NewUpdateConfigurationHandler("mypkg", &myconfig{}, auth, initAdmin)

			ctx := sharepool.WithHeight(context.Background(), 999)
			ctx = sharepool.WithChainID(ctx, "mychain-123")
			ctx = auth.SetConditions(ctx, tc.MsgConditions...)

			tx := &weavetest.Tx{Msg: tc.Msg}

			cache := db.CacheWrap()
			if _, err := handler.Check(ctx, cache, tx); !tc.WantCheckErr.Is(err) {
				t.Fatal(err)
			}
			cache.Discard()

			if _, err := handler.Deliver(ctx, db, tx); !tc.WantDeliverErr.Is(err) {
				t.Fatal(err)
			}

			if tc.WantConfig != nil {
				var got myconfig
				if err := Load(db, "mypkg", &got); err != nil {
					t.Fatalf("cannot load configuration from the database: %s", err)
				}
				assert.Equal(t, tc.WantConfig, &got)
			}
		})
	}
}

func TestUpdateWithoutInitAdmin(t *testing.T) {
	auth := &weavetest.CtxAuth{Key: "auth"}
	handler := NewUpdateConfigurationHandler("mypkg", &myconfig{}, auth, nil)
	cond := weavetest.NewCondition()
	ctx := auth.SetConditions(context.Background(), cond)
	tx := &weavetest.Tx{Msg: &myconfigMsg{Patch: &myconfig{Owner: cond.Address()}}}
	_, err := handler.Deliver(ctx, store.MemStore(), tx)
	assert.IsErr(t, errors.ErrUnauthorized, err)
}
