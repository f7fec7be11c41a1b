package currency

import (
	"context"
	"testing"

	"github.com/iov-one/sharepool"
	"github.com/iov-one/sharepool/errors"
	"github.com/iov-one/sharepool/store"
	"github.com/iov-one/sharepool/weavetest"
	"github.com/iov-one/sharepool/weavetest/assert"
)

func TestCreateHandler(t *testing.T) {
	permA := weavetest.NewCondition()
	permB := weavetest.NewCondition()

	existing := &AssetInfo{
		Metadata: &sharepool.Metadata{Schema: 1},
		Ticker:   "DOGE",
		Name:     "Doge Coin",
		Decimals: 6,
	}

	cases := map[string]struct {
		signers        []sharepool.Condition
		issuer         sharepool.Address
		initState      []*AssetInfo
		msg            sharepool.Msg
		wantCheckErr   *errors.Error
		wantDeliverErr *errors.Error
		wantAsset      *AssetInfo
	}{
		"re-registering an asset": {
			signers:        []sharepool.Condition{permA, permB},
			issuer:         permA.Address(),
			initState:      []*AssetInfo{existing},
			msg:            &CreateMsg{Metadata: &sharepool.Metadata{Schema: 1}, Ticker: "DOGE", Name: "Doge Coin", Decimals: 6},
			wantCheckErr:   errors.ErrDuplicate,
			wantDeliverErr: errors.ErrDuplicate,
		},
		"insufficient permission": {
			signers:        []sharepool.Condition{permB},
			issuer:         permA.Address(),
			msg:            &CreateMsg{Metadata: &sharepool.Metadata{Schema: 1}, Ticker: "DOGE", Name: "Doge Coin", Decimals: 6},
			wantCheckErr:   errors.ErrUnauthorized,
			wantDeliverErr: errors.ErrUnauthorized,
		},
		"no signature": {
			msg:            &CreateMsg{Metadata: &sharepool.Metadata{Schema: 1}, Ticker: "DOGE", Name: "Doge Coin", Decimals: 6},
			wantCheckErr:   errors.ErrUnauthorized,
			wantDeliverErr: errors.ErrUnauthorized,
		},
		"invalid ticker": {
			signers:        []sharepool.Condition{permA},
			msg:            &CreateMsg{Metadata: &sharepool.Metadata{Schema: 1}, Ticker: "doge", Name: "Doge Coin"},
			wantCheckErr:   errors.ErrAsset,
			wantDeliverErr: errors.ErrAsset,
		},
		"ok": {
			signers: []sharepool.Condition{permA, permB},
			issuer:  permA.Address(),
			msg:     &CreateMsg{Metadata: &sharepool.Metadata{Schema: 1}, Ticker: "TKR", Name: "tikr", Decimals: 9},
			wantAsset: &AssetInfo{
				Metadata: &sharepool.Metadata{Schema: 1},
				Ticker:   "TKR",
				Name:     "tikr",
				Decimals: 9,
				Issuer:   permA.Address(),
			},
		},
		"ok without configured issuer": {
			signers: []sharepool.Condition{permB},
			msg:     &CreateMsg{Metadata: &sharepool.Metadata{Schema: 1}, Ticker: "ABC", Name: "alphabet"},
			wantAsset: &AssetInfo{
				Metadata: &sharepool.Metadata{Schema: 1},
				Ticker:   "ABC",
				Name:     "alphabet",
				Issuer:   permB.Address(),
			},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			bucket := NewAssetBucket()
			for _, a := range tc.initState {
				assert.Nil(t, bucket.Add(db, a))
			}

			auth := &weavetest.CtxAuth{Key: "auth"}
			ctx := auth.SetConditions(context.Background(), tc.signers...)
			h := NewCreateHandler(auth, tc.issuer)
			tx := &weavetest.Tx{Msg: tc.msg}

			cache := db.CacheWrap()
			_, err := h.Check(ctx, cache, tx)
			if tc.wantCheckErr != nil {
				assert.IsErr(t, tc.wantCheckErr, err)
			} else {
				assert.Nil(t, err)
			}
			cache.Discard()

			_, err = h.Deliver(ctx, db, tx)
			if tc.wantDeliverErr != nil {
				assert.IsErr(t, tc.wantDeliverErr, err)
				return
			}
			assert.Nil(t, err)

			got, err := bucket.Get(db, tc.wantAsset.Ticker)
			assert.Nil(t, err)
			assert.Equal(t, tc.wantAsset, got)
		})
	}
}

func TestRequireAsset(t *testing.T) {
	db := store.MemStore()
	assert.Nil(t, NewAssetBucket().Add(db, &AssetInfo{
		Metadata: &sharepool.Metadata{Schema: 1},
		Ticker:   "IOV",
		Name:     "iov token",
	}))

	a, err := RequireAsset(db, "IOV")
	assert.Nil(t, err)
	assert.Equal(t, "iov token", a.Name)

	_, err = RequireAsset(db, "BTC")
	assert.IsErr(t, errors.ErrConfiguration, err)
}
