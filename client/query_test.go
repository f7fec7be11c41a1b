package client

import (
	"bytes"
	"testing"

	"github.com/iov-one/sharepool"
	sharepoold "github.com/iov-one/sharepool/cmd/sharepoold/app"
	"github.com/iov-one/sharepool/errors"
	"github.com/iov-one/sharepool/orm"
	"github.com/iov-one/sharepool/weavetest"
	"github.com/iov-one/sharepool/weavetest/assert"
	"github.com/iov-one/sharepool/x/token"
	"github.com/tendermint/tendermint/libs/log"
)

func TestAppQueries(t *testing.T) {
	authority := weavetest.NewCondition().Address()
	owner := weavetest.NewCondition().Address()

	application, err := sharepoold.GenerateApp("", log.NewNopLogger(), false)
	assert.Nil(t, err)
	runner := weavetest.NewAppRunner(t, application, "query-test-chain")
	runner.InitChain(map[string]interface{}{
		"currency": []interface{}{
			map[string]interface{}{"ticker": "IOV", "name": "primary"},
			map[string]interface{}{"ticker": "ETH", "name": "secondary"},
		},
		"token": []interface{}{
			map[string]interface{}{"owner": owner, "asset": "IOV", "amount": 1000},
		},
		"distributor": []interface{}{
			map[string]interface{}{
				"asset":            "IOV",
				"secondary_asset":  "ETH",
				"share_size":       10,
				"number_of_shares": 3,
				"authority":        authority,
			},
		},
		"conf": map[string]interface{}{
			"gas": map[string]interface{}{
				"metadata":      map[string]interface{}{"schema": 1},
				"owner":         authority,
				"default_limit": 5000,
				"tx_cost":       2,
			},
		},
	})

	q := NewAppQuerier(application)
	pool := sharepool.PoolAddress("IOV", "ETH", 10, 3)

	state, err := Pool(q, pool)
	assert.Nil(t, err)
	assert.Equal(t, uint64(10), state.ShareSize)
	assert.Equal(t, authority, state.Authority)

	pools, err := Pools(q)
	assert.Nil(t, err)
	assert.Equal(t, 1, len(pools))
	if _, ok := pools[pool.String()]; !ok {
		t.Fatalf("pool %s not listed", pool)
	}

	vault, err := Vault(q, pool)
	assert.Nil(t, err)
	assert.Equal(t, uint64(0), vault.Balance)
	assert.Equal(t, "IOV", vault.Asset)

	balance, err := Balance(q, owner, "IOV")
	assert.Nil(t, err)
	assert.Equal(t, uint64(1000), balance)

	balance, err = Balance(q, authority, "IOV")
	assert.Nil(t, err)
	assert.Equal(t, uint64(0), balance)

	asset, err := Asset(q, "ETH")
	assert.Nil(t, err)
	assert.Equal(t, "secondary", asset.Name)

	_, err = Asset(q, "BTC")
	assert.IsErr(t, errors.ErrNotFound, err)

	_, err = Pool(q, sharepool.PoolAddress("IOV", "ETH", 10, 4))
	assert.IsErr(t, errors.ErrNotFound, err)

	nonce, err := NextNonce(q, owner)
	assert.Nil(t, err)
	assert.Equal(t, int64(0), nonce)

	conf, err := GasConfiguration(q)
	assert.Nil(t, err)
	assert.Equal(t, int64(5000), conf.DefaultLimit)
	assert.Equal(t, int64(2), conf.TxCost)

	_, err = q.Query("/pools?range", nil)
	assert.IsErr(t, errors.ErrInput, err)

	_, err = q.Query("/unknown", nil)
	assert.IsErr(t, errors.ErrNotFound, err)
}

func TestVisitAccountsPages(t *testing.T) {
	owners := make(map[string]bool)
	var balances []interface{}
	for i := 0; i < orm.QueryRangeLimit+3; i++ {
		owner := weavetest.NewCondition().Address()
		owners[owner.String()] = true
		balances = append(balances, map[string]interface{}{"owner": owner, "asset": "IOV", "amount": i + 1})
	}

	application, err := sharepoold.GenerateApp("", log.NewNopLogger(), false)
	assert.Nil(t, err)
	runner := weavetest.NewAppRunner(t, application, "visit-test-chain")
	runner.InitChain(map[string]interface{}{
		"currency": []interface{}{
			map[string]interface{}{"ticker": "IOV", "name": "primary"},
		},
		"token": balances,
	})

	q := NewAppQuerier(application)
	seen := make(map[string]bool)
	var prev sharepool.Address
	err = VisitAccounts(q, func(addr sharepool.Address, acc *token.Account) error {
		if prev != nil && bytes.Compare(prev, addr) >= 0 {
			t.Fatalf("%s visited after %s", addr, prev)
		}
		prev = addr
		seen[acc.Owner.String()] = true
		return nil
	})
	assert.Nil(t, err)
	assert.Equal(t, len(owners), len(seen))
	for o := range owners {
		if !seen[o] {
			t.Fatalf("account of %s not visited", o)
		}
	}
}
