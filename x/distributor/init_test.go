package distributor

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/iov-one/sharepool"
	"github.com/iov-one/sharepool/errors"
	"github.com/iov-one/sharepool/store"
	"github.com/iov-one/sharepool/weavetest"
	"github.com/iov-one/sharepool/weavetest/assert"
	"github.com/iov-one/sharepool/x/currency"
)

func loadGenesis(t testing.TB, genesis string) (sharepool.KVStore, error) {
	t.Helper()
	var opts sharepool.Options
	if err := json.Unmarshal([]byte(genesis), &opts); err != nil {
		t.Fatalf("cannot unmarshal genesis: %s", err)
	}
	db := store.MemStore()
	var cur currency.Initializer
	if err := cur.FromGenesis(opts, db); err != nil {
		t.Fatalf("cannot load currencies: %s", err)
	}
	var ini Initializer
	return db, ini.FromGenesis(opts, db)
}

func TestGenesis(t *testing.T) {
	authority := weavetest.NewCondition().Address()
	genesis := fmt.Sprintf(`
		{
			"currency": [
				{"ticker": "IOV", "name": "internet of values"},
				{"ticker": "ETH", "name": "ether"}
			],
			"distributor": [
				{
					"asset": "IOV",
					"secondary_asset": "ETH",
					"share_size": 331000000000,
					"number_of_shares": 10,
					"authority": %q
				}
			]
		}
	`, authority.String())

	db, err := loadGenesis(t, genesis)
	assert.Nil(t, err)

	pool := sharepool.PoolAddress("IOV", "ETH", 331000000000, 10)
	state, err := NewStateBucket().Get(db, pool)
	assert.Nil(t, err)
	assert.Equal(t, authority, state.Authority)

	vault, err := NewVaultBucket().Get(db, pool)
	assert.Nil(t, err)
	assert.Equal(t, sharepool.VaultAddress(pool), vault.Address())
}

func TestGenesisErrors(t *testing.T) {
	authority := weavetest.NewCondition().Address().String()
	cases := map[string]struct {
		pools   string
		wantErr *errors.Error
	}{
		"unregistered asset": {
			pools:   `[{"asset": "BTC", "secondary_asset": "ETH", "share_size": 1, "number_of_shares": 2, "authority": "` + authority + `"}]`,
			wantErr: errors.ErrConfiguration,
		},
		"single share": {
			pools:   `[{"asset": "IOV", "secondary_asset": "ETH", "share_size": 1, "number_of_shares": 1, "authority": "` + authority + `"}]`,
			wantErr: errors.ErrConfiguration,
		},
		"duplicated pool": {
			pools: `[
				{"asset": "IOV", "secondary_asset": "ETH", "share_size": 1, "number_of_shares": 2, "authority": "` + authority + `"},
				{"asset": "IOV", "secondary_asset": "ETH", "share_size": 1, "number_of_shares": 2, "authority": "` + authority + `"}
			]`,
			wantErr: errors.ErrConfiguration,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			genesis := `{
				"currency": [
					{"ticker": "IOV", "name": "internet of values"},
					{"ticker": "ETH", "name": "ether"}
				],
				"distributor": ` + tc.pools + `
			}`
			_, err := loadGenesis(t, genesis)
			assert.IsErr(t, tc.wantErr, err)
		})
	}
}

func TestGenesisWithoutPools(t *testing.T) {
	_, err := loadGenesis(t, `{"currency": []}`)
	assert.Nil(t, err)
}
