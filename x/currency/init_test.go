package currency

import (
	"encoding/json"
	"testing"

	"github.com/iov-one/sharepool"
	"github.com/iov-one/sharepool/errors"
	"github.com/iov-one/sharepool/store"
	"github.com/iov-one/sharepool/weavetest/assert"
)

func TestGenesis(t *testing.T) {
	const genesis = `
		{
			"currency": [
				{"ticker": "MCR", "name": "my currency", "decimals": 9},
				{"ticker": "DOGE", "name": "Doge Coin", "issuer": "cond:dist/pool/0A0B"}
			]
		}
	`

	var opts sharepool.Options
	if err := json.Unmarshal([]byte(genesis), &opts); err != nil {
		t.Fatalf("cannot unmarshal genesis: %s", err)
	}

	db := store.MemStore()
	var ini Initializer
	if err := ini.FromGenesis(opts, db); err != nil {
		t.Fatalf("cannot load genesis: %s", err)
	}

	info, err := NewAssetBucket().Get(db, "MCR")
	if err != nil {
		t.Fatalf("cannot fetch asset information: %s", err)
	}
	assert.Equal(t, "my currency", info.Name)
	assert.Equal(t, uint32(9), info.Decimals)
}

func TestGenesisDuplicate(t *testing.T) {
	const genesis = `
		{
			"currency": [
				{"ticker": "MCR", "name": "my currency"},
				{"ticker": "MCR", "name": "my currency again"}
			]
		}
	`
	var opts sharepool.Options
	if err := json.Unmarshal([]byte(genesis), &opts); err != nil {
		t.Fatalf("cannot unmarshal genesis: %s", err)
	}
	var ini Initializer
	assert.IsErr(t, errors.ErrDuplicate, ini.FromGenesis(opts, store.MemStore()))
}

func TestGenesisIssuer(t *testing.T) {
	const genesis = `{"currency": [{"ticker": "DOGE", "name": "Doge Coin", "issuer": "cond:dist/pool/0A0B"}]}`
	var opts sharepool.Options
	if err := json.Unmarshal([]byte(genesis), &opts); err != nil {
		t.Fatalf("cannot unmarshal genesis: %s", err)
	}
	db := store.MemStore()
	var ini Initializer
	assert.Nil(t, ini.FromGenesis(opts, db))

	info, err := NewAssetBucket().Get(db, "DOGE")
	assert.Nil(t, err)
	want := sharepool.NewCondition("dist", "pool", []byte{0x0a, 0x0b}).Address()
	assert.Equal(t, want, info.Issuer)
}
