package currency

import (
	"github.com/iov-one/sharepool"
	"github.com/iov-one/sharepool/errors"
)

// Initializer fulfils the Initializer interface to load data from the genesis
// file
type Initializer struct{}

var _ sharepool.Initializer = (*Initializer)(nil)

// FromGenesis will parse initial asset info from genesis and save it to the
// database
func (*Initializer) FromGenesis(opts sharepool.Options, kv sharepool.KVStore) error {
	var assets []struct {
		Ticker   string            `json:"ticker"`
		Name     string            `json:"name"`
		Decimals uint32            `json:"decimals"`
		Issuer   sharepool.Address `json:"issuer"`
	}
	if err := opts.ReadOptions("currency", &assets); err != nil {
		return err
	}

	bucket := NewAssetBucket()
	for i, a := range assets {
		info := &AssetInfo{
			Metadata: &sharepool.Metadata{Schema: 1},
			Ticker:   a.Ticker,
			Name:     a.Name,
			Decimals: a.Decimals,
			Issuer:   a.Issuer,
		}
		if err := bucket.Add(kv, info); err != nil {
			return errors.Wrapf(err, "asset #%d", i)
		}
	}
	return nil
}
