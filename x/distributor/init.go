package distributor

import (
	"github.com/iov-one/sharepool"
	"github.com/iov-one/sharepool/errors"
	"github.com/iov-one/sharepool/x/currency"
	"github.com/iov-one/sharepool/x/token"
)

// Initializer creates the genesis pools. It must run after the currency
// initializer.
type Initializer struct{}

var _ sharepool.Initializer = (*Initializer)(nil)

// FromGenesis reads the "distributor" list of pools and creates each of
// them with an empty vault.
func (*Initializer) FromGenesis(opts sharepool.Options, kv sharepool.KVStore) error {
	var pools []struct {
		Asset          string            `json:"asset"`
		SecondaryAsset string            `json:"secondary_asset"`
		ShareSize      uint64            `json:"share_size"`
		NumberOfShares uint64            `json:"number_of_shares"`
		Authority      sharepool.Address `json:"authority"`
	}
	if err := opts.ReadOptions("distributor", &pools); err != nil {
		return err
	}

	states := NewStateBucket()
	vaults := NewVaultBucket()
	ctrl := token.NewController()
	for i, p := range pools {
		state := &DistributorState{
			Metadata:       &sharepool.Metadata{Schema: 1},
			Asset:          p.Asset,
			SecondaryAsset: p.SecondaryAsset,
			Authority:      p.Authority,
			ShareSize:      p.ShareSize,
			NumberOfShares: p.NumberOfShares,
		}
		if err := state.Validate(); err != nil {
			return errors.Wrapf(err, "pool #%d", i)
		}
		for _, ticker := range []string{p.Asset, p.SecondaryAsset} {
			if _, err := currency.RequireAsset(kv, ticker); err != nil {
				return errors.Wrapf(err, "pool #%d", i)
			}
		}
		if _, err := createPool(kv, states, vaults, ctrl, state); err != nil {
			return errors.Wrapf(err, "pool #%d", i)
		}
	}
	return nil
}
