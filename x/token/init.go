package token

import (
	"github.com/iov-one/sharepool"
	"github.com/iov-one/sharepool/errors"
)

// Initializer creates the genesis balances. It must run after the
// currency initializer, as only registered assets can be held.
type Initializer struct{}

var _ sharepool.Initializer = (*Initializer)(nil)

// FromGenesis reads the "token" list of balances and credits them to the
// canonical accounts of their owners.
func (*Initializer) FromGenesis(opts sharepool.Options, kv sharepool.KVStore) error {
	var balances []struct {
		Owner  sharepool.Address `json:"owner"`
		Asset  string            `json:"asset"`
		Amount uint64            `json:"amount"`
	}
	if err := opts.ReadOptions("token", &balances); err != nil {
		return err
	}

	ctrl := NewController()
	for i, b := range balances {
		addr, _, err := ctrl.EnsureAccount(kv, b.Owner, b.Asset)
		if err != nil {
			return errors.Wrapf(err, "balance #%d", i)
		}
		if b.Amount == 0 {
			continue
		}
		if err := ctrl.Mint(kv, addr, b.Asset, b.Amount); err != nil {
			return errors.Wrapf(err, "balance #%d", i)
		}
	}
	return nil
}
