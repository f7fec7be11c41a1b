package payout

import (
	"bytes"
	"math/rand"
	"sort"

	"github.com/iov-one/sharepool"
	"github.com/iov-one/sharepool/client"
	"github.com/iov-one/sharepool/errors"
	"github.com/iov-one/sharepool/x/token"
)

// Holders returns the owners of all non empty accounts of given asset,
// sorted by address. Accounts owned by the pool, its vault included, are
// never listed.
func Holders(q client.Querier, asset string, pool sharepool.Address) ([]sharepool.Address, error) {
	seen := make(map[string]bool)
	var holders []sharepool.Address
	err := client.VisitAccounts(q, func(_ sharepool.Address, acc *token.Account) error {
		if acc.Asset != asset || acc.Amount == 0 || acc.Owner.Equals(pool) || seen[string(acc.Owner)] {
			return nil
		}
		seen[string(acc.Owner)] = true
		holders = append(holders, acc.Owner)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(holders, func(i, j int) bool {
		return bytes.Compare(holders[i], holders[j]) < 0
	})
	return holders, nil
}

// DrawWinners picks n winners among holders. Every holder wins at most
// once, unless there are fewer holders than winners, in which case all
// holders win and the remaining places are drawn again among them.
func DrawWinners(rnd *rand.Rand, holders []sharepool.Address, n int) ([]sharepool.Address, error) {
	if len(holders) == 0 {
		return nil, errors.Wrap(errors.ErrEmpty, "no holders")
	}
	if n <= 0 {
		return nil, errors.Wrapf(errors.ErrInput, "cannot draw %d winners", n)
	}

	winners := make([]sharepool.Address, 0, n)
	for len(winners) < n {
		perm := rnd.Perm(len(holders))
		for _, i := range perm {
			if len(winners) == n {
				break
			}
			winners = append(winners, holders[i])
		}
	}
	return winners, nil
}
