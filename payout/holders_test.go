package payout

import (
	"math/rand"
	"testing"

	"github.com/iov-one/sharepool"
	"github.com/iov-one/sharepool/errors"
	"github.com/iov-one/sharepool/weavetest"
	"github.com/iov-one/sharepool/weavetest/assert"
)

func TestDrawWinners(t *testing.T) {
	var holders []sharepool.Address
	for i := 0; i < 5; i++ {
		holders = append(holders, weavetest.NewCondition().Address())
	}

	cases := map[string]struct {
		holders  []sharepool.Address
		n        int
		wantErr  *errors.Error
		distinct bool
	}{
		"fewer winners than holders": {
			holders:  holders,
			n:        3,
			distinct: true,
		},
		"every holder wins": {
			holders:  holders,
			n:        5,
			distinct: true,
		},
		"more winners than holders": {
			holders: holders[:2],
			n:       5,
		},
		"no holders": {
			holders: nil,
			n:       3,
			wantErr: errors.ErrEmpty,
		},
		"no winners": {
			holders: holders,
			n:       0,
			wantErr: errors.ErrInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			rnd := rand.New(rand.NewSource(42))
			winners, err := DrawWinners(rnd, tc.holders, tc.n)
			if tc.wantErr != nil {
				assert.IsErr(t, tc.wantErr, err)
				return
			}
			assert.Nil(t, err)
			assert.Equal(t, tc.n, len(winners))

			counts := make(map[string]int)
			for _, w := range winners {
				counts[w.String()]++
			}
			for _, h := range tc.holders {
				c := counts[h.String()]
				if tc.distinct && c > 1 {
					t.Fatalf("%s won %d times", h, c)
				}
				if !tc.distinct && c == 0 {
					t.Fatalf("%s never won", h)
				}
			}
			if len(counts) > len(tc.holders) {
				t.Fatal("winner is not a holder")
			}
		})
	}
}

func TestDrawWinnersIsDeterministicForSeed(t *testing.T) {
	var holders []sharepool.Address
	for i := 0; i < 10; i++ {
		holders = append(holders, weavetest.NewCondition().Address())
	}
	a, err := DrawWinners(rand.New(rand.NewSource(7)), holders, 4)
	assert.Nil(t, err)
	b, err := DrawWinners(rand.New(rand.NewSource(7)), holders, 4)
	assert.Nil(t, err)
	assert.Equal(t, a, b)
}
