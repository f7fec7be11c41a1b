package sharepool

import (
	"context"
	"math"
	"testing"

	"github.com/iov-one/sharepool/errors"
	"github.com/iov-one/sharepool/weavetest/assert"
)

func TestGasMeter(t *testing.T) {
	cases := map[string]struct {
		limit    int64
		charges  []int64
		wantErr  *errors.Error
		wantUsed int64
	}{
		"unlimited meter": {
			limit:    0,
			charges:  []int64{1000, 1000000},
			wantUsed: 1001000,
		},
		"exactly the limit": {
			limit:    300,
			charges:  []int64{100, 200},
			wantUsed: 300,
		},
		"above the limit": {
			limit:    300,
			charges:  []int64{100, 200, 1},
			wantErr:  errors.ErrOutOfGas,
			wantUsed: 301,
		},
		"negative charge": {
			limit:   300,
			charges: []int64{-1},
			wantErr: errors.ErrHuman,
		},
		"overflow": {
			limit:    0,
			charges:  []int64{math.MaxInt64, 1},
			wantErr:  errors.ErrOverflow,
			wantUsed: math.MaxInt64,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			m := NewGasMeter(tc.limit)
			var err error
			for _, c := range tc.charges {
				if err = m.Consume(c, "test"); err != nil {
					break
				}
			}
			if !tc.wantErr.Is(err) {
				t.Fatalf("want %v error, got %+v", tc.wantErr, err)
			}
			assert.Equal(t, tc.wantUsed, m.Consumed())
			assert.Equal(t, tc.limit, m.Limit())
		})
	}
}

func TestGasMeterInContext(t *testing.T) {
	ctx := context.Background()
	assert.Nil(t, ConsumeGas(ctx, 1<<40, "no meter means no limit"))

	m := NewGasMeter(10)
	ctx = WithGasMeter(ctx, m)
	assert.Nil(t, ConsumeGas(ctx, 10, "first"))
	assert.IsErr(t, errors.ErrOutOfGas, ConsumeGas(ctx, 1, "second"))
	assert.Equal(t, int64(11), GetGasMeter(ctx).Consumed())
}
