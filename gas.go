package sharepool

import (
	"context"

	"github.com/iov-one/sharepool/errors"
)

// GasMeter tracks the execution budget of a single transaction. Handlers
// charge it for every unit of work whose cost depends on the input, so
// that a call that does not fit into its budget aborts instead of running
// unbounded.
type GasMeter interface {
	// Consume charges given amount. It returns ErrOutOfGas once the
	// total consumption exceeds the limit. The descriptor is used in
	// the error message.
	Consume(amount int64, descriptor string) error
	Consumed() int64
	Limit() int64
}

// NewGasMeter returns a meter with given limit. A limit of zero or less
// means unlimited.
func NewGasMeter(limit int64) GasMeter {
	return &gasMeter{limit: limit}
}

type gasMeter struct {
	limit    int64
	consumed int64
}

func (g *gasMeter) Consume(amount int64, descriptor string) error {
	if amount < 0 {
		return errors.Wrapf(errors.ErrHuman, "negative gas for %s", descriptor)
	}
	next := g.consumed + amount
	if next < g.consumed {
		return errors.Wrapf(errors.ErrOverflow, "gas for %s", descriptor)
	}
	g.consumed = next
	if g.limit > 0 && g.consumed > g.limit {
		return errors.Wrapf(errors.ErrOutOfGas, "%s: consumed %d, limit %d", descriptor, g.consumed, g.limit)
	}
	return nil
}

func (g *gasMeter) Consumed() int64 {
	return g.consumed
}

func (g *gasMeter) Limit() int64 {
	return g.limit
}

// WithGasMeter sets the meter used by handlers of this Context.
func WithGasMeter(ctx Context, meter GasMeter) Context {
	return context.WithValue(ctx, contextKeyGasMeter, meter)
}

// GetGasMeter returns the meter set for this Context. When none was set an
// unlimited meter is returned, so that handlers tested in isolation do not
// need any gas setup.
func GetGasMeter(ctx Context) GasMeter {
	if m, ok := ctx.Value(contextKeyGasMeter).(GasMeter); ok {
		return m
	}
	return NewGasMeter(0)
}

// ConsumeGas is a shortcut for GetGasMeter(ctx).Consume.
func ConsumeGas(ctx Context, amount int64, descriptor string) error {
	return GetGasMeter(ctx).Consume(amount, descriptor)
}
