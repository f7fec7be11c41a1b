package utils

import (
	"github.com/iov-one/sharepool"
	"github.com/iov-one/sharepool/errors"
	"github.com/iov-one/sharepool/gconf"
)

// Gas is a decorator that installs a gas meter for every transaction. The
// limit is the one declared by the transaction or the default when the
// transaction does not declare any. A gas configuration saved in the
// database overrides the defaults given to NewGas.
type Gas struct {
	defaultLimit int64
	txCost       int64
}

var _ sharepool.Decorator = Gas{}

// NewGas returns a gas decorator. Every transaction is charged txCost
// before reaching the handler.
func NewGas(defaultLimit, txCost int64) Gas {
	return Gas{defaultLimit: defaultLimit, txCost: txCost}
}

func (g Gas) meter(db sharepool.ReadOnlyKVStore, tx sharepool.Tx) (sharepool.GasMeter, error) {
	defaultLimit, txCost := g.defaultLimit, g.txCost
	var conf GasConfiguration
	switch err := gconf.Load(db, gasConfigurationPkg, &conf); {
	case err == nil:
		defaultLimit, txCost = conf.DefaultLimit, conf.TxCost
	case !errors.ErrNotFound.Is(err):
		return nil, errors.Wrap(err, "gas configuration")
	}

	limit := defaultLimit
	if gl, ok := tx.(sharepool.GasLimiter); ok && gl.GetGasLimit() != 0 {
		limit = gl.GetGasLimit()
	}
	if limit < 0 {
		return nil, errors.Wrapf(errors.ErrInput, "negative gas limit %d", limit)
	}
	meter := sharepool.NewGasMeter(limit)
	if err := meter.Consume(txCost, "transaction"); err != nil {
		return nil, err
	}
	return meter, nil
}

// Check allocates the declared gas to the transaction, or the amount
// requested by the handler if that is larger.
func (g Gas) Check(ctx sharepool.Context, store sharepool.KVStore, tx sharepool.Tx, next sharepool.Checker) (*sharepool.CheckResult, error) {
	meter, err := g.meter(store, tx)
	if err != nil {
		return nil, err
	}
	res, err := next.Check(sharepool.WithGasMeter(ctx, meter), store, tx)
	if err != nil {
		return nil, err
	}
	// A handler may ask for more than the declared limit, for example the
	// worst case cost of an unlimited transaction.
	if limit := meter.Limit(); limit > res.GasAllocated {
		res.GasAllocated = limit
	}
	return res, nil
}

// Deliver reports the gas consumed by the transaction.
func (g Gas) Deliver(ctx sharepool.Context, store sharepool.KVStore, tx sharepool.Tx, next sharepool.Deliverer) (*sharepool.DeliverResult, error) {
	meter, err := g.meter(store, tx)
	if err != nil {
		return nil, err
	}
	res, err := next.Deliver(sharepool.WithGasMeter(ctx, meter), store, tx)
	if err != nil {
		return nil, err
	}
	res.GasUsed = meter.Consumed()
	return res, nil
}
