package utils

import (
	"github.com/iov-one/sharepool"
	"github.com/iov-one/sharepool/errors"
)

// Recovery is a decorator to recover from panics in transactions,
// so we can log them as errors
type Recovery struct{}

var _ sharepool.Decorator = Recovery{}

// NewRecovery creates a Recovery decorator
func NewRecovery() Recovery {
	return Recovery{}
}

// Check turns panics into normal errors
func (r Recovery) Check(ctx sharepool.Context, store sharepool.KVStore, tx sharepool.Tx, next sharepool.Checker) (_ *sharepool.CheckResult, err error) {
	defer errors.Recover(&err)
	return next.Check(ctx, store, tx)
}

// Deliver turns panics into normal errors
func (r Recovery) Deliver(ctx sharepool.Context, store sharepool.KVStore, tx sharepool.Tx, next sharepool.Deliverer) (_ *sharepool.DeliverResult, err error) {
	defer errors.Recover(&err)
	return next.Deliver(ctx, store, tx)
}
