/*
Package sigs provides basic authentication
middleware to verify the signatures on the transaction,
and maintain nonces for replay protection.
*/
package sigs

import (
	"github.com/iov-one/sharepool"
	"github.com/iov-one/sharepool/errors"
)

// SignatureVerifyCost is the gas charged for every valid signature.
const SignatureVerifyCost = 500

// Decorator verifies the signatures and adds them to the context
type Decorator struct {
	allowMissingSigs bool
}

var _ sharepool.Decorator = Decorator{}

// NewDecorator returns a default authentication decorator,
// which appends the chainID before checking the signature,
// and requires at least one signature to be present
func NewDecorator() Decorator {
	return Decorator{
		allowMissingSigs: false,
	}
}

// AllowMissingSigs allows us to pass along items with no signatures
func (d Decorator) AllowMissingSigs() Decorator {
	d.allowMissingSigs = true
	return d
}

// Check verifies signatures before calling down the stack.
func (d Decorator) Check(ctx sharepool.Context, store sharepool.KVStore, tx sharepool.Tx, next sharepool.Checker) (*sharepool.CheckResult, error) {
	ctx, err := d.authenticate(ctx, store, tx)
	if err != nil {
		return nil, err
	}
	return next.Check(ctx, store, tx)
}

// Deliver verifies signatures before calling down the stack.
func (d Decorator) Deliver(ctx sharepool.Context, store sharepool.KVStore, tx sharepool.Tx, next sharepool.Deliverer) (*sharepool.DeliverResult, error) {
	ctx, err := d.authenticate(ctx, store, tx)
	if err != nil {
		return nil, err
	}
	return next.Deliver(ctx, store, tx)
}

func (d Decorator) authenticate(ctx sharepool.Context, store sharepool.KVStore, tx sharepool.Tx) (sharepool.Context, error) {
	stx, ok := tx.(SignedTx)
	if !ok {
		return ctx, nil
	}

	signers, err := VerifyTxSignatures(store, stx, sharepool.GetChainID(ctx))
	if err != nil {
		return nil, errors.Wrap(err, "cannot verify signatures")
	}
	if len(signers) == 0 && !d.allowMissingSigs {
		return nil, errors.Wrap(errors.ErrUnauthorized, "missing signature")
	}
	// The most expensive operation is the signature validation. We
	// charge only for the valid signatures.
	if err := sharepool.ConsumeGas(ctx, int64(len(signers)*SignatureVerifyCost), "signatures"); err != nil {
		return nil, err
	}
	return withSigners(ctx, signers), nil
}
