package app

import (
	"reflect"

	"github.com/iov-one/sharepool"
)

// Decorators holds a chain of decorators, not yet resolved by a Handler
type Decorators struct {
	chain []sharepool.Decorator
}

/*
ChainDecorators takes a chain of decorators,
and upon adding a final Handler (often a Router),
returns a Handler that will execute this whole stack.

	app.ChainDecorators(
	  utils.NewLogging(),
	  utils.NewRecovery(),
	  sigs.NewDecorator(),
	  utils.NewGas(limit, cost),
	  utils.NewSavepoint().OnDeliver(),
	).WithHandler(
	  myapp.NewRouter(),
	)
*/
func ChainDecorators(chain ...sharepool.Decorator) Decorators {
	return Decorators{}.Chain(chain...)
}

// Chain allows us to keep adding more Decorators to the chain
func (d Decorators) Chain(chain ...sharepool.Decorator) Decorators {
	chain = cutoffNil(chain)
	newChain := append(append([]sharepool.Decorator{}, d.chain...), chain...)
	return Decorators{newChain}
}

// cutoffNil returns given slice without the nil values.
func cutoffNil(ds []sharepool.Decorator) []sharepool.Decorator {
	res := make([]sharepool.Decorator, 0, len(ds))
	for _, d := range ds {
		if d == nil {
			continue
		}
		if v := reflect.ValueOf(d); v.Kind() == reflect.Ptr && v.IsNil() {
			continue
		}
		res = append(res, d)
	}
	return res
}

// WithHandler resolves the stack and returns a concrete Handler
// that will pass through the chain of decorators before calling
// the final Handler.
func (d Decorators) WithHandler(h sharepool.Handler) sharepool.Handler {
	// start wrapping the handler from last decorator to first one
	// as the top of the chain is understood to be executed first
	for i := len(d.chain) - 1; i >= 0; i-- {
		h = step{d: d.chain[i], next: h}
	}
	return h
}

// step captures one step executing a decorator around a
// specific Handler. Simplified version of a closure.
//
// Heavily inspired by negroni's design
type step struct {
	d    sharepool.Decorator
	next sharepool.Handler
}

var _ sharepool.Handler = step{}

// Check passes the handler into the decorator, implements Handler
func (s step) Check(ctx sharepool.Context, store sharepool.KVStore, tx sharepool.Tx) (*sharepool.CheckResult, error) {
	return s.d.Check(ctx, store, tx, s.next)
}

// Deliver passes the handler into the decorator, implements Handler
func (s step) Deliver(ctx sharepool.Context, store sharepool.KVStore, tx sharepool.Tx) (*sharepool.DeliverResult, error) {
	return s.d.Deliver(ctx, store, tx, s.next)
}
