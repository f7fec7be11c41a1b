package weavetest

import "github.com/iov-one/sharepool"

// Handler is a mock implementation of the sharepool.Handler interface.
//
// Every call is counted. If Gas is set, that amount is charged on the
// context gas meter before returning. If Key is set, the Key/Value pair
// is written to the store by both methods.
type Handler struct {
	checkCall   int
	CheckResult sharepool.CheckResult
	CheckErr    error

	deliverCall   int
	DeliverResult sharepool.DeliverResult
	DeliverErr    error

	Gas   int64
	Key   []byte
	Value []byte
}

var _ sharepool.Handler = (*Handler)(nil)

func (h *Handler) Check(ctx sharepool.Context, db sharepool.KVStore, tx sharepool.Tx) (*sharepool.CheckResult, error) {
	h.checkCall++
	if h.Gas > 0 {
		if err := sharepool.ConsumeGas(ctx, h.Gas, "mock"); err != nil {
			return nil, err
		}
	}
	if h.Key != nil {
		if err := db.Set(h.Key, h.Value); err != nil {
			return nil, err
		}
	}
	if h.CheckErr != nil {
		return nil, h.CheckErr
	}
	res := h.CheckResult
	return &res, nil
}

func (h *Handler) Deliver(ctx sharepool.Context, db sharepool.KVStore, tx sharepool.Tx) (*sharepool.DeliverResult, error) {
	h.deliverCall++
	if h.Gas > 0 {
		if err := sharepool.ConsumeGas(ctx, h.Gas, "mock"); err != nil {
			return nil, err
		}
	}
	if h.Key != nil {
		if err := db.Set(h.Key, h.Value); err != nil {
			return nil, err
		}
	}
	if h.DeliverErr != nil {
		return nil, h.DeliverErr
	}
	res := h.DeliverResult
	return &res, nil
}

func (h *Handler) CheckCallCount() int {
	return h.checkCall
}

func (h *Handler) DeliverCallCount() int {
	return h.deliverCall
}

func (h *Handler) CallCount() int {
	return h.checkCall + h.deliverCall
}
