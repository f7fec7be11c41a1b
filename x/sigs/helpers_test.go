package sigs

import (
	"github.com/iov-one/sharepool"
	"github.com/iov-one/sharepool/weavetest"
)

// stdTx is a transaction with signatures, signing the serialized message.
type stdTx struct {
	weavetest.Tx
	Signatures []*StdSignature
}

var _ SignedTx = (*stdTx)(nil)

func newStdTx(payload []byte) *stdTx {
	return &stdTx{
		Tx: weavetest.Tx{
			Msg: &weavetest.Msg{RoutePath: "test/sigs", Serialized: payload},
		},
	}
}

func (tx *stdTx) GetSignatures() []*StdSignature {
	return tx.Signatures
}

func (tx *stdTx) GetSignBytes() ([]byte, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, err
	}
	return msg.Marshal()
}

// sigCheckHandler stores the seen signers on each call
type sigCheckHandler struct {
	Signers []sharepool.Condition
}

var _ sharepool.Handler = (*sigCheckHandler)(nil)

func (s *sigCheckHandler) Check(ctx sharepool.Context, store sharepool.KVStore, tx sharepool.Tx) (*sharepool.CheckResult, error) {
	s.Signers = Authenticate{}.GetConditions(ctx)
	return &sharepool.CheckResult{}, nil
}

func (s *sigCheckHandler) Deliver(ctx sharepool.Context, store sharepool.KVStore, tx sharepool.Tx) (*sharepool.DeliverResult, error) {
	s.Signers = Authenticate{}.GetConditions(ctx)
	return &sharepool.DeliverResult{}, nil
}
