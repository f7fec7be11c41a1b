package app

import (
	"github.com/iov-one/sharepool"
	"github.com/iov-one/sharepool/codec"
	"github.com/iov-one/sharepool/errors"
	"github.com/iov-one/sharepool/x/currency"
	"github.com/iov-one/sharepool/x/distributor"
	"github.com/iov-one/sharepool/x/sigs"
	"github.com/iov-one/sharepool/x/token"
	"github.com/iov-one/sharepool/x/utils"
)

// Tx is the transaction processed by the application. It carries exactly
// one message, stored in the field assigned to the message type.
type Tx struct {
	Signatures []*sigs.StdSignature
	// GasLimit is the execution budget. Zero means the default limit
	// applies.
	GasLimit int64
	Memo     string
	Msg      sharepool.Msg
}

// make sure tx fulfills all interfaces
var _ sharepool.Tx = (*Tx)(nil)
var _ sharepool.GasLimiter = (*Tx)(nil)
var _ sigs.SignedTx = (*Tx)(nil)

// Field numbers of the fixed transaction fields.
const (
	fieldSignatures = 1
	fieldGasLimit   = 2
	fieldMemo       = 3
)

// msgFields lists every message the application accepts, together with
// the transaction field carrying it. Field numbers must never be reused.
var msgFields = []struct {
	field int
	new   func() sharepool.Msg
}{
	{10, func() sharepool.Msg { return &distributor.InitializeMsg{} }},
	{11, func() sharepool.Msg { return &distributor.DepositMsg{} }},
	{12, func() sharepool.Msg { return &distributor.DistributeMsg{} }},
	{20, func() sharepool.Msg { return &token.CreateAccountMsg{} }},
	{21, func() sharepool.Msg { return &token.SendMsg{} }},
	{22, func() sharepool.Msg { return &token.MintMsg{} }},
	{30, func() sharepool.Msg { return &currency.CreateMsg{} }},
	{40, func() sharepool.Msg { return &utils.UpdateGasConfigurationMsg{} }},
}

func msgField(msg sharepool.Msg) (int, error) {
	for _, m := range msgFields {
		if m.new().Path() == msg.Path() {
			return m.field, nil
		}
	}
	return 0, errors.Wrapf(errors.ErrMsg, "unsupported message %q", msg.Path())
}

func newMsg(field int) sharepool.Msg {
	for _, m := range msgFields {
		if m.field == field {
			return m.new()
		}
	}
	return nil
}

// NewTx returns a transaction carrying given message.
func NewTx(msg sharepool.Msg) *Tx {
	return &Tx{Msg: msg}
}

// TxDecoder creates a Tx and unmarshals bytes into it
func TxDecoder(bz []byte) (sharepool.Tx, error) {
	tx := new(Tx)
	if err := tx.Unmarshal(bz); err != nil {
		return nil, err
	}
	return tx, nil
}

// GetMsg returns the message carried by this transaction.
func (tx *Tx) GetMsg() (sharepool.Msg, error) {
	if tx.Msg == nil {
		return nil, errors.Wrap(errors.ErrMsg, "transaction without message")
	}
	return tx.Msg, nil
}

func (tx *Tx) GetGasLimit() int64 {
	return tx.GasLimit
}

func (tx *Tx) GetSignatures() []*sigs.StdSignature {
	return tx.Signatures
}

// GetSignBytes returns the bytes to sign. Signatures are not part of them.
func (tx *Tx) GetSignBytes() ([]byte, error) {
	unsigned := *tx
	unsigned.Signatures = nil
	return unsigned.Marshal()
}

func (tx *Tx) Marshal() ([]byte, error) {
	e := codec.NewEncoder()
	for _, s := range tx.Signatures {
		e = e.Message(fieldSignatures, s)
	}
	e = e.Int64(fieldGasLimit, tx.GasLimit).String(fieldMemo, tx.Memo)
	if tx.Msg != nil {
		field, err := msgField(tx.Msg)
		if err != nil {
			return nil, err
		}
		e = e.Message(field, tx.Msg)
	}
	return e.Result()
}

func (tx *Tx) Unmarshal(raw []byte) error {
	*tx = Tx{}
	d := codec.NewDecoder(raw)
	for d.Next() {
		var err error
		switch field := d.Field(); field {
		case fieldSignatures:
			var s sigs.StdSignature
			err = d.Message(&s)
			tx.Signatures = append(tx.Signatures, &s)
		case fieldGasLimit:
			tx.GasLimit, err = d.Int64()
		case fieldMemo:
			tx.Memo, err = d.String()
		default:
			msg := newMsg(field)
			if msg == nil {
				err = d.Skip()
				break
			}
			if tx.Msg != nil {
				return errors.Wrap(errors.ErrMsg, "more than one message")
			}
			err = d.Message(msg)
			tx.Msg = msg
		}
		if err != nil {
			return err
		}
	}
	return d.Err()
}
