package weavetest

import "github.com/iov-one/sharepool"

// Tx represents a transaction carrying a single message that is to be
// processed within this transaction.
type Tx struct {
	// Msg is the message that is to be processed by this transaction.
	Msg sharepool.Msg
	// Err if set is returned by any method call.
	Err error
	// GasLimit is the declared execution budget. Zero means no
	// declaration.
	GasLimit int64
}

var _ sharepool.Tx = (*Tx)(nil)
var _ sharepool.GasLimiter = (*Tx)(nil)

func (tx *Tx) GetMsg() (sharepool.Msg, error) {
	return tx.Msg, tx.Err
}

func (tx *Tx) GetGasLimit() int64 {
	return tx.GasLimit
}

func (tx *Tx) Unmarshal([]byte) error {
	panic("not implemented")
}

func (tx *Tx) Marshal() ([]byte, error) {
	panic("not implemented")
}

// Msg represents a message processed within a single transaction.
type Msg struct {
	// RoutePath is returned by the path method, consumed by the router.
	RoutePath string
	// Serialized represents the serialized form of this message.
	Serialized []byte
	// Err if set is returned by any method call.
	Err error
}

var _ sharepool.Msg = (*Msg)(nil)

func (m *Msg) Path() string {
	return m.RoutePath
}

func (m *Msg) Validate() error {
	return m.Err
}

func (m *Msg) Unmarshal(b []byte) error {
	m.Serialized = b
	return m.Err
}

func (m *Msg) Marshal() ([]byte, error) {
	return m.Serialized, m.Err
}
