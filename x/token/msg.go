package token

import (
	"github.com/iov-one/sharepool"
	"github.com/iov-one/sharepool/codec"
	"github.com/iov-one/sharepool/errors"
	"github.com/iov-one/sharepool/x/currency"
)

// maxMemoLength is the longest memo a transfer may carry.
const maxMemoLength = 128

// CreateAccountMsg creates the canonical account of the owner. Anybody can
// pay for an account creation, the owner does not have to sign.
type CreateAccountMsg struct {
	Metadata *sharepool.Metadata
	Owner    sharepool.Address
	Asset    string
}

var _ sharepool.Msg = (*CreateAccountMsg)(nil)

func (CreateAccountMsg) Path() string {
	return "token/create_account"
}

func (m *CreateAccountMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	errs = errors.AppendField(errs, "Owner", m.Owner.Validate())
	errs = errors.AppendField(errs, "Asset", validateTicker(m.Asset))
	return errs
}

func (m *CreateAccountMsg) Marshal() ([]byte, error) {
	return codec.NewEncoder().
		Message(1, m.Metadata).
		Bytes(2, m.Owner).
		String(3, m.Asset).
		Result()
}

func (m *CreateAccountMsg) Unmarshal(raw []byte) error {
	*m = CreateAccountMsg{}
	d := codec.NewDecoder(raw)
	for d.Next() {
		var err error
		switch d.Field() {
		case 1:
			m.Metadata = &sharepool.Metadata{}
			err = d.Message(m.Metadata)
		case 2:
			m.Owner, err = d.Bytes()
		case 3:
			m.Asset, err = d.String()
		default:
			err = d.Skip()
		}
		if err != nil {
			return err
		}
	}
	return d.Err()
}

// SendMsg moves funds between two existing accounts. The owner of the
// source account must sign.
type SendMsg struct {
	Metadata    *sharepool.Metadata
	Source      sharepool.Address
	Destination sharepool.Address
	Asset       string
	Amount      uint64
	Memo        string
}

var _ sharepool.Msg = (*SendMsg)(nil)

func (SendMsg) Path() string {
	return "token/send"
}

func (m *SendMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	errs = errors.AppendField(errs, "Source", m.Source.Validate())
	errs = errors.AppendField(errs, "Destination", m.Destination.Validate())
	errs = errors.AppendField(errs, "Asset", validateTicker(m.Asset))
	if m.Amount == 0 {
		errs = errors.Append(errs, errors.Field("Amount", errors.ErrAmount, "must be positive"))
	}
	if len(m.Memo) > maxMemoLength {
		errs = errors.Append(errs, errors.Field("Memo", errors.ErrInput, "longer than %d", maxMemoLength))
	}
	return errs
}

func (m *SendMsg) Marshal() ([]byte, error) {
	return codec.NewEncoder().
		Message(1, m.Metadata).
		Bytes(2, m.Source).
		Bytes(3, m.Destination).
		String(4, m.Asset).
		Uint64(5, m.Amount).
		String(6, m.Memo).
		Result()
}

func (m *SendMsg) Unmarshal(raw []byte) error {
	*m = SendMsg{}
	d := codec.NewDecoder(raw)
	for d.Next() {
		var err error
		switch d.Field() {
		case 1:
			m.Metadata = &sharepool.Metadata{}
			err = d.Message(m.Metadata)
		case 2:
			m.Source, err = d.Bytes()
		case 3:
			m.Destination, err = d.Bytes()
		case 4:
			m.Asset, err = d.String()
		case 5:
			m.Amount, err = d.Uint64()
		case 6:
			m.Memo, err = d.String()
		default:
			err = d.Skip()
		}
		if err != nil {
			return err
		}
	}
	return d.Err()
}

// MintMsg credits new funds to an existing account. The issuer of the
// asset must sign.
type MintMsg struct {
	Metadata    *sharepool.Metadata
	Destination sharepool.Address
	Asset       string
	Amount      uint64
}

var _ sharepool.Msg = (*MintMsg)(nil)

func (MintMsg) Path() string {
	return "token/mint"
}

func (m *MintMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	errs = errors.AppendField(errs, "Destination", m.Destination.Validate())
	errs = errors.AppendField(errs, "Asset", validateTicker(m.Asset))
	if m.Amount == 0 {
		errs = errors.Append(errs, errors.Field("Amount", errors.ErrAmount, "must be positive"))
	}
	return errs
}

func (m *MintMsg) Marshal() ([]byte, error) {
	return codec.NewEncoder().
		Message(1, m.Metadata).
		Bytes(2, m.Destination).
		String(3, m.Asset).
		Uint64(4, m.Amount).
		Result()
}

func (m *MintMsg) Unmarshal(raw []byte) error {
	*m = MintMsg{}
	d := codec.NewDecoder(raw)
	for d.Next() {
		var err error
		switch d.Field() {
		case 1:
			m.Metadata = &sharepool.Metadata{}
			err = d.Message(m.Metadata)
		case 2:
			m.Destination, err = d.Bytes()
		case 3:
			m.Asset, err = d.String()
		case 4:
			m.Amount, err = d.Uint64()
		default:
			err = d.Skip()
		}
		if err != nil {
			return err
		}
	}
	return d.Err()
}

func validateTicker(ticker string) error {
	if !currency.IsTicker(ticker) {
		return errors.Wrapf(errors.ErrAsset, "invalid ticker %q", ticker)
	}
	return nil
}
