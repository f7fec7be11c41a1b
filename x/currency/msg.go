package currency

import (
	"github.com/iov-one/sharepool"
	"github.com/iov-one/sharepool/codec"
	"github.com/iov-one/sharepool/errors"
)

// CreateMsg registers a new asset. The signer of the message becomes the
// issuer of the asset.
type CreateMsg struct {
	Metadata *sharepool.Metadata
	Ticker   string
	Name     string
	Decimals uint32
}

var _ sharepool.Msg = (*CreateMsg)(nil)

func (CreateMsg) Path() string {
	return "currency/create"
}

func (m *CreateMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	if !IsTicker(m.Ticker) {
		errs = errors.Append(errs, errors.Field("Ticker", errors.ErrAsset, "invalid ticker %q", m.Ticker))
	}
	if !isAssetName(m.Name) {
		errs = errors.Append(errs, errors.Field("Name", errors.ErrMsg, "invalid name %q", m.Name))
	}
	if m.Decimals > maxDecimals {
		errs = errors.Append(errs, errors.Field("Decimals", errors.ErrMsg, "at most %d", maxDecimals))
	}
	return errs
}

func (m *CreateMsg) Marshal() ([]byte, error) {
	return codec.NewEncoder().
		Message(1, m.Metadata).
		String(2, m.Ticker).
		String(3, m.Name).
		Uint64(4, uint64(m.Decimals)).
		Result()
}

func (m *CreateMsg) Unmarshal(raw []byte) error {
	*m = CreateMsg{}
	d := codec.NewDecoder(raw)
	for d.Next() {
		var err error
		switch d.Field() {
		case 1:
			m.Metadata = &sharepool.Metadata{}
			err = d.Message(m.Metadata)
		case 2:
			m.Ticker, err = d.String()
		case 3:
			m.Name, err = d.String()
		case 4:
			var v uint64
			v, err = d.Uint64()
			m.Decimals = uint32(v)
		default:
			err = d.Skip()
		}
		if err != nil {
			return err
		}
	}
	return d.Err()
}
