package distributor

import (
	"github.com/iov-one/sharepool"
	"github.com/iov-one/sharepool/codec"
	"github.com/iov-one/sharepool/errors"
	"github.com/iov-one/sharepool/x/currency"
)

// maxMemoLength is the longest memo a distribution may carry.
const maxMemoLength = 128

// InitializeMsg creates a new pool with its vault.
type InitializeMsg struct {
	Metadata       *sharepool.Metadata
	ShareSize      uint64
	NumberOfShares uint64
	// Payer must sign and is charged for the storage.
	Payer          sharepool.Address
	Asset          string
	SecondaryAsset string
	Authority      sharepool.Address
}

var _ sharepool.Msg = (*InitializeMsg)(nil)

func (InitializeMsg) Path() string {
	return "distributor/initialize"
}

func (m *InitializeMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	errs = errors.AppendField(errs, "Payer", m.Payer.Validate())
	errs = errors.AppendField(errs, "Authority", m.Authority.Validate())
	errs = errors.Append(errs, validateConfiguration(m.Asset, m.SecondaryAsset, m.ShareSize, m.NumberOfShares))
	return errs
}

// Pool returns the address of the pool this message creates.
func (m *InitializeMsg) Pool() sharepool.Address {
	return sharepool.PoolAddress(m.Asset, m.SecondaryAsset, m.ShareSize, m.NumberOfShares)
}

func (m *InitializeMsg) Marshal() ([]byte, error) {
	return codec.NewEncoder().
		Message(1, m.Metadata).
		Uint64(2, m.ShareSize).
		Uint64(3, m.NumberOfShares).
		Bytes(4, m.Payer).
		String(5, m.Asset).
		String(6, m.SecondaryAsset).
		Bytes(7, m.Authority).
		Result()
}

func (m *InitializeMsg) Unmarshal(raw []byte) error {
	*m = InitializeMsg{}
	d := codec.NewDecoder(raw)
	for d.Next() {
		var err error
		switch d.Field() {
		case 1:
			m.Metadata = &sharepool.Metadata{}
			err = d.Message(m.Metadata)
		case 2:
			m.ShareSize, err = d.Uint64()
		case 3:
			m.NumberOfShares, err = d.Uint64()
		case 4:
			m.Payer, err = d.Bytes()
		case 5:
			m.Asset, err = d.String()
		case 6:
			m.SecondaryAsset, err = d.String()
		case 7:
			m.Authority, err = d.Bytes()
		default:
			err = d.Skip()
		}
		if err != nil {
			return err
		}
	}
	return d.Err()
}

// DepositMsg moves funds from a token account into the vault of a pool.
// Depositor must own the source account and sign.
type DepositMsg struct {
	Metadata  *sharepool.Metadata
	Pool      sharepool.Address
	Asset     string
	Depositor sharepool.Address
	Source    sharepool.Address
	Amount    uint64
}

var _ sharepool.Msg = (*DepositMsg)(nil)

func (DepositMsg) Path() string {
	return "distributor/deposit"
}

func (m *DepositMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	errs = errors.AppendField(errs, "Pool", m.Pool.Validate())
	errs = errors.AppendField(errs, "Depositor", m.Depositor.Validate())
	errs = errors.AppendField(errs, "Source", m.Source.Validate())
	if !currency.IsTicker(m.Asset) {
		errs = errors.Append(errs, errors.Field("Asset", errors.ErrAsset, "invalid ticker %q", m.Asset))
	}
	if m.Amount == 0 {
		errs = errors.Append(errs, errors.Field("Amount", errors.ErrAmount, "must be positive"))
	}
	return errs
}

func (m *DepositMsg) Marshal() ([]byte, error) {
	return codec.NewEncoder().
		Message(1, m.Metadata).
		Bytes(2, m.Pool).
		String(3, m.Asset).
		Bytes(4, m.Depositor).
		Bytes(5, m.Source).
		Uint64(6, m.Amount).
		Result()
}

func (m *DepositMsg) Unmarshal(raw []byte) error {
	*m = DepositMsg{}
	d := codec.NewDecoder(raw)
	for d.Next() {
		var err error
		switch d.Field() {
		case 1:
			m.Metadata = &sharepool.Metadata{}
			err = d.Message(m.Metadata)
		case 2:
			m.Pool, err = d.Bytes()
		case 3:
			m.Asset, err = d.String()
		case 4:
			m.Depositor, err = d.Bytes()
		case 5:
			m.Source, err = d.Bytes()
		case 6:
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

// Receiver is a single distribution target. Account must be the
// canonical token account of Owner for the pool asset.
type Receiver struct {
	Owner   sharepool.Address
	Account sharepool.Address
}

// NewReceiver returns a receiver paid into the canonical account of owner.
func NewReceiver(owner sharepool.Address, asset string) Receiver {
	return Receiver{Owner: owner, Account: sharepool.AccountAddress(owner, asset)}
}

func (r *Receiver) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Owner", r.Owner.Validate())
	errs = errors.AppendField(errs, "Account", r.Account.Validate())
	return errs
}

func (r *Receiver) Marshal() ([]byte, error) {
	return codec.NewEncoder().
		Bytes(1, r.Owner).
		Bytes(2, r.Account).
		Result()
}

func (r *Receiver) Unmarshal(raw []byte) error {
	*r = Receiver{}
	d := codec.NewDecoder(raw)
	for d.Next() {
		var err error
		switch d.Field() {
		case 1:
			r.Owner, err = d.Bytes()
		case 2:
			r.Account, err = d.Bytes()
		default:
			err = d.Skip()
		}
		if err != nil {
			return err
		}
	}
	return d.Err()
}

// DistributeMsg pays one share to every receiver. The number of receivers
// must be the number of shares of the pool minus one.
type DistributeMsg struct {
	Metadata  *sharepool.Metadata
	Pool      sharepool.Address
	Payer     sharepool.Address
	Authority sharepool.Address
	Asset     string
	Receivers []Receiver
	Memo      string
}

var _ sharepool.Msg = (*DistributeMsg)(nil)

func (DistributeMsg) Path() string {
	return "distributor/distribute"
}

func (m *DistributeMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	errs = errors.AppendField(errs, "Pool", m.Pool.Validate())
	errs = errors.AppendField(errs, "Payer", m.Payer.Validate())
	errs = errors.AppendField(errs, "Authority", m.Authority.Validate())
	if !currency.IsTicker(m.Asset) {
		errs = errors.Append(errs, errors.Field("Asset", errors.ErrAsset, "invalid ticker %q", m.Asset))
	}
	for i, r := range m.Receivers {
		if err := r.Validate(); err != nil {
			errs = errors.Append(errs, errors.Field("Receivers", err, "#%d", i))
		}
	}
	if len(m.Memo) > maxMemoLength {
		errs = errors.Append(errs, errors.Field("Memo", errors.ErrInput, "longer than %d", maxMemoLength))
	}
	return errs
}

func (m *DistributeMsg) Marshal() ([]byte, error) {
	e := codec.NewEncoder().
		Message(1, m.Metadata).
		Bytes(2, m.Pool).
		Bytes(3, m.Payer).
		Bytes(4, m.Authority).
		String(5, m.Asset)
	for i := range m.Receivers {
		e = e.Message(6, &m.Receivers[i])
	}
	return e.String(7, m.Memo).Result()
}

func (m *DistributeMsg) Unmarshal(raw []byte) error {
	*m = DistributeMsg{}
	d := codec.NewDecoder(raw)
	for d.Next() {
		var err error
		switch d.Field() {
		case 1:
			m.Metadata = &sharepool.Metadata{}
			err = d.Message(m.Metadata)
		case 2:
			m.Pool, err = d.Bytes()
		case 3:
			m.Payer, err = d.Bytes()
		case 4:
			m.Authority, err = d.Bytes()
		case 5:
			m.Asset, err = d.String()
		case 6:
			var r Receiver
			err = d.Message(&r)
			m.Receivers = append(m.Receivers, r)
		case 7:
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
