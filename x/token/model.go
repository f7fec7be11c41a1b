package token

import (
	"github.com/iov-one/sharepool"
	"github.com/iov-one/sharepool/codec"
	"github.com/iov-one/sharepool/errors"
	"github.com/iov-one/sharepool/orm"
	"github.com/iov-one/sharepool/x/currency"
)

// Account holds the balance of a single asset.
type Account struct {
	Metadata *sharepool.Metadata
	// Owner is the address that must sign to move funds out of this
	// account.
	Owner  sharepool.Address
	Asset  string
	Amount uint64
}

var _ orm.Model = (*Account)(nil)

func (a *Account) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", a.Metadata.Validate())
	errs = errors.AppendField(errs, "Owner", a.Owner.Validate())
	if !currency.IsTicker(a.Asset) {
		errs = errors.Append(errs, errors.Field("Asset", errors.ErrAsset, "invalid ticker %q", a.Asset))
	}
	return errs
}

func (a *Account) Marshal() ([]byte, error) {
	return codec.NewEncoder().
		Message(1, a.Metadata).
		Bytes(2, a.Owner).
		String(3, a.Asset).
		Uint64(4, a.Amount).
		Result()
}

func (a *Account) Unmarshal(raw []byte) error {
	*a = Account{}
	d := codec.NewDecoder(raw)
	for d.Next() {
		var err error
		switch d.Field() {
		case 1:
			a.Metadata = &sharepool.Metadata{}
			err = d.Message(a.Metadata)
		case 2:
			a.Owner, err = d.Bytes()
		case 3:
			a.Asset, err = d.String()
		case 4:
			a.Amount, err = d.Uint64()
		default:
			err = d.Skip()
		}
		if err != nil {
			return err
		}
	}
	return d.Err()
}

// AccountBucket stores accounts under their address.
type AccountBucket struct {
	orm.ModelBucket
}

// NewAccountBucket returns a bucket for token accounts.
func NewAccountBucket() *AccountBucket {
	return &AccountBucket{
		ModelBucket: orm.NewModelBucket("account", &Account{}),
	}
}

// Get returns the account stored at given address. ErrNotFound is
// returned if there is none.
func (b *AccountBucket) Get(db sharepool.ReadOnlyKVStore, addr sharepool.Address) (*Account, error) {
	var a Account
	if err := b.One(db, addr, &a); err != nil {
		return nil, errors.Wrapf(err, "account %s", addr)
	}
	return &a, nil
}

// RegisterQuery exposes accounts under the "/accounts" path.
func RegisterQuery(qr sharepool.QueryRouter) {
	NewAccountBucket().Register("accounts", qr)
}
