package token

import (
	"github.com/iov-one/sharepool"
	"github.com/iov-one/sharepool/errors"
	"github.com/iov-one/sharepool/x/currency"
)

// Controller is the API other extensions use to move funds. It does not
// check signatures, that is the caller's responsibility.
type Controller interface {
	// Balance returns the account stored at given address.
	Balance(db sharepool.ReadOnlyKVStore, addr sharepool.Address) (*Account, error)

	// CreateAccount creates an empty account at given address. It fails
	// with ErrDuplicate if the address is taken and with ErrAsset if the
	// asset is not registered.
	CreateAccount(db sharepool.KVStore, addr, owner sharepool.Address, asset string) (*Account, error)

	// EnsureAccount returns the canonical account address of the owner,
	// creating the account if it does not exist yet.
	EnsureAccount(db sharepool.KVStore, owner sharepool.Address, asset string) (addr sharepool.Address, created bool, err error)

	// Transfer moves amount of asset between two existing accounts.
	Transfer(db sharepool.KVStore, src, dest sharepool.Address, asset string, amount uint64) error

	// Mint credits a new amount to an existing account.
	Mint(db sharepool.KVStore, dest sharepool.Address, asset string, amount uint64) error
}

// NewController returns the token controller.
func NewController() Controller {
	return controller{
		accounts: NewAccountBucket(),
		assets:   currency.NewAssetBucket(),
	}
}

type controller struct {
	accounts *AccountBucket
	assets   *currency.AssetBucket
}

var _ Controller = controller{}

func (c controller) Balance(db sharepool.ReadOnlyKVStore, addr sharepool.Address) (*Account, error) {
	return c.accounts.Get(db, addr)
}

func (c controller) CreateAccount(db sharepool.KVStore, addr, owner sharepool.Address, asset string) (*Account, error) {
	if err := addr.Validate(); err != nil {
		return nil, errors.Wrap(err, "account address")
	}
	switch _, err := c.assets.Get(db, asset); {
	case errors.ErrNotFound.Is(err):
		return nil, errors.Wrapf(errors.ErrAsset, "asset %q is not registered", asset)
	case err != nil:
		return nil, err
	}
	acc := &Account{
		Metadata: &sharepool.Metadata{Schema: 1},
		Owner:    owner,
		Asset:    asset,
	}
	if err := c.accounts.Create(db, addr, acc); err != nil {
		return nil, err
	}
	return acc, nil
}

func (c controller) EnsureAccount(db sharepool.KVStore, owner sharepool.Address, asset string) (sharepool.Address, bool, error) {
	addr := sharepool.AccountAddress(owner, asset)
	switch err := c.accounts.Has(db, addr); {
	case err == nil:
		return addr, false, nil
	case !errors.ErrNotFound.Is(err):
		return nil, false, err
	}
	if _, err := c.CreateAccount(db, addr, owner, asset); err != nil {
		return nil, false, err
	}
	return addr, true, nil
}

func (c controller) Transfer(db sharepool.KVStore, src, dest sharepool.Address, asset string, amount uint64) error {
	if amount == 0 {
		return errors.Wrap(errors.ErrAmount, "transfer amount must be positive")
	}
	sender, err := c.load(db, src, asset)
	if err != nil {
		return errors.Wrap(err, "source")
	}
	recipient, err := c.load(db, dest, asset)
	if err != nil {
		return errors.Wrap(err, "destination")
	}
	if sender.Amount < amount {
		return errors.Wrapf(errors.ErrInsufficientAmount, "%s holds %d, want %d", src, sender.Amount, amount)
	}
	if src.Equals(dest) {
		return nil
	}
	if recipient.Amount+amount < recipient.Amount {
		return errors.Wrapf(errors.ErrOverflow, "destination %s balance", dest)
	}
	sender.Amount -= amount
	recipient.Amount += amount

	if err := c.accounts.Put(db, src, sender); err != nil {
		return errors.Wrap(err, "save source")
	}
	if err := c.accounts.Put(db, dest, recipient); err != nil {
		return errors.Wrap(err, "save destination")
	}
	return nil
}

func (c controller) Mint(db sharepool.KVStore, dest sharepool.Address, asset string, amount uint64) error {
	if amount == 0 {
		return errors.Wrap(errors.ErrAmount, "mint amount must be positive")
	}
	acc, err := c.load(db, dest, asset)
	if err != nil {
		return err
	}
	if acc.Amount+amount < acc.Amount {
		return errors.Wrapf(errors.ErrOverflow, "%s balance", dest)
	}
	acc.Amount += amount
	return c.accounts.Put(db, dest, acc)
}

// load returns the account at given address, ensuring it holds the
// expected asset.
func (c controller) load(db sharepool.ReadOnlyKVStore, addr sharepool.Address, asset string) (*Account, error) {
	acc, err := c.accounts.Get(db, addr)
	if err != nil {
		return nil, err
	}
	if acc.Asset != asset {
		return nil, errors.Wrapf(errors.ErrAsset, "account %s holds %s, not %s", addr, acc.Asset, asset)
	}
	return acc, nil
}
