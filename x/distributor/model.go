package distributor

import (
	"math/bits"

	"github.com/iov-one/sharepool"
	"github.com/iov-one/sharepool/codec"
	"github.com/iov-one/sharepool/errors"
	"github.com/iov-one/sharepool/orm"
	"github.com/iov-one/sharepool/x/currency"
)

// minShares is the smallest number of shares a pool can be configured
// with. A distribution pays all shares but one, so anything less would
// never pay anybody.
const minShares = 2

// DistributorState is the configuration of a single pool. It is created
// once and never modified.
type DistributorState struct {
	Metadata       *sharepool.Metadata
	Asset          string
	SecondaryAsset string
	// Authority is the only address allowed to trigger a distribution.
	Authority      sharepool.Address
	ShareSize      uint64
	NumberOfShares uint64
}

var _ orm.Model = (*DistributorState)(nil)

func (s *DistributorState) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", s.Metadata.Validate())
	errs = errors.AppendField(errs, "Authority", s.Authority.Validate())
	errs = errors.Append(errs, validateConfiguration(s.Asset, s.SecondaryAsset, s.ShareSize, s.NumberOfShares))
	return errs
}

// Address returns the pool address derived from the configuration.
func (s *DistributorState) Address() sharepool.Address {
	return sharepool.PoolAddress(s.Asset, s.SecondaryAsset, s.ShareSize, s.NumberOfShares)
}

// Threshold returns the vault balance required for a distribution.
func (s *DistributorState) Threshold() (uint64, error) {
	return threshold(s.ShareSize, s.NumberOfShares)
}

// Payout returns the amount a distribution moves out of the vault.
func (s *DistributorState) Payout() uint64 {
	// Cannot overflow, as it is smaller than the threshold.
	return s.ShareSize * (s.NumberOfShares - 1)
}

func (s *DistributorState) Marshal() ([]byte, error) {
	return codec.NewEncoder().
		Message(1, s.Metadata).
		String(2, s.Asset).
		String(3, s.SecondaryAsset).
		Bytes(4, s.Authority).
		Uint64(5, s.ShareSize).
		Uint64(6, s.NumberOfShares).
		Result()
}

func (s *DistributorState) Unmarshal(raw []byte) error {
	*s = DistributorState{}
	d := codec.NewDecoder(raw)
	for d.Next() {
		var err error
		switch d.Field() {
		case 1:
			s.Metadata = &sharepool.Metadata{}
			err = d.Message(s.Metadata)
		case 2:
			s.Asset, err = d.String()
		case 3:
			s.SecondaryAsset, err = d.String()
		case 4:
			s.Authority, err = d.Bytes()
		case 5:
			s.ShareSize, err = d.Uint64()
		case 6:
			s.NumberOfShares, err = d.Uint64()
		default:
			err = d.Skip()
		}
		if err != nil {
			return err
		}
	}
	return d.Err()
}

// Vault describes the escrow account of a pool. The balance is not part of
// this record, it is always read from the token account at the vault
// address.
type Vault struct {
	Metadata *sharepool.Metadata
	Pool     sharepool.Address
	Asset    string
}

var _ orm.Model = (*Vault)(nil)

func (v *Vault) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", v.Metadata.Validate())
	errs = errors.AppendField(errs, "Pool", v.Pool.Validate())
	if !currency.IsTicker(v.Asset) {
		errs = errors.Append(errs, errors.Field("Asset", errors.ErrAsset, "invalid ticker %q", v.Asset))
	}
	return errs
}

// Address returns the address of the token account holding the funds.
func (v *Vault) Address() sharepool.Address {
	return sharepool.VaultAddress(v.Pool)
}

func (v *Vault) Marshal() ([]byte, error) {
	return codec.NewEncoder().
		Message(1, v.Metadata).
		Bytes(2, v.Pool).
		String(3, v.Asset).
		Result()
}

func (v *Vault) Unmarshal(raw []byte) error {
	*v = Vault{}
	d := codec.NewDecoder(raw)
	for d.Next() {
		var err error
		switch d.Field() {
		case 1:
			v.Metadata = &sharepool.Metadata{}
			err = d.Message(v.Metadata)
		case 2:
			v.Pool, err = d.Bytes()
		case 3:
			v.Asset, err = d.String()
		default:
			err = d.Skip()
		}
		if err != nil {
			return err
		}
	}
	return d.Err()
}

// StateBucket stores pool configurations under the pool address.
type StateBucket struct {
	orm.ModelBucket
}

// NewStateBucket returns a bucket for pool configurations.
func NewStateBucket() *StateBucket {
	return &StateBucket{
		ModelBucket: orm.NewModelBucket("distpool", &DistributorState{}),
	}
}

// Get returns the configuration of the pool with given address.
func (b *StateBucket) Get(db sharepool.ReadOnlyKVStore, pool sharepool.Address) (*DistributorState, error) {
	var s DistributorState
	if err := b.One(db, pool, &s); err != nil {
		return nil, errors.Wrapf(err, "pool %s", pool)
	}
	return &s, nil
}

// VaultBucket stores vault records under the pool address.
type VaultBucket struct {
	orm.ModelBucket
}

// NewVaultBucket returns a bucket for vault records.
func NewVaultBucket() *VaultBucket {
	return &VaultBucket{
		ModelBucket: orm.NewModelBucket("distvault", &Vault{}),
	}
}

// Get returns the vault of the pool with given address.
func (b *VaultBucket) Get(db sharepool.ReadOnlyKVStore, pool sharepool.Address) (*Vault, error) {
	var v Vault
	if err := b.One(db, pool, &v); err != nil {
		return nil, errors.Wrapf(err, "vault of pool %s", pool)
	}
	return &v, nil
}

// validateConfiguration returns ErrConfiguration if given pool parameters
// cannot describe a working pool.
func validateConfiguration(asset, secondaryAsset string, shareSize, numberOfShares uint64) error {
	var errs error
	if !currency.IsTicker(asset) {
		errs = errors.Append(errs, errors.Field("Asset", errors.ErrConfiguration, "invalid ticker %q", asset))
	}
	if !currency.IsTicker(secondaryAsset) {
		errs = errors.Append(errs, errors.Field("SecondaryAsset", errors.ErrConfiguration, "invalid ticker %q", secondaryAsset))
	}
	if shareSize == 0 {
		errs = errors.Append(errs, errors.Field("ShareSize", errors.ErrConfiguration, "must be positive"))
	}
	if numberOfShares < minShares {
		errs = errors.Append(errs, errors.Field("NumberOfShares", errors.ErrConfiguration, "must be at least %d", minShares))
	}
	if _, err := threshold(shareSize, numberOfShares); err != nil {
		errs = errors.Append(errs, errors.Field("ShareSize", err, "threshold"))
	}
	return errs
}

// threshold returns shareSize times numberOfShares, or ErrConfiguration if
// the product does not fit in 64 bits.
func threshold(shareSize, numberOfShares uint64) (uint64, error) {
	hi, lo := bits.Mul64(shareSize, numberOfShares)
	if hi != 0 {
		return 0, errors.Wrapf(errors.ErrConfiguration, "%d shares of %d overflow", numberOfShares, shareSize)
	}
	return lo, nil
}
