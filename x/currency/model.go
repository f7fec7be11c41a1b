package currency

import (
	"regexp"

	"github.com/iov-one/sharepool"
	"github.com/iov-one/sharepool/codec"
	"github.com/iov-one/sharepool/errors"
	"github.com/iov-one/sharepool/orm"
)

var (
	// IsTicker returns true if given string is a valid asset ticker.
	IsTicker = regexp.MustCompile(`^[A-Z]{3,4}$`).MatchString

	isAssetName = regexp.MustCompile(`^[A-Za-z0-9 \-_:]{3,32}$`).MatchString
)

// maxDecimals is the greatest precision an asset may declare. Greater
// values would not fit a uint64 amount with a meaningful whole part.
const maxDecimals = 18

// AssetInfo describes a registered asset.
type AssetInfo struct {
	Metadata *sharepool.Metadata
	Ticker   string
	Name     string
	Decimals uint32
	// Issuer is the only signer allowed to mint this asset. No issuer
	// means the asset supply is fixed at genesis.
	Issuer sharepool.Address
}

var _ orm.Model = (*AssetInfo)(nil)

func (a *AssetInfo) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", a.Metadata.Validate())
	if !IsTicker(a.Ticker) {
		errs = errors.Append(errs, errors.Field("Ticker", errors.ErrAsset, "invalid ticker %q", a.Ticker))
	}
	if !isAssetName(a.Name) {
		errs = errors.Append(errs, errors.Field("Name", errors.ErrModel, "invalid name %q", a.Name))
	}
	if a.Decimals > maxDecimals {
		errs = errors.Append(errs, errors.Field("Decimals", errors.ErrModel, "at most %d", maxDecimals))
	}
	if len(a.Issuer) != 0 {
		errs = errors.AppendField(errs, "Issuer", a.Issuer.Validate())
	}
	return errs
}

func (a *AssetInfo) Marshal() ([]byte, error) {
	return codec.NewEncoder().
		Message(1, a.Metadata).
		String(2, a.Ticker).
		String(3, a.Name).
		Uint64(4, uint64(a.Decimals)).
		Bytes(5, a.Issuer).
		Result()
}

func (a *AssetInfo) Unmarshal(raw []byte) error {
	*a = AssetInfo{}
	d := codec.NewDecoder(raw)
	for d.Next() {
		var err error
		switch d.Field() {
		case 1:
			a.Metadata = &sharepool.Metadata{}
			err = d.Message(a.Metadata)
		case 2:
			a.Ticker, err = d.String()
		case 3:
			a.Name, err = d.String()
		case 4:
			var v uint64
			v, err = d.Uint64()
			a.Decimals = uint32(v)
		case 5:
			a.Issuer, err = d.Bytes()
		default:
			err = d.Skip()
		}
		if err != nil {
			return err
		}
	}
	return d.Err()
}

// AssetBucket stores AssetInfo instances, using the ticker as the key.
type AssetBucket struct {
	orm.ModelBucket
}

func NewAssetBucket() *AssetBucket {
	return &AssetBucket{
		ModelBucket: orm.NewModelBucket("asset", &AssetInfo{}),
	}
}

// Get returns the information of a registered asset. ErrNotFound is
// returned for an unknown ticker.
func (b *AssetBucket) Get(db sharepool.ReadOnlyKVStore, ticker string) (*AssetInfo, error) {
	var a AssetInfo
	if err := b.One(db, []byte(ticker), &a); err != nil {
		return nil, errors.Wrapf(err, "asset %q", ticker)
	}
	return &a, nil
}

// Add saves a new asset. Adding a ticker twice fails with ErrDuplicate.
func (b *AssetBucket) Add(db sharepool.KVStore, a *AssetInfo) error {
	return b.Create(db, []byte(a.Ticker), a)
}

// RegisterQuery exposes registered assets under the "/assets" path.
func RegisterQuery(qr sharepool.QueryRouter) {
	NewAssetBucket().Register("assets", qr)
}
