package currency

import (
	"github.com/iov-one/sharepool"
	"github.com/iov-one/sharepool/errors"
	"github.com/iov-one/sharepool/x"
)

const createAssetCost = 100

// RegisterRoutes registers the asset registry handlers. When issuer is not
// empty, only that address may register new assets.
func RegisterRoutes(r sharepool.Registry, auth x.Authenticator, issuer sharepool.Address) {
	r.Handle(&CreateMsg{}, NewCreateHandler(auth, issuer))
}

// NewCreateHandler returns a handler registering new assets.
func NewCreateHandler(auth x.Authenticator, issuer sharepool.Address) sharepool.Handler {
	return &createHandler{
		auth:   auth,
		issuer: issuer,
		bucket: NewAssetBucket(),
	}
}

type createHandler struct {
	auth   x.Authenticator
	bucket *AssetBucket
	issuer sharepool.Address
}

func (h *createHandler) Check(ctx sharepool.Context, db sharepool.KVStore, tx sharepool.Tx) (*sharepool.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &sharepool.CheckResult{}, nil
}

func (h *createHandler) Deliver(ctx sharepool.Context, db sharepool.KVStore, tx sharepool.Tx) (*sharepool.DeliverResult, error) {
	msg, signer, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	asset := &AssetInfo{
		Metadata: &sharepool.Metadata{Schema: 1},
		Ticker:   msg.Ticker,
		Name:     msg.Name,
		Decimals: msg.Decimals,
		Issuer:   signer,
	}
	if err := h.bucket.Add(db, asset); err != nil {
		return nil, errors.Wrap(err, "add asset")
	}
	return &sharepool.DeliverResult{Data: []byte(msg.Ticker)}, nil
}

func (h *createHandler) validate(ctx sharepool.Context, db sharepool.KVStore, tx sharepool.Tx) (*CreateMsg, sharepool.Address, error) {
	var msg CreateMsg
	if err := sharepool.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	if err := sharepool.ConsumeGas(ctx, createAssetCost, "create asset"); err != nil {
		return nil, nil, err
	}

	signer := x.MainSigner(ctx, h.auth)
	if signer == nil {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "missing signature")
	}
	if len(h.issuer) != 0 {
		if err := x.RequireSigner(ctx, h.auth, "issuer", h.issuer); err != nil {
			return nil, nil, err
		}
	}

	// Asset can be registered only once and must not be updated.
	switch err := h.bucket.Has(db, []byte(msg.Ticker)); {
	case err == nil:
		return nil, nil, errors.Wrapf(errors.ErrDuplicate, "ticker %s", msg.Ticker)
	case !errors.ErrNotFound.Is(err):
		return nil, nil, err
	}
	return &msg, signer.Address(), nil
}

// RequireAsset returns ErrConfiguration unless given ticker is registered.
func RequireAsset(db sharepool.ReadOnlyKVStore, ticker string) (*AssetInfo, error) {
	a, err := NewAssetBucket().Get(db, ticker)
	switch {
	case err == nil:
		return a, nil
	case errors.ErrNotFound.Is(err):
		return nil, errors.Wrapf(errors.ErrConfiguration, "asset %q is not registered", ticker)
	default:
		return nil, err
	}
}
