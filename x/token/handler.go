package token

import (
	"github.com/iov-one/sharepool"
	"github.com/iov-one/sharepool/errors"
	"github.com/iov-one/sharepool/x"
	"github.com/iov-one/sharepool/x/currency"
)

const (
	// CreateAccountCost is the gas charged for every account created.
	CreateAccountCost = 200
	// TransferCost is the gas charged for every balance movement.
	TransferCost = 50
)

// RegisterRoutes registers the token handlers.
func RegisterRoutes(r sharepool.Registry, auth x.Authenticator, ctrl Controller) {
	r.Handle(&CreateAccountMsg{}, &createAccountHandler{auth: auth, ctrl: ctrl})
	r.Handle(&SendMsg{}, &sendHandler{auth: auth, ctrl: ctrl})
	r.Handle(&MintMsg{}, &mintHandler{auth: auth, ctrl: ctrl, assets: currency.NewAssetBucket()})
}

type createAccountHandler struct {
	auth x.Authenticator
	ctrl Controller
}

func (h *createAccountHandler) Check(ctx sharepool.Context, db sharepool.KVStore, tx sharepool.Tx) (*sharepool.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &sharepool.CheckResult{}, nil
}

func (h *createAccountHandler) Deliver(ctx sharepool.Context, db sharepool.KVStore, tx sharepool.Tx) (*sharepool.DeliverResult, error) {
	msg, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	addr := sharepool.AccountAddress(msg.Owner, msg.Asset)
	if _, err := h.ctrl.CreateAccount(db, addr, msg.Owner, msg.Asset); err != nil {
		return nil, err
	}
	return &sharepool.DeliverResult{Data: addr}, nil
}

func (h *createAccountHandler) validate(ctx sharepool.Context, db sharepool.KVStore, tx sharepool.Tx) (*CreateAccountMsg, error) {
	var msg CreateAccountMsg
	if err := sharepool.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if x.MainSigner(ctx, h.auth) == nil {
		return nil, errors.Wrap(errors.ErrUnauthorized, "account creation must be paid by a signer")
	}
	if err := sharepool.ConsumeGas(ctx, CreateAccountCost, "create account"); err != nil {
		return nil, err
	}
	return &msg, nil
}

type sendHandler struct {
	auth x.Authenticator
	ctrl Controller
}

func (h *sendHandler) Check(ctx sharepool.Context, db sharepool.KVStore, tx sharepool.Tx) (*sharepool.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &sharepool.CheckResult{}, nil
}

func (h *sendHandler) Deliver(ctx sharepool.Context, db sharepool.KVStore, tx sharepool.Tx) (*sharepool.DeliverResult, error) {
	msg, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := h.ctrl.Transfer(db, msg.Source, msg.Destination, msg.Asset, msg.Amount); err != nil {
		return nil, err
	}
	return &sharepool.DeliverResult{}, nil
}

func (h *sendHandler) validate(ctx sharepool.Context, db sharepool.KVStore, tx sharepool.Tx) (*SendMsg, error) {
	var msg SendMsg
	if err := sharepool.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if err := sharepool.ConsumeGas(ctx, TransferCost, "send"); err != nil {
		return nil, err
	}
	src, err := h.ctrl.Balance(db, msg.Source)
	if err != nil {
		return nil, errors.Wrap(err, "source")
	}
	if err := x.RequireSigner(ctx, h.auth, "source owner", src.Owner); err != nil {
		return nil, err
	}
	return &msg, nil
}

type mintHandler struct {
	auth   x.Authenticator
	ctrl   Controller
	assets *currency.AssetBucket
}

func (h *mintHandler) Check(ctx sharepool.Context, db sharepool.KVStore, tx sharepool.Tx) (*sharepool.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &sharepool.CheckResult{}, nil
}

func (h *mintHandler) Deliver(ctx sharepool.Context, db sharepool.KVStore, tx sharepool.Tx) (*sharepool.DeliverResult, error) {
	msg, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := h.ctrl.Mint(db, msg.Destination, msg.Asset, msg.Amount); err != nil {
		return nil, err
	}
	return &sharepool.DeliverResult{}, nil
}

func (h *mintHandler) validate(ctx sharepool.Context, db sharepool.KVStore, tx sharepool.Tx) (*MintMsg, error) {
	var msg MintMsg
	if err := sharepool.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if err := sharepool.ConsumeGas(ctx, TransferCost, "mint"); err != nil {
		return nil, err
	}
	asset, err := h.assets.Get(db, msg.Asset)
	if err != nil {
		return nil, err
	}
	if len(asset.Issuer) == 0 {
		return nil, errors.Wrapf(errors.ErrUnauthorized, "asset %s has a fixed supply", msg.Asset)
	}
	if err := x.RequireSigner(ctx, h.auth, "issuer", asset.Issuer); err != nil {
		return nil, err
	}
	return &msg, nil
}
