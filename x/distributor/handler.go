package distributor

import (
	"github.com/iov-one/sharepool"
	"github.com/iov-one/sharepool/errors"
	"github.com/iov-one/sharepool/x"
	"github.com/iov-one/sharepool/x/currency"
	"github.com/iov-one/sharepool/x/token"
)

const (
	// InitializeCost is charged to the payer for the pool and vault
	// records. The vault account is charged separately.
	InitializeCost = 1000
	// DepositCost is charged for a deposit.
	DepositCost = 100
	// DistributeCost is the fixed part of a distribution cost.
	DistributeCost = 200
	// DistributePerReceiverCost is charged for every share paid.
	DistributePerReceiverCost = 100
)

// TokenController is the subset of the token functionality the pools rely
// on. It is implemented by the x/token extension.
type TokenController interface {
	Balance(db sharepool.ReadOnlyKVStore, addr sharepool.Address) (*token.Account, error)
	CreateAccount(db sharepool.KVStore, addr, owner sharepool.Address, asset string) (*token.Account, error)
	Transfer(db sharepool.KVStore, src, dest sharepool.Address, asset string, amount uint64) error
}

// RegisterQuery registers pool and vault buckets for querying.
func RegisterQuery(qr sharepool.QueryRouter) {
	NewStateBucket().Register("pools", qr)
	qr.Register("/vaults", NewVaultQuery(token.NewController()))
}

// RegisterRoutes registers handlers for pool message processing.
func RegisterRoutes(r sharepool.Registry, auth x.Authenticator, ctrl TokenController) {
	states := NewStateBucket()
	vaults := NewVaultBucket()
	r.Handle(&InitializeMsg{}, &initializeHandler{
		auth:   auth,
		states: states,
		vaults: vaults,
		ctrl:   ctrl,
	})
	r.Handle(&DepositMsg{}, &depositHandler{
		auth:   auth,
		states: states,
		ctrl:   ctrl,
	})
	r.Handle(&DistributeMsg{}, &distributeHandler{
		auth:   auth,
		states: states,
		ctrl:   ctrl,
	})
}

type initializeHandler struct {
	auth   x.Authenticator
	states *StateBucket
	vaults *VaultBucket
	ctrl   TokenController
}

func (h *initializeHandler) Check(ctx sharepool.Context, db sharepool.KVStore, tx sharepool.Tx) (*sharepool.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &sharepool.CheckResult{}, nil
}

func (h *initializeHandler) Deliver(ctx sharepool.Context, db sharepool.KVStore, tx sharepool.Tx) (*sharepool.DeliverResult, error) {
	msg, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	pool, err := createPool(db, h.states, h.vaults, h.ctrl, &DistributorState{
		Metadata:       &sharepool.Metadata{Schema: 1},
		Asset:          msg.Asset,
		SecondaryAsset: msg.SecondaryAsset,
		Authority:      msg.Authority,
		ShareSize:      msg.ShareSize,
		NumberOfShares: msg.NumberOfShares,
	})
	if err != nil {
		return nil, err
	}
	sharepool.GetLogger(ctx).Info("pool created",
		"pool", pool,
		"asset", msg.Asset,
		"share_size", msg.ShareSize,
		"shares", msg.NumberOfShares)
	return &sharepool.DeliverResult{Data: pool}, nil
}

func (h *initializeHandler) validate(ctx sharepool.Context, db sharepool.KVStore, tx sharepool.Tx) (*InitializeMsg, error) {
	var msg InitializeMsg
	if err := sharepool.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if err := x.RequireSigner(ctx, h.auth, "payer", msg.Payer); err != nil {
		return nil, err
	}
	if err := sharepool.ConsumeGas(ctx, InitializeCost+token.CreateAccountCost, "initialize pool"); err != nil {
		return nil, err
	}
	if _, err := currency.RequireAsset(db, msg.Asset); err != nil {
		return nil, errors.Field("Asset", err, "")
	}
	if _, err := currency.RequireAsset(db, msg.SecondaryAsset); err != nil {
		return nil, errors.Field("SecondaryAsset", err, "")
	}
	switch err := h.states.Has(db, msg.Pool()); {
	case err == nil:
		return nil, errors.Wrapf(errors.ErrConfiguration, "pool %s already initialized", msg.Pool())
	case !errors.ErrNotFound.Is(err):
		return nil, err
	}
	return &msg, nil
}

// createPool stores the configuration, the vault record and the empty
// vault account of a new pool. It fails with ErrConfiguration if the pool
// exists.
func createPool(db sharepool.KVStore, states *StateBucket, vaults *VaultBucket, ctrl TokenController, state *DistributorState) (sharepool.Address, error) {
	pool := state.Address()
	if err := states.Create(db, pool, state); err != nil {
		if errors.ErrDuplicate.Is(err) {
			return nil, errors.Wrapf(errors.ErrConfiguration, "pool %s already initialized", pool)
		}
		return nil, errors.Wrap(err, "save pool")
	}
	vault := &Vault{
		Metadata: &sharepool.Metadata{Schema: 1},
		Pool:     pool,
		Asset:    state.Asset,
	}
	if err := vaults.Create(db, pool, vault); err != nil {
		return nil, errors.Wrap(err, "save vault")
	}
	if _, err := ctrl.CreateAccount(db, vault.Address(), pool, state.Asset); err != nil {
		return nil, errors.Wrap(err, "create vault account")
	}
	return pool, nil
}

type depositHandler struct {
	auth   x.Authenticator
	states *StateBucket
	ctrl   TokenController
}

func (h *depositHandler) Check(ctx sharepool.Context, db sharepool.KVStore, tx sharepool.Tx) (*sharepool.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &sharepool.CheckResult{}, nil
}

func (h *depositHandler) Deliver(ctx sharepool.Context, db sharepool.KVStore, tx sharepool.Tx) (*sharepool.DeliverResult, error) {
	msg, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	vault := sharepool.VaultAddress(msg.Pool)
	if err := h.ctrl.Transfer(db, msg.Source, vault, msg.Asset, msg.Amount); err != nil {
		return nil, errors.Wrap(err, "deposit")
	}
	return &sharepool.DeliverResult{}, nil
}

func (h *depositHandler) validate(ctx sharepool.Context, db sharepool.KVStore, tx sharepool.Tx) (*DepositMsg, error) {
	var msg DepositMsg
	if err := sharepool.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if err := sharepool.ConsumeGas(ctx, DepositCost, "deposit"); err != nil {
		return nil, err
	}
	state, err := h.states.Get(db, msg.Pool)
	if err != nil {
		return nil, err
	}
	if msg.Asset != state.Asset {
		return nil, errors.Wrapf(errors.ErrAsset, "pool holds %s, not %s", state.Asset, msg.Asset)
	}
	if err := x.RequireSigner(ctx, h.auth, "depositor", msg.Depositor); err != nil {
		return nil, err
	}
	src, err := h.ctrl.Balance(db, msg.Source)
	if err != nil {
		return nil, errors.Wrap(err, "source")
	}
	if !src.Owner.Equals(msg.Depositor) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "depositor does not own the source account")
	}
	if src.Asset != state.Asset {
		return nil, errors.Wrapf(errors.ErrAsset, "source account holds %s, not %s", src.Asset, state.Asset)
	}
	if src.Amount < msg.Amount {
		return nil, errors.Wrapf(errors.ErrInsufficientAmount, "source holds %d, want %d", src.Amount, msg.Amount)
	}
	return &msg, nil
}

type distributeHandler struct {
	auth   x.Authenticator
	states *StateBucket
	ctrl   TokenController
}

func (h *distributeHandler) Check(ctx sharepool.Context, db sharepool.KVStore, tx sharepool.Tx) (*sharepool.CheckResult, error) {
	msg, _, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	return &sharepool.CheckResult{GasAllocated: DistributionGas(len(msg.Receivers))}, nil
}

func (h *distributeHandler) Deliver(ctx sharepool.Context, db sharepool.KVStore, tx sharepool.Tx) (*sharepool.DeliverResult, error) {
	msg, state, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	vault := sharepool.VaultAddress(msg.Pool)
	for i, r := range msg.Receivers {
		if err := sharepool.ConsumeGas(ctx, DistributePerReceiverCost, "pay share"); err != nil {
			return nil, err
		}
		switch _, err := h.ctrl.Balance(db, r.Account); {
		case errors.ErrNotFound.Is(err):
			if err := sharepool.ConsumeGas(ctx, token.CreateAccountCost, "create receiver account"); err != nil {
				return nil, err
			}
			if _, err := h.ctrl.CreateAccount(db, r.Account, r.Owner, state.Asset); err != nil {
				return nil, errors.Wrapf(err, "receiver #%d", i)
			}
		case err != nil:
			return nil, errors.Wrapf(err, "receiver #%d", i)
		}
		if err := h.ctrl.Transfer(db, vault, r.Account, state.Asset, state.ShareSize); err != nil {
			return nil, errors.Wrapf(err, "receiver #%d", i)
		}
	}

	sharepool.GetLogger(ctx).Info("pool distributed",
		"pool", msg.Pool,
		"receivers", len(msg.Receivers),
		"share_size", state.ShareSize)
	return &sharepool.DeliverResult{}, nil
}

// validate runs all checks of a distribution that do not modify the state,
// in the order: authority, receiver count, threshold, receiver accounts.
func (h *distributeHandler) validate(ctx sharepool.Context, db sharepool.KVStore, tx sharepool.Tx) (*DistributeMsg, *DistributorState, error) {
	var msg DistributeMsg
	if err := sharepool.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	if err := sharepool.ConsumeGas(ctx, DistributeCost, "distribute"); err != nil {
		return nil, nil, err
	}
	state, err := h.states.Get(db, msg.Pool)
	if err != nil {
		return nil, nil, err
	}

	if !msg.Authority.Equals(state.Authority) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "not the pool authority")
	}
	if err := x.RequireSigner(ctx, h.auth, "authority", msg.Authority); err != nil {
		return nil, nil, err
	}
	if err := x.RequireSigner(ctx, h.auth, "payer", msg.Payer); err != nil {
		return nil, nil, err
	}
	if msg.Asset != state.Asset {
		return nil, nil, errors.Wrapf(errors.ErrAsset, "pool holds %s, not %s", state.Asset, msg.Asset)
	}

	if want := state.NumberOfShares - 1; uint64(len(msg.Receivers)) != want {
		return nil, nil, errors.Wrapf(errors.ErrArgumentCount, "want %d receivers, got %d", want, len(msg.Receivers))
	}

	threshold, err := state.Threshold()
	if err != nil {
		return nil, nil, err
	}
	vault, err := h.ctrl.Balance(db, sharepool.VaultAddress(msg.Pool))
	if err != nil {
		return nil, nil, errors.Wrap(err, "vault")
	}
	if vault.Amount < threshold {
		return nil, nil, errors.Wrapf(errors.ErrThreshold, "vault holds %d, want %d", vault.Amount, threshold)
	}

	for i, r := range msg.Receivers {
		if want := sharepool.AccountAddress(r.Owner, state.Asset); !r.Account.Equals(want) {
			return nil, nil, errors.Wrapf(errors.ErrAddressDerivation, "receiver #%d: account %s is not the %s account of %s", i, r.Account, state.Asset, r.Owner)
		}
	}
	return &msg, state, nil
}

// DistributionGas returns the gas a distribution to given number of
// receivers consumes in the worst case, when every receiver account must
// be created.
func DistributionGas(receivers int) int64 {
	return DistributeCost + int64(receivers)*(DistributePerReceiverCost+token.CreateAccountCost)
}
