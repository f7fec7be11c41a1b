package distributor

import (
	"context"
	"testing"

	"github.com/iov-one/sharepool"
	"github.com/iov-one/sharepool/app"
	"github.com/iov-one/sharepool/store"
	"github.com/iov-one/sharepool/weavetest"
	"github.com/iov-one/sharepool/weavetest/assert"
	"github.com/iov-one/sharepool/x/currency"
	"github.com/iov-one/sharepool/x/token"
	"github.com/iov-one/sharepool/x/utils"
)

// testEnv runs messages through the router wrapped with the gas and the
// savepoint decorators, the same way the application does.
type testEnv struct {
	t       testing.TB
	db      sharepool.CacheableKVStore
	auth    *weavetest.CtxAuth
	ctrl    token.Controller
	router  *app.Router
	handler sharepool.Handler

	payer     sharepool.Condition
	authority sharepool.Condition
	depositor sharepool.Condition
}

func newTestEnv(t testing.TB) *testEnv {
	t.Helper()
	db := store.MemStore()
	assets := currency.NewAssetBucket()
	for _, ticker := range []string{"IOV", "ETH"} {
		assert.Nil(t, assets.Add(db, &currency.AssetInfo{
			Metadata: &sharepool.Metadata{Schema: 1},
			Ticker:   ticker,
			Name:     "test " + ticker,
		}))
	}

	auth := &weavetest.CtxAuth{Key: "auth"}
	ctrl := token.NewController()
	rt := app.NewRouter()
	RegisterRoutes(rt, auth, ctrl)
	token.RegisterRoutes(rt, auth, ctrl)

	return &testEnv{
		t:      t,
		db:     db,
		auth:   auth,
		ctrl:   ctrl,
		router: rt,
		handler: app.ChainDecorators(
			utils.NewGas(0, 0),
			utils.NewSavepoint().OnDeliver(),
		).WithHandler(rt),
		payer:     weavetest.NewCondition(),
		authority: weavetest.NewCondition(),
		depositor: weavetest.NewCondition(),
	}
}

func (e *testEnv) deliver(msg sharepool.Msg, gasLimit int64, signers ...sharepool.Condition) (*sharepool.DeliverResult, error) {
	ctx := e.auth.SetConditions(context.Background(), signers...)
	return e.handler.Deliver(ctx, e.db, &weavetest.Tx{Msg: msg, GasLimit: gasLimit})
}

func (e *testEnv) check(msg sharepool.Msg, signers ...sharepool.Condition) error {
	ctx := e.auth.SetConditions(context.Background(), signers...)
	cache := e.db.CacheWrap()
	defer cache.Discard()
	_, err := e.handler.Check(ctx, cache, &weavetest.Tx{Msg: msg})
	return err
}

// initialize creates an IOV pool with the test authority.
func (e *testEnv) initialize(shareSize, shares uint64) sharepool.Address {
	e.t.Helper()
	res, err := e.deliver(&InitializeMsg{
		Metadata:       &sharepool.Metadata{Schema: 1},
		ShareSize:      shareSize,
		NumberOfShares: shares,
		Payer:          e.payer.Address(),
		Asset:          "IOV",
		SecondaryAsset: "ETH",
		Authority:      e.authority.Address(),
	}, 0, e.payer)
	if err != nil {
		e.t.Fatalf("cannot initialize pool: %s", err)
	}
	return res.Data
}

// fund mints amount into the canonical account of owner and returns the
// account address.
func (e *testEnv) fund(owner sharepool.Address, asset string, amount uint64) sharepool.Address {
	e.t.Helper()
	addr, _, err := e.ctrl.EnsureAccount(e.db, owner, asset)
	if err != nil {
		e.t.Fatalf("cannot create account: %s", err)
	}
	if amount > 0 {
		if err := e.ctrl.Mint(e.db, addr, asset, amount); err != nil {
			e.t.Fatalf("cannot mint: %s", err)
		}
	}
	return addr
}

func (e *testEnv) deposit(pool sharepool.Address, source sharepool.Address, amount uint64) error {
	_, err := e.deliver(&DepositMsg{
		Metadata:  &sharepool.Metadata{Schema: 1},
		Pool:      pool,
		Asset:     "IOV",
		Depositor: e.depositor.Address(),
		Source:    source,
		Amount:    amount,
	}, 0, e.depositor)
	return err
}

func (e *testEnv) distributeMsg(pool sharepool.Address, receivers []Receiver) *DistributeMsg {
	return &DistributeMsg{
		Metadata:  &sharepool.Metadata{Schema: 1},
		Pool:      pool,
		Payer:     e.payer.Address(),
		Authority: e.authority.Address(),
		Asset:     "IOV",
		Receivers: receivers,
	}
}

// balance returns the amount held at given address, or -1 if there is no
// account.
func (e *testEnv) balance(addr sharepool.Address) int64 {
	e.t.Helper()
	acc, err := e.ctrl.Balance(e.db, addr)
	if err != nil {
		return -1
	}
	return int64(acc.Amount)
}

func newReceivers(n int) []Receiver {
	rs := make([]Receiver, n)
	for i := range rs {
		rs[i] = NewReceiver(weavetest.NewCondition().Address(), "IOV")
	}
	return rs
}
