/*
Package app links together all the various components
to construct the sharepoold app.
*/
package app

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/iov-one/sharepool"
	"github.com/iov-one/sharepool/app"
	"github.com/iov-one/sharepool/errors"
	"github.com/iov-one/sharepool/orm"
	"github.com/iov-one/sharepool/store/iavl"
	"github.com/iov-one/sharepool/x"
	"github.com/iov-one/sharepool/x/currency"
	"github.com/iov-one/sharepool/x/distributor"
	"github.com/iov-one/sharepool/x/sigs"
	"github.com/iov-one/sharepool/x/token"
	"github.com/iov-one/sharepool/x/utils"
)

const (
	// DefaultGasLimit applies to transactions that do not declare a
	// limit, unless the gas configuration says otherwise.
	DefaultGasLimit = 100000
	// TxCost is charged for every transaction, before any message
	// processing.
	TxCost = 10
)

// Authenticator returns the typical authentication,
// just using public key signatures
func Authenticator() x.Authenticator {
	return x.ChainAuth(sigs.Authenticate{})
}

// Chain returns a chain of decorators, to handle authentication,
// gas metering, logging and recovery. Metrics are optional.
func Chain(metrics *utils.Metrics) app.Decorators {
	var m sharepool.Decorator
	if metrics != nil {
		m = metrics
	}
	return app.ChainDecorators(
		utils.NewLogging(),
		utils.NewRecovery(),
		m,
		// on CheckTx, bad tx don't affect state
		utils.NewSavepoint().OnCheck(),
		// the meter must be installed before signatures are charged
		utils.NewGas(DefaultGasLimit, TxCost),
		sigs.NewDecorator(),
		// on DeliverTx, a failed message does not revert the nonce
		// increment, but nothing the message did is persisted
		utils.NewSavepoint().OnDeliver(),
	)
}

// Router returns a router dispatching all messages of the application.
func Router(authFn x.Authenticator, issuer sharepool.Address) *app.Router {
	r := app.NewRouter()
	ctrl := token.NewController()
	currency.RegisterRoutes(r, authFn, issuer)
	token.RegisterRoutes(r, authFn, ctrl)
	distributor.RegisterRoutes(r, authFn, ctrl)
	utils.RegisterRoutes(r, authFn)
	return r
}

// QueryRouter returns a default query router,
// allowing access to "/assets", "/accounts", "/pools", "/vaults",
// "/sigs", "/gas" and "/"
func QueryRouter() sharepool.QueryRouter {
	r := sharepool.NewQueryRouter()
	r.RegisterAll(
		currency.RegisterQuery,
		token.RegisterQuery,
		distributor.RegisterQuery,
		sigs.RegisterQuery,
		utils.RegisterQuery,
		orm.RegisterQuery,
	)
	return r
}

// Stack wires up a standard router with a standard decorator
// chain. This can be passed into BaseApp.
func Stack(issuer sharepool.Address, metrics *utils.Metrics) sharepool.Handler {
	authFn := Authenticator()
	return Chain(metrics).WithHandler(Router(authFn, issuer))
}

// Application constructs a basic ABCI application with
// the given arguments. If you are not sure what to use
// for the Handler, just use Stack().
func Application(name string, h sharepool.Handler, tx sharepool.TxDecoder, dbPath string, debug bool) (app.BaseApp, error) {
	kv, err := CommitKVStore(dbPath)
	if err != nil {
		return app.BaseApp{}, err
	}
	store := app.NewStoreApp(name, kv, QueryRouter(), context.Background())
	return app.NewBaseApp(store, tx, h, debug), nil
}

// CommitKVStore returns an initialized KVStore that persists
// the data to the named path. An empty path returns an in-memory store.
func CommitKVStore(dbPath string) (sharepool.CommitKVStore, error) {
	if dbPath == "" {
		return iavl.MockCommitStore(), nil
	}

	path, err := filepath.Abs(dbPath)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "invalid database name %q", dbPath)
	}

	// Some external calls accidently add a ".db", which is now removed
	path = strings.TrimSuffix(path, filepath.Ext(path))

	dir := filepath.Dir(path)
	name := filepath.Base(path)
	s, err := iavl.NewCommitStore(dir, name)
	if err != nil {
		return nil, err
	}
	if err := s.LoadLatestVersion(); err != nil {
		return nil, err
	}
	return s, nil
}
