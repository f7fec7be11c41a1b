package client

import (
	"encoding/hex"

	"github.com/iov-one/sharepool"
	"github.com/iov-one/sharepool/app"
	"github.com/iov-one/sharepool/errors"
	"github.com/iov-one/sharepool/orm"
	"github.com/iov-one/sharepool/x/currency"
	"github.com/iov-one/sharepool/x/distributor"
	"github.com/iov-one/sharepool/x/sigs"
	"github.com/iov-one/sharepool/x/token"
	"github.com/iov-one/sharepool/x/utils"
	abci "github.com/tendermint/tendermint/abci/types"
)

// Querier reads the committed application state. A path may carry a
// "?prefix" modifier, in which case data is a key prefix, or a "?range"
// modifier, in which case data is the hex encoded first key of a page.
type Querier interface {
	Query(path string, data []byte) ([]sharepool.Model, error)
}

// AppQuerier queries an in-process application directly, without a node.
type AppQuerier struct {
	app abci.Application
}

var _ Querier = (*AppQuerier)(nil)

// NewAppQuerier returns a querier reading from given application.
func NewAppQuerier(app abci.Application) *AppQuerier {
	return &AppQuerier{app: app}
}

func (q *AppQuerier) Query(path string, data []byte) ([]sharepool.Model, error) {
	return decodeQuery(q.app.Query(abci.RequestQuery{Path: path, Data: data}))
}

func decodeQuery(resp abci.ResponseQuery) ([]sharepool.Model, error) {
	if err := errors.ABCIError(resp.Code, resp.Log); err != nil {
		return nil, err
	}
	var keys, values app.ResultSet
	if err := keys.Unmarshal(resp.Key); err != nil {
		return nil, errors.Wrap(err, "keys")
	}
	if err := values.Unmarshal(resp.Value); err != nil {
		return nil, errors.Wrap(err, "values")
	}
	return app.JoinResults(&keys, &values)
}

// queryOne loads the entity stored under given key into dest. It returns
// ErrNotFound if there is no such entity.
func queryOne(q Querier, path string, key []byte, dest sharepool.Persistent) error {
	models, err := q.Query(path, key)
	if err != nil {
		return err
	}
	if len(models) == 0 {
		return errors.Wrapf(errors.ErrNotFound, "%s %X", path, key)
	}
	return dest.Unmarshal(models[0].Value)
}

// Pool returns the configuration of the pool at given address.
func Pool(q Querier, pool sharepool.Address) (*distributor.DistributorState, error) {
	var s distributor.DistributorState
	if err := queryOne(q, "/pools", pool, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// Pools returns all pools, keyed by their address.
func Pools(q Querier) (map[string]*distributor.DistributorState, error) {
	models, err := q.Query("/pools?"+sharepool.PrefixQueryMod, nil)
	if err != nil {
		return nil, err
	}
	res := make(map[string]*distributor.DistributorState, len(models))
	for _, m := range models {
		var s distributor.DistributorState
		if err := s.Unmarshal(m.Value); err != nil {
			return nil, errors.Wrapf(err, "pool %X", m.Key)
		}
		res[sharepool.Address(m.Key).String()] = &s
	}
	return res, nil
}

// Vault returns the vault of the pool at given address, including its
// current balance.
func Vault(q Querier, pool sharepool.Address) (*distributor.VaultInfo, error) {
	var v distributor.VaultInfo
	if err := queryOne(q, "/vaults", pool, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// Account returns the token account stored at given address.
func Account(q Querier, addr sharepool.Address) (*token.Account, error) {
	var a token.Account
	if err := queryOne(q, "/accounts", addr, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// VisitAccounts calls fn for every token account, in address order. The
// accounts are fetched one page at a time.
func VisitAccounts(q Querier, fn func(addr sharepool.Address, acc *token.Account) error) error {
	var offset []byte
	for {
		models, err := q.Query("/accounts?"+sharepool.RangeQueryMod, []byte(hex.EncodeToString(offset)))
		if err != nil {
			return errors.Wrap(err, "list accounts")
		}
		for _, m := range models {
			var acc token.Account
			if err := acc.Unmarshal(m.Value); err != nil {
				return errors.Wrapf(err, "account %X", m.Key)
			}
			if err := fn(m.Key, &acc); err != nil {
				return err
			}
		}
		if len(models) < orm.QueryRangeLimit {
			return nil
		}
		// Smallest key following the last one received.
		last := models[len(models)-1].Key
		offset = append(append([]byte{}, last...), 0)
	}
}

// Balance returns the balance of the canonical account of owner. An owner
// without an account holds nothing.
func Balance(q Querier, owner sharepool.Address, asset string) (uint64, error) {
	acc, err := Account(q, sharepool.AccountAddress(owner, asset))
	switch {
	case errors.ErrNotFound.Is(err):
		return 0, nil
	case err != nil:
		return 0, err
	}
	return acc.Amount, nil
}

// Asset returns the registered asset of given ticker.
func Asset(q Querier, ticker string) (*currency.AssetInfo, error) {
	var a currency.AssetInfo
	if err := queryOne(q, "/assets", []byte(ticker), &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// NextNonce returns the sequence the next signature of signer must carry.
func NextNonce(q Querier, signer sharepool.Address) (int64, error) {
	var u sigs.UserData
	switch err := queryOne(q, "/sigs", signer, &u); {
	case errors.ErrNotFound.Is(err):
		return 0, nil
	case err != nil:
		return 0, err
	}
	return u.Sequence, nil
}

// GasConfiguration returns the gas configuration, or nil if none is set.
func GasConfiguration(q Querier) (*utils.GasConfiguration, error) {
	var c utils.GasConfiguration
	switch err := queryOne(q, "/gas", nil, &c); {
	case errors.ErrNotFound.Is(err):
		return nil, nil
	case err != nil:
		return nil, err
	}
	return &c, nil
}
