package app

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/iov-one/sharepool"
	"github.com/iov-one/sharepool/commands/server"
	"github.com/iov-one/sharepool/crypto"
	"github.com/iov-one/sharepool/errors"
	"github.com/iov-one/sharepool/x/currency"
	"github.com/iov-one/sharepool/x/distributor"
	"github.com/iov-one/sharepool/x/token"
	"github.com/iov-one/sharepool/x/utils"
	"github.com/prometheus/client_golang/prometheus"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

// Initializers returns the genesis initializers of all extensions, in the
// order they must run.
func Initializers() sharepool.Initializer {
	return sharepool.GenesisInitializers(
		utils.GasInitializer{},
		&currency.Initializer{},
		&token.Initializer{},
		&distributor.Initializer{},
	)
}

// GenInitOptions produces the genesis application state for a development
// chain: the primary and secondary assets, one rich account owned by the
// given address and the gas configuration owned by the same address.
//
// Arguments are the primary ticker, the secondary ticker and the hex
// encoded owner address. When the owner is not given, a new key is
// generated and its secret printed.
func GenInitOptions(args []string) (json.RawMessage, error) {
	primary, secondary := "IOV", "ETH"
	if len(args) > 0 {
		primary = args[0]
	}
	if len(args) > 1 {
		secondary = args[1]
	}
	for _, ticker := range []string{primary, secondary} {
		if !currency.IsTicker(ticker) {
			return nil, errors.Wrapf(errors.ErrAsset, "invalid ticker %q", ticker)
		}
	}

	var owner sharepool.Address
	if len(args) > 2 {
		addr, err := sharepool.ParseAddress(args[2])
		if err != nil {
			return nil, errors.Wrap(err, "owner")
		}
		owner = addr
	} else {
		addr, keys, err := GenerateCoinKey()
		if err != nil {
			return nil, err
		}
		owner = addr
		fmt.Println(keys)
	}

	state := map[string]interface{}{
		"currency": []interface{}{
			map[string]interface{}{"ticker": primary, "name": "primary " + primary},
			map[string]interface{}{"ticker": secondary, "name": "secondary " + secondary},
		},
		"token": []interface{}{
			map[string]interface{}{"owner": owner, "asset": primary, "amount": 123456789000000000},
		},
		"distributor": []interface{}{},
		"conf": map[string]interface{}{
			"gas": map[string]interface{}{
				"metadata":      map[string]interface{}{"schema": 1},
				"owner":         owner,
				"default_limit": DefaultGasLimit,
				"tx_cost":       TxCost,
			},
		},
	}
	return json.MarshalIndent(state, "", "  ")
}

// GenerateApp is used to create a stub for server/start.go command
func GenerateApp(home string, logger log.Logger, debug bool) (abci.Application, error) {
	return GenerateAppWithMetrics(home, logger, debug, nil, nil)
}

// GenerateAppWithMetrics builds the application instrumented with given
// metrics decorator. The issuer, when not empty, is the only address
// allowed to register new assets.
func GenerateAppWithMetrics(home string, logger log.Logger, debug bool, issuer sharepool.Address, metrics *utils.Metrics) (abci.Application, error) {
	// db goes in a subdir, but "" -> "" for memdb
	var dbPath string
	if home != "" {
		dbPath = filepath.Join(home, "sharepool.db")
	}

	stack := Stack(issuer, metrics)
	application, err := Application("sharepoold", stack, TxDecoder, dbPath, debug)
	if err != nil {
		return nil, err
	}
	application.WithInit(Initializers())
	application.WithLogger(logger)
	return application, nil
}

// GenerateServerApp builds the application as configured for the node
// process. Metrics are registered with reg unless it is nil.
func GenerateServerApp(home string, logger log.Logger, c server.Config, reg prometheus.Registerer) (abci.Application, error) {
	issuer, err := c.IssuerAddress()
	if err != nil {
		return nil, errors.Wrap(err, "issuer")
	}
	var metrics *utils.Metrics
	if reg != nil {
		if metrics, err = utils.NewMetrics(reg); err != nil {
			return nil, errors.Wrap(err, "metrics")
		}
	}
	return GenerateAppWithMetrics(home, logger, c.Debug, issuer, metrics)
}

type output struct {
	Address sharepool.Address `json:"address"`
	Secret  string            `json:"secret"`
}

// GenerateCoinKey returns the address of a new public key, along with a
// json representation of the keys.
func GenerateCoinKey() (sharepool.Address, string, error) {
	privKey := crypto.GenPrivKeyEd25519()
	addr := privKey.PublicKey().Address()

	out := output{Address: addr, Secret: crypto.EncodePrivateKey(privKey)}
	keys, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, "", err
	}
	return addr, string(keys), nil
}
