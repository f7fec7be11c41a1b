package app

import (
	"encoding/json"
	"os"

	"github.com/iov-one/sharepool"
	"github.com/iov-one/sharepool/errors"
)

// Genesis is the subset of the tendermint genesis file the application
// cares about.
type Genesis struct {
	ChainID  string          `json:"chain_id"`
	AppState json.RawMessage `json:"app_state"`
}

// LoadGenesis reads and validates the genesis file at given path.
func LoadGenesis(filePath string) (*Genesis, error) {
	raw, err := os.ReadFile(filePath)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "read genesis file: %s", err)
	}
	var gen Genesis
	if err := json.Unmarshal(raw, &gen); err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "unmarshal genesis file: %s", err)
	}
	if !sharepool.IsValidChainID(gen.ChainID) {
		return nil, errors.Wrapf(errors.ErrInput, "chain id %q", gen.ChainID)
	}
	if len(gen.AppState) == 0 {
		return nil, errors.Wrap(errors.ErrEmpty, "app_state")
	}
	return &gen, nil
}

// Options returns the parsed application state.
func (g *Genesis) Options() (sharepool.Options, error) {
	var opts sharepool.Options
	if err := json.Unmarshal(g.AppState, &opts); err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "app_state: %s", err)
	}
	return opts, nil
}
