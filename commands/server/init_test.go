package server

import (
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/iov-one/sharepool/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendermint/tendermint/libs/log"
)

// setupHome creates a home directory with a genesis file as written by
// tendermint init.
func setupHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(home, "config"), 0755))
	genesis := `{
  "genesis_time": "2019-05-01T10:00:00Z",
  "chain_id": "test-chain-Ig6sNQ",
  "validators": []
}`
	require.NoError(t, ioutil.WriteFile(GenesisPath(home), []byte(genesis), 0600))
	return home
}

func genOptions(args []string) (json.RawMessage, error) {
	state := map[string]interface{}{"args": args}
	return json.Marshal(state)
}

func readGenesis(t *testing.T, home string) GenesisDoc {
	t.Helper()
	bz, err := ioutil.ReadFile(GenesisPath(home))
	require.NoError(t, err)
	var doc GenesisDoc
	require.NoError(t, json.Unmarshal(bz, &doc))
	return doc
}

func TestInitCmd(t *testing.T) {
	home := setupHome(t)
	logger := log.NewNopLogger()

	require.NoError(t, InitCmd(genOptions, logger, home, []string{"IOV", "ETH"}))

	doc := readGenesis(t, home)
	assert.JSONEq(t, `{"args": ["IOV", "ETH"]}`, string(doc["app_state"]))
	assert.JSONEq(t, `"test-chain-Ig6sNQ"`, string(doc["chain_id"]))

	c, err := LoadConfig(ConfigPath(home))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), c)

	// A second run must not silently replace the state.
	err = InitCmd(genOptions, logger, home, []string{"BTC"})
	assert.True(t, errors.ErrDuplicate.Is(err))

	require.NoError(t, InitCmd(genOptions, logger, home, []string{"-i", "BTC"}))
	doc = readGenesis(t, home)
	assert.JSONEq(t, `{"args": ["BTC"]}`, string(doc["app_state"]))
}

func TestInitCmdKeepsConfig(t *testing.T) {
	home := setupHome(t)
	custom := Config{Bind: "tcp://0.0.0.0:1234", LogLevel: "error"}
	require.NoError(t, WriteConfig(ConfigPath(home), custom))

	require.NoError(t, InitCmd(genOptions, log.NewNopLogger(), home, nil))

	c, err := LoadConfig(ConfigPath(home))
	require.NoError(t, err)
	assert.Equal(t, custom, c)
}

func TestInitCmdWithoutGenesis(t *testing.T) {
	err := InitCmd(genOptions, log.NewNopLogger(), t.TempDir(), nil)
	assert.True(t, errors.ErrNotFound.Is(err))
}

func TestInitCmdGeneratorFailure(t *testing.T) {
	home := setupHome(t)
	gen := func([]string) (json.RawMessage, error) {
		return nil, errors.Wrap(errors.ErrAsset, "bad ticker")
	}
	err := InitCmd(gen, log.NewNopLogger(), home, nil)
	assert.True(t, errors.ErrAsset.Is(err))
	_, ok := readGenesis(t, home)["app_state"]
	assert.False(t, ok)
}
