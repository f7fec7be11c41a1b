package server

import (
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/iov-one/sharepool"
	"github.com/iov-one/sharepool/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tickerInit requires a non empty "ticker" section.
type tickerInit struct{}

func (tickerInit) FromGenesis(opts sharepool.Options, kv sharepool.KVStore) error {
	var ticker string
	if err := opts.ReadOptions("ticker", &ticker); err != nil {
		return err
	}
	if ticker == "" {
		return errors.Wrap(errors.ErrEmpty, "ticker")
	}
	return kv.Set([]byte("ticker"), []byte(ticker))
}

func TestValidateGenesis(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, ioutil.WriteFile(path, []byte(content), 0600))
		return path
	}
	good := write("good.json", `{"chain_id": "x", "app_state": {"ticker": "IOV"}}`)
	empty := write("empty.json", `{"chain_id": "x", "app_state": {}}`)
	broken := write("broken.json", `{"app_state": `)

	assert.NoError(t, ValidateGenesis(tickerInit{}, []string{good}))

	err := ValidateGenesis(tickerInit{}, []string{good, empty})
	assert.True(t, errors.ErrEmpty.Is(err))

	err = ValidateGenesis(tickerInit{}, []string{broken})
	assert.True(t, errors.ErrInput.Is(err))

	err = ValidateGenesis(tickerInit{}, []string{filepath.Join(dir, "missing.json")})
	assert.Error(t, err)

	err = ValidateGenesis(tickerInit{}, nil)
	assert.True(t, errors.ErrArgumentCount.Is(err))
}
