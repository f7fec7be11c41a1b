package payout

import (
	"os"
	"testing"
	"time"

	"github.com/iov-one/sharepool"
	"github.com/iov-one/sharepool/crypto"
	"github.com/iov-one/sharepool/errors"
	"github.com/iov-one/sharepool/weavetest"
	"github.com/iov-one/sharepool/weavetest/assert"
)

func setEnv(t *testing.T, vars map[string]string) {
	t.Helper()
	for _, name := range []string{
		"SHAREPOOL_CHAIN_ID", "SHAREPOOL_POOL", "SHAREPOOL_PAYER_KEY",
		"SHAREPOOL_AUTHORITY_KEY", "SHAREPOOL_POLL_INTERVAL",
		"SHAREPOOL_ROUNDS_PER_MINUTE", "SHAREPOOL_GAS_LIMIT",
	} {
		t.Setenv(name, "")
		os.Unsetenv(name)
	}
	for k, v := range vars {
		t.Setenv(k, v)
	}
}

func TestLoadConfig(t *testing.T) {
	payer := weavetest.NewKey()
	authority := weavetest.NewKey()
	pool := sharepool.PoolAddress("IOV", "ETH", 10, 3)

	valid := map[string]string{
		"SHAREPOOL_CHAIN_ID":      "test-chain",
		"SHAREPOOL_POOL":          pool.String(),
		"SHAREPOOL_PAYER_KEY":     crypto.EncodePrivateKey(payer),
		"SHAREPOOL_AUTHORITY_KEY": crypto.EncodePrivateKey(authority),
	}

	t.Run("defaults", func(t *testing.T) {
		setEnv(t, valid)
		c, err := LoadConfig()
		assert.Nil(t, err)
		assert.Equal(t, 10*time.Second, c.PollInterval)
		assert.Equal(t, "http://localhost:26657", c.RPCURL)
		assert.Equal(t, int64(0), c.GasLimit)

		addr, err := c.PoolAddress()
		assert.Nil(t, err)
		assert.Equal(t, pool, addr)

		p, a, err := c.Keys()
		assert.Nil(t, err)
		assert.Equal(t, payer.PublicKey().Address(), p.PublicKey().Address())
		assert.Equal(t, authority.PublicKey().Address(), a.PublicKey().Address())
	})

	t.Run("overrides", func(t *testing.T) {
		vars := map[string]string{
			"SHAREPOOL_POLL_INTERVAL":     "1m",
			"SHAREPOOL_ROUNDS_PER_MINUTE": "0.5",
			"SHAREPOOL_GAS_LIMIT":         "5000",
		}
		for k, v := range valid {
			vars[k] = v
		}
		setEnv(t, vars)
		c, err := LoadConfig()
		assert.Nil(t, err)
		assert.Equal(t, time.Minute, c.PollInterval)
		assert.Equal(t, 0.5, c.RoundsPerMinute)
		assert.Equal(t, int64(5000), c.GasLimit)
	})

	t.Run("missing required", func(t *testing.T) {
		setEnv(t, map[string]string{"SHAREPOOL_CHAIN_ID": "test-chain"})
		_, err := LoadConfig()
		assert.IsErr(t, errors.ErrConfiguration, err)
	})

	t.Run("invalid values", func(t *testing.T) {
		vars := map[string]string{"SHAREPOOL_ROUNDS_PER_MINUTE": "-1"}
		for k, v := range valid {
			vars[k] = v
		}
		vars["SHAREPOOL_POOL"] = "not an address"
		setEnv(t, vars)
		_, err := LoadConfig()
		assert.IsErr(t, errors.ErrConfiguration, err)
		if len(errors.FieldErrors(err, "RoundsPerMinute")) == 0 {
			t.Fatal("rounds per minute not reported")
		}
	})

	t.Run("bad key", func(t *testing.T) {
		vars := make(map[string]string)
		for k, v := range valid {
			vars[k] = v
		}
		vars["SHAREPOOL_PAYER_KEY"] = "zz"
		setEnv(t, vars)
		c, err := LoadConfig()
		assert.Nil(t, err)
		_, _, err = c.Keys()
		if err == nil {
			t.Fatal("invalid key accepted")
		}
	})
}
