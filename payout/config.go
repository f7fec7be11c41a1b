package payout

import (
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/iov-one/sharepool"
	"github.com/iov-one/sharepool/crypto"
	"github.com/iov-one/sharepool/errors"
)

// Config is the keeper configuration, read from the environment.
type Config struct {
	RPCURL  string `env:"SHAREPOOL_RPC_URL" envDefault:"http://localhost:26657"`
	ChainID string `env:"SHAREPOOL_CHAIN_ID,required"`
	// Pool is the hex or bech32 encoded pool address.
	Pool string `env:"SHAREPOOL_POOL,required"`

	// Keys are accepted in any form crypto.DecodePrivateKey understands.
	// When KeyPath is set, both keys are derived from their seed using
	// that path.
	PayerKey     string `env:"SHAREPOOL_PAYER_KEY,required"`
	AuthorityKey string `env:"SHAREPOOL_AUTHORITY_KEY,required"`
	KeyPath      string `env:"SHAREPOOL_KEY_PATH"`

	Memo         string        `env:"SHAREPOOL_MEMO" envDefault:"sharepool distribution"`
	PollInterval time.Duration `env:"SHAREPOOL_POLL_INTERVAL" envDefault:"10s"`
	// RoundsPerMinute limits how often distributions are submitted.
	RoundsPerMinute float64 `env:"SHAREPOOL_ROUNDS_PER_MINUTE" envDefault:"2"`
	// GasLimit of the distribute transaction. Zero means the cost of a
	// distribution creating every receiver account, plus a margin.
	GasLimit int64 `env:"SHAREPOOL_GAS_LIMIT"`

	JournalPath string `env:"SHAREPOOL_JOURNAL" envDefault:"payout.db"`
	MetricsAddr string `env:"SHAREPOOL_METRICS_ADDR"`
	LogLevel    string `env:"SHAREPOOL_LOG_LEVEL" envDefault:"info"`
}

// LoadConfig parses the configuration from environment variables.
func LoadConfig() (*Config, error) {
	var c Config
	if err := env.Parse(&c); err != nil {
		return nil, errors.Wrap(errors.ErrConfiguration, err.Error())
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) Validate() error {
	var errs error
	if _, err := sharepool.ParseAddress(c.Pool); err != nil {
		errs = errors.Append(errs, errors.Field("Pool", errors.ErrConfiguration, "invalid address %q", c.Pool))
	}
	if !sharepool.IsValidChainID(c.ChainID) {
		errs = errors.Append(errs, errors.Field("ChainID", errors.ErrConfiguration, "invalid chain id %q", c.ChainID))
	}
	if c.PollInterval <= 0 {
		errs = errors.Append(errs, errors.Field("PollInterval", errors.ErrConfiguration, "must be positive"))
	}
	if c.RoundsPerMinute <= 0 {
		errs = errors.Append(errs, errors.Field("RoundsPerMinute", errors.ErrConfiguration, "must be positive"))
	}
	if c.GasLimit < 0 {
		errs = errors.Append(errs, errors.Field("GasLimit", errors.ErrConfiguration, "cannot be negative"))
	}
	return errs
}

// PoolAddress returns the configured pool address.
func (c *Config) PoolAddress() (sharepool.Address, error) {
	addr, err := sharepool.ParseAddress(c.Pool)
	if err != nil {
		return nil, errors.Wrap(errors.ErrConfiguration, "pool")
	}
	return addr, nil
}

// Keys decodes the payer and the authority keys.
func (c *Config) Keys() (payer, authority *crypto.PrivateKey, err error) {
	payer, err = crypto.DecodePrivateKey(c.PayerKey, c.KeyPath)
	if err != nil {
		return nil, nil, errors.Wrap(err, "payer key")
	}
	authority, err = crypto.DecodePrivateKey(c.AuthorityKey, c.KeyPath)
	if err != nil {
		return nil, nil, errors.Wrap(err, "authority key")
	}
	return payer, authority, nil
}
