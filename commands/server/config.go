package server

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/iov-one/sharepool"
	"github.com/iov-one/sharepool/errors"
	"github.com/tendermint/tendermint/libs/log"
)

// ConfigFile is the name of the node configuration file, kept next to the
// tendermint configuration in <home>/config.
const ConfigFile = "sharepoold.toml"

// Config is the node configuration. Values are read from the configuration
// file and can be overwritten by command line flags.
type Config struct {
	// Bind is the address the ABCI server listens on.
	Bind string `toml:"bind"`
	// Debug includes the call stack in error responses.
	Debug bool `toml:"debug"`
	// LogLevel is one of debug, info, error or none.
	LogLevel string `toml:"log_level"`
	// MetricsAddr enables the prometheus endpoint when not empty.
	MetricsAddr string `toml:"metrics_addr"`
	// Issuer, when set, is the only address allowed to register assets.
	Issuer string `toml:"issuer"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() Config {
	return Config{
		Bind:     "tcp://localhost:26658",
		LogLevel: "info",
	}
}

// ConfigPath returns the location of the configuration file for given home
// directory.
func ConfigPath(home string) string {
	return filepath.Join(home, "config", ConfigFile)
}

// LoadConfig reads the configuration file. A missing file is not an error,
// defaults are returned instead.
func LoadConfig(path string) (Config, error) {
	c := DefaultConfig()
	if !fileExists(path) {
		return c, nil
	}
	if _, err := toml.DecodeFile(path, &c); err != nil {
		return c, errors.Wrapf(errors.ErrConfiguration, "cannot decode %s: %s", path, err)
	}
	return c, c.Validate()
}

// WriteConfig stores the configuration as a TOML file, creating the
// directory if needed.
func WriteConfig(path string, c Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrap(err, "config directory")
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0600)
	if err != nil {
		return errors.Wrap(err, "open config file")
	}
	defer f.Close()
	if err := toml.NewEncoder(f).Encode(c); err != nil {
		return errors.Wrap(err, "encode config")
	}
	return nil
}

// Validate returns an error if the configuration cannot be used to start a
// node.
func (c Config) Validate() error {
	var err error
	if c.Bind == "" {
		err = errors.AppendField(err, "Bind", errors.ErrEmpty)
	}
	if _, e := log.AllowLevel(c.LogLevel); e != nil {
		err = errors.AppendField(err, "LogLevel", errors.Wrap(errors.ErrConfiguration, e.Error()))
	}
	if _, e := c.IssuerAddress(); e != nil {
		err = errors.AppendField(err, "Issuer", e)
	}
	return err
}

// IssuerAddress returns the parsed issuer address or nil if no issuer is
// configured.
func (c Config) IssuerAddress() (sharepool.Address, error) {
	if c.Issuer == "" {
		return nil, nil
	}
	return sharepool.ParseAddress(c.Issuer)
}

// Logger applies the configured log level to given logger.
func (c Config) Logger(logger log.Logger) (log.Logger, error) {
	opt, err := log.AllowLevel(c.LogLevel)
	if err != nil {
		return nil, errors.Wrap(errors.ErrConfiguration, err.Error())
	}
	return log.NewFilter(logger, opt), nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
