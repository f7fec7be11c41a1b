package server

import (
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/iov-one/sharepool/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	c, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), c)
}

func TestConfigRoundTrip(t *testing.T) {
	path := ConfigPath(t.TempDir())
	want := Config{
		Bind:        "tcp://0.0.0.0:26658",
		Debug:       true,
		LogLevel:    "error",
		MetricsAddr: "localhost:9100",
		Issuer:      "1234567890ABCDEF1234567890ABCDEF12345678",
	}
	require.NoError(t, WriteConfig(path, want))

	got, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	issuer, err := got.IssuerAddress()
	require.NoError(t, err)
	assert.Equal(t, 20, len(issuer))
}

func TestLoadConfigPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFile)
	require.NoError(t, ioutil.WriteFile(path, []byte(`log_level = "debug"`), 0600))

	c, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", c.LogLevel)
	assert.Equal(t, DefaultConfig().Bind, c.Bind)
}

func TestLoadConfigErrors(t *testing.T) {
	cases := map[string]string{
		"not toml":      `bind = `,
		"empty bind":    `bind = ""`,
		"unknown level": `log_level = "loud"`,
		"bad issuer":    `issuer = "xyz"`,
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), ConfigFile)
			require.NoError(t, ioutil.WriteFile(path, []byte(content), 0600))
			_, err := LoadConfig(path)
			assert.Error(t, err)
		})
	}
}

func TestConfigValidateReportsFields(t *testing.T) {
	err := Config{LogLevel: "loud"}.Validate()
	require.Error(t, err)
	assert.True(t, errors.ErrEmpty.Is(err))
	assert.True(t, errors.ErrConfiguration.Is(err))
}
