package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	cfg, err := Load(filepath.Join("testdata", "configtest.json"))
	require.NoError(t, err)
	require.Len(t, cfg.Exchanges, 2)
	assert.Equal(t, "info", cfg.LogLevel)

	xt, err := cfg.GetExchangeConfig("xt")
	require.NoError(t, err)
	assert.True(t, xt.Enabled)
	assert.Equal(t, 10*time.Second, xt.HTTPTimeout)
	assert.Equal(t, "5000", xt.RecvWindow)
	assert.Equal(t, "test-key", xt.API.Key)
	assert.Equal(t, "test-secret", xt.API.Secret)

	disabled, err := cfg.GetExchangeConfig("Disabled")
	require.NoError(t, err)
	assert.False(t, disabled.Enabled)
	assert.Equal(t, defaultHTTPTimeout, disabled.HTTPTimeout, "omitted timeout picks up the default")

	_, err = cfg.GetExchangeConfig("unknown")
	assert.ErrorIs(t, err, ErrExchangeNotFound)
}

func TestLoadEnvironmentOverride(t *testing.T) {
	t.Setenv("GOXCHANGE_XT_KEY", "env-key")
	t.Setenv("GOXCHANGE_XT_SECRET", "env-secret")

	cfg, err := Load(filepath.Join("testdata", "configtest.json"))
	require.NoError(t, err)
	xt, err := cfg.GetExchangeConfig("XT")
	require.NoError(t, err)
	assert.Equal(t, "env-key", xt.API.Key)
	assert.Equal(t, "env-secret", xt.API.Secret)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join("testdata", "missing.json"))
	assert.Error(t, err)
}
