package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":3001", cfg.ListenAddr)
	assert.NotEmpty(t, cfg.DBPath)
	assert.NotEmpty(t, cfg.EthRPCURL)
	assert.Equal(t, 10*time.Second, cfg.RPCTimeout)
	assert.Equal(t, 100.00, cfg.DefaultBalance)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadCustomValues(t *testing.T) {
	t.Setenv("LISTEN_ADDR", ":9000")
	t.Setenv("DB_PATH", "/custom/market.db")
	t.Setenv("ETH_RPC_URL", "http://localhost:8545")
	t.Setenv("RPC_TIMEOUT", "3s")
	t.Setenv("DEFAULT_BALANCE", "250.5")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.ListenAddr)
	assert.Equal(t, "/custom/market.db", cfg.DBPath)
	assert.Equal(t, "http://localhost:8545", cfg.EthRPCURL)
	assert.Equal(t, 3*time.Second, cfg.RPCTimeout)
	assert.Equal(t, 250.5, cfg.DefaultBalance)
}

func TestLoadRejectsMalformedValues(t *testing.T) {
	t.Setenv("DEFAULT_BALANCE", "plenty")

	_, err := Load()
	assert.Error(t, err)
}
