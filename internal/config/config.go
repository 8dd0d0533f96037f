package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all configurable parameters, sourced from environment
// variables (loaded from .env for local runs).
type Config struct {
	ListenAddr string `envconfig:"LISTEN_ADDR" default:":3001"`
	DBPath     string `envconfig:"DB_PATH" default:"/data/chainmart.db"`

	// Read-only chain RPC endpoint used to seed wallet balances.
	EthRPCURL  string        `envconfig:"ETH_RPC_URL" default:"https://eth-sepolia.public.blastapi.io"`
	RPCTimeout time.Duration `envconfig:"RPC_TIMEOUT" default:"10s"`

	// Starting balance for wallets whose chain lookup fails.
	DefaultBalance float64 `envconfig:"DEFAULT_BALANCE" default:"100.00"`

	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	LogFile  string `envconfig:"LOG_FILE"`
}

// Load reads .env if present and binds the environment to a Config.
func Load() (*Config, error) {
	// Ignore a missing .env; deployments configure the environment directly.
	_ = godotenv.Load(".env")

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment config: %w", err)
	}
	return &cfg, nil
}
