// Package config loads engine configuration from the environment.
package config

import (
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// BSC mainnet defaults. Overridable for forks and testnets.
const (
	DefaultRouterV2  = "0x10ED43C718714eb63d5aA57B78B54704E256024E"
	DefaultFactoryV2 = "0xcA143Ce32Fe78f1f7019d7d551a6402fC5350c73"
	DefaultWBNB      = "0xbb4CdB9CBd36B01bD1cBaeBF2De08d9173bc095c"
)

type Config struct {
	// Chain access
	BSCRPCURL       string `env:"BSC_RPC_URL" envDefault:"https://bsc-dataseed.binance.org"`
	BSCRPCURLBackup string `env:"BSC_RPC_URL_BACKUP" envDefault:"https://bsc-dataseed1.defibit.io"`
	RouterAddress   string `env:"PANCAKESWAP_ROUTER_V2"`
	FactoryAddress  string `env:"PANCAKESWAP_FACTORY_V2"`
	WBNBAddress     string `env:"WBNB_ADDRESS"`

	// Explorer
	BscScanAPIKey string `env:"BSCSCAN_API_KEY"`

	// Trade simulation notionals, in BNB.
	TestAmountsBNB []float64 `env:"TEST_AMOUNTS_BNB" envDefault:"0.001,0.01,0.1"`

	// RPC retry policy
	RPCRetries int           `env:"RPC_RETRIES" envDefault:"3"`
	RPCTimeout time.Duration `env:"RPC_TIMEOUT" envDefault:"10s"`

	// Metadata cache
	RedisAddr        string        `env:"REDIS_ADDR"`
	MetadataCacheTTL time.Duration `env:"METADATA_CACHE_TTL" envDefault:"5m"`

	// Surfaces
	ListenAddr  string `env:"LISTEN_ADDR" envDefault:":8080"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	LogEncoding string `env:"LOG_ENCODING" envDefault:"json"`
}

// Load reads .env if present, then parses the environment. Address defaults
// are applied here so the zero Config stays inert in tests.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	if cfg.RouterAddress == "" {
		cfg.RouterAddress = DefaultRouterV2
	}
	if cfg.FactoryAddress == "" {
		cfg.FactoryAddress = DefaultFactoryV2
	}
	if cfg.WBNBAddress == "" {
		cfg.WBNBAddress = DefaultWBNB
	}

	return cfg, nil
}
