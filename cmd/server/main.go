package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/inertlabs/tokenguard/internal/cache"
	"github.com/inertlabs/tokenguard/internal/chain"
	"github.com/inertlabs/tokenguard/internal/config"
	"github.com/inertlabs/tokenguard/internal/engine"
	"github.com/inertlabs/tokenguard/internal/honeypot"
	"github.com/inertlabs/tokenguard/internal/logging"
	"github.com/inertlabs/tokenguard/internal/metadata"
	"github.com/inertlabs/tokenguard/internal/scoring"
	"github.com/inertlabs/tokenguard/internal/server"
	"github.com/inertlabs/tokenguard/internal/simulator"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "ERROR:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logging.New(cfg.LogLevel, cfg.LogEncoding)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer log.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	ec, err := chain.Dial(ctx, cfg.BSCRPCURL, cfg.BSCRPCURLBackup, log)
	if err != nil {
		return fmt.Errorf("connect to BSC: %w", err)
	}
	defer ec.Close()

	client := chain.NewClient(ec, chain.Options{
		Router:  common.HexToAddress(cfg.RouterAddress),
		Factory: common.HexToAddress(cfg.FactoryAddress),
		WBNB:    common.HexToAddress(cfg.WBNBAddress),
		Retries: cfg.RPCRetries,
	}, log)

	var store cache.Store = cache.NewMemoryStore()
	if cfg.RedisAddr != "" {
		store = cache.NewRedisStore(&redis.Options{Addr: cfg.RedisAddr})
		log.Info("using redis metadata cache", zap.String("addr", cfg.RedisAddr))
	}

	provider := metadata.NewProvider(client, metadata.NewBscScanClient(cfg.BscScanAPIKey), store, cfg.MetadataCacheTTL, log)
	sim := simulator.New(client, cfg.TestAmountsBNB, log)
	detector := honeypot.NewDetector(sim, client, log)
	scorer := scoring.New(log)
	eng := engine.New(provider, detector, scorer, log)

	router := server.NewRouter(&server.Handler{Engine: eng, Log: log})
	log.Info("token risk API listening", zap.String("addr", cfg.ListenAddr))
	return router.Run(cfg.ListenAddr)
}
