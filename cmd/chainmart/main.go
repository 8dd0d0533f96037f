package main

import (
	"context"
	"log"

	"github.com/chainmart/chainmart/internal/chain/ethrpc"
	"github.com/chainmart/chainmart/internal/config"
	"github.com/chainmart/chainmart/internal/db"
	"github.com/chainmart/chainmart/internal/logging"
	"github.com/chainmart/chainmart/internal/service"
	"github.com/chainmart/chainmart/internal/store"
	"github.com/chainmart/chainmart/internal/web"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, cleanup, err := logging.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer cleanup()

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		return
	}
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()

	itemStore := store.NewItemStore(database)
	walletStore := store.NewWalletStore(database)
	settlementStore := store.NewSettlementStore(database)

	chainClient := ethrpc.NewClient(cfg.EthRPCURL, cfg.RPCTimeout)

	marketService := service.NewMarketService(
		itemStore, walletStore, settlementStore,
		chainClient, cfg.DefaultBalance, logger,
	)

	if err := marketService.SeedDemoCatalog(context.Background()); err != nil {
		logger.Error("failed to seed catalog", "error", err)
		return
	}

	server := web.NewServer(marketService, logger)
	if err := server.ListenAndServe(cfg.ListenAddr); err != nil {
		logger.Error("server error", "error", err)
	}
}
