// Command earmark runs the balance reservation engine of the trading system.
// It seeds per-strategy allocations into the available-balance ledger,
// exposes the reservation manager to strategies and the order pipeline, and
// journals every reservation transition.
//
// Usage:
//
//	earmark --config config.yaml
//
// Required environment variables per configured platform:
//
//	Binance: BINANCE_API_KEY, BINANCE_API_SECRET
//	Bybit: BYBIT_API_KEY, BYBIT_API_SECRET
//	Hyperliquid: HYPERLIQUID_PRIVATE_KEY (optional HYPERLIQUID_BASE_URL)
package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/dskrobo/earmark/config"
	"github.com/dskrobo/earmark/internal/app"
)

func main() {
	cfg, err := config.Get()
	if err != nil {
		log.Fatal(err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	engine, err := app.NewEngine(cfg, logger)
	if err != nil {
		logger.Fatal("failed to build engine", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := engine.Run(ctx); err != nil && err != context.Canceled {
		logger.Fatal("engine stopped", zap.Error(err))
	}
}
