// Command custodian runs the treasury balance monitor. It polls every
// configured chain on a schedule, alerts when a wallet's fiat value drops
// below its floor and keeps periodic report snapshots for audit.
//
// Usage:
//
//	custodian --config config.yaml
//	custodian --setup (generates a config interactively)
//
// Optional environment variables:
//
//	BINANCE_API_KEY, BINANCE_API_SECRET (public rate endpoints work without them)
//	TELEGRAM_BOT_TOKEN
package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/vadiminshakov/custodian/config"
	"github.com/vadiminshakov/custodian/internal"
	"github.com/vadiminshakov/custodian/internal/setup"
)

func main() {
	cfg, runSetup, err := config.Get()
	if err != nil {
		log.Fatal(err)
	}

	if runSetup {
		if err := setup.RunTUI(); err != nil {
			log.Fatal(err)
		}
		return
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	monitor, cleanup, err := internal.NewMonitor(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to create monitor", zap.Error(err))
	}
	defer cleanup()

	if err := monitor.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal("monitor stopped", zap.Error(err))
	}
}
