package internal

import (
	"context"
	"fmt"
	"os"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/vadiminshakov/custodian/config"
	"github.com/vadiminshakov/custodian/internal/clients"
	"github.com/vadiminshakov/custodian/internal/services/alert"
	"github.com/vadiminshakov/custodian/internal/services/balance"
	"github.com/vadiminshakov/custodian/internal/services/batch"
	"github.com/vadiminshakov/custodian/internal/services/rates"
)

// newRateResolver dispatches to the configured market data platform. This is
// the single point of truth for platform-specific rate sources.
func newRateResolver(cfg *config.Config) (rates.Resolver, error) {
	switch cfg.Platform {
	case "binance":
		client := clients.NewBinanceClient(os.Getenv("BINANCE_API_KEY"), os.Getenv("BINANCE_API_SECRET"))
		return rates.NewBinanceResolver(client), nil
	case "bybit":
		return rates.NewBybitResolver(clients.NewBybitClient()), nil
	default:
		return nil, fmt.Errorf("unsupported platform: %s", cfg.Platform)
	}
}

// newNotifier picks the alert channel: Telegram when configured, the log
// otherwise.
func newNotifier(cfg *config.Config, logger *zap.Logger) alert.Notifier {
	if cfg.Telegram.Token != "" && cfg.Telegram.ChatID != "" {
		return alert.NewTelegramNotifier(cfg.Telegram.Token, cfg.Telegram.ChatID, cfg.RequestTimeout)
	}
	return alert.NewLogNotifier(logger)
}

// buildAdapters constructs one balance adapter per configured asset. Chains
// without configuration are simply not monitored.
func buildAdapters(ctx context.Context, cfg *config.Config, logger *zap.Logger) ([]balance.Adapter, func(), error) {
	var (
		adapters []balance.Adapter
		cleanup  = func() {}
	)

	if cfg.ExplorerURL != "" {
		explorer := clients.NewExplorerClient(cfg.ExplorerURL, cfg.RequestTimeout)
		for asset, wallet := range cfg.UTXOWallets {
			adapters = append(adapters, balance.NewUTXOAdapter(asset, wallet.Network, wallet.Address, explorer))
		}
	}

	ledger := clients.NewLedgerClient(cfg.LedgerURL, cfg.RequestTimeout)

	if cfg.EVM.NodeURL != "" {
		evm, err := clients.NewEVMClient(ctx, cfg.EVM.NodeURL, cfg.RequestTimeout)
		if err != nil {
			return nil, nil, err
		}
		cleanup = evm.Close

		primary := common.HexToAddress(cfg.EVM.Primary)
		adapters = append(adapters, balance.NewETHAdapter(
			evm, batch.New(evm, logger), ledger, primary, cfg.EVM.TransferGasLimit))

		for _, token := range cfg.Tokens {
			adapters = append(adapters, balance.NewTokenAdapter(
				token.Asset, evm, batch.New(evm, logger), ledger,
				common.HexToAddress(token.Contract), primary,
				token.Decimals, cfg.EVM.TokenGasLimit))
		}
	}

	if cfg.Tron.NodeURL != "" {
		tron := clients.NewTronClient(cfg.Tron.NodeURL, cfg.RequestTimeout)
		adapters = append(adapters, balance.NewTronAdapter(
			tron, ledger, cfg.Tron.Primary, cfg.Tron.Pooling, cfg.Tron.BandwidthFee))
	}

	if cfg.Ripple.NodeURL != "" {
		ripple := clients.NewRippleClient(cfg.Ripple.NodeURL, cfg.RequestTimeout)
		adapters = append(adapters, balance.NewRippleAdapter(ripple, cfg.Ripple.Primary))
	}

	return adapters, cleanup, nil
}
