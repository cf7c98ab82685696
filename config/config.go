// Package config loads and validates the monitor configuration.
package config

import (
	"flag"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/vadiminshakov/custodian/internal/domain"
)

// Config is the validated runtime configuration.
type Config struct {
	Platform        string
	AlertInterval   time.Duration
	HistoryInterval time.Duration
	RequestTimeout  time.Duration
	SnapshotDir     string
	LedgerURL       string
	ExplorerURL     string
	UTXOWallets     map[domain.AssetKey]UTXOWallet
	EVM             EVMConfig
	Tokens          []TokenConfig
	Tron            TronConfig
	Ripple          RippleConfig
	Telegram        TelegramConfig
	Floors          map[domain.AssetKey]decimal.Decimal
}

// UTXOWallet is one bitcoin-style hot wallet.
type UTXOWallet struct {
	Network string
	Address string
}

// EVMConfig describes the Ethereum node connection and gas assumptions.
type EVMConfig struct {
	NodeURL          string
	Primary          string
	TransferGasLimit uint64
	TokenGasLimit    uint64
}

// TokenConfig describes one monitored ERC-20 token.
type TokenConfig struct {
	Asset    domain.AssetKey
	Contract string
	Decimals int32
}

// TronConfig describes the Tron node and wallets.
type TronConfig struct {
	NodeURL      string
	Primary      string
	Pooling      string
	BandwidthFee decimal.Decimal
}

// RippleConfig describes the rippled endpoint and wallet.
type RippleConfig struct {
	NodeURL string
	Primary string
}

// TelegramConfig describes the alert channel. The bot token comes from the
// TELEGRAM_BOT_TOKEN environment variable when left empty here.
type TelegramConfig struct {
	Token  string
	ChatID string
}

type ConfigTmp struct {
	Platform        string            `yaml:"platform"`
	AlertInterval   string            `yaml:"alert_interval,omitempty"`
	HistoryInterval string            `yaml:"history_interval,omitempty"`
	RequestTimeout  string            `yaml:"request_timeout,omitempty"`
	SnapshotDir     string            `yaml:"snapshot_dir"`
	LedgerURL       string            `yaml:"ledger_url"`
	ExplorerURL     string            `yaml:"explorer_url"`
	UTXOWallets     []UTXOWalletTmp   `yaml:"utxo_wallets"`
	EVM             EVMTmp            `yaml:"evm"`
	Tokens          []TokenTmp        `yaml:"tokens"`
	Tron            TronTmp           `yaml:"tron"`
	Ripple          RippleTmp         `yaml:"ripple"`
	Telegram        TelegramTmp       `yaml:"telegram"`
	Floors          map[string]string `yaml:"floors"`
}

type UTXOWalletTmp struct {
	Asset   string `yaml:"asset"`
	Network string `yaml:"network"`
	Address string `yaml:"address"`
}

type EVMTmp struct {
	NodeURL          string `yaml:"node_url"`
	Primary          string `yaml:"primary"`
	TransferGasLimit uint64 `yaml:"transfer_gas_limit,omitempty"`
	TokenGasLimit    uint64 `yaml:"token_gas_limit,omitempty"`
}

type TokenTmp struct {
	Asset    string `yaml:"asset"`
	Contract string `yaml:"contract"`
	Decimals int32  `yaml:"decimals"`
}

type TronTmp struct {
	NodeURL      string `yaml:"node_url"`
	Primary      string `yaml:"primary"`
	Pooling      string `yaml:"pooling"`
	BandwidthFee string `yaml:"bandwidth_fee,omitempty"`
}

type RippleTmp struct {
	NodeURL string `yaml:"node_url"`
	Primary string `yaml:"primary"`
}

type TelegramTmp struct {
	Token  string `yaml:"token,omitempty"`
	ChatID string `yaml:"chat_id,omitempty"`
}

// newDefaults returns a fresh defaults value on every call so one caller's
// mutation can never leak into another's.
func newDefaults() Config {
	return Config{
		Platform:        "binance",
		AlertInterval:   5 * time.Minute,
		HistoryInterval: time.Hour,
		RequestTimeout:  15 * time.Second,
		SnapshotDir:     "./wal/snapshots",
		EVM: EVMConfig{
			TransferGasLimit: 21000,
			TokenGasLimit:    65000,
		},
		Tron: TronConfig{
			BandwidthFee: decimal.RequireFromString("0.268"),
		},
		UTXOWallets: make(map[domain.AssetKey]UTXOWallet),
		Floors:      make(map[domain.AssetKey]decimal.Decimal),
	}
}

// Get parses command line flags and loads the YAML config. The second return
// value reports whether the setup wizard was requested.
func Get() (*Config, bool, error) {
	path := flag.String("config", "config.yaml", "path to yaml config")
	setup := flag.Bool("setup", false, "run the interactive configuration wizard")
	flag.Parse()

	if *setup {
		return nil, true, nil
	}

	cfg, err := Load(*path)
	return cfg, false, err
}

// Load reads and validates the config at path.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read config %s", path)
	}

	var tmp ConfigTmp
	if err := yaml.Unmarshal(raw, &tmp); err != nil {
		return nil, errors.Wrap(err, "unmarshal config")
	}

	cfg := newDefaults()

	if tmp.Platform != "" {
		cfg.Platform = tmp.Platform
	}
	if cfg.Platform != "binance" && cfg.Platform != "bybit" {
		return nil, errors.Errorf("unsupported platform: %s", cfg.Platform)
	}
	if tmp.AlertInterval != "" {
		cfg.AlertInterval, err = time.ParseDuration(tmp.AlertInterval)
		if err != nil {
			return nil, errors.Wrap(err, "incorrect 'alert_interval' param in yaml config")
		}
	}
	if tmp.HistoryInterval != "" {
		cfg.HistoryInterval, err = time.ParseDuration(tmp.HistoryInterval)
		if err != nil {
			return nil, errors.Wrap(err, "incorrect 'history_interval' param in yaml config")
		}
	}
	if tmp.RequestTimeout != "" {
		cfg.RequestTimeout, err = time.ParseDuration(tmp.RequestTimeout)
		if err != nil {
			return nil, errors.Wrap(err, "incorrect 'request_timeout' param in yaml config")
		}
	}
	if tmp.SnapshotDir != "" {
		cfg.SnapshotDir = tmp.SnapshotDir
	}

	cfg.LedgerURL = tmp.LedgerURL
	cfg.ExplorerURL = tmp.ExplorerURL

	for _, w := range tmp.UTXOWallets {
		asset, err := domain.ParseAssetKey(w.Asset)
		if err != nil {
			return nil, errors.Wrap(err, "utxo_wallets")
		}
		cfg.UTXOWallets[asset] = UTXOWallet{Network: w.Network, Address: w.Address}
	}

	cfg.EVM.NodeURL = tmp.EVM.NodeURL
	cfg.EVM.Primary = tmp.EVM.Primary
	if tmp.EVM.TransferGasLimit > 0 {
		cfg.EVM.TransferGasLimit = tmp.EVM.TransferGasLimit
	}
	if tmp.EVM.TokenGasLimit > 0 {
		cfg.EVM.TokenGasLimit = tmp.EVM.TokenGasLimit
	}

	for _, t := range tmp.Tokens {
		asset, err := domain.ParseAssetKey(t.Asset)
		if err != nil {
			return nil, errors.Wrap(err, "tokens")
		}
		if t.Decimals <= 0 {
			return nil, errors.Errorf("token %s: decimals must be positive", t.Asset)
		}
		cfg.Tokens = append(cfg.Tokens, TokenConfig{Asset: asset, Contract: t.Contract, Decimals: t.Decimals})
	}

	cfg.Tron.NodeURL = tmp.Tron.NodeURL
	cfg.Tron.Primary = tmp.Tron.Primary
	cfg.Tron.Pooling = tmp.Tron.Pooling
	if tmp.Tron.BandwidthFee != "" {
		fee, err := decimal.NewFromString(tmp.Tron.BandwidthFee)
		if err != nil {
			return nil, errors.Wrap(err, "incorrect 'bandwidth_fee' param in yaml config")
		}
		cfg.Tron.BandwidthFee = fee
	}

	// sweepable chains read unpooled deposit addresses from the ledger, so a
	// missing ledger endpoint must fail here instead of on every cycle
	if (cfg.EVM.NodeURL != "" || cfg.Tron.NodeURL != "") && cfg.LedgerURL == "" {
		return nil, errors.New("ledger_url is required when evm or tron is configured")
	}

	cfg.Ripple.NodeURL = tmp.Ripple.NodeURL
	cfg.Ripple.Primary = tmp.Ripple.Primary

	cfg.Telegram.Token = tmp.Telegram.Token
	if cfg.Telegram.Token == "" {
		cfg.Telegram.Token = os.Getenv("TELEGRAM_BOT_TOKEN")
	}
	cfg.Telegram.ChatID = tmp.Telegram.ChatID

	for rawKey, rawFloor := range tmp.Floors {
		asset, err := domain.ParseAssetKey(rawKey)
		if err != nil {
			return nil, errors.Wrap(err, "floors")
		}
		floor, err := decimal.NewFromString(rawFloor)
		if err != nil {
			return nil, errors.Wrapf(err, "incorrect floor for %s in yaml config", rawKey)
		}
		if floor.IsNegative() {
			return nil, errors.Errorf("floor for %s must not be negative", rawKey)
		}
		cfg.Floors[asset] = floor
	}

	return &cfg, nil
}
