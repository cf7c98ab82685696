package setup

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/vadiminshakov/custodian/config"
)

var (
	subtle    = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#383838"}
	highlight = lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"}
	special   = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Background(highlight).
			Padding(1, 2).
			Bold(true).
			MarginBottom(1)

	stepStyle = lipgloss.NewStyle().
			Foreground(special).
			Bold(true).
			MarginTop(1).
			MarginBottom(0)
)

// RunTUI launches the terminal configuration wizard and writes the result to
// config.gen.yaml.
func RunTUI() error {
	var (
		platform           string
		alertIntervalStr   string
		historyIntervalStr string
		explorerURL        string
		ledgerURL          string
		evmNodeURL         string
		evmPrimary         string
		tronNodeURL        string
		tronPrimary        string
		tronPooling        string
		rippleNodeURL      string
		ripplePrimary      string
		btcAddress         string
		telegramChatID     string
		btcFloorStr        string
		ethFloorStr        string
		confirm            bool
	)

	// defaults
	alertIntervalStr = "5m"
	historyIntervalStr = "1h"
	btcFloorStr = "10000"
	ethFloorStr = "5000"

	// step 1: welcome + platform
	fmt.Print("\033[H\033[2J") // Clear screen
	fmt.Println(headerStyle.Render("CUSTODIAN CONFIG WIZARD"))
	fmt.Println(lipgloss.NewStyle().Foreground(subtle).Render("Let's get your treasury watched.\n"))

	fmt.Println(stepStyle.Render("STEP 1: RATE SOURCE"))
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Select market data platform for fiat rates").
				Options(
					huh.NewOption("Binance", "binance"),
					huh.NewOption("Bybit", "bybit"),
				).
				Value(&platform),
		),
	).Run()
	if err != nil {
		return err
	}

	// step 2: timing
	fmt.Print("\033[H\033[2J")
	fmt.Println(headerStyle.Render("CUSTODIAN CONFIG WIZARD"))
	fmt.Println(stepStyle.Render("STEP 2: TIMING"))
	err = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Alert Check Interval").
				Description("Duration string (e.g. 1m, 5m)").
				Value(&alertIntervalStr).
				Validate(validateDuration),
			huh.NewInput().
				Title("History Snapshot Interval").
				Description("Duration string (e.g. 30m, 1h)").
				Value(&historyIntervalStr).
				Validate(validateDuration),
		),
	).Run()
	if err != nil {
		return err
	}

	// step 3: data sources
	fmt.Print("\033[H\033[2J")
	fmt.Println(headerStyle.Render("CUSTODIAN CONFIG WIZARD"))
	fmt.Println(stepStyle.Render("STEP 3: DATA SOURCES"))
	err = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("UTXO Explorer URL").
				Description("sochain-compatible API base (leave empty to skip BTC/LTC/DOGE)").
				Value(&explorerURL),
			huh.NewInput().
				Title("Deposit Address Ledger URL").
				Value(&ledgerURL),
			huh.NewInput().
				Title("Ethereum Node URL").
				Description("leave empty to skip ETH and tokens").
				Value(&evmNodeURL),
			huh.NewInput().
				Title("Tron Node URL").
				Description("leave empty to skip TRX").
				Value(&tronNodeURL),
			huh.NewInput().
				Title("Rippled URL").
				Description("leave empty to skip XRP").
				Value(&rippleNodeURL),
		),
	).Run()
	if err != nil {
		return err
	}

	// step 4: wallets
	fmt.Print("\033[H\033[2J")
	fmt.Println(headerStyle.Render("CUSTODIAN CONFIG WIZARD"))
	fmt.Println(stepStyle.Render("STEP 4: HOT WALLETS"))
	walletFields := []huh.Field{}
	if explorerURL != "" {
		walletFields = append(walletFields, huh.NewInput().
			Title("BTC Hot Wallet Address").
			Value(&btcAddress))
	}
	if evmNodeURL != "" {
		walletFields = append(walletFields, huh.NewInput().
			Title("Ethereum Hot Wallet Address").
			Value(&evmPrimary))
	}
	if tronNodeURL != "" {
		walletFields = append(walletFields,
			huh.NewInput().Title("Tron Hot Wallet Address").Value(&tronPrimary),
			huh.NewInput().Title("Tron Pooling Wallet Address").Value(&tronPooling))
	}
	if rippleNodeURL != "" {
		walletFields = append(walletFields, huh.NewInput().
			Title("Ripple Hot Wallet Address").
			Value(&ripplePrimary))
	}
	if len(walletFields) > 0 {
		if err := huh.NewForm(huh.NewGroup(walletFields...)).Run(); err != nil {
			return err
		}
	}

	// step 5: alerting
	fmt.Print("\033[H\033[2J")
	fmt.Println(headerStyle.Render("CUSTODIAN CONFIG WIZARD"))
	fmt.Println(stepStyle.Render("STEP 5: ALERTING"))
	err = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Telegram Chat ID").
				Description("leave empty to log alerts instead (token comes from TELEGRAM_BOT_TOKEN)").
				Value(&telegramChatID),
			huh.NewInput().
				Title("BTC Floor (USD)").
				Value(&btcFloorStr).
				Validate(validateFloor),
			huh.NewInput().
				Title("ETH Floor (USD)").
				Value(&ethFloorStr).
				Validate(validateFloor),
		),
	).Run()
	if err != nil {
		return err
	}

	// confirmation
	fmt.Print("\033[H\033[2J")
	fmt.Println(headerStyle.Render("CUSTODIAN CONFIG WIZARD"))
	fmt.Println(stepStyle.Render("FINAL CONFIRMATION"))

	summary := fmt.Sprintf(
		"Platform: %s\nAlert interval: %s\nHistory interval: %s\nEVM node: %s\nTron node: %s\nRippled: %s\n",
		platform, alertIntervalStr, historyIntervalStr, evmNodeURL, tronNodeURL, rippleNodeURL,
	)
	fmt.Println(lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(1).Render(summary))

	err = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Save Configuration?").
				Affirmative("Yes, save").
				Negative("No, exit").
				Value(&confirm),
		),
	).Run()
	if err != nil {
		return err
	}

	if !confirm {
		return fmt.Errorf("setup cancelled by user")
	}

	cfgTmp := config.ConfigTmp{
		Platform:        platform,
		AlertInterval:   alertIntervalStr,
		HistoryInterval: historyIntervalStr,
		ExplorerURL:     explorerURL,
		LedgerURL:       ledgerURL,
		Floors:          map[string]string{},
	}
	if explorerURL != "" && btcAddress != "" {
		cfgTmp.UTXOWallets = append(cfgTmp.UTXOWallets, config.UTXOWalletTmp{
			Asset:   "crypto",
			Network: "BTC",
			Address: btcAddress,
		})
	}
	if evmNodeURL != "" {
		cfgTmp.EVM = config.EVMTmp{NodeURL: evmNodeURL, Primary: evmPrimary}
	}
	if tronNodeURL != "" {
		cfgTmp.Tron = config.TronTmp{NodeURL: tronNodeURL, Primary: tronPrimary, Pooling: tronPooling}
	}
	if rippleNodeURL != "" {
		cfgTmp.Ripple = config.RippleTmp{NodeURL: rippleNodeURL, Primary: ripplePrimary}
	}
	if telegramChatID != "" {
		cfgTmp.Telegram = config.TelegramTmp{ChatID: telegramChatID}
	}
	if btcFloorStr != "" {
		cfgTmp.Floors["crypto"] = btcFloorStr
	}
	if ethFloorStr != "" {
		cfgTmp.Floors["eth"] = ethFloorStr
	}

	data, err := yaml.Marshal(cfgTmp)
	if err != nil {
		return fmt.Errorf("failed to generate yaml: %w", err)
	}

	filename := "config.gen.yaml"
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to save config file: %w", err)
	}

	fmt.Println(lipgloss.NewStyle().Foreground(special).Render(fmt.Sprintf("\n✓ Configuration saved to %s", filename)))
	time.Sleep(1500 * time.Millisecond) // small pause to read success message
	return nil
}

func validateDuration(s string) error {
	_, err := time.ParseDuration(s)
	return err
}

func validateFloor(s string) error {
	if s == "" {
		return nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return fmt.Errorf("must be a valid number")
	}
	if d.IsNegative() {
		return fmt.Errorf("must not be negative")
	}
	return nil
}
