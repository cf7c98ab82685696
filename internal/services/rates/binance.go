package rates

import (
	"context"
	"strings"

	"github.com/adshao/go-binance/v2"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/vadiminshakov/custodian/internal/domain"
)

// quoteAsset is the fiat proxy all rates are expressed in.
const quoteAsset = "USDT"

// BinanceResolver resolves rates from Binance spot tickers in one call.
type BinanceResolver struct {
	client *binance.Client
}

// NewBinanceResolver creates a resolver backed by the given client.
func NewBinanceResolver(client *binance.Client) *BinanceResolver {
	return &BinanceResolver{client: client}
}

// Resolve fetches last prices for every requested symbol against USDT.
// The quote asset itself is pegged at 1. Symbols Binance does not return a
// ticker for are absent from the table; adapters needing them fail on their
// own.
func (r *BinanceResolver) Resolve(ctx context.Context, symbols []string) (domain.RateTable, error) {
	table := make(domain.RateTable, len(symbols))

	pairs := make([]string, 0, len(symbols))
	pairToSymbol := make(map[string]string, len(symbols))
	for _, symbol := range symbols {
		if symbol == quoteAsset {
			table[symbol] = decimal.NewFromInt(1)
			continue
		}
		pair := strings.ToUpper(symbol) + quoteAsset
		pairs = append(pairs, pair)
		pairToSymbol[pair] = symbol
	}

	if len(pairs) == 0 {
		return table, nil
	}

	prices, err := r.client.NewListPricesService().Symbols(pairs).Do(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "binance list prices")
	}

	for _, price := range prices {
		symbol, ok := pairToSymbol[price.Symbol]
		if !ok {
			continue
		}
		rate, err := decimal.NewFromString(price.Price)
		if err != nil {
			return nil, errors.Wrapf(err, "parse binance price for %s", price.Symbol)
		}
		table[symbol] = rate
	}

	return table, nil
}
