package rates

import (
	"context"
	"strings"

	"github.com/hirokisan/bybit/v2"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/vadiminshakov/custodian/internal/domain"
)

// BybitResolver resolves rates from Bybit spot tickers. Bybit has no
// multi-symbol ticker endpoint, so it issues one request per symbol.
type BybitResolver struct {
	client *bybit.Client
}

// NewBybitResolver creates a resolver backed by the given client.
func NewBybitResolver(client *bybit.Client) *BybitResolver {
	return &BybitResolver{client: client}
}

// Resolve fetches last prices for every requested symbol against USDT.
// The quote asset itself is pegged at 1. Symbols Bybit does not quote are
// absent from the table; adapters needing them fail on their own.
func (r *BybitResolver) Resolve(ctx context.Context, symbols []string) (domain.RateTable, error) {
	table := make(domain.RateTable, len(symbols))

	for _, symbol := range symbols {
		if symbol == quoteAsset {
			table[symbol] = decimal.NewFromInt(1)
			continue
		}

		pair := bybit.SymbolV5(strings.ToUpper(symbol) + quoteAsset)
		result, err := r.client.V5().Market().GetTickers(bybit.V5GetTickersParam{
			Category: "spot",
			Symbol:   &pair,
		})
		if err != nil {
			// an unlisted pair comes back as a non-zero retCode, which must
			// not fail the other symbols; transport failures still do
			var apiErr *bybit.ErrorResponse
			if errors.As(err, &apiErr) {
				continue
			}
			return nil, errors.Wrapf(err, "bybit tickers for %s", pair)
		}
		if result.Result.Spot == nil || len(result.Result.Spot.List) == 0 {
			continue
		}

		rate, err := decimal.NewFromString(result.Result.Spot.List[0].LastPrice)
		if err != nil {
			return nil, errors.Wrapf(err, "parse bybit price for %s", pair)
		}
		table[symbol] = rate
	}

	return table, nil
}
