// Package balance implements the per-chain balance adapters. Every adapter
// answers the same question for its asset: confirmed hot wallet balance,
// balance still sitting in unpooled deposit addresses, and the estimated
// on-chain cost to sweep those addresses, all valued with the cycle's rate
// snapshot.
package balance

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/vadiminshakov/custodian/internal/domain"
)

// Adapter computes one asset's figures for a cycle. A returned error means
// the asset is absent from the report this cycle; the error is a value, not
// a control flow mechanism the caller must guard chains of calls with.
type Adapter interface {
	Asset() domain.AssetKey
	Shape() domain.ReportShape
	Fetch(ctx context.Context, rates domain.RateTable) (*domain.AssetBalanceReport, error)
}

// AddressLedger lists deposit addresses that have not been swept into the
// hot wallet. The ledger is owned by the deposit pipeline and is strictly
// read-only from here.
type AddressLedger interface {
	ListUnpooled(ctx context.Context, asset domain.AssetKey) ([]string, error)
}

func sumBalances(values []decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}
