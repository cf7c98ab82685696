package domain

import (
	"github.com/shopspring/decimal"
)

// BalanceFigure is one balance expressed both in asset units and in fiat.
type BalanceFigure struct {
	Tokens decimal.Decimal `json:"tokens"`
	USD    decimal.Decimal `json:"usd"`
}

// NewBalanceFigure converts a token amount to a display-stable figure.
// The fiat side is truncated toward zero so two figures computed from the
// same rate snapshot always compare consistently.
func NewBalanceFigure(tokens, rate decimal.Decimal) BalanceFigure {
	return BalanceFigure{
		Tokens: tokens,
		USD:    tokens.Mul(rate).Floor(),
	}
}

// AssetBalanceReport holds one asset's figures for a single cycle.
// Pending and PoolingFees are nil exactly when the shape omits them.
type AssetBalanceReport struct {
	Shape       ReportShape    `json:"shape"`
	Confirmed   BalanceFigure  `json:"confirmed"`
	Pending     *BalanceFigure `json:"pending,omitempty"`
	PoolingFees *BalanceFigure `json:"pooling_fees,omitempty"`
}

// LiquidUSD is the fiat value used for low balance alerting: confirmed plus
// pending funds, since unpooled deposits still belong to the treasury.
func (r *AssetBalanceReport) LiquidUSD() decimal.Decimal {
	liquid := r.Confirmed.USD
	if r.Shape.HasPending() && r.Pending != nil {
		liquid = liquid.Add(r.Pending.USD)
	}
	return liquid
}

// TreasuryReport maps every monitored asset to its figures for one cycle.
// A nil entry means that asset's fetch failed; the rest of the report is
// still valid and actionable.
type TreasuryReport map[AssetKey]*AssetBalanceReport

// RateTable is the fiat rate snapshot for one cycle, keyed by ticker symbol.
// It is resolved once before any adapter runs and held fixed for the cycle.
type RateTable map[string]decimal.Decimal

// Rate returns the rate for the asset's ticker symbol.
func (t RateTable) Rate(k AssetKey) (decimal.Decimal, bool) {
	r, ok := t[k.Symbol()]
	return r, ok
}
