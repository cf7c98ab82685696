package balance

import (
	"context"

	"github.com/pkg/errors"

	"github.com/vadiminshakov/custodian/internal/domain"
)

// RippleAdapter computes XRP figures. Ripple wallets are not swept, so the
// report carries the confirmed hot wallet balance only.
type RippleAdapter struct {
	node    accountReader
	address string
}

// NewRippleAdapter creates the XRP adapter for the given hot wallet address.
func NewRippleAdapter(node accountReader, address string) *RippleAdapter {
	return &RippleAdapter{
		node:    node,
		address: address,
	}
}

func (a *RippleAdapter) Asset() domain.AssetKey    { return domain.AssetXRP }
func (a *RippleAdapter) Shape() domain.ReportShape { return domain.ShapeSingle }

func (a *RippleAdapter) Fetch(ctx context.Context, rates domain.RateTable) (*domain.AssetBalanceReport, error) {
	rate, ok := rates.Rate(domain.AssetXRP)
	if !ok {
		return nil, errors.Errorf("no rate for %s", domain.AssetXRP.Symbol())
	}

	tokens, err := a.node.AccountBalance(ctx, a.address)
	if err != nil {
		return nil, errors.Wrap(err, "confirmed balance")
	}

	return &domain.AssetBalanceReport{
		Shape:     domain.ShapeSingle,
		Confirmed: domain.NewBalanceFigure(tokens, rate),
	}, nil
}
