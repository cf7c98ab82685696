package balance

import (
	"context"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/vadiminshakov/custodian/internal/domain"
)

type utxoExplorer interface {
	ConfirmedBalance(ctx context.Context, network, address string) (decimal.Decimal, error)
	PendingBalance(ctx context.Context, network, address string) (decimal.Decimal, error)
}

// UTXOAdapter covers the bitcoin-style assets (BTC, LTC, DOGE). The hot
// wallet already holds all funds for these chains, so there is nothing to
// sweep: the report carries confirmed and mempool-pending figures only.
type UTXOAdapter struct {
	asset    domain.AssetKey
	network  string
	address  string
	explorer utxoExplorer
}

// NewUTXOAdapter creates an adapter for one UTXO asset. network is the
// explorer's chain identifier (e.g. "BTC"), address the hot wallet.
func NewUTXOAdapter(asset domain.AssetKey, network, address string, explorer utxoExplorer) *UTXOAdapter {
	return &UTXOAdapter{
		asset:    asset,
		network:  network,
		address:  address,
		explorer: explorer,
	}
}

func (a *UTXOAdapter) Asset() domain.AssetKey    { return a.asset }
func (a *UTXOAdapter) Shape() domain.ReportShape { return domain.ShapePending }

// Fetch reads confirmed and unconfirmed balances in two explorer calls.
func (a *UTXOAdapter) Fetch(ctx context.Context, rates domain.RateTable) (*domain.AssetBalanceReport, error) {
	rate, ok := rates.Rate(a.asset)
	if !ok {
		return nil, errors.Errorf("no rate for %s", a.asset.Symbol())
	}

	confirmedTokens, err := a.explorer.ConfirmedBalance(ctx, a.network, a.address)
	if err != nil {
		return nil, errors.Wrap(err, "confirmed balance")
	}

	pendingTokens, err := a.explorer.PendingBalance(ctx, a.network, a.address)
	if err != nil {
		return nil, errors.Wrap(err, "pending balance")
	}

	pending := domain.NewBalanceFigure(pendingTokens, rate)
	return &domain.AssetBalanceReport{
		Shape:     domain.ShapePending,
		Confirmed: domain.NewBalanceFigure(confirmedTokens, rate),
		Pending:   &pending,
	}, nil
}
