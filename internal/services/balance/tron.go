package balance

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/vadiminshakov/custodian/internal/domain"
)

// tronFanOutLimit caps concurrent per-address requests against the node.
const tronFanOutLimit = 8

type accountReader interface {
	AccountBalance(ctx context.Context, address string) (decimal.Decimal, error)
}

// TronAdapter computes TRX figures. Tron nodes have no batching facility,
// so unpooled addresses are read with bounded concurrent requests instead.
// A separate pooling wallet holds funds mid-sweep and counts as pending.
type TronAdapter struct {
	node         accountReader
	ledger       AddressLedger
	primary      string
	pooling      string
	bandwidthFee decimal.Decimal
}

// NewTronAdapter creates the TRX adapter. bandwidthFee is the estimated TRX
// cost of one sweep transfer.
func NewTronAdapter(node accountReader, ledger AddressLedger, primary, pooling string, bandwidthFee decimal.Decimal) *TronAdapter {
	return &TronAdapter{
		node:         node,
		ledger:       ledger,
		primary:      primary,
		pooling:      pooling,
		bandwidthFee: bandwidthFee,
	}
}

func (a *TronAdapter) Asset() domain.AssetKey    { return domain.AssetTRX }
func (a *TronAdapter) Shape() domain.ReportShape { return domain.ShapeSweepable }

// Fetch reads the hot wallet, fans out over unpooled deposit addresses, adds
// the pooling wallet balance and estimates the sweep cost from the
// configured bandwidth fee.
func (a *TronAdapter) Fetch(ctx context.Context, rates domain.RateTable) (*domain.AssetBalanceReport, error) {
	rate, ok := rates.Rate(domain.AssetTRX)
	if !ok {
		return nil, errors.Errorf("no rate for %s", domain.AssetTRX.Symbol())
	}

	confirmedTokens, err := a.node.AccountBalance(ctx, a.primary)
	if err != nil {
		return nil, errors.Wrap(err, "confirmed balance")
	}

	addresses, err := a.ledger.ListUnpooled(ctx, domain.AssetTRX)
	if err != nil {
		return nil, errors.Wrap(err, "unpooled addresses")
	}

	var (
		mu            sync.Mutex
		pendingTokens = decimal.Zero
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(tronFanOutLimit)
	for _, address := range addresses {
		g.Go(func() error {
			tokens, err := a.node.AccountBalance(gctx, address)
			if err != nil {
				return errors.Wrapf(err, "balance of %s", address)
			}
			mu.Lock()
			pendingTokens = pendingTokens.Add(tokens)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, errors.Wrap(err, "unpooled balances")
	}

	poolingTokens, err := a.node.AccountBalance(ctx, a.pooling)
	if err != nil {
		return nil, errors.Wrap(err, "pooling wallet balance")
	}

	pending := domain.NewBalanceFigure(pendingTokens.Add(poolingTokens), rate)
	feeTokens := a.bandwidthFee.Mul(decimal.NewFromInt(int64(len(addresses))))
	fees := domain.NewBalanceFigure(feeTokens, rate)

	return &domain.AssetBalanceReport{
		Shape:       domain.ShapeSweepable,
		Confirmed:   domain.NewBalanceFigure(confirmedTokens, rate),
		Pending:     &pending,
		PoolingFees: &fees,
	}, nil
}
