package balance

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"

	"github.com/vadiminshakov/custodian/internal/domain"
	"github.com/vadiminshakov/custodian/internal/services/batch"
)

// ETHAdapter computes ether figures. Confirmed comes from a direct node
// query of the hot wallet; pending is the batched sum over every unpooled
// deposit address, fetched in one round trip.
type ETHAdapter struct {
	node             evmReader
	batcher          *batch.Batcher
	ledger           AddressLedger
	primary          common.Address
	transferGasLimit uint64
}

// NewETHAdapter creates the ether adapter. transferGasLimit is the gas a
// plain value transfer burns (21000 on mainnet).
func NewETHAdapter(node evmReader, batcher *batch.Batcher, ledger AddressLedger, primary common.Address, transferGasLimit uint64) *ETHAdapter {
	return &ETHAdapter{
		node:             node,
		batcher:          batcher,
		ledger:           ledger,
		primary:          primary,
		transferGasLimit: transferGasLimit,
	}
}

func (a *ETHAdapter) Asset() domain.AssetKey    { return domain.AssetETH }
func (a *ETHAdapter) Shape() domain.ReportShape { return domain.ShapeSweepable }

// Fetch reads the hot wallet balance, batches per-address balance reads for
// every unpooled deposit address, and estimates the sweep cost at the
// current gas price.
func (a *ETHAdapter) Fetch(ctx context.Context, rates domain.RateTable) (*domain.AssetBalanceReport, error) {
	rate, ok := rates.Rate(domain.AssetETH)
	if !ok {
		return nil, errors.Errorf("no rate for %s", domain.AssetETH.Symbol())
	}

	wei, err := a.node.BalanceAt(ctx, a.primary, nil)
	if err != nil {
		return nil, errors.Wrap(err, "confirmed balance")
	}

	addresses, err := a.ledger.ListUnpooled(ctx, domain.AssetETH)
	if err != nil {
		return nil, errors.Wrap(err, "unpooled addresses")
	}

	requests := make([]batch.Request, 0, len(addresses))
	for _, address := range addresses {
		requests = append(requests, batch.Request{
			Call:   batch.Call{Method: "eth_getBalance", Params: []any{address, "latest"}},
			Decode: decodeWeiBalance,
		})
	}

	balances, err := a.batcher.Do(ctx, requests)
	if err != nil {
		return nil, errors.Wrap(err, "batched pending balances")
	}

	gasPrice, err := a.node.SuggestGasPrice(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "gas price")
	}

	pending := domain.NewBalanceFigure(sumBalances(balances), rate)
	fees := domain.NewBalanceFigure(sweepFee(gasPrice, a.transferGasLimit, len(addresses)), rate)

	return &domain.AssetBalanceReport{
		Shape:       domain.ShapeSweepable,
		Confirmed:   domain.NewBalanceFigure(weiToEther(wei), rate),
		Pending:     &pending,
		PoolingFees: &fees,
	}, nil
}
