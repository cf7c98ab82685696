package balance

import (
	"context"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/vadiminshakov/custodian/internal/domain"
	"github.com/vadiminshakov/custodian/internal/services/batch"
)

var ether = new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)

func etherAmount(whole int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(whole), ether)
}

func TestETHFetch_SweepableFigures(t *testing.T) {
	node := &fakeEVM{
		balance:  etherAmount(5),
		gasPrice: big.NewInt(20),
	}
	transport := &fixedTransport{outcomes: []batch.Outcome{
		quantityResult(etherAmount(1)),
		quantityResult(etherAmount(2)),
		quantityResult(big.NewInt(0)),
	}}
	ledger := &fakeLedger{addresses: []string{"0xaa", "0xbb", "0xcc"}}

	adapter := NewETHAdapter(node, batch.New(transport, nil), ledger, common.HexToAddress("0x01"), 21000)
	report, err := adapter.Fetch(context.Background(), ratesOf(map[string]string{"ETH": "2000"}))

	require.NoError(t, err)
	require.Equal(t, domain.ShapeSweepable, report.Shape)
	require.True(t, report.Confirmed.Tokens.Equal(decimal.NewFromInt(5)))
	require.True(t, report.Confirmed.USD.Equal(decimal.NewFromInt(10000)))

	require.NotNil(t, report.Pending)
	require.True(t, report.Pending.Tokens.Equal(decimal.NewFromInt(3)))
	require.True(t, report.Pending.USD.Equal(decimal.NewFromInt(6000)))

	// 3 transfers at 21000 gas and price 20 wei burn 1260000 wei
	require.NotNil(t, report.PoolingFees)
	require.True(t, report.PoolingFees.Tokens.Equal(weiToEther(big.NewInt(1260000))))
}

func TestETHFetch_DroppedBatchEntriesShrinkPending(t *testing.T) {
	node := &fakeEVM{
		balance:  etherAmount(1),
		gasPrice: big.NewInt(1),
	}
	transport := &fixedTransport{outcomes: []batch.Outcome{
		quantityResult(etherAmount(2)),
		{Err: errors.New("node dropped the entry")},
	}}
	ledger := &fakeLedger{addresses: []string{"0xaa", "0xbb"}}

	adapter := NewETHAdapter(node, batch.New(transport, nil), ledger, common.HexToAddress("0x01"), 21000)
	report, err := adapter.Fetch(context.Background(), ratesOf(map[string]string{"ETH": "100"}))

	require.NoError(t, err)
	require.True(t, report.Pending.Tokens.Equal(decimal.NewFromInt(2)))
	// the fee still covers both addresses: the sweep has to visit them anyway
	require.True(t, report.PoolingFees.Tokens.Equal(weiToEther(big.NewInt(42000))))
}

func TestETHFetch_MissingRateFails(t *testing.T) {
	adapter := NewETHAdapter(&fakeEVM{}, batch.New(&fixedTransport{}, nil), &fakeLedger{}, common.Address{}, 21000)

	_, err := adapter.Fetch(context.Background(), domain.RateTable{})

	require.Error(t, err)
}

func TestETHFetch_LedgerFailureFails(t *testing.T) {
	node := &fakeEVM{balance: etherAmount(1), gasPrice: big.NewInt(1)}
	ledger := &fakeLedger{err: errors.New("ledger unavailable")}

	adapter := NewETHAdapter(node, batch.New(&fixedTransport{}, nil), ledger, common.Address{}, 21000)
	_, err := adapter.Fetch(context.Background(), ratesOf(map[string]string{"ETH": "100"}))

	require.Error(t, err)
	require.Contains(t, err.Error(), "ledger unavailable")
}
