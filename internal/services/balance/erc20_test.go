package balance

import (
	"context"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/vadiminshakov/custodian/internal/domain"
	"github.com/vadiminshakov/custodian/internal/services/batch"
)

func newUSDCAdapter(node *fakeEVM, transport *fixedTransport, ledger *fakeLedger) *TokenAdapter {
	return NewTokenAdapter(
		domain.AssetUSDC, node, batch.New(transport, nil), ledger,
		common.HexToAddress("0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48"),
		common.HexToAddress("0x01"), 6, 65000)
}

func TestTokenFetch_DecodesContractPrecision(t *testing.T) {
	node := &fakeEVM{
		// balanceOf answers a raw uint256: 2500000 at 6 decimals is 2.5
		contractData: common.LeftPadBytes(big.NewInt(2_500_000).Bytes(), 32),
		gasPrice:     big.NewInt(1),
	}
	transport := &fixedTransport{outcomes: []batch.Outcome{
		callResult(big.NewInt(1_500_000)),
	}}
	ledger := &fakeLedger{addresses: []string{"0xdd"}}

	adapter := newUSDCAdapter(node, transport, ledger)
	report, err := adapter.Fetch(context.Background(), ratesOf(map[string]string{"USDC": "1", "ETH": "2000"}))

	require.NoError(t, err)
	require.Equal(t, domain.ShapeSweepable, report.Shape)
	require.True(t, report.Confirmed.Tokens.Equal(decimal.RequireFromString("2.5")))
	require.True(t, report.Pending.Tokens.Equal(decimal.RequireFromString("1.5")))
}

func TestTokenFetch_SweepCostValuedAtNativeRate(t *testing.T) {
	// 100 gwei * 65000 gas for one address burns 0.0065 ether
	gasPrice := new(big.Int).Mul(big.NewInt(100), big.NewInt(1_000_000_000))
	node := &fakeEVM{
		contractData: common.LeftPadBytes(big.NewInt(0).Bytes(), 32),
		gasPrice:     gasPrice,
	}
	transport := &fixedTransport{outcomes: []batch.Outcome{
		callResult(big.NewInt(0)),
	}}
	ledger := &fakeLedger{addresses: []string{"0xdd"}}

	adapter := newUSDCAdapter(node, transport, ledger)
	report, err := adapter.Fetch(context.Background(), ratesOf(map[string]string{"USDC": "1", "ETH": "2000"}))

	require.NoError(t, err)
	require.True(t, report.PoolingFees.Tokens.Equal(decimal.RequireFromString("0.0065")))
	// 0.0065 ether at the ETH rate is $13; at the token rate it would floor to 0
	require.True(t, report.PoolingFees.USD.Equal(decimal.NewFromInt(13)))
}

func TestTokenFetch_RequiresNativeRate(t *testing.T) {
	adapter := newUSDCAdapter(&fakeEVM{}, &fixedTransport{}, &fakeLedger{})

	_, err := adapter.Fetch(context.Background(), ratesOf(map[string]string{"USDC": "1"}))

	require.Error(t, err)
	require.Contains(t, err.Error(), "ETH")
}
