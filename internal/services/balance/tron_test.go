package balance

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/vadiminshakov/custodian/internal/domain"
)

func TestTronFetch_PoolingWalletCountsAsPending(t *testing.T) {
	node := &fakeAccounts{balances: map[string]decimal.Decimal{
		"Tprimary": decimal.NewFromInt(100),
		"Tpooling": decimal.NewFromInt(7),
		"Tdep1":    decimal.NewFromInt(1),
		"Tdep2":    decimal.NewFromInt(2),
	}}
	ledger := &fakeLedger{addresses: []string{"Tdep1", "Tdep2"}}

	adapter := NewTronAdapter(node, ledger, "Tprimary", "Tpooling", decimal.RequireFromString("0.268"))
	report, err := adapter.Fetch(context.Background(), ratesOf(map[string]string{"TRX": "0.1"}))

	require.NoError(t, err)
	require.Equal(t, domain.ShapeSweepable, report.Shape)
	require.True(t, report.Confirmed.Tokens.Equal(decimal.NewFromInt(100)))
	require.True(t, report.Confirmed.USD.Equal(decimal.NewFromInt(10)))
	require.True(t, report.Pending.Tokens.Equal(decimal.NewFromInt(10)))

	// one bandwidth fee per deposit address, the pooling wallet is free to drain
	require.True(t, report.PoolingFees.Tokens.Equal(decimal.RequireFromString("0.536")))
}

func TestTronFetch_NodeFailureFails(t *testing.T) {
	node := &fakeAccounts{err: errors.New("node is down")}
	adapter := NewTronAdapter(node, &fakeLedger{}, "Tprimary", "Tpooling", decimal.Zero)

	_, err := adapter.Fetch(context.Background(), ratesOf(map[string]string{"TRX": "0.1"}))

	require.Error(t, err)
	require.Contains(t, err.Error(), "node is down")
}

func TestTronFetch_NoDepositAddresses(t *testing.T) {
	node := &fakeAccounts{balances: map[string]decimal.Decimal{
		"Tprimary": decimal.NewFromInt(50),
	}}
	adapter := NewTronAdapter(node, &fakeLedger{}, "Tprimary", "Tpooling", decimal.RequireFromString("0.268"))

	report, err := adapter.Fetch(context.Background(), ratesOf(map[string]string{"TRX": "0.1"}))

	require.NoError(t, err)
	require.True(t, report.Pending.Tokens.IsZero())
	require.True(t, report.PoolingFees.Tokens.IsZero())
}
