package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestNewBalanceFigure_TruncatesFiatTowardZero(t *testing.T) {
	figure := NewBalanceFigure(decimal.RequireFromString("1.5"), decimal.RequireFromString("49999.99"))

	require.True(t, figure.Tokens.Equal(decimal.RequireFromString("1.5")))
	// 1.5 * 49999.99 = 74999.985, floored
	require.True(t, figure.USD.Equal(decimal.NewFromInt(74999)))
}

func TestNewBalanceFigure_ZeroTokens(t *testing.T) {
	figure := NewBalanceFigure(decimal.Zero, decimal.NewFromInt(50000))

	require.True(t, figure.USD.IsZero())
}

func TestLiquidUSD_IncludesPendingForPendingShapes(t *testing.T) {
	pending := BalanceFigure{USD: decimal.NewFromInt(2000)}
	report := &AssetBalanceReport{
		Shape:     ShapePending,
		Confirmed: BalanceFigure{USD: decimal.NewFromInt(7000)},
		Pending:   &pending,
	}

	require.True(t, report.LiquidUSD().Equal(decimal.NewFromInt(9000)))
}

func TestLiquidUSD_SingleShapeIsConfirmedOnly(t *testing.T) {
	report := &AssetBalanceReport{
		Shape:     ShapeSingle,
		Confirmed: BalanceFigure{USD: decimal.NewFromInt(7000)},
	}

	require.True(t, report.LiquidUSD().Equal(decimal.NewFromInt(7000)))
}

func TestRateTable_LooksUpBySymbol(t *testing.T) {
	table := RateTable{"BTC": decimal.NewFromInt(50000)}

	rate, ok := table.Rate(AssetBTC)
	require.True(t, ok)
	require.True(t, rate.Equal(decimal.NewFromInt(50000)))

	_, ok = table.Rate(AssetETH)
	require.False(t, ok)
}

func TestParseAssetKey(t *testing.T) {
	for _, asset := range Assets() {
		parsed, err := ParseAssetKey(asset.String())
		require.NoError(t, err)
		require.Equal(t, asset, parsed)
	}

	_, err := ParseAssetKey("shiba")
	require.Error(t, err)
}

func TestReportShape_Capabilities(t *testing.T) {
	require.False(t, ShapeSingle.HasPending())
	require.False(t, ShapeSingle.HasPoolingFees())

	require.True(t, ShapePending.HasPending())
	require.False(t, ShapePending.HasPoolingFees())

	require.True(t, ShapeSweepable.HasPending())
	require.True(t, ShapeSweepable.HasPoolingFees())
}
