// Package domain defines core data structures used throughout the treasury monitor.
package domain

import "fmt"

// AssetKey identifies a monitored treasury asset. The "crypto" key is the
// historical name for the bitcoin wallet and is kept for storage compatibility.
type AssetKey string

const (
	AssetBTC  AssetKey = "crypto"
	AssetLTC  AssetKey = "ltc"
	AssetDOGE AssetKey = "doge"
	AssetTRX  AssetKey = "trx"
	AssetXRP  AssetKey = "xrp"
	AssetETH  AssetKey = "eth"
	AssetUSDC AssetKey = "usdc"
	AssetUSDT AssetKey = "usdt"
)

// Assets lists every monitored asset in report order.
func Assets() []AssetKey {
	return []AssetKey{AssetBTC, AssetLTC, AssetDOGE, AssetTRX, AssetXRP, AssetETH, AssetUSDC, AssetUSDT}
}

var assetSymbols = map[AssetKey]string{
	AssetBTC:  "BTC",
	AssetLTC:  "LTC",
	AssetDOGE: "DOGE",
	AssetTRX:  "TRX",
	AssetXRP:  "XRP",
	AssetETH:  "ETH",
	AssetUSDC: "USDC",
	AssetUSDT: "USDT",
}

// Symbol returns the ticker symbol used for rate lookups.
func (k AssetKey) Symbol() string {
	return assetSymbols[k]
}

func (k AssetKey) String() string { return string(k) }

// ParseAssetKey validates a raw asset key from config or storage.
func ParseAssetKey(s string) (AssetKey, error) {
	k := AssetKey(s)
	if _, ok := assetSymbols[k]; !ok {
		return "", fmt.Errorf("unknown asset key: %s", s)
	}
	return k, nil
}

// ReportShape declares which balance figures an adapter produces for its asset.
// Consumers branch on the tag instead of probing optional fields.
type ReportShape int

const (
	// ShapeSingle reports the confirmed hot wallet balance only.
	ShapeSingle ReportShape = iota
	// ShapePending adds a mempool-pending figure, with no sweep cost concept.
	ShapePending
	// ShapeSweepable adds unpooled deposit balances and the estimated cost to
	// sweep them into the hot wallet.
	ShapeSweepable
)

func (s ReportShape) String() string {
	switch s {
	case ShapeSingle:
		return "single"
	case ShapePending:
		return "pending"
	case ShapeSweepable:
		return "sweepable"
	default:
		return fmt.Sprintf("shape(%d)", int(s))
	}
}

// HasPending reports whether the shape carries a pending figure.
func (s ReportShape) HasPending() bool { return s != ShapeSingle }

// HasPoolingFees reports whether the shape carries a sweep cost figure.
func (s ReportShape) HasPoolingFees() bool { return s == ShapeSweepable }
