package clients

import (
	"github.com/adshao/go-binance/v2"
)

// NewBinanceClient creates a Binance API client. Rate lookups use only public
// market data endpoints, so empty credentials are fine.
func NewBinanceClient(apiKey, apiSecret string) *binance.Client {
	return binance.NewClient(apiKey, apiSecret)
}
