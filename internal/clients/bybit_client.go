package clients

import (
	"github.com/hirokisan/bybit/v2"
)

// NewBybitClient creates a Bybit API client for public market data.
func NewBybitClient() *bybit.Client {
	return bybit.NewClient()
}
