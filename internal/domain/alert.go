package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AlertEvent flags one asset whose liquid fiat value dropped below the
// configured floor. One event is emitted per breached asset, never an
// aggregate alert.
type AlertEvent struct {
	ID        string          `json:"id"`
	Asset     AssetKey        `json:"asset"`
	LiquidUSD decimal.Decimal `json:"liquid_usd"`
	Floor     decimal.Decimal `json:"floor"`
	At        time.Time       `json:"at"`
}

// NewAlertEvent creates an alert for a breached asset.
func NewAlertEvent(asset AssetKey, liquidUSD, floor decimal.Decimal, at time.Time) AlertEvent {
	return AlertEvent{
		ID:        uuid.New().String(),
		Asset:     asset,
		LiquidUSD: liquidUSD,
		Floor:     floor,
		At:        at,
	}
}
