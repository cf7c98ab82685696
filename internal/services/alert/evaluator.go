// Package alert flags assets whose liquid fiat value dropped below the
// operator-configured floor and hands the events to a notification channel.
package alert

import (
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/vadiminshakov/custodian/internal/domain"
)

// Evaluator checks a report against per-asset fiat floors.
type Evaluator struct {
	floors map[domain.AssetKey]decimal.Decimal
	logger *zap.Logger
	now    func() time.Time
}

// NewEvaluator creates an evaluator with the given floors. Assets without a
// floor are never alerted on.
func NewEvaluator(floors map[domain.AssetKey]decimal.Decimal, logger *zap.Logger) *Evaluator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Evaluator{floors: floors, logger: logger, now: time.Now}
}

// Evaluate emits one event per asset whose liquid value (confirmed plus
// pending) sits below its floor. Assets whose fetch failed this cycle are
// skipped: a transient source outage must not read as a low balance.
func (e *Evaluator) Evaluate(report domain.TreasuryReport) []domain.AlertEvent {
	var events []domain.AlertEvent

	for _, asset := range domain.Assets() {
		floor, ok := e.floors[asset]
		if !ok {
			continue
		}

		entry := report[asset]
		if entry == nil {
			e.logger.Debug("skipping asset without report entry", zap.String("asset", asset.String()))
			continue
		}

		liquid := entry.LiquidUSD()
		if liquid.LessThan(floor) {
			events = append(events, domain.NewAlertEvent(asset, liquid, floor, e.now()))
		}
	}

	return events
}
