// Package aggregator fans out to every chain balance adapter and assembles
// the multi-asset treasury report for one cycle.
package aggregator

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/vadiminshakov/custodian/internal/domain"
	"github.com/vadiminshakov/custodian/internal/services/balance"
)

// Aggregator invokes all adapters concurrently and isolates their failures.
type Aggregator struct {
	adapters []balance.Adapter
	logger   *zap.Logger
}

// New creates an aggregator over the configured adapters.
func New(adapters []balance.Adapter, logger *zap.Logger) *Aggregator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Aggregator{adapters: adapters, logger: logger}
}

// Aggregate runs every adapter with the cycle's frozen rate table and
// assembles one report. A failing adapter, panicking included, yields a nil
// entry for its asset and never blocks the others; partial reports are the
// expected steady state. The report is returned even if every adapter failed.
func (a *Aggregator) Aggregate(ctx context.Context, rates domain.RateTable) domain.TreasuryReport {
	report := make(domain.TreasuryReport, len(a.adapters))

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	for _, adapter := range a.adapters {
		wg.Add(1)
		go func() {
			defer wg.Done()

			entry, err := a.fetchOne(ctx, adapter, rates)
			if err != nil {
				a.logger.Error("asset fetch failed, omitting from report",
					zap.String("asset", adapter.Asset().String()), zap.Error(err))
				entry = nil
			}

			mu.Lock()
			report[adapter.Asset()] = entry
			mu.Unlock()
		}()
	}
	wg.Wait()

	return report
}

// fetchOne shields the cycle from a misbehaving adapter: a panic inside an
// adapter is folded into the same failure path as a returned error.
func (a *Aggregator) fetchOne(ctx context.Context, adapter balance.Adapter, rates domain.RateTable) (entry *domain.AssetBalanceReport, err error) {
	defer func() {
		if r := recover(); r != nil {
			entry = nil
			err = errors.Errorf("adapter panicked: %v", r)
		}
	}()

	return adapter.Fetch(ctx, rates)
}
