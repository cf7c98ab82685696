package internal

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/vadiminshakov/custodian/config"
	"github.com/vadiminshakov/custodian/internal/domain"
	"github.com/vadiminshakov/custodian/internal/services/aggregator"
	"github.com/vadiminshakov/custodian/internal/services/alert"
	"github.com/vadiminshakov/custodian/internal/services/rates"
	"github.com/vadiminshakov/custodian/internal/storage/snapshots"
	"github.com/vadiminshakov/custodian/pkg/retrier"
)

// Monitor runs the periodic treasury duties: the alerting cycle and the
// history cycle, each on its own interval. A slow or failing tick of one
// task never delays the other.
type Monitor struct {
	cfg        *config.Config
	resolver   rates.Resolver
	aggregator *aggregator.Aggregator
	evaluator  *alert.Evaluator
	notifier   alert.Notifier
	store      *snapshots.WALStore
	retrier    *retrier.Retrier
	symbols    []string
	logger     *zap.Logger
}

// NewMonitor wires every component from config. The returned cleanup closes
// node connections and the snapshot store.
func NewMonitor(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Monitor, func(), error) {
	resolver, err := newRateResolver(cfg)
	if err != nil {
		return nil, nil, errors.Wrap(err, "create rate resolver")
	}

	adapters, closeAdapters, err := buildAdapters(ctx, cfg, logger)
	if err != nil {
		return nil, nil, errors.Wrap(err, "build balance adapters")
	}

	store, err := snapshots.NewWALStore(cfg.SnapshotDir)
	if err != nil {
		closeAdapters()
		return nil, nil, errors.Wrap(err, "open snapshot store")
	}

	monitor := &Monitor{
		cfg:        cfg,
		resolver:   resolver,
		aggregator: aggregator.New(adapters, logger),
		evaluator:  alert.NewEvaluator(cfg.Floors, logger),
		notifier:   newNotifier(cfg, logger),
		store:      store,
		retrier:    retrier.New(retrier.WithMaxRetries(2)),
		symbols:    rateSymbols(),
		logger:     logger,
	}

	cleanup := func() {
		closeAdapters()
		if err := store.Close(); err != nil {
			logger.Error("failed to close snapshot store", zap.Error(err))
		}
	}

	return monitor, cleanup, nil
}

// Run blocks until ctx is cancelled, driving both scheduled tasks.
func (m *Monitor) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return m.runTask(ctx, "alerts", m.cfg.AlertInterval, m.alertCycle)
	})
	g.Go(func() error {
		return m.runTask(ctx, "history", m.cfg.HistoryInterval, m.historyCycle)
	})

	return g.Wait()
}

// runTask is the scheduling loop for one periodic duty: run, log a failure,
// sleep until the next tick, forever. There is no terminal state short of
// process shutdown.
func (m *Monitor) runTask(ctx context.Context, name string, interval time.Duration, run func(ctx context.Context) error) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	m.logger.Info("task started", zap.String("task", name), zap.Duration("interval", interval))

	for {
		select {
		case <-ctx.Done():
			m.logger.Info("task stopped", zap.String("task", name))
			return ctx.Err()
		case <-ticker.C:
			if err := run(ctx); err != nil {
				m.logger.Error("task tick failed", zap.String("task", name), zap.Error(err))
			}
		}
	}
}

// collect resolves the cycle's rate snapshot and aggregates a fresh report.
// The table is resolved once, before any adapter runs, so every figure in
// the report is comparable.
func (m *Monitor) collect(ctx context.Context) (domain.TreasuryReport, error) {
	table, err := retrier.DoWithData(m.retrier, ctx, func(ctx context.Context) (domain.RateTable, error) {
		return m.resolver.Resolve(ctx, m.symbols)
	})
	if err != nil {
		return nil, errors.Wrap(err, "resolve rates")
	}

	return m.aggregator.Aggregate(ctx, table), nil
}

func (m *Monitor) alertCycle(ctx context.Context) error {
	report, err := m.collect(ctx)
	if err != nil {
		return err
	}

	events := m.evaluator.Evaluate(report)
	for _, event := range events {
		if err := m.notifier.Notify(ctx, event); err != nil {
			// delivery is the channel's problem once handed off
			m.logger.Error("alert delivery failed",
				zap.String("asset", event.Asset.String()), zap.Error(err))
		}
	}

	m.logger.Info("alert cycle finished",
		zap.Int("assets", len(report)), zap.Int("alerts", len(events)))
	return nil
}

func (m *Monitor) historyCycle(ctx context.Context) error {
	report, err := m.collect(ctx)
	if err != nil {
		return err
	}

	snapshot := domain.NewReportSnapshot(report, time.Now().UTC())
	if err := m.store.Save(snapshot); err != nil {
		// best-effort: a lost audit snapshot must not destabilize the loop
		m.logger.Error("failed to persist treasury snapshot", zap.Error(err))
		return nil
	}

	m.logger.Info("treasury snapshot persisted", zap.String("id", snapshot.ID))
	return nil
}

// rateSymbols lists every ticker symbol one cycle needs, so the resolver can
// be satisfied in a single call.
func rateSymbols() []string {
	assets := domain.Assets()
	seen := make(map[string]struct{}, len(assets))
	symbols := make([]string, 0, len(assets))
	for _, asset := range assets {
		symbol := asset.Symbol()
		if _, ok := seen[symbol]; ok {
			continue
		}
		seen[symbol] = struct{}{}
		symbols = append(symbols, symbol)
	}
	return symbols
}
