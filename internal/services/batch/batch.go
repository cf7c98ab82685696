// Package batch groups many independent read-only node queries into a single
// network round trip and demultiplexes the responses back to callers.
//
// Sweeping can involve hundreds of deposit addresses; one round trip per
// address does not scale, so every EVM adapter funnels its per-address reads
// through here.
package batch

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Call is one raw JSON-RPC query inside a batch.
type Call struct {
	Method string
	Params []any
}

// Outcome is the node's answer to one Call. Err carries a node-side error
// for that entry; Result is the raw envelope payload.
type Outcome struct {
	Result json.RawMessage
	Err    error
}

// Transport executes a whole batch in one round trip. Implementations must
// return one Outcome per Call, in call order; a transport-level failure is
// returned as the error instead.
type Transport interface {
	BatchCall(ctx context.Context, calls []Call) ([]Outcome, error)
}

// Request pairs a Call with the decoder for its result.
type Request struct {
	Call   Call
	Decode func(raw json.RawMessage) (decimal.Decimal, error)
}

// Batcher submits request groups against a single transport.
type Batcher struct {
	transport Transport
	logger    *zap.Logger
}

// New creates a Batcher over the given transport.
func New(transport Transport, logger *zap.Logger) *Batcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Batcher{transport: transport, logger: logger}
}

// Do runs all requests in one round trip and returns the decoded values in
// submission order. Entries that carry a node-side error, an empty result or
// a value the decoder rejects are dropped, so the output may be shorter than
// the input; callers must not rely on positional pairing. An empty request
// group returns an empty result without touching the transport. A failure of
// the round trip itself is returned to the caller.
func (b *Batcher) Do(ctx context.Context, requests []Request) ([]decimal.Decimal, error) {
	if len(requests) == 0 {
		return nil, nil
	}

	calls := make([]Call, len(requests))
	for i, req := range requests {
		calls[i] = req.Call
	}

	outcomes, err := b.transport.BatchCall(ctx, calls)
	if err != nil {
		return nil, errors.Wrap(err, "batch call failed")
	}
	if len(outcomes) != len(requests) {
		return nil, errors.Errorf("batch returned %d outcomes for %d calls", len(outcomes), len(requests))
	}

	values := make([]decimal.Decimal, 0, len(requests))
	for i, out := range outcomes {
		if out.Err != nil {
			b.logger.Debug("dropping errored batch entry",
				zap.String("method", requests[i].Call.Method), zap.Error(out.Err))
			continue
		}
		if len(out.Result) == 0 {
			b.logger.Debug("dropping empty batch entry", zap.String("method", requests[i].Call.Method))
			continue
		}
		value, err := requests[i].Decode(out.Result)
		if err != nil {
			b.logger.Debug("dropping undecodable batch entry",
				zap.String("method", requests[i].Call.Method), zap.Error(err))
			continue
		}
		values = append(values, value)
	}

	return values, nil
}
