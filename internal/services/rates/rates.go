// Package rates resolves fiat conversion rates for treasury assets.
package rates

import (
	"context"

	"github.com/vadiminshakov/custodian/internal/domain"
)

// Resolver supplies a fiat rate per ticker symbol. Implementations are called
// once per cycle with the full symbol list, so a single table snapshot covers
// every figure inside one report.
type Resolver interface {
	Resolve(ctx context.Context, symbols []string) (domain.RateTable, error)
}
