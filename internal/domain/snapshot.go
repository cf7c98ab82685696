package domain

import (
	"time"

	"github.com/google/uuid"
)

// ReportSnapshot is an immutable copy of one cycle's report kept for audit.
// Snapshots are archival data only and are never read back by the monitor.
type ReportSnapshot struct {
	ID        string         `json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	Report    TreasuryReport `json:"report"`
}

// NewReportSnapshot stamps a report for persistence.
func NewReportSnapshot(report TreasuryReport, at time.Time) ReportSnapshot {
	return ReportSnapshot{
		ID:        uuid.New().String(),
		CreatedAt: at,
		Report:    report,
	}
}

// ReportSnapshotRecord bundles a snapshot with its storage index.
type ReportSnapshotRecord struct {
	Index    uint64
	Snapshot ReportSnapshot
}
