// Package export pushes the current budget-period breakdown to an
// external destination. The export is one-way and derived: the snapshot
// stays the single source of truth.
package export

import (
	"context"
	"log/slog"

	"kakeibo/internal/services"
)

// LedgerExporter writes a dashboard read model somewhere external.
type LedgerExporter interface {
	Export(ctx context.Context, d services.Dashboard) error
}

// LogExporter is the fallback destination when no spreadsheet is
// configured: it logs the breakdown instead of writing it anywhere.
type LogExporter struct{}

func (LogExporter) Export(ctx context.Context, d services.Dashboard) error {
	slog.InfoContext(ctx, "Ledger export (log only)",
		"period_start", d.Period.Start,
		"period_end", d.Period.End,
		"total_spent", d.TotalSpent.Yen,
		"buckets", len(d.Spending))
	return nil
}
