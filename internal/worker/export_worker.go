// Package worker drives the background export of the ledger breakdown.
// It reacts to AMQP change messages and runs a periodic catch-up pass
// as a backup in case messages are lost.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"kakeibo/internal/amqp"
	"kakeibo/internal/export"
	"kakeibo/internal/services"
)

// DashboardSource supplies the current read model to export.
type DashboardSource interface {
	Dashboard(ctx context.Context) services.Dashboard
}

// ExportWorker pushes the dashboard to the configured exporter.
type ExportWorker struct {
	source   DashboardSource
	exporter export.LedgerExporter
	interval time.Duration
}

func NewExportWorker(source DashboardSource, exporter export.LedgerExporter, interval time.Duration) *ExportWorker {
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	return &ExportWorker{
		source:   source,
		exporter: exporter,
		interval: interval,
	}
}

// HandleChangeMessage processes a single ledger change message.
func (w *ExportWorker) HandleChangeMessage(ctx context.Context, msg *amqp.LedgerChangedMessage) error {
	slog.InfoContext(ctx, "Processing ledger change message",
		"kind", msg.Kind,
		"entity_id", msg.EntityID)
	return w.exportNow(ctx)
}

// StartupExport pushes the current state once at worker startup so a
// restart recovers from any missed messages.
func (w *ExportWorker) StartupExport(ctx context.Context) error {
	slog.InfoContext(ctx, "Running startup export")
	return w.exportNow(ctx)
}

// RunPeriodic exports on a fixed interval until the context ends.
func (w *ExportWorker) RunPeriodic(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	slog.InfoContext(ctx, "Started periodic export", "interval", w.interval)

	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "Stopping periodic export", "reason", ctx.Err())
			return ctx.Err()
		case <-ticker.C:
			if err := w.exportNow(ctx); err != nil {
				slog.ErrorContext(ctx, "Periodic export failed", "error", err)
			}
		}
	}
}

func (w *ExportWorker) exportNow(ctx context.Context) error {
	d := w.source.Dashboard(ctx)
	if err := w.exporter.Export(ctx, d); err != nil {
		return fmt.Errorf("export dashboard: %w", err)
	}
	return nil
}
