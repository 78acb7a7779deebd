package worker

import (
	"context"
	"errors"
	"testing"

	"kakeibo/internal/amqp"
	"kakeibo/internal/core"
	"kakeibo/internal/services"
)

type fakeSource struct {
	d services.Dashboard
}

func (s fakeSource) Dashboard(context.Context) services.Dashboard { return s.d }

type countingExporter struct {
	exports int
	err     error
	last    services.Dashboard
}

func (e *countingExporter) Export(_ context.Context, d services.Dashboard) error {
	if e.err != nil {
		return e.err
	}
	e.exports++
	e.last = d
	return nil
}

func TestHandleChangeMessageExports(t *testing.T) {
	src := fakeSource{d: services.Dashboard{TotalSpent: core.Money{Yen: 5700}}}
	exp := &countingExporter{}
	w := NewExportWorker(src, exp, 0)

	msg := amqp.NewLedgerChangedMessage(amqp.ChangeTransactionAdded, "tx-1", 3)
	if err := w.HandleChangeMessage(context.Background(), msg); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if exp.exports != 1 || exp.last.TotalSpent.Yen != 5700 {
		t.Errorf("exports = %d, last = %+v", exp.exports, exp.last)
	}
}

func TestHandleChangeMessagePropagatesExportError(t *testing.T) {
	exp := &countingExporter{err: errors.New("sheet unavailable")}
	w := NewExportWorker(fakeSource{}, exp, 0)

	msg := amqp.NewLedgerChangedMessage(amqp.ChangeSettingsUpdated, "", 3)
	if err := w.HandleChangeMessage(context.Background(), msg); err == nil {
		t.Error("expected error so the delivery is requeued")
	}
}

func TestStartupExport(t *testing.T) {
	exp := &countingExporter{}
	w := NewExportWorker(fakeSource{}, exp, 0)

	if err := w.StartupExport(context.Background()); err != nil {
		t.Fatalf("startup export: %v", err)
	}
	if exp.exports != 1 {
		t.Errorf("exports = %d, want 1", exp.exports)
	}
}
