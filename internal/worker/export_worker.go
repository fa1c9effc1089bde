// Package worker keeps the external spreadsheet in sync with committed
// mutations. It reacts to snapshot-changed messages and additionally
// re-exports on a timer so missed messages heal themselves.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"carteira/internal/amqp"
	"carteira/internal/core"
	"carteira/internal/services"
	"carteira/internal/sheets"
)

// ExportWorker rebuilds snapshots and mirrors them to the exporter.
type ExportWorker struct {
	snapshots *services.SnapshotService
	exporter  sheets.SnapshotExporter
	interval  time.Duration

	// owner/kind pairs seen since startup, re-exported on each tick
	mu    sync.Mutex
	known map[string]exportTarget
}

type exportTarget struct {
	ownerID string
	kind    core.RecordKind
}

// NewExportWorker builds a worker that re-exports every interval. An
// interval of zero disables the periodic pass.
func NewExportWorker(snapshots *services.SnapshotService, exporter sheets.SnapshotExporter, interval time.Duration) *ExportWorker {
	return &ExportWorker{
		snapshots: snapshots,
		exporter:  exporter,
		interval:  interval,
		known:     make(map[string]exportTarget),
	}
}

// HandleSnapshotChanged processes one snapshot-changed message: it
// rebuilds the owner's snapshot and replaces the spreadsheet tab.
func (w *ExportWorker) HandleSnapshotChanged(ctx context.Context, msg *amqp.SnapshotChangedMessage) error {
	if !msg.Kind.IsValid() {
		// Malformed kind: drop instead of requeueing forever.
		slog.WarnContext(ctx, "Dropping message with unknown kind",
			"owner_id", msg.OwnerID,
			"kind", string(msg.Kind))
		return nil
	}

	slog.InfoContext(ctx, "Processing snapshot-changed message",
		"owner_id", msg.OwnerID,
		"kind", msg.Kind.String(),
		"month", msg.Month)

	if err := w.export(ctx, msg.OwnerID, msg.Kind); err != nil {
		return fmt.Errorf("export snapshot: %w", err)
	}

	w.remember(msg.OwnerID, msg.Kind)
	return nil
}

func (w *ExportWorker) export(ctx context.Context, ownerID string, kind core.RecordKind) error {
	snap, err := w.snapshots.Snapshot(ctx, ownerID, kind)
	if err != nil {
		return fmt.Errorf("rebuild snapshot: %w", err)
	}
	if err := w.exporter.ExportSnapshot(ctx, ownerID, snap); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	return nil
}

func (w *ExportWorker) remember(ownerID string, kind core.RecordKind) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.known[ownerID+"|"+kind.String()] = exportTarget{ownerID: ownerID, kind: kind}
}

func (w *ExportWorker) targets() []exportTarget {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]exportTarget, 0, len(w.known))
	for _, t := range w.known {
		out = append(out, t)
	}
	return out
}

// RunPeriodic re-exports every known owner/kind pair on the configured
// interval until ctx is canceled.
func (w *ExportWorker) RunPeriodic(ctx context.Context) error {
	if w.interval <= 0 {
		<-ctx.Done()
		return ctx.Err()
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			w.exportAll(ctx)
		}
	}
}

func (w *ExportWorker) exportAll(ctx context.Context) {
	targets := w.targets()
	if len(targets) == 0 {
		return
	}
	slog.InfoContext(ctx, "Periodic re-export started", "targets", len(targets))
	for _, t := range targets {
		if err := w.export(ctx, t.ownerID, t.kind); err != nil {
			slog.ErrorContext(ctx, "Periodic export failed",
				"owner_id", t.ownerID,
				"kind", t.kind.String(),
				"error", err)
		}
	}
}
