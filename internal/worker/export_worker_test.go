package worker

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"carteira/internal/amqp"
	"carteira/internal/core"
	"carteira/internal/services"
	sheetsmem "carteira/internal/sheets/memory"
	storemem "carteira/internal/store/memory"
)

func newTestWorker(t *testing.T) (*ExportWorker, *storemem.Store, *sheetsmem.Exporter) {
	t.Helper()
	st := storemem.New()
	exp := sheetsmem.New()
	w := NewExportWorker(services.NewSnapshotService(st), exp, 0)
	return w, st, exp
}

func TestHandleSnapshotChanged(t *testing.T) {
	w, st, exp := newTestWorker(t)
	ctx := context.Background()

	items := []core.MonthItem{{Asset: "CDB", Amount: decimal.NewFromInt(500)}}
	if err := st.SaveMonth(ctx, "alice", core.KindPosition, "Jan/2025", items); err != nil {
		t.Fatalf("SaveMonth: %v", err)
	}

	msg := amqp.NewSnapshotChangedMessage("alice", core.KindPosition, "Jan/2025")
	if err := w.HandleSnapshotChanged(ctx, msg); err != nil {
		t.Fatalf("HandleSnapshotChanged: %v", err)
	}

	snap, ok := exp.Last("alice", core.KindPosition)
	if !ok {
		t.Fatal("expected an export for alice/position")
	}
	if len(snap.Pivot.Columns) != 1 || snap.Pivot.Columns[0] != "Jan/2025" {
		t.Fatalf("exported columns = %v", snap.Pivot.Columns)
	}
}

func TestHandleSnapshotChangedUnknownKind(t *testing.T) {
	w, _, exp := newTestWorker(t)

	msg := &amqp.SnapshotChangedMessage{OwnerID: "alice", Kind: "bond", Month: "Jan/2025"}
	if err := w.HandleSnapshotChanged(context.Background(), msg); err != nil {
		t.Fatalf("expected unknown kind to be dropped without error, got %v", err)
	}
	if exp.Count() != 0 {
		t.Fatalf("exports = %d, want 0", exp.Count())
	}
}

func TestPeriodicReexport(t *testing.T) {
	st := storemem.New()
	exp := sheetsmem.New()
	w := NewExportWorker(services.NewSnapshotService(st), exp, 10*time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	items := []core.MonthItem{{Asset: "CDB", Amount: decimal.NewFromInt(500)}}
	if err := st.SaveMonth(ctx, "alice", core.KindPosition, "Jan/2025", items); err != nil {
		t.Fatalf("SaveMonth: %v", err)
	}
	msg := amqp.NewSnapshotChangedMessage("alice", core.KindPosition, "Jan/2025")
	if err := w.HandleSnapshotChanged(ctx, msg); err != nil {
		t.Fatalf("HandleSnapshotChanged: %v", err)
	}

	done := make(chan struct{})
	go func() {
		_ = w.RunPeriodic(ctx)
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for exp.Count() < 2 {
		select {
		case <-deadline:
			t.Fatal("timed out waiting for periodic re-export")
		case <-time.After(5 * time.Millisecond):
		}
	}
	cancel()
	<-done
}
