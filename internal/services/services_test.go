package services

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"carteira/internal/amqp"
	"carteira/internal/core"
	"carteira/internal/store/memory"
)

type recordingPublisher struct {
	messages []*amqp.SnapshotChangedMessage
	err      error
}

func (p *recordingPublisher) PublishSnapshotChanged(_ context.Context, msg *amqp.SnapshotChangedMessage) error {
	if p.err != nil {
		return p.err
	}
	p.messages = append(p.messages, msg)
	return nil
}

func monthItems(pairs ...string) []core.MonthItem {
	var out []core.MonthItem
	for i := 0; i < len(pairs); i += 2 {
		amount, _ := decimal.NewFromString(pairs[i+1])
		out = append(out, core.MonthItem{Asset: pairs[i], Amount: amount})
	}
	return out
}

func TestSaveThenSnapshot(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	pub := &recordingPublisher{}
	mut := NewMutationService(st, pub)
	snap := NewSnapshotService(st)

	if err := mut.SaveMonth(ctx, "u1", core.KindPosition, "Jan/2025", monthItems("A", "100", "B", "200")); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := mut.SaveMonth(ctx, "u1", core.KindPosition, "2/25", monthItems("A", "150")); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := snap.Snapshot(ctx, "u1", core.KindPosition)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if len(got.Pivot.Columns) != 2 || got.Pivot.Columns[1] != "Fev/2025" {
		t.Fatalf("columns = %v", got.Pivot.Columns)
	}
	if !got.Totals[0].Equal(decimal.NewFromInt(300)) || !got.Totals[1].Equal(decimal.NewFromInt(150)) {
		t.Fatalf("totals = %v", got.Totals)
	}
	if len(pub.messages) != 2 {
		t.Fatalf("published %d messages, want 2", len(pub.messages))
	}
	if pub.messages[1].Month != "Fev/2025" {
		t.Fatalf("published month = %q, want canonical Fev/2025", pub.messages[1].Month)
	}
}

func TestSaveEmptyClearsMonth(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	mut := NewMutationService(st, nil)
	snap := NewSnapshotService(st)

	if err := mut.SaveMonth(ctx, "u1", core.KindDividend, "Jan/2025", monthItems("A", "10")); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := mut.SaveMonth(ctx, "u1", core.KindDividend, "Jan/2025", nil); err != nil {
		t.Fatalf("save empty: %v", err)
	}

	got, err := snap.Snapshot(ctx, "u1", core.KindDividend)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if len(got.Pivot.Columns) != 0 || len(got.Pivot.Rows) != 0 {
		t.Fatalf("expected empty snapshot, got %+v", got.Pivot)
	}
}

func TestDeleteMonth(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	mut := NewMutationService(st, nil)
	snap := NewSnapshotService(st)

	if err := mut.SaveMonth(ctx, "u1", core.KindPosition, "Jan/2025", monthItems("A", "1")); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := mut.DeleteMonth(ctx, "u1", core.KindPosition, "Jan/2025"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	got, err := snap.Snapshot(ctx, "u1", core.KindPosition)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if len(got.Pivot.Columns) != 0 {
		t.Fatalf("expected empty snapshot, got %v", got.Pivot.Columns)
	}
}

func TestPublisherFailureDoesNotFailMutation(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	pub := &recordingPublisher{err: errors.New("broker down")}
	mut := NewMutationService(st, pub)

	if err := mut.SaveMonth(ctx, "u1", core.KindPosition, "Jan/2025", monthItems("A", "1")); err != nil {
		t.Fatalf("mutation must not fail on publish error: %v", err)
	}
}

func TestSnapshotValidation(t *testing.T) {
	snap := NewSnapshotService(memory.New())
	if _, err := snap.Snapshot(context.Background(), "", core.KindPosition); !errors.Is(err, core.ErrEmptyOwner) {
		t.Fatalf("expected ErrEmptyOwner, got %v", err)
	}
	if _, err := snap.Snapshot(context.Background(), "u1", core.RecordKind("bogus")); !errors.Is(err, core.ErrInvalidKind) {
		t.Fatalf("expected ErrInvalidKind, got %v", err)
	}
}

func TestMutationValidation(t *testing.T) {
	mut := NewMutationService(memory.New(), nil)
	if err := mut.SaveMonth(context.Background(), "u1", core.RecordKind("bogus"), "Jan/2025", nil); !errors.Is(err, core.ErrInvalidKind) {
		t.Fatalf("expected ErrInvalidKind, got %v", err)
	}
	err := mut.SaveMonth(context.Background(), "u1", core.KindPosition, "Jan/2025",
		[]core.MonthItem{{Asset: core.TotalRowName, Amount: decimal.NewFromInt(1)}})
	if !errors.Is(err, core.ErrReservedAsset) {
		t.Fatalf("expected ErrReservedAsset, got %v", err)
	}
}
