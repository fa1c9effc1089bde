// Package services orchestrates the fetch -> pivot -> aggregate cycle and
// the replace-semantics month mutations.
package services

import (
	"context"
	"fmt"
	"log/slog"

	"carteira/internal/core"
	"carteira/internal/report"
	"carteira/internal/store"
)

// SnapshotService rebuilds derived views from a fresh fact fetch. There is
// no incremental maintenance: every call fetches the full fact set and
// recomputes, trading efficiency for correctness-by-reconstruction at the
// expected scale of tens of months times tens of assets.
type SnapshotService struct {
	facts store.FactReader
}

func NewSnapshotService(facts store.FactReader) *SnapshotService {
	return &SnapshotService{facts: facts}
}

// Snapshot fetches the owner's facts for one family and derives every view.
func (s *SnapshotService) Snapshot(ctx context.Context, ownerID string, kind core.RecordKind) (report.Snapshot, error) {
	if ownerID == "" {
		return report.Snapshot{}, core.ErrEmptyOwner
	}
	if !kind.IsValid() {
		return report.Snapshot{}, core.ErrInvalidKind
	}

	facts, err := s.facts.FetchFacts(ctx, ownerID, kind)
	if err != nil {
		return report.Snapshot{}, fmt.Errorf("fetch facts: %w", err)
	}

	snap := report.BuildSnapshot(kind, facts)
	slog.DebugContext(ctx, "Snapshot rebuilt",
		"owner_id", ownerID,
		"kind", kind.String(),
		"months", len(snap.Pivot.Columns),
		"assets", len(snap.Pivot.Rows))
	return snap, nil
}
