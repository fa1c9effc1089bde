// Package sheets defines the port for mirroring derived snapshots to an
// external spreadsheet.
package sheets

import (
	"context"

	"carteira/internal/report"
)

// SnapshotExporter writes one owner's snapshot to its destination tab,
// replacing whatever was there.
type SnapshotExporter interface {
	ExportSnapshot(ctx context.Context, ownerID string, snap report.Snapshot) error
}
