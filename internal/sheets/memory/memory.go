// Package memory provides an in-memory snapshot exporter for tests and
// local runs without spreadsheet credentials.
package memory

import (
	"context"
	"sync"

	"carteira/internal/core"
	"carteira/internal/report"
	"carteira/internal/sheets"
)

type exportKey struct {
	ownerID string
	kind    core.RecordKind
}

// Exporter records the last snapshot exported per owner and kind.
type Exporter struct {
	mu      sync.Mutex
	exports map[exportKey]report.Snapshot
	count   int
}

var _ sheets.SnapshotExporter = (*Exporter)(nil)

func New() *Exporter {
	return &Exporter{exports: make(map[exportKey]report.Snapshot)}
}

func (e *Exporter) ExportSnapshot(_ context.Context, ownerID string, snap report.Snapshot) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.exports[exportKey{ownerID: ownerID, kind: snap.Kind}] = snap
	e.count++
	return nil
}

// Last returns the most recent export for owner/kind.
func (e *Exporter) Last(ownerID string, kind core.RecordKind) (report.Snapshot, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	snap, ok := e.exports[exportKey{ownerID: ownerID, kind: kind}]
	return snap, ok
}

// Count reports how many exports were performed.
func (e *Exporter) Count() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.count
}
