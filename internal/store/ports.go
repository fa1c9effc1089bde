// Package store declares the outbound ports of the record store. The
// aggregation engine only depends on these shapes, never on a concrete
// backend.
package store

import (
	"context"

	"carteira/internal/core"
)

type (
	// FactReader returns the raw fact set for one owner and fact family.
	FactReader interface {
		FetchFacts(ctx context.Context, ownerID string, kind core.RecordKind) ([]core.LineItem, error)
	}

	// MonthWriter mutates a single month with replace semantics: existing
	// line items for the (owner, kind, month) are dropped wholesale and,
	// for SaveMonth, replaced by the new set. Saving an empty item list is
	// equivalent to DeleteMonth.
	MonthWriter interface {
		SaveMonth(ctx context.Context, ownerID string, kind core.RecordKind, month string, items []core.MonthItem) error
		DeleteMonth(ctx context.Context, ownerID string, kind core.RecordKind, month string) error
	}

	// Pinger reports backend reachability for readiness checks.
	Pinger interface {
		Ping(ctx context.Context) error
	}

	// RecordStore is the full surface a backend provides.
	RecordStore interface {
		FactReader
		MonthWriter
		Pinger
	}
)
