// Package memory is an in-process record store used by the memory backend
// and by tests. Semantics match the SQLite repository: replace-only month
// writes, month labels canonicalized on the way in.
package memory

import (
	"context"
	"sync"

	"carteira/internal/core"
	"carteira/internal/store"
)

type monthKey struct {
	owner string
	kind  core.RecordKind
	month string
}

type Store struct {
	mu     sync.Mutex
	months map[monthKey][]core.MonthItem
}

var _ store.RecordStore = (*Store)(nil)

func New() *Store {
	return &Store{months: make(map[monthKey][]core.MonthItem)}
}

func (s *Store) key(ownerID string, kind core.RecordKind, month string) monthKey {
	return monthKey{owner: ownerID, kind: kind, month: core.Normalize(month)}
}

// FetchFacts flattens the stored months into the raw fact shape.
func (s *Store) FetchFacts(_ context.Context, ownerID string, kind core.RecordKind) ([]core.LineItem, error) {
	if ownerID == "" {
		return nil, core.ErrEmptyOwner
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var facts []core.LineItem
	for k, items := range s.months {
		if k.owner != ownerID || k.kind != kind {
			continue
		}
		for _, it := range items {
			facts = append(facts, core.LineItem{
				OwnerID: ownerID,
				Month:   k.month,
				Asset:   it.Asset,
				Amount:  it.Amount,
			})
		}
	}
	return facts, nil
}

// SaveMonth replaces the month's items wholesale. An empty item list clears
// the month entirely.
func (s *Store) SaveMonth(ctx context.Context, ownerID string, kind core.RecordKind, month string, items []core.MonthItem) error {
	if ownerID == "" {
		return core.ErrEmptyOwner
	}
	if month == "" {
		return core.ErrEmptyMonth
	}
	for _, it := range items {
		if err := it.Validate(); err != nil {
			return err
		}
	}
	if len(items) == 0 {
		return s.DeleteMonth(ctx, ownerID, kind, month)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.months[s.key(ownerID, kind, month)] = append([]core.MonthItem(nil), items...)
	return nil
}

func (s *Store) DeleteMonth(_ context.Context, ownerID string, kind core.RecordKind, month string) error {
	if ownerID == "" {
		return core.ErrEmptyOwner
	}
	if month == "" {
		return core.ErrEmptyMonth
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.months, s.key(ownerID, kind, month))
	return nil
}

func (s *Store) Ping(context.Context) error {
	return nil
}
