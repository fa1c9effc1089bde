package services

import (
	"context"
	"fmt"
	"log/slog"

	"carteira/internal/amqp"
	"carteira/internal/core"
	"carteira/internal/store"
)

// SnapshotPublisher announces committed mutations to interested consumers.
// Satisfied by *amqp.Client; nil publishers are tolerated.
type SnapshotPublisher interface {
	PublishSnapshotChanged(ctx context.Context, msg *amqp.SnapshotChangedMessage) error
}

// MutationService is the mutation facade: writes go through the store with
// replace semantics, then a snapshot-changed event is published. Publishing
// is best effort — the write already committed, so a broker outage never
// fails the request.
type MutationService struct {
	store     store.MonthWriter
	publisher SnapshotPublisher
}

func NewMutationService(writer store.MonthWriter, publisher SnapshotPublisher) *MutationService {
	return &MutationService{store: writer, publisher: publisher}
}

// SaveMonth replaces one month's line items. An empty item list clears the
// month entirely, headers included.
func (s *MutationService) SaveMonth(ctx context.Context, ownerID string, kind core.RecordKind, month string, items []core.MonthItem) error {
	if !kind.IsValid() {
		return core.ErrInvalidKind
	}
	if err := s.store.SaveMonth(ctx, ownerID, kind, month, items); err != nil {
		return fmt.Errorf("save month: %w", err)
	}
	s.publishChanged(ctx, ownerID, kind, month)
	return nil
}

// DeleteMonth removes one month's header and line items.
func (s *MutationService) DeleteMonth(ctx context.Context, ownerID string, kind core.RecordKind, month string) error {
	if !kind.IsValid() {
		return core.ErrInvalidKind
	}
	if err := s.store.DeleteMonth(ctx, ownerID, kind, month); err != nil {
		return fmt.Errorf("delete month: %w", err)
	}
	s.publishChanged(ctx, ownerID, kind, month)
	return nil
}

func (s *MutationService) publishChanged(ctx context.Context, ownerID string, kind core.RecordKind, month string) {
	if s.publisher == nil {
		return
	}
	msg := amqp.NewSnapshotChangedMessage(ownerID, kind, core.Normalize(month))
	if err := s.publisher.PublishSnapshotChanged(ctx, msg); err != nil {
		slog.ErrorContext(ctx, "Failed to publish snapshot-changed message",
			"owner_id", ownerID,
			"kind", kind.String(),
			"month", month,
			"error", err)
	}
}
