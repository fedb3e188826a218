package mysql

import (
	"context"
	"time"

	eventDomain "contrack-backend/internal/domain/event"
	"contrack-backend/pkg/id"

	"gorm.io/gorm"
)

type EventRepository struct{ db *gorm.DB }

func NewEventRepository(db *gorm.DB) *EventRepository { return &EventRepository{db: db} }

func (r *EventRepository) Append(ctx context.Context, e *eventDomain.Event) error {
	if e.EventID == "" {
		e.EventID = id.NewID32()
	}
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *EventRepository) AppendArtifact(ctx context.Context, a *eventDomain.Artifact) error {
	if a.ArtifactID == "" {
		a.ArtifactID = id.NewID32()
	}
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *EventRepository) Enqueue(ctx context.Context, m *eventDomain.OutboxMessage) error {
	if m.MessageID == "" {
		m.MessageID = id.NewID32()
	}
	if m.Status == "" {
		m.Status = eventDomain.DispatchPending
	}
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *EventRepository) ListByContract(ctx context.Context, contractID string) ([]eventDomain.Event, error) {
	var out []eventDomain.Event
	err := r.db.WithContext(ctx).Where("contract_id = ?", contractID).Order("id ASC").Find(&out).Error
	return out, err
}

func (r *EventRepository) ListArtifacts(ctx context.Context, contractID string) ([]eventDomain.Artifact, error) {
	var out []eventDomain.Artifact
	err := r.db.WithContext(ctx).Where("contract_id = ?", contractID).Order("id ASC").Find(&out).Error
	return out, err
}

func (r *EventRepository) PendingOutbox(ctx context.Context, limit int) ([]eventDomain.OutboxMessage, error) {
	var out []eventDomain.OutboxMessage
	err := r.db.WithContext(ctx).
		Where("status = ?", eventDomain.DispatchPending).
		Order("id ASC").
		Limit(limit).
		Find(&out).Error
	return out, err
}

func (r *EventRepository) MarkSent(ctx context.Context, messageID string) error {
	now := time.Now().UTC()
	return r.db.WithContext(ctx).Model(&eventDomain.OutboxMessage{}).
		Where("message_id = ?", messageID).
		Updates(map[string]any{
			"status":        eventDomain.DispatchSent,
			"attempts":      gorm.Expr("attempts + 1"),
			"dispatched_at": now,
			"last_error":    "",
		}).Error
}

func (r *EventRepository) MarkAttemptFailed(ctx context.Context, messageID string, reason string, giveUp bool) error {
	status := eventDomain.DispatchPending
	if giveUp {
		status = eventDomain.DispatchFailed
	}
	return r.db.WithContext(ctx).Model(&eventDomain.OutboxMessage{}).
		Where("message_id = ?", messageID).
		Updates(map[string]any{
			"status":     status,
			"attempts":   gorm.Expr("attempts + 1"),
			"last_error": reason,
		}).Error
}
