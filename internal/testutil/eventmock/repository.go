package eventmock

import (
	"context"

	domain "contrack-backend/internal/domain/event"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
// Unset writers are no-ops; unset readers return empty results.
type Repo struct {
	AppendFn            func(ctx context.Context, e *domain.Event) error
	AppendArtifactFn    func(ctx context.Context, a *domain.Artifact) error
	EnqueueFn           func(ctx context.Context, m *domain.OutboxMessage) error
	ListByContractFn    func(ctx context.Context, contractID string) ([]domain.Event, error)
	ListArtifactsFn     func(ctx context.Context, contractID string) ([]domain.Artifact, error)
	PendingOutboxFn     func(ctx context.Context, limit int) ([]domain.OutboxMessage, error)
	MarkSentFn          func(ctx context.Context, messageID string) error
	MarkAttemptFailedFn func(ctx context.Context, messageID, reason string, giveUp bool) error
}

func (m *Repo) Append(ctx context.Context, e *domain.Event) error {
	if m.AppendFn != nil {
		return m.AppendFn(ctx, e)
	}
	return nil
}

func (m *Repo) AppendArtifact(ctx context.Context, a *domain.Artifact) error {
	if m.AppendArtifactFn != nil {
		return m.AppendArtifactFn(ctx, a)
	}
	return nil
}

func (m *Repo) Enqueue(ctx context.Context, msg *domain.OutboxMessage) error {
	if m.EnqueueFn != nil {
		return m.EnqueueFn(ctx, msg)
	}
	return nil
}

func (m *Repo) ListByContract(ctx context.Context, contractID string) ([]domain.Event, error) {
	if m.ListByContractFn != nil {
		return m.ListByContractFn(ctx, contractID)
	}
	return nil, nil
}

func (m *Repo) ListArtifacts(ctx context.Context, contractID string) ([]domain.Artifact, error) {
	if m.ListArtifactsFn != nil {
		return m.ListArtifactsFn(ctx, contractID)
	}
	return nil, nil
}

func (m *Repo) PendingOutbox(ctx context.Context, limit int) ([]domain.OutboxMessage, error) {
	if m.PendingOutboxFn != nil {
		return m.PendingOutboxFn(ctx, limit)
	}
	return nil, nil
}

func (m *Repo) MarkSent(ctx context.Context, messageID string) error {
	if m.MarkSentFn != nil {
		return m.MarkSentFn(ctx, messageID)
	}
	return nil
}

func (m *Repo) MarkAttemptFailed(ctx context.Context, messageID, reason string, giveUp bool) error {
	if m.MarkAttemptFailedFn != nil {
		return m.MarkAttemptFailedFn(ctx, messageID, reason, giveUp)
	}
	return nil
}
