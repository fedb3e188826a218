package event

import "context"

type Repository interface {
	Append(ctx context.Context, e *Event) error
	AppendArtifact(ctx context.Context, a *Artifact) error
	Enqueue(ctx context.Context, m *OutboxMessage) error

	ListByContract(ctx context.Context, contractID string) ([]Event, error)
	ListArtifacts(ctx context.Context, contractID string) ([]Artifact, error)

	// PendingOutbox returns up to limit undelivered messages, oldest first.
	PendingOutbox(ctx context.Context, limit int) ([]OutboxMessage, error)
	MarkSent(ctx context.Context, messageID string) error
	MarkAttemptFailed(ctx context.Context, messageID string, reason string, giveUp bool) error
}
