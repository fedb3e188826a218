// Package journal writes audit events, artifacts and notification outbox rows.
// Callers pass the transaction-bound repository so the records commit with the mutation.
package journal

import (
	"context"

	"contrack-backend/internal/domain/event"
)

type Entry struct {
	Type       event.Type
	ContractID string
	PoolID     string
	ActorID    string
	Metadata   map[string]any
	// Notify lists recipient user ids; blanks and duplicates are skipped.
	Notify []string
}

// Record appends the event and one outbox message per recipient.
func Record(ctx context.Context, events event.Repository, e Entry) (*event.Event, error) {
	meta, err := event.JSON(e.Metadata)
	if err != nil {
		return nil, err
	}
	ev := &event.Event{
		Type:       e.Type,
		ContractID: e.ContractID,
		PoolID:     e.PoolID,
		ActorID:    e.ActorID,
		Metadata:   meta,
	}
	if err := events.Append(ctx, ev); err != nil {
		return nil, err
	}
	if len(e.Notify) == 0 {
		return ev, nil
	}

	payload, err := event.JSON(event.Payload{ContractID: e.ContractID, PoolID: e.PoolID, Metadata: e.Metadata})
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{}, len(e.Notify))
	for _, to := range e.Notify {
		if to == "" {
			continue
		}
		if _, dup := seen[to]; dup {
			continue
		}
		seen[to] = struct{}{}
		msg := &event.OutboxMessage{
			EventID:   ev.EventID,
			EventType: e.Type,
			Recipient: to,
			Payload:   payload,
			Status:    event.DispatchPending,
		}
		if err := events.Enqueue(ctx, msg); err != nil {
			return nil, err
		}
	}
	return ev, nil
}

// Artifact appends an immutable decision record for a contract.
func Artifact(ctx context.Context, events event.Repository, typ event.ArtifactType, contractID string, data any) error {
	body, err := event.JSON(data)
	if err != nil {
		return err
	}
	return events.AppendArtifact(ctx, &event.Artifact{Type: typ, ContractID: contractID, Data: body})
}
