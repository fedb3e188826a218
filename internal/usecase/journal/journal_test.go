package journal

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"contrack-backend/internal/domain/event"
	"contrack-backend/internal/testutil/eventmock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecord_EnqueuesDistinctRecipients(t *testing.T) {
	var (
		appended []*event.Event
		queued   []*event.OutboxMessage
	)
	repo := &eventmock.Repo{
		AppendFn: func(_ context.Context, e *event.Event) error {
			e.EventID = "evt"
			appended = append(appended, e)
			return nil
		},
		EnqueueFn: func(_ context.Context, m *event.OutboxMessage) error {
			queued = append(queued, m)
			return nil
		},
	}

	ev, err := Record(context.Background(), repo, Entry{
		Type:       event.ContractSettled,
		ContractID: "ct",
		Metadata:   map[string]any{"amount": "100"},
		Notify:     []string{"client", "", "vendor", "client"},
	})
	require.NoError(t, err)
	require.Len(t, appended, 1)
	assert.Equal(t, "evt", ev.EventID)
	require.Len(t, queued, 2)
	assert.Equal(t, "client", queued[0].Recipient)
	assert.Equal(t, "vendor", queued[1].Recipient)
	assert.Equal(t, "evt", queued[0].EventID)

	var p event.Payload
	require.NoError(t, json.Unmarshal(queued[0].Payload, &p))
	assert.Equal(t, "ct", p.ContractID)
	assert.Equal(t, "100", p.Metadata["amount"])
}

func TestRecord_PropagatesAppendError(t *testing.T) {
	boom := errors.New("boom")
	repo := &eventmock.Repo{AppendFn: func(context.Context, *event.Event) error { return boom }}
	_, err := Record(context.Background(), repo, Entry{Type: event.PoolCreated, Notify: []string{"x"}})
	assert.ErrorIs(t, err, boom)
}

func TestArtifact(t *testing.T) {
	var got *event.Artifact
	repo := &eventmock.Repo{AppendArtifactFn: func(_ context.Context, a *event.Artifact) error { got = a; return nil }}
	require.NoError(t, Artifact(context.Background(), repo, event.ArtifactWarning, "ct", map[string]string{"reason": "x"}))
	require.NotNil(t, got)
	assert.Equal(t, event.ArtifactWarning, got.Type)
	assert.JSONEq(t, `{"reason":"x"}`, string(got.Data))
}
