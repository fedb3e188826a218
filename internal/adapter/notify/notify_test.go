package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"contrack-backend/internal/domain/event"
	"contrack-backend/internal/usecase/notification"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() notification.Notification {
	return notification.Notification{
		MessageID:  "m1",
		Type:       event.ContractSettled,
		Recipient:  "0123456789abcdef0123456789abcdef",
		Title:      "Contract Settled",
		Message:    "Contract settled for $10000.",
		Priority:   notification.PriorityHigh,
		ContractID: "c1",
	}
}

func TestLogNotifier_WritesStructuredLine(t *testing.T) {
	var buf bytes.Buffer
	n := NewLogNotifier(zerolog.New(&buf))

	require.NoError(t, n.Notify(context.Background(), sample()))

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "m1", line["message_id"])
	assert.Equal(t, "HIGH", line["priority"])
	assert.Equal(t, "Contract settled for $10000.", line["message"])
}

func TestRedisNotifier_Publishes(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	sub := rdb.Subscribe(ctx, "contrack:notifications")
	t.Cleanup(func() { _ = sub.Close() })
	_, err := sub.Receive(ctx)
	require.NoError(t, err)

	n := NewRedisNotifier(rdb, "contrack:notifications")
	require.NoError(t, n.Notify(ctx, sample()))

	msg, err := sub.ReceiveMessage(ctx)
	require.NoError(t, err)
	var got notification.Notification
	require.NoError(t, json.Unmarshal([]byte(msg.Payload), &got))
	assert.Equal(t, "m1", got.MessageID)
	assert.Equal(t, event.ContractSettled, got.Type)
}

func TestRedisNotifier_ErrorsWhenRedisDown(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = rdb.Close() })
	mr.Close()

	err := NewRedisNotifier(rdb, "contrack:notifications").Notify(context.Background(), sample())
	assert.ErrorContains(t, err, "publish notification m1")
}
