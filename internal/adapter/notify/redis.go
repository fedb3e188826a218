package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"contrack-backend/internal/usecase/notification"

	"github.com/redis/go-redis/v9"
)

// RedisNotifier publishes the JSON notification on a pub/sub channel. A publish
// with no subscribers still counts as delivered.
type RedisNotifier struct {
	rdb     redis.Cmdable
	channel string
}

func NewRedisNotifier(rdb redis.Cmdable, channel string) *RedisNotifier {
	return &RedisNotifier{rdb: rdb, channel: channel}
}

func (n *RedisNotifier) Notify(ctx context.Context, m notification.Notification) error {
	body, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("encode notification %s: %w", m.MessageID, err)
	}
	if err := n.rdb.Publish(ctx, n.channel, body).Err(); err != nil {
		return fmt.Errorf("publish notification %s: %w", m.MessageID, err)
	}
	return nil
}
