package notification

import (
	"context"
	"time"

	"contrack-backend/internal/domain/event"
)

type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
	PriorityUrgent Priority = "URGENT"
)

// Notification is what a Notifier delivers to one recipient.
type Notification struct {
	MessageID  string         `json:"message_id"`
	EventID    string         `json:"event_id"`
	Type       event.Type     `json:"type"`
	Recipient  string         `json:"recipient"`
	Title      string         `json:"title"`
	Message    string         `json:"message"`
	Priority   Priority       `json:"priority"`
	ContractID string         `json:"contract_id,omitempty"`
	PoolID     string         `json:"pool_id,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}

// Notifier delivers a rendered notification. Delivery failures never reach the ledger.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

type Config struct {
	BatchSize    int
	MaxAttempts  int
	PollInterval time.Duration
	// Concurrency bounds deliveries in flight per batch.
	Concurrency int
}

func (c Config) withDefaults() Config {
	if c.BatchSize <= 0 {
		c.BatchSize = 50
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 5
	}
	if c.PollInterval <= 0 {
		c.PollInterval = 2 * time.Second
	}
	if c.Concurrency <= 0 {
		c.Concurrency = 4
	}
	return c
}

type BatchResult struct {
	Total     int `json:"total"`
	Sent      int `json:"sent"`
	Failed    int `json:"failed"`
	Abandoned int `json:"abandoned"`
}
