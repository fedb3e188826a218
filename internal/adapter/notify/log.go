// Package notify holds the Notifier sinks the dispatcher can deliver to.
package notify

import (
	"context"

	"contrack-backend/internal/usecase/notification"

	"github.com/rs/zerolog"
)

// LogNotifier writes each notification as a structured log line.
type LogNotifier struct{ log zerolog.Logger }

func NewLogNotifier(log zerolog.Logger) *LogNotifier { return &LogNotifier{log: log} }

func (n *LogNotifier) Notify(_ context.Context, m notification.Notification) error {
	n.log.Info().
		Str("message_id", m.MessageID).
		Str("event_type", string(m.Type)).
		Str("recipient", m.Recipient).
		Str("priority", string(m.Priority)).
		Str("contract_id", m.ContractID).
		Str("pool_id", m.PoolID).
		Str("title", m.Title).
		Msg(m.Message)
	return nil
}
