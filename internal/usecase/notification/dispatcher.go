// Package notification drains the outbox written alongside ledger mutations and
// hands each message to a Notifier. It never reads or writes ledger tables.
package notification

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"contrack-backend/internal/domain/event"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

type Dispatcher struct {
	events   event.Repository
	notifier Notifier
	cfg      Config
	log      zerolog.Logger
}

func NewDispatcher(events event.Repository, notifier Notifier, cfg Config, log zerolog.Logger) *Dispatcher {
	return &Dispatcher{events: events, notifier: notifier, cfg: cfg.withDefaults(), log: log}
}

// Run polls until ctx is cancelled. Batch errors are logged and the loop keeps going.
func (d *Dispatcher) Run(ctx context.Context) error {
	ticker := time.NewTicker(d.cfg.PollInterval)
	defer ticker.Stop()
	d.log.Info().Dur("interval", d.cfg.PollInterval).Int("batch", d.cfg.BatchSize).Msg("outbox dispatcher started")
	for {
		select {
		case <-ctx.Done():
			d.log.Info().Msg("outbox dispatcher stopped")
			return nil
		case <-ticker.C:
			res, err := d.RunOnce(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				d.log.Warn().Err(err).Msg("outbox poll failed")
				continue
			}
			if res.Total > 0 {
				d.log.Debug().Int("sent", res.Sent).Int("failed", res.Failed).Int("abandoned", res.Abandoned).Msg("outbox batch dispatched")
			}
		}
	}
}

// RunOnce delivers one batch of pending messages. Only a failure to read the
// outbox is returned; delivery failures are counted and retried on later polls.
func (d *Dispatcher) RunOnce(ctx context.Context) (BatchResult, error) {
	msgs, err := d.events.PendingOutbox(ctx, d.cfg.BatchSize)
	if err != nil {
		return BatchResult{}, err
	}
	res := BatchResult{Total: len(msgs)}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.cfg.Concurrency)
	for _, msg := range msgs {
		msg := msg
		g.Go(func() error {
			outcome := d.deliver(gctx, msg)
			mu.Lock()
			defer mu.Unlock()
			switch outcome {
			case outcomeSent:
				res.Sent++
			case outcomeRetry:
				res.Failed++
			case outcomeAbandoned:
				res.Failed++
				res.Abandoned++
			}
			return nil
		})
	}
	_ = g.Wait()
	return res, nil
}

type outcome int

const (
	outcomeSent outcome = iota
	outcomeRetry
	outcomeAbandoned
)

func (d *Dispatcher) deliver(ctx context.Context, msg event.OutboxMessage) outcome {
	log := d.log.With().Str("message_id", msg.MessageID).Str("event_type", string(msg.EventType)).
		Str("recipient", msg.Recipient).Logger()

	var p event.Payload
	if len(msg.Payload) > 0 {
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			// a payload that cannot be decoded will never deliver
			d.markFailed(ctx, log, msg, err, true)
			return outcomeAbandoned
		}
	}

	if err := d.notifier.Notify(ctx, Render(msg, p)); err != nil {
		giveUp := msg.Attempts+1 >= d.cfg.MaxAttempts
		d.markFailed(ctx, log, msg, err, giveUp)
		if giveUp {
			return outcomeAbandoned
		}
		return outcomeRetry
	}
	if err := d.events.MarkSent(ctx, msg.MessageID); err != nil {
		log.Warn().Err(err).Msg("notification delivered but not marked sent")
	}
	return outcomeSent
}

func (d *Dispatcher) markFailed(ctx context.Context, log zerolog.Logger, msg event.OutboxMessage, cause error, giveUp bool) {
	log.Warn().Err(cause).Int("attempt", msg.Attempts+1).Bool("give_up", giveUp).Msg("notification delivery failed")
	if err := d.events.MarkAttemptFailed(ctx, msg.MessageID, cause.Error(), giveUp); err != nil {
		log.Warn().Err(err).Msg("could not record delivery failure")
	}
}
