package notification

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"contrack-backend/internal/adapter/repository/mysql"
	"contrack-backend/internal/domain/event"
	"contrack-backend/internal/testutil/dbtest"
	"contrack-backend/internal/usecase/journal"
	"contrack-backend/pkg/id"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type notifierFunc func(ctx context.Context, n Notification) error

func (f notifierFunc) Notify(ctx context.Context, n Notification) error { return f(ctx, n) }

type recorder struct {
	mu   sync.Mutex
	got  []Notification
	fail error
}

func (r *recorder) Notify(_ context.Context, n Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail != nil {
		return r.fail
	}
	r.got = append(r.got, n)
	return nil
}

func seed(t *testing.T, events event.Repository, recipients ...string) {
	t.Helper()
	_, err := journal.Record(context.Background(), events, journal.Entry{
		Type:       event.PaymentCompleted,
		ContractID: id.NewID32(),
		Metadata:   map[string]any{"amount": "2500", "remaining_amount": "7500"},
		Notify:     recipients,
	})
	require.NoError(t, err)
}

func outbox(t *testing.T, db *gorm.DB) []event.OutboxMessage {
	t.Helper()
	var out []event.OutboxMessage
	require.NoError(t, db.Order("id ASC").Find(&out).Error)
	return out
}

func TestRunOnce_DeliversAndMarksSent(t *testing.T) {
	db := dbtest.Open(t)
	events := mysql.NewEventRepository(db)
	a, b := id.NewID32(), id.NewID32()
	seed(t, events, a, b, a)

	rec := &recorder{}
	d := NewDispatcher(events, rec, Config{}, zerolog.Nop())
	res, err := d.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, BatchResult{Total: 2, Sent: 2}, res)

	require.Len(t, rec.got, 2)
	for _, n := range rec.got {
		assert.Equal(t, "Payment Received", n.Title)
		assert.Equal(t, "Payment of $2500 completed. Remaining on contract: $7500.", n.Message)
		assert.Equal(t, PriorityHigh, n.Priority)
	}
	for _, m := range outbox(t, db) {
		assert.Equal(t, event.DispatchSent, m.Status)
		assert.Equal(t, 1, m.Attempts)
		assert.NotNil(t, m.DispatchedAt)
	}

	res, err = d.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Zero(t, res.Total)
}

func TestRunOnce_RetriesThenGivesUp(t *testing.T) {
	db := dbtest.Open(t)
	events := mysql.NewEventRepository(db)
	seed(t, events, id.NewID32())

	down := notifierFunc(func(context.Context, Notification) error { return errors.New("smtp down") })
	d := NewDispatcher(events, down, Config{MaxAttempts: 2}, zerolog.Nop())

	res, err := d.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, BatchResult{Total: 1, Failed: 1}, res)
	msgs := outbox(t, db)
	require.Len(t, msgs, 1)
	assert.Equal(t, event.DispatchPending, msgs[0].Status)
	assert.Equal(t, "smtp down", msgs[0].LastError)

	res, err = d.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, BatchResult{Total: 1, Failed: 1, Abandoned: 1}, res)
	msgs = outbox(t, db)
	assert.Equal(t, event.DispatchFailed, msgs[0].Status)
	assert.Equal(t, 2, msgs[0].Attempts)

	res, err = d.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Zero(t, res.Total)
}

func TestRunOnce_UndecodablePayloadAbandoned(t *testing.T) {
	db := dbtest.Open(t)
	events := mysql.NewEventRepository(db)
	require.NoError(t, events.Enqueue(context.Background(), &event.OutboxMessage{
		EventID: id.NewID32(), EventType: event.NAVUpdated, Recipient: id.NewID32(), Payload: []byte(`[1,2]`),
	}))

	rec := &recorder{}
	res, err := NewDispatcher(events, rec, Config{}, zerolog.Nop()).RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, res.Abandoned)
	assert.Empty(t, rec.got)
	assert.Equal(t, event.DispatchFailed, outbox(t, db)[0].Status)
}

func TestRun_StopsOnCancel(t *testing.T) {
	db := dbtest.Open(t)
	events := mysql.NewEventRepository(db)
	seed(t, events, id.NewID32())

	delivered := make(chan Notification, 1)
	n := notifierFunc(func(_ context.Context, n Notification) error {
		delivered <- n
		return nil
	})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- NewDispatcher(events, n, Config{PollInterval: 10 * time.Millisecond}, zerolog.Nop()).Run(ctx)
	}()

	select {
	case got := <-delivered:
		assert.Equal(t, event.PaymentCompleted, got.Type)
	case <-time.After(2 * time.Second):
		t.Fatalf("no notification delivered")
	}
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatalf("dispatcher did not stop")
	}
}

func TestRender(t *testing.T) {
	msg := event.OutboxMessage{MessageID: "m", EventType: event.ExposureCreated, Recipient: "r"}
	n := Render(msg, event.Payload{ContractID: "c", Metadata: map[string]any{"pool_name": "Growth", "exposure_amount": "5000"}})
	assert.Equal(t, "Growth is now underwriting your contract for $5000.", n.Message)
	assert.Equal(t, "c", n.ContractID)

	n = Render(event.OutboxMessage{EventType: event.PaymentFailed}, event.Payload{Metadata: map[string]any{"amount": "10"}})
	assert.Equal(t, "Payment of $10 failed: no reason given.", n.Message)
	assert.Equal(t, PriorityUrgent, n.Priority)

	n = Render(event.OutboxMessage{EventType: event.PoolCreated}, event.Payload{})
	assert.Equal(t, "Account Update", n.Title)
	assert.Equal(t, PriorityLow, n.Priority)
}
