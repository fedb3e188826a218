package payment

import (
	"context"
	"errors"
	"testing"

	"contrack-backend/internal/adapter/repository/mysql"
	"contrack-backend/internal/domain/apperr"
	"contrack-backend/internal/domain/contract"
	"contrack-backend/internal/domain/event"
	paymentDomain "contrack-backend/internal/domain/payment"
	"contrack-backend/internal/domain/uow"
	"contrack-backend/internal/testutil/dbtest"
	"contrack-backend/internal/testutil/fixture"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (*Usecase, uow.Repos) {
	t.Helper()
	db := dbtest.Open(t)
	repos := mysql.Repos(db)
	return NewUsecase(repos.Contracts, repos.Payments, mysql.NewGormUoW(db), zerolog.Nop()), repos
}

func milestones(pcts ...string) []paymentDomain.Milestone {
	out := make([]paymentDomain.Milestone, 0, len(pcts))
	for i, p := range pcts {
		out = append(out, paymentDomain.Milestone{Name: "m" + string(rune('1'+i)), Percentage: decimal.RequireFromString(p)})
	}
	return out
}

func eventTypes(t *testing.T, r uow.Repos, contractID string) []event.Type {
	t.Helper()
	evs, err := r.Events.ListByContract(context.Background(), contractID)
	require.NoError(t, err)
	out := make([]event.Type, 0, len(evs))
	for _, e := range evs {
		out = append(out, e.Type)
	}
	return out
}

func TestCreateSchedule(t *testing.T) {
	uc, r := setup(t)
	ctx := context.Background()
	c := fixture.Contract(t, r)

	got, err := uc.CreateSchedule(ctx, c.ContractID, c.ClientID, milestones("30", "70"))
	require.NoError(t, err)
	require.Len(t, got, 2)

	stored, err := uc.GetPaymentSchedule(ctx, c.ContractID)
	require.NoError(t, err)
	require.Len(t, stored, 2)
	assert.Equal(t, 1, stored[0].Order)
	assert.Equal(t, 2, stored[1].Order)
	assert.True(t, stored[0].Amount.Equal(decimal.NewFromInt(3000)), "amount=%s", stored[0].Amount)
	assert.True(t, stored[1].Amount.Equal(decimal.NewFromInt(7000)), "amount=%s", stored[1].Amount)
	assert.Contains(t, eventTypes(t, r, c.ContractID), event.ScheduleCreated)

	_, err = uc.CreateSchedule(ctx, c.ContractID, c.ClientID, milestones("100"))
	assert.ErrorIs(t, err, apperr.ErrInvalidState)
}

func TestCreateSchedule_RejectsBadSum(t *testing.T) {
	uc, r := setup(t)
	ctx := context.Background()
	c := fixture.Contract(t, r)

	_, err := uc.CreateSchedule(ctx, c.ContractID, "", milestones("30", "60"))
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))

	stored, err := uc.GetPaymentSchedule(ctx, c.ContractID)
	require.NoError(t, err)
	assert.Empty(t, stored)

	// within tolerance
	_, err = uc.CreateSchedule(ctx, c.ContractID, "", milestones("33.33", "33.33", "33.33"))
	assert.NoError(t, err)
}

func TestCreateSchedule_UnknownContract(t *testing.T) {
	uc, _ := setup(t)
	_, err := uc.CreateSchedule(context.Background(), "ffffffffffffffffffffffffffffffff", "", milestones("100"))
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound), "err=%v", err)
}

func TestRecordPayment_RemainingTolerance(t *testing.T) {
	uc, r := setup(t)
	ctx := context.Background()
	c := fixture.Contract(t, r)

	_, err := uc.RecordPayment(ctx, RecordPaymentInput{ContractID: c.ContractID, Amount: fixture.Dec(t, "10000.02")})
	assert.ErrorIs(t, err, apperr.ErrAmountExceedsRemaining)

	p, err := uc.RecordPayment(ctx, RecordPaymentInput{ContractID: c.ContractID, Amount: decimal.NewFromInt(10000)})
	require.NoError(t, err)
	assert.Equal(t, paymentDomain.StatusPending, p.Status)
	assert.Equal(t, c.ClientID, p.PayerID)
	assert.Equal(t, c.VendorID, p.PayeeID)

	stored, err := r.Contracts.GetByContractID(ctx, c.ContractID)
	require.NoError(t, err)
	assert.True(t, stored.TotalPaid.IsZero(), "recording must not move totals")
}

func TestRecordPayment_Guards(t *testing.T) {
	uc, r := setup(t)
	ctx := context.Background()
	cancelled := fixture.Contract(t, r, func(c *contract.Contract) { c.Status = contract.StatusCancelled })
	_, err := uc.RecordPayment(ctx, RecordPaymentInput{ContractID: cancelled.ContractID, Amount: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, apperr.ErrInvalidState)

	a, b := fixture.Contract(t, r), fixture.Contract(t, r)
	sched, err := uc.CreateSchedule(ctx, b.ContractID, "", milestones("100"))
	require.NoError(t, err)
	_, err = uc.RecordPayment(ctx, RecordPaymentInput{ContractID: a.ContractID, ScheduleID: sched[0].ScheduleID, Amount: decimal.NewFromInt(1)})
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))

	_, err = uc.RecordPayment(ctx, RecordPaymentInput{ContractID: a.ContractID, Amount: decimal.Zero})
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestUpdatePaymentStatus_CompletedTwiceCountsOnce(t *testing.T) {
	uc, r := setup(t)
	ctx := context.Background()
	c := fixture.Contract(t, r)
	p, err := uc.RecordPayment(ctx, RecordPaymentInput{ContractID: c.ContractID, Amount: decimal.NewFromInt(2500)})
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		got, err := uc.UpdatePaymentStatus(ctx, UpdateStatusInput{PaymentID: p.PaymentID, Status: paymentDomain.StatusCompleted})
		require.NoError(t, err)
		assert.Equal(t, paymentDomain.StatusCompleted, got.Status)
		assert.NotNil(t, got.PaidAt)
	}

	stored, err := r.Contracts.GetByContractID(ctx, c.ContractID)
	require.NoError(t, err)
	assert.True(t, stored.TotalPaid.Equal(decimal.NewFromInt(2500)), "total_paid=%s", stored.TotalPaid)
	assert.True(t, stored.RemainingAmount.Equal(decimal.NewFromInt(7500)), "remaining=%s", stored.RemainingAmount)

	completed := 0
	for _, typ := range eventTypes(t, r, c.ContractID) {
		if typ == event.PaymentCompleted {
			completed++
		}
	}
	assert.Equal(t, 1, completed)

	outbox, err := r.Events.PendingOutbox(ctx, 50)
	require.NoError(t, err)
	var toPayee int
	for _, m := range outbox {
		if m.EventType == event.PaymentCompleted && m.Recipient == c.VendorID {
			toPayee++
		}
	}
	assert.Equal(t, 1, toPayee)
}

func TestUpdatePaymentStatus_FailedLeavesTotals(t *testing.T) {
	uc, r := setup(t)
	ctx := context.Background()
	c := fixture.Contract(t, r)
	p, err := uc.RecordPayment(ctx, RecordPaymentInput{ContractID: c.ContractID, Amount: decimal.NewFromInt(100)})
	require.NoError(t, err)

	_, err = uc.UpdatePaymentStatus(ctx, UpdateStatusInput{
		PaymentID: p.PaymentID, Status: paymentDomain.StatusFailed,
		Metadata: map[string]any{"reason": "card declined"},
	})
	require.NoError(t, err)

	stored, err := r.Contracts.GetByContractID(ctx, c.ContractID)
	require.NoError(t, err)
	assert.True(t, stored.TotalPaid.IsZero())
	assert.Contains(t, eventTypes(t, r, c.ContractID), event.PaymentFailed)

	got, err := r.Payments.GetByPaymentID(ctx, p.PaymentID)
	require.NoError(t, err)
	assert.JSONEq(t, `{"reason":"card declined"}`, string(got.Metadata))

	_, err = uc.UpdatePaymentStatus(ctx, UpdateStatusInput{PaymentID: p.PaymentID, Status: paymentDomain.StatusCompleted})
	assert.ErrorIs(t, err, apperr.ErrInvalidState)
}

func TestUpdatePaymentStatus_RefundOnlyFromProcessing(t *testing.T) {
	uc, r := setup(t)
	ctx := context.Background()
	c := fixture.Contract(t, r)
	p, err := uc.RecordPayment(ctx, RecordPaymentInput{ContractID: c.ContractID, Amount: decimal.NewFromInt(100)})
	require.NoError(t, err)

	_, err = uc.UpdatePaymentStatus(ctx, UpdateStatusInput{PaymentID: p.PaymentID, Status: paymentDomain.StatusRefunded})
	assert.ErrorIs(t, err, apperr.ErrInvalidState)

	_, err = uc.UpdatePaymentStatus(ctx, UpdateStatusInput{PaymentID: p.PaymentID, Status: paymentDomain.StatusProcessing})
	require.NoError(t, err)
	got, err := uc.UpdatePaymentStatus(ctx, UpdateStatusInput{PaymentID: p.PaymentID, Status: paymentDomain.StatusRefunded})
	require.NoError(t, err)
	assert.Equal(t, paymentDomain.StatusRefunded, got.Status)
	assert.Contains(t, eventTypes(t, r, c.ContractID), event.PaymentStatusChange)

	_, err = uc.UpdatePaymentStatus(ctx, UpdateStatusInput{PaymentID: p.PaymentID, Status: "LOST"})
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestUpdatePaymentStatus_CompletionOverpayGuard(t *testing.T) {
	uc, r := setup(t)
	ctx := context.Background()
	c := fixture.Contract(t, r)
	first, err := uc.RecordPayment(ctx, RecordPaymentInput{ContractID: c.ContractID, Amount: decimal.NewFromInt(6000)})
	require.NoError(t, err)
	second, err := uc.RecordPayment(ctx, RecordPaymentInput{ContractID: c.ContractID, Amount: decimal.NewFromInt(6000)})
	require.NoError(t, err)

	_, err = uc.UpdatePaymentStatus(ctx, UpdateStatusInput{PaymentID: first.PaymentID, Status: paymentDomain.StatusCompleted})
	require.NoError(t, err)
	_, err = uc.UpdatePaymentStatus(ctx, UpdateStatusInput{PaymentID: second.PaymentID, Status: paymentDomain.StatusCompleted})
	assert.ErrorIs(t, err, apperr.ErrAmountExceedsRemaining)

	got, err := r.Payments.GetByPaymentID(ctx, second.PaymentID)
	require.NoError(t, err)
	assert.Equal(t, paymentDomain.StatusPending, got.Status)
}

func TestCalculatePaymentProgress_UnderpaidMilestoneStaysUpcoming(t *testing.T) {
	uc, r := setup(t)
	ctx := context.Background()
	c := fixture.Contract(t, r)
	sched, err := uc.CreateSchedule(ctx, c.ContractID, "", milestones("50", "50"))
	require.NoError(t, err)

	pay := func(amount int64) {
		p, err := uc.RecordPayment(ctx, RecordPaymentInput{ContractID: c.ContractID, ScheduleID: sched[0].ScheduleID, Amount: decimal.NewFromInt(amount)})
		require.NoError(t, err)
		_, err = uc.UpdatePaymentStatus(ctx, UpdateStatusInput{PaymentID: p.PaymentID, Status: paymentDomain.StatusCompleted})
		require.NoError(t, err)
	}

	pay(3000)
	prog, err := uc.CalculatePaymentProgress(ctx, c.ContractID)
	require.NoError(t, err)
	assert.Len(t, prog.Upcoming, 2)
	assert.Empty(t, prog.Satisfied)
	assert.True(t, prog.Upcoming[0].Outstanding.Equal(decimal.NewFromInt(2000)))
	assert.Contains(t, eventTypes(t, r, c.ContractID), event.MilestoneReached)

	pay(2000)
	prog, err = uc.CalculatePaymentProgress(ctx, c.ContractID)
	require.NoError(t, err)
	require.Len(t, prog.Satisfied, 1)
	assert.Equal(t, sched[0].ScheduleID, prog.Satisfied[0].ScheduleID)
	assert.Len(t, prog.Upcoming, 1)
	assert.Len(t, prog.CompletedPayments, 2)
	assert.Equal(t, "50", prog.PercentageComplete.String())
	assert.True(t, prog.RemainingAmount.Equal(decimal.NewFromInt(5000)))
}

func TestSendPaymentReminder(t *testing.T) {
	uc, r := setup(t)
	ctx := context.Background()
	c := fixture.Contract(t, r)
	sched, err := uc.CreateSchedule(ctx, c.ContractID, "", milestones("10", "90"))
	require.NoError(t, err)

	rem, err := uc.SendPaymentReminder(ctx, sched[0].ScheduleID, c.VendorID)
	require.NoError(t, err)
	assert.Equal(t, c.ClientID, rem.Recipient)
	assert.True(t, rem.Outstanding.Equal(decimal.NewFromInt(1000)))

	outbox, err := r.Events.PendingOutbox(ctx, 50)
	require.NoError(t, err)
	var reminders int
	for _, m := range outbox {
		if m.EventType == event.PaymentReminder {
			reminders++
			assert.Equal(t, c.ClientID, m.Recipient)
		}
	}
	assert.Equal(t, 1, reminders)

	p, err := uc.RecordPayment(ctx, RecordPaymentInput{ContractID: c.ContractID, ScheduleID: sched[0].ScheduleID, Amount: decimal.NewFromInt(1000)})
	require.NoError(t, err)
	_, err = uc.UpdatePaymentStatus(ctx, UpdateStatusInput{PaymentID: p.PaymentID, Status: paymentDomain.StatusCompleted})
	require.NoError(t, err)

	_, err = uc.SendPaymentReminder(ctx, sched[0].ScheduleID, "")
	assert.ErrorIs(t, err, apperr.ErrInvalidState)

	_, err = uc.SendPaymentReminder(ctx, "ffffffffffffffffffffffffffffffff", "")
	assert.True(t, errors.Is(err, paymentDomain.ErrScheduleNotFound))
}

func TestGetPaymentHistory_NewestFirst(t *testing.T) {
	uc, r := setup(t)
	ctx := context.Background()
	c := fixture.Contract(t, r)
	first, err := uc.RecordPayment(ctx, RecordPaymentInput{ContractID: c.ContractID, Amount: decimal.NewFromInt(1)})
	require.NoError(t, err)
	second, err := uc.RecordPayment(ctx, RecordPaymentInput{ContractID: c.ContractID, Amount: decimal.NewFromInt(2)})
	require.NoError(t, err)

	got, err := uc.GetPaymentHistory(ctx, c.ContractID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, second.PaymentID, got[0].PaymentID)
	assert.Equal(t, first.PaymentID, got[1].PaymentID)

	_, err = uc.GetPaymentHistory(ctx, "ffffffffffffffffffffffffffffffff")
	assert.ErrorIs(t, err, contract.ErrNotFound)
}
