// Package payment is the payment schedule engine: milestone plans, payment
// records and the only path that moves a contract's paid totals.
package payment

import (
	"context"
	"encoding/json"
	"time"

	"contrack-backend/internal/domain/apperr"
	"contrack-backend/internal/domain/contract"
	"contrack-backend/internal/domain/event"
	"contrack-backend/internal/domain/money"
	paymentDomain "contrack-backend/internal/domain/payment"
	"contrack-backend/internal/domain/uow"
	"contrack-backend/internal/usecase/journal"
	"contrack-backend/pkg/id"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type Usecase struct {
	contracts contract.Repository
	payments  paymentDomain.Repository
	uow       uow.UnitOfWork
	log       zerolog.Logger
}

func NewUsecase(contracts contract.Repository, payments paymentDomain.Repository, tx uow.UnitOfWork, log zerolog.Logger) *Usecase {
	return &Usecase{contracts: contracts, payments: payments, uow: tx, log: log}
}

// CreateSchedule attaches a milestone plan to a contract that has none yet.
func (u *Usecase) CreateSchedule(ctx context.Context, contractID, actorID string, milestones []paymentDomain.Milestone) ([]paymentDomain.Schedule, error) {
	const op = "payment.CreateSchedule"
	var out []paymentDomain.Schedule
	err := u.uow.WithinContractTx(ctx, contractID, func(r uow.Repos, c *contract.Contract) error {
		if c.Status.Terminal() {
			return apperr.From(apperr.ErrInvalidState, op, "contract is "+string(c.Status))
		}
		existing, err := r.Payments.ListSchedules(ctx, c.ContractID)
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			return apperr.From(apperr.ErrInvalidState, op, "contract already has a payment schedule")
		}
		out, err = AttachSchedules(ctx, r, c, actorID, milestones)
		return err
	})
	if err != nil {
		return nil, apperr.Wrap(op, err)
	}
	u.log.Info().Str("op", op).Str("contract_id", contractID).Int("milestones", len(out)).Msg("payment schedule created")
	return out, nil
}

// AttachSchedules prices and stores milestones inside the caller's unit of work.
func AttachSchedules(ctx context.Context, r uow.Repos, c *contract.Contract, actorID string, milestones []paymentDomain.Milestone) ([]paymentDomain.Schedule, error) {
	schedules, err := paymentDomain.BuildSchedules(c.ContractID, c.Value, milestones)
	if err != nil {
		return nil, err
	}
	if err := r.Payments.CreateSchedules(ctx, schedules); err != nil {
		return nil, err
	}
	summary := make([]map[string]any, 0, len(schedules))
	for _, s := range schedules {
		summary = append(summary, map[string]any{"schedule_id": s.ScheduleID, "name": s.Name, "amount": s.Amount.String()})
	}
	_, err = journal.Record(ctx, r.Events, journal.Entry{
		Type:       event.ScheduleCreated,
		ContractID: c.ContractID,
		ActorID:    actorID,
		Metadata:   map[string]any{"milestone_count": len(schedules), "schedules": summary},
	})
	if err != nil {
		return nil, err
	}
	return schedules, nil
}

// RecordPayment creates a PENDING payment. It never moves the contract totals.
func (u *Usecase) RecordPayment(ctx context.Context, in RecordPaymentInput) (*paymentDomain.Payment, error) {
	const op = "payment.RecordPayment"
	amount := money.Round(in.Amount)
	if !money.Positive(amount) {
		return nil, apperr.Validation(op, apperr.FieldError{Field: "amount", Message: "must be greater than 0"})
	}
	meta, err := event.JSON(in.Metadata)
	if err != nil {
		return nil, apperr.Validation(op, apperr.FieldError{Field: "metadata", Message: "must be a JSON object"})
	}

	var p *paymentDomain.Payment
	err = u.uow.WithinContractTx(ctx, in.ContractID, func(r uow.Repos, c *contract.Contract) error {
		if c.Status == contract.StatusCancelled {
			return apperr.From(apperr.ErrInvalidState, op, "contract is cancelled")
		}
		if amount.GreaterThan(c.RemainingAmount.Add(money.Tolerance)) {
			return apperr.From(apperr.ErrAmountExceedsRemaining, op,
				"payment "+amount.String()+" exceeds remaining "+c.RemainingAmount.String())
		}
		if in.ScheduleID != "" {
			s, err := r.Payments.GetSchedule(ctx, in.ScheduleID)
			if err != nil {
				return err
			}
			if s.ContractID != c.ContractID {
				return apperr.Validation(op, apperr.FieldError{Field: "schedule_id", Message: "does not belong to this contract"})
			}
		}

		p = &paymentDomain.Payment{
			PaymentID:     id.NewID32(),
			ContractID:    c.ContractID,
			ScheduleID:    in.ScheduleID,
			Amount:        amount,
			Status:        paymentDomain.StatusPending,
			PayerID:       firstNonEmpty(in.PayerID, c.ClientID),
			PayeeID:       firstNonEmpty(in.PayeeID, c.VendorID),
			PaymentMethod: in.PaymentMethod,
			TransactionID: in.TransactionID,
			Metadata:      meta,
		}
		if err := r.Payments.Create(ctx, p); err != nil {
			return err
		}
		_, err := journal.Record(ctx, r.Events, journal.Entry{
			Type:       event.PaymentCreated,
			ContractID: c.ContractID,
			ActorID:    p.PayerID,
			Metadata: map[string]any{
				"payment_id": p.PaymentID, "amount": amount.String(),
				"schedule_id": p.ScheduleID, "title": c.Title,
			},
			Notify: []string{p.PayeeID},
		})
		return err
	})
	if err != nil {
		return nil, apperr.Wrap(op, err)
	}
	u.log.Info().Str("op", op).Str("contract_id", in.ContractID).Str("payment_id", p.PaymentID).Str("amount", amount.String()).Msg("payment recorded")
	return p, nil
}

// UpdatePaymentStatus moves a payment along its state machine. Requesting the
// status a payment already has is a no-op, so a repeated COMPLETED never double-counts.
func (u *Usecase) UpdatePaymentStatus(ctx context.Context, in UpdateStatusInput) (*paymentDomain.Payment, error) {
	const op = "payment.UpdatePaymentStatus"
	if !in.Status.Valid() {
		return nil, apperr.Validation(op, apperr.FieldError{Field: "status", Message: "is not a known payment status"})
	}

	var (
		out     *paymentDomain.Payment
		changed bool
	)
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		p, err := r.Payments.GetByPaymentIDForUpdate(ctx, in.PaymentID)
		if err != nil {
			return err
		}
		if p.Status == in.Status {
			out = p
			return nil
		}
		if !p.Status.CanTransitionTo(in.Status) {
			return apperr.From(apperr.ErrInvalidState, op, string(p.Status)+" -> "+string(in.Status))
		}

		var c *contract.Contract
		if in.Status == paymentDomain.StatusCompleted {
			if c, err = r.Contracts.GetByContractIDForUpdate(ctx, p.ContractID); err != nil {
				return err
			}
			if p.Amount.GreaterThan(c.RemainingAmount.Add(money.Tolerance)) {
				return apperr.From(apperr.ErrAmountExceedsRemaining, op,
					"payment "+p.Amount.String()+" exceeds remaining "+c.RemainingAmount.String())
			}
		}

		updates := map[string]any{}
		if len(in.Metadata) > 0 {
			merged, err := mergeJSON(p.Metadata, in.Metadata)
			if err != nil {
				return err
			}
			updates["metadata"] = merged
			p.Metadata = merged
		}
		now := time.Now().UTC()
		if in.Status == paymentDomain.StatusCompleted {
			updates["paid_at"] = now
			p.PaidAt = &now
		}
		ok, err := r.Payments.UpdateStatus(ctx, p.PaymentID, p.Status, in.Status, updates)
		if err != nil {
			return err
		}
		if !ok {
			return apperr.From(apperr.ErrVersionConflict, op, "payment "+p.PaymentID+" changed concurrently")
		}
		from := p.Status
		p.Status = in.Status
		out, changed = p, true

		switch in.Status {
		case paymentDomain.StatusCompleted:
			return u.complete(ctx, r, c, p, in.ActorID)
		case paymentDomain.StatusFailed:
			_, err = journal.Record(ctx, r.Events, journal.Entry{
				Type:       event.PaymentFailed,
				ContractID: p.ContractID,
				ActorID:    firstNonEmpty(in.ActorID, p.PayerID),
				Metadata: map[string]any{
					"payment_id": p.PaymentID, "amount": p.Amount.String(), "reason": in.Metadata["reason"],
				},
				Notify: []string{p.PayerID},
			})
			return err
		default:
			_, err = journal.Record(ctx, r.Events, journal.Entry{
				Type:       event.PaymentStatusChange,
				ContractID: p.ContractID,
				ActorID:    in.ActorID,
				Metadata:   map[string]any{"payment_id": p.PaymentID, "from": from, "to": in.Status},
			})
			return err
		}
	})
	if err != nil {
		return nil, apperr.Wrap(op, err)
	}
	if changed {
		u.log.Info().Str("op", op).Str("payment_id", out.PaymentID).Str("status", string(out.Status)).Msg("payment status updated")
	}
	return out, nil
}

// complete credits the contract and records the milestone.
func (u *Usecase) complete(ctx context.Context, r uow.Repos, c *contract.Contract, p *paymentDomain.Payment, actorID string) error {
	c.TotalPaid = c.TotalPaid.Add(p.Amount)
	c.RemainingAmount = c.Value.Sub(c.TotalPaid)
	if err := r.Contracts.Save(ctx, c); err != nil {
		return err
	}
	_, err := journal.Record(ctx, r.Events, journal.Entry{
		Type:       event.PaymentCompleted,
		ContractID: c.ContractID,
		ActorID:    firstNonEmpty(actorID, p.PayerID),
		Metadata: map[string]any{
			"payment_id": p.PaymentID, "amount": p.Amount.String(), "title": c.Title,
			"total_paid": c.TotalPaid.String(), "remaining_amount": c.RemainingAmount.String(),
		},
		Notify: []string{p.PayeeID},
	})
	if err != nil || p.ScheduleID == "" {
		return err
	}
	s, err := r.Payments.GetSchedule(ctx, p.ScheduleID)
	if err != nil {
		return err
	}
	_, err = journal.Record(ctx, r.Events, journal.Entry{
		Type:       event.MilestoneReached,
		ContractID: c.ContractID,
		Metadata:   map[string]any{"schedule_id": s.ScheduleID, "milestone_name": s.Name, "amount": p.Amount.String()},
		Notify:     []string{c.ClientID, c.VendorID},
	})
	return err
}

// CalculatePaymentProgress splits the plan into satisfied and upcoming milestones.
// A milestone is only satisfied once its COMPLETED payments cover its amount.
func (u *Usecase) CalculatePaymentProgress(ctx context.Context, contractID string) (*Progress, error) {
	const op = "payment.CalculatePaymentProgress"
	c, err := u.contracts.GetByContractID(ctx, contractID)
	if err != nil {
		return nil, apperr.Wrap(op, err)
	}
	schedules, err := u.payments.ListSchedules(ctx, contractID)
	if err != nil {
		return nil, apperr.Wrap(op, err)
	}
	payments, err := u.payments.ListByContract(ctx, contractID)
	if err != nil {
		return nil, apperr.Wrap(op, err)
	}

	paid := map[string]decimal.Decimal{}
	completed := make([]paymentDomain.Payment, 0)
	for _, p := range payments {
		if p.Status != paymentDomain.StatusCompleted {
			continue
		}
		completed = append(completed, p)
		if p.ScheduleID != "" {
			paid[p.ScheduleID] = paid[p.ScheduleID].Add(p.Amount)
		}
	}

	out := &Progress{
		ContractID:         c.ContractID,
		TotalAmount:        c.Value,
		TotalPaid:          c.TotalPaid,
		RemainingAmount:    c.RemainingAmount,
		PercentageComplete: decimal.Zero,
		Upcoming:           make([]ScheduleProgress, 0),
		Satisfied:          make([]ScheduleProgress, 0),
		CompletedPayments:  completed,
	}
	if c.Value.IsPositive() {
		out.PercentageComplete = c.TotalPaid.Mul(money.Hundred).DivRound(c.Value, 2)
	}
	for _, s := range schedules {
		sp := ScheduleProgress{Schedule: s, PaidAmount: paid[s.ScheduleID]}
		sp.Outstanding = decimal.Max(s.Amount.Sub(sp.PaidAmount), decimal.Zero)
		if sp.PaidAmount.LessThan(s.Amount) {
			out.Upcoming = append(out.Upcoming, sp)
		} else {
			out.Satisfied = append(out.Satisfied, sp)
		}
	}
	return out, nil
}

// GetPaymentHistory lists a contract's payments, newest first.
func (u *Usecase) GetPaymentHistory(ctx context.Context, contractID string) ([]paymentDomain.Payment, error) {
	const op = "payment.GetPaymentHistory"
	if _, err := u.contracts.GetByContractID(ctx, contractID); err != nil {
		return nil, apperr.Wrap(op, err)
	}
	out, err := u.payments.ListByContract(ctx, contractID)
	if err != nil {
		return nil, apperr.Wrap(op, err)
	}
	return out, nil
}

// GetPaymentSchedule lists a contract's milestones in order.
func (u *Usecase) GetPaymentSchedule(ctx context.Context, contractID string) ([]paymentDomain.Schedule, error) {
	const op = "payment.GetPaymentSchedule"
	if _, err := u.contracts.GetByContractID(ctx, contractID); err != nil {
		return nil, apperr.Wrap(op, err)
	}
	out, err := u.payments.ListSchedules(ctx, contractID)
	if err != nil {
		return nil, apperr.Wrap(op, err)
	}
	return out, nil
}

// SendPaymentReminder queues a reminder to the client for the unpaid part of a milestone.
func (u *Usecase) SendPaymentReminder(ctx context.Context, scheduleID, actorID string) (*Reminder, error) {
	const op = "payment.SendPaymentReminder"
	var out *Reminder
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		s, err := r.Payments.GetSchedule(ctx, scheduleID)
		if err != nil {
			return err
		}
		c, err := r.Contracts.GetByContractID(ctx, s.ContractID)
		if err != nil {
			return err
		}
		payments, err := r.Payments.ListBySchedule(ctx, scheduleID)
		if err != nil {
			return err
		}
		paid := decimal.Zero
		for _, p := range payments {
			if p.Status == paymentDomain.StatusCompleted {
				paid = paid.Add(p.Amount)
			}
		}
		outstanding := s.Amount.Sub(paid)
		if !outstanding.IsPositive() {
			return apperr.From(apperr.ErrInvalidState, op, "milestone already fully paid")
		}

		meta := map[string]any{
			"schedule_id": s.ScheduleID, "milestone_name": s.Name,
			"outstanding": outstanding.String(), "title": c.Title,
		}
		if s.DueDate != nil {
			meta["due_date"] = s.DueDate.UTC().Format(time.RFC3339)
		}
		if _, err := journal.Record(ctx, r.Events, journal.Entry{
			Type:       event.PaymentReminder,
			ContractID: c.ContractID,
			ActorID:    actorID,
			Metadata:   meta,
			Notify:     []string{c.ClientID},
		}); err != nil {
			return err
		}
		out = &Reminder{ScheduleID: s.ScheduleID, ContractID: c.ContractID, Recipient: c.ClientID, Outstanding: outstanding}
		return nil
	})
	if err != nil {
		return nil, apperr.Wrap(op, err)
	}
	return out, nil
}

func mergeJSON(current datatypes.JSON, patch map[string]any) (datatypes.JSON, error) {
	base := map[string]any{}
	if len(current) > 0 {
		if err := json.Unmarshal(current, &base); err != nil {
			return nil, err
		}
	}
	if base == nil {
		base = map[string]any{}
	}
	for k, v := range patch {
		base[k] = v
	}
	return event.JSON(base)
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
