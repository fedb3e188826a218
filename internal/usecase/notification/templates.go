package notification

import (
	"fmt"

	"contrack-backend/internal/domain/event"
)

type template struct {
	title    string
	message  func(m meta) string
	priority Priority
}

type meta map[string]any

func (m meta) s(key string) string {
	v, ok := m[key]
	if !ok || v == nil {
		return ""
	}
	return fmt.Sprint(v)
}

func (m meta) or(key, fallback string) string {
	if v := m.s(key); v != "" {
		return v
	}
	return fallback
}

var templates = map[event.Type]template{
	event.ContractCreated: {"New Contract Created", func(m meta) string {
		return fmt.Sprintf("Contract %q has been created and is pending client activation.", m.s("title"))
	}, PriorityMedium},
	event.ContractActivated: {"Contract Activated", func(m meta) string {
		return fmt.Sprintf("Contract %q has been activated by the client.", m.s("title"))
	}, PriorityHigh},
	event.ContractVerified: {"Delivery Verified", func(m meta) string {
		return fmt.Sprintf("Proof of delivery for %q has been verified.", m.s("title"))
	}, PriorityHigh},
	event.ContractSettled: {"Settlement Complete", func(m meta) string {
		return fmt.Sprintf("Contract settled successfully. Amount: $%s.", m.s("total_amount"))
	}, PriorityHigh},
	event.ContractCancelled: {"Contract Cancelled", func(m meta) string {
		return fmt.Sprintf("Contract %q was cancelled: %s.", m.s("title"), m.s("reason"))
	}, PriorityHigh},
	event.ContractDisputed: {"Contract Disputed", func(m meta) string {
		return fmt.Sprintf("A dispute was raised on %q: %s.", m.s("title"), m.s("reason"))
	}, PriorityUrgent},
	event.ProofSubmitted: {"Proof Submitted", func(m meta) string {
		return fmt.Sprintf("The vendor submitted proof for %q. Result: %s.", m.s("title"), m.s("status"))
	}, PriorityMedium},
	event.ManualReviewDone: {"Manual Review Completed", func(m meta) string {
		return fmt.Sprintf("Manual review of %q finished: %s.", m.s("title"), m.s("status"))
	}, PriorityMedium},
	event.PaymentCreated: {"Payment Initiated", func(m meta) string {
		return fmt.Sprintf("A payment of $%s was recorded for %q.", m.s("amount"), m.s("title"))
	}, PriorityMedium},
	event.PaymentCompleted: {"Payment Received", func(m meta) string {
		return fmt.Sprintf("Payment of $%s completed. Remaining on contract: $%s.", m.s("amount"), m.s("remaining_amount"))
	}, PriorityHigh},
	event.PaymentFailed: {"Payment Failed", func(m meta) string {
		return fmt.Sprintf("Payment of $%s failed: %s.", m.s("amount"), m.or("reason", "no reason given"))
	}, PriorityUrgent},
	event.PaymentReminder: {"Payment Reminder", func(m meta) string {
		msg := fmt.Sprintf("Milestone %q has $%s outstanding.", m.s("milestone_name"), m.s("outstanding"))
		if due := m.s("due_date"); due != "" {
			msg += " Due " + due + "."
		}
		return msg
	}, PriorityHigh},
	event.MilestoneReached: {"Milestone Reached", func(m meta) string {
		return fmt.Sprintf("Milestone %q has been paid.", m.s("milestone_name"))
	}, PriorityMedium},
	event.ExposureCreated: {"Pool Exposure Created", func(m meta) string {
		return fmt.Sprintf("%s is now underwriting your contract for $%s.", m.or("pool_name", "A pool"), m.s("exposure_amount"))
	}, PriorityMedium},
	event.ExposureSettled: {"Exposure Settled", func(m meta) string {
		return fmt.Sprintf("Pool exposure resolved. Return: $%s.", m.s("pool_return"))
	}, PriorityMedium},
	event.ExposureDefaulted: {"Contract Default", func(meta) string {
		return "Contract has defaulted. Recovery process initiated."
	}, PriorityUrgent},
	event.ExposureRecovery: {"Recovery Recorded", func(m meta) string {
		return fmt.Sprintf("$%s recovered on a defaulted exposure (%s).", m.s("recovery_amount"), m.or("recovery_type", "PARTIAL"))
	}, PriorityMedium},
	event.PoolInvestment: {"Investment Confirmed", func(m meta) string {
		return fmt.Sprintf("You purchased %s units at NAV %s.", m.s("units"), m.s("nav"))
	}, PriorityMedium},
	event.PoolRedemption: {"Redemption Processed", func(m meta) string {
		return fmt.Sprintf("%s units redeemed for $%s.", m.s("units"), m.s("amount"))
	}, PriorityMedium},
	event.NAVUpdated: {"Pool NAV Updated", func(m meta) string {
		return fmt.Sprintf("NAV is now %s.", m.s("nav"))
	}, PriorityLow},
}

// Render turns an outbox message into a notification. Event types without a
// template get a generic low-priority notice.
func Render(msg event.OutboxMessage, p event.Payload) Notification {
	n := Notification{
		MessageID:  msg.MessageID,
		EventID:    msg.EventID,
		Type:       msg.EventType,
		Recipient:  msg.Recipient,
		ContractID: p.ContractID,
		PoolID:     p.PoolID,
		Metadata:   p.Metadata,
		CreatedAt:  msg.CreatedAt,
	}
	t, ok := templates[msg.EventType]
	if !ok {
		n.Title = "Account Update"
		n.Message = "Please review your dashboard."
		n.Priority = PriorityLow
		return n
	}
	n.Title = t.title
	n.Message = t.message(meta(p.Metadata))
	n.Priority = t.priority
	return n
}
