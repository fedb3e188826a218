package payment

import (
	"fmt"
	"strings"
	"time"

	"contrack-backend/internal/domain/apperr"
	"contrack-backend/internal/domain/money"
	"contrack-backend/pkg/id"

	"github.com/shopspring/decimal"
)

var (
	minPercentTotal = decimal.RequireFromString("99.99")
	maxPercentTotal = decimal.RequireFromString("100.01")
)

// Milestone is an unpriced schedule entry as submitted by a caller.
type Milestone struct {
	Name        string
	Description string
	Percentage  decimal.Decimal
	DueDate     *time.Time
}

// BuildSchedules prices milestones against contractValue. The percentages must sum to
// 100 within ±0.01 and each must lie in [0, 100]. Orders are assigned 1..n in input order.
func BuildSchedules(contractID string, contractValue decimal.Decimal, milestones []Milestone) ([]Schedule, error) {
	const op = "payment.BuildSchedules"
	if len(milestones) == 0 {
		return nil, apperr.Validation(op, apperr.FieldError{Field: "milestones", Message: "must contain at least one milestone"})
	}
	var fields []apperr.FieldError
	total := decimal.Zero
	for i, m := range milestones {
		if strings.TrimSpace(m.Name) == "" {
			fields = append(fields, apperr.FieldError{Field: fmt.Sprintf("milestones[%d].name", i), Message: "is required"})
		}
		if m.Percentage.IsNegative() || m.Percentage.GreaterThan(money.Hundred) {
			fields = append(fields, apperr.FieldError{Field: fmt.Sprintf("milestones[%d].percentage", i), Message: "must be between 0 and 100"})
		}
		total = total.Add(m.Percentage)
	}
	if total.LessThan(minPercentTotal) || total.GreaterThan(maxPercentTotal) {
		fields = append(fields, apperr.FieldError{
			Field:   "milestones",
			Message: "percentages must sum to 100, got " + total.String(),
		})
	}
	if len(fields) > 0 {
		return nil, apperr.Validation(op, fields...)
	}

	out := make([]Schedule, 0, len(milestones))
	for i, m := range milestones {
		out = append(out, Schedule{
			ScheduleID:  id.NewID32(),
			ContractID:  contractID,
			Name:        strings.TrimSpace(m.Name),
			Description: strings.TrimSpace(m.Description),
			Percentage:  m.Percentage,
			Amount:      money.Percent(contractValue, m.Percentage),
			DueDate:     m.DueDate,
			Order:       i + 1,
		})
	}
	return out, nil
}
