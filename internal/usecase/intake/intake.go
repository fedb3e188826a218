package intake

import (
	"strings"

	"contrack-backend/internal/domain/payment"
)

// Contract trims and defaults req, then validates it. Defaults that a caller
// should know about come back as warnings.
func (x *Validator) Contract(req ContractRequest) (ContractRequest, []string, error) {
	var warnings []string

	req.Title = strings.TrimSpace(req.Title)
	req.Description = strings.TrimSpace(req.Description)
	req.ClientID = strings.TrimSpace(req.ClientID)
	req.VendorID = strings.TrimSpace(req.VendorID)
	req.InvoiceNumber = strings.TrimSpace(req.InvoiceNumber)
	req.PONumber = strings.TrimSpace(req.PONumber)

	req.WorkType = strings.ToUpper(strings.TrimSpace(req.WorkType))
	if req.WorkType == "" {
		req.WorkType = DefaultWorkType
	}
	req.Currency = strings.ToUpper(strings.TrimSpace(req.Currency))
	if req.Currency == "" {
		req.Currency = DefaultCurrency
	}
	req.SettlementTerms = strings.TrimSpace(req.SettlementTerms)
	if req.SettlementTerms == "" {
		req.SettlementTerms = DefaultSettlementTerms
		warnings = append(warnings, "settlement terms not provided, defaulting to "+DefaultSettlementTerms)
	}
	for i := range req.Milestones {
		req.Milestones[i].Name = strings.TrimSpace(req.Milestones[i].Name)
		req.Milestones[i].Description = strings.TrimSpace(req.Milestones[i].Description)
	}

	if err := x.Struct("intake.Contract", req); err != nil {
		return req, nil, err
	}
	return req, warnings, nil
}

func (x *Validator) Pool(req PoolRequest) (PoolRequest, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Description = strings.TrimSpace(req.Description)
	req.RiskCategory = strings.ToUpper(strings.TrimSpace(req.RiskCategory))
	return req, x.Struct("intake.Pool", req)
}

func (x *Validator) Investment(req InvestmentRequest) error {
	return x.Struct("intake.Investment", req)
}

func (x *Validator) Redemption(req RedemptionRequest) error {
	return x.Struct("intake.Redemption", req)
}

func (x *Validator) Exposure(req ExposureRequest) error {
	return x.Struct("intake.Exposure", req)
}

func (x *Validator) User(req UserRequest) (UserRequest, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Name = strings.TrimSpace(req.Name)
	req.Role = strings.ToUpper(strings.TrimSpace(req.Role))
	return req, x.Struct("intake.User", req)
}

// PaymentMilestones converts the submitted milestones for the schedule engine.
func (r ContractRequest) PaymentMilestones() []payment.Milestone { return Milestones(r.Milestones) }

func Milestones(ms []MilestoneRequest) []payment.Milestone {
	out := make([]payment.Milestone, 0, len(ms))
	for _, m := range ms {
		out = append(out, payment.Milestone{
			Name:        m.Name,
			Description: m.Description,
			Percentage:  m.Percentage,
			DueDate:     m.DueDate,
		})
	}
	return out
}
