package verification

import (
	contractDomain "contrack-backend/internal/domain/contract"

	"github.com/shopspring/decimal"
)

type ProofType string

const (
	ProofDeliveryReceipt   ProofType = "DELIVERY_RECEIPT"
	ProofServiceCompletion ProofType = "SERVICE_COMPLETION"
	ProofInvoice           ProofType = "INVOICE"
	ProofScreenshot        ProofType = "SCREENSHOT"
	ProofDocument          ProofType = "DOCUMENT"
	ProofURL               ProofType = "URL"
	ProofOther             ProofType = "OTHER"
)

type Status string

const (
	StatusVerified       Status = "VERIFIED"
	StatusRejected       Status = "REJECTED"
	StatusPendingReview  Status = "PENDING_REVIEW"
	StatusManualRequired Status = "MANUAL_REQUIRED"
)

type Evidence struct {
	Type        ProofType      `json:"type" validate:"required,oneof=DELIVERY_RECEIPT SERVICE_COMPLETION INVOICE SCREENSHOT DOCUMENT URL OTHER"`
	URL         string         `json:"url,omitempty" validate:"omitempty,url"`
	Description string         `json:"description,omitempty" validate:"max=2000"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

type ProofRequest struct {
	Evidence      []Evidence       `json:"evidence" validate:"dive"`
	InvoiceAmount *decimal.Decimal `json:"invoice_amount,omitempty" validate:"omitempty,gt=0"`
}

type Result struct {
	Status               Status                `json:"status"`
	Confidence           int                   `json:"confidence"`
	Reasons              []string              `json:"reasons"`
	RequiresManualReview bool                  `json:"requires_manual_review"`
	ContractStatus       contractDomain.Status `json:"contract_status,omitempty"`
	// Fallback is set when verification itself failed and the result is the safe default.
	Fallback bool   `json:"fallback"`
	Error    string `json:"error,omitempty"`
}

type ReviewResult struct {
	ContractID     string                `json:"contract_id"`
	Status         Status                `json:"status"`
	ReviewerID     string                `json:"reviewer_id"`
	ContractStatus contractDomain.Status `json:"contract_status"`
}
