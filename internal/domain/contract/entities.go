package contract

import (
	"time"

	"contrack-backend/internal/domain/apperr"

	"github.com/shopspring/decimal"
)

var ErrNotFound = apperr.New(apperr.KindNotFound, "", "contract not found")

type Status string

const (
	StatusDraft          Status = "DRAFT"
	StatusActive         Status = "ACTIVE"
	StatusInVerification Status = "IN_VERIFICATION"
	StatusSettled        Status = "SETTLED"
	StatusDisputed       Status = "DISPUTED"
	StatusCancelled      Status = "CANCELLED"
)

var transitions = map[Status][]Status{
	StatusDraft:          {StatusActive, StatusCancelled},
	StatusActive:         {StatusInVerification, StatusDisputed, StatusSettled, StatusCancelled},
	StatusInVerification: {StatusSettled, StatusDisputed, StatusCancelled},
	StatusDisputed:       {StatusInVerification, StatusSettled, StatusCancelled},
}

// CanTransitionTo reports whether next is reachable from s in one step.
func (s Status) CanTransitionTo(next Status) bool {
	for _, n := range transitions[s] {
		if n == next {
			return true
		}
	}
	return false
}

// Terminal statuses have no outgoing transitions.
func (s Status) Terminal() bool { return len(transitions[s]) == 0 }

// Sources lists every status that may move to target.
func Sources(target Status) []Status {
	var out []Status
	for _, from := range []Status{StatusDraft, StatusActive, StatusInVerification, StatusDisputed} {
		if from.CanTransitionTo(target) {
			out = append(out, from)
		}
	}
	return out
}

type RiskTier string

const (
	TierLow     RiskTier = "LOW"
	TierMedium  RiskTier = "MEDIUM"
	TierHigh    RiskTier = "HIGH"
	TierNeutral RiskTier = "NEUTRAL"
)

// Contract is the unit of work between a client and a vendor.
// RemainingAmount is always Value minus TotalPaid.
type Contract struct {
	ID               uint64              `gorm:"primaryKey;column:id" json:"-"`
	ContractID       string              `gorm:"column:contract_id;size:32;uniqueIndex:ux_contracts_contract_id" json:"contract_id"`
	Title            string              `gorm:"column:title;size:200;not null" json:"title"`
	Description      string              `gorm:"column:description;type:text" json:"description"`
	Value            decimal.Decimal     `gorm:"column:value;type:decimal(20,8);not null" json:"value"`
	Currency         string              `gorm:"column:currency;size:3;not null;default:'USD'" json:"currency"`
	Status           Status              `gorm:"column:status;size:20;not null;index:idx_contracts_status" json:"status"`
	ClientID         string              `gorm:"column:client_id;size:32;not null;index:idx_contracts_client" json:"client_id"`
	VendorID         string              `gorm:"column:vendor_id;size:32;index:idx_contracts_vendor" json:"vendor_id,omitempty"`
	TotalPaid        decimal.Decimal     `gorm:"column:total_paid;type:decimal(20,8);not null" json:"total_paid"`
	RemainingAmount  decimal.Decimal     `gorm:"column:remaining_amount;type:decimal(20,8);not null" json:"remaining_amount"`
	RiskScore        int                 `gorm:"column:risk_score" json:"risk_score"`
	RiskTier         RiskTier            `gorm:"column:risk_tier;size:10" json:"risk_tier"`
	PricingModifier  decimal.Decimal     `gorm:"column:pricing_modifier;type:decimal(10,6)" json:"pricing_modifier"`
	SettlementAmount decimal.NullDecimal `gorm:"column:settlement_amount;type:decimal(20,8)" json:"settlement_amount"`
	SettledAt        *time.Time          `gorm:"column:settled_at" json:"settled_at,omitempty"`
	CreatedAt        time.Time           `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time           `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Contract) TableName() string { return "contracts" }

// IsParty reports whether userID is the client or the vendor.
func (c *Contract) IsParty(userID string) bool {
	return userID != "" && (userID == c.ClientID || userID == c.VendorID)
}

// StatusCount is one row of a per-status aggregate for a user.
type StatusCount struct {
	Status Status
	Count  int64
}
