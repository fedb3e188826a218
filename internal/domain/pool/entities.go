package pool

import (
	"time"

	"contrack-backend/internal/domain/apperr"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound         = apperr.New(apperr.KindNotFound, "", "pool not found")
	ErrExposureNotFound = apperr.New(apperr.KindNotFound, "", "exposure not found")
)

type RiskCategory string

const (
	RiskLow      RiskCategory = "LOW_RISK"
	RiskMedium   RiskCategory = "MEDIUM_RISK"
	RiskHigh     RiskCategory = "HIGH_RISK"
	RiskSectoral RiskCategory = "SECTORAL"
)

func (r RiskCategory) Valid() bool {
	switch r {
	case RiskLow, RiskMedium, RiskHigh, RiskSectoral:
		return true
	}
	return false
}

// Pool is a capital pool. TotalCapital always equals LockedCapital + AvailableCapital.
// Version increments on every write.
type Pool struct {
	ID               uint64          `gorm:"primaryKey;column:id" json:"-"`
	PoolID           string          `gorm:"column:pool_id;size:32;uniqueIndex:ux_pools_pool_id" json:"pool_id"`
	Name             string          `gorm:"column:name;size:100;not null" json:"name"`
	Description      string          `gorm:"column:description;size:500" json:"description,omitempty"`
	RiskCategory     RiskCategory    `gorm:"column:risk_category;size:16;not null" json:"risk_category"`
	TotalCapital     decimal.Decimal `gorm:"column:total_capital;type:decimal(20,8);not null" json:"total_capital"`
	LockedCapital    decimal.Decimal `gorm:"column:locked_capital;type:decimal(20,8);not null" json:"locked_capital"`
	AvailableCapital decimal.Decimal `gorm:"column:available_capital;type:decimal(20,8);not null" json:"available_capital"`
	CurrentNAV       decimal.Decimal `gorm:"column:current_nav;type:decimal(20,8);not null" json:"current_nav"`
	TotalUnits       decimal.Decimal `gorm:"column:total_units;type:decimal(20,8);not null" json:"total_units"`
	Version          int64           `gorm:"column:version;not null;default:0" json:"version"`
	CreatedAt        time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Pool) TableName() string { return "pools" }

// Unit is an immutable subscription record. Holdings are derived by summing.
type Unit struct {
	ID         uint64          `gorm:"primaryKey;column:id" json:"-"`
	UnitID     string          `gorm:"column:unit_id;size:32;uniqueIndex:ux_pool_units_unit_id" json:"unit_id"`
	PoolID     string          `gorm:"column:pool_id;size:32;not null;index:idx_pool_units_holder" json:"pool_id"`
	InvestorID string          `gorm:"column:investor_id;size:32;not null;index:idx_pool_units_holder" json:"investor_id"`
	Units      decimal.Decimal `gorm:"column:units;type:decimal(20,8);not null" json:"units"`
	NAVAtEntry decimal.Decimal `gorm:"column:nav_at_entry;type:decimal(20,8);not null" json:"nav_at_entry"`
	AmountPaid decimal.Decimal `gorm:"column:amount_paid;type:decimal(20,8);not null" json:"amount_paid"`
	CreatedAt  time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

func (Unit) TableName() string { return "pool_units" }

// Redemption is an immutable record of units returned to the pool.
type Redemption struct {
	ID           uint64          `gorm:"primaryKey;column:id" json:"-"`
	RedemptionID string          `gorm:"column:redemption_id;size:32;uniqueIndex:ux_pool_redemptions_redemption_id" json:"redemption_id"`
	PoolID       string          `gorm:"column:pool_id;size:32;not null;index:idx_pool_redemptions_holder" json:"pool_id"`
	InvestorID   string          `gorm:"column:investor_id;size:32;not null;index:idx_pool_redemptions_holder" json:"investor_id"`
	Units        decimal.Decimal `gorm:"column:units;type:decimal(20,8);not null" json:"units"`
	NAV          decimal.Decimal `gorm:"column:nav;type:decimal(20,8);not null" json:"nav"`
	Amount       decimal.Decimal `gorm:"column:amount;type:decimal(20,8);not null" json:"amount"`
	CreatedAt    time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

func (Redemption) TableName() string { return "pool_redemptions" }

// NAVSnapshot is appended once per capital-affecting event.
type NAVSnapshot struct {
	ID           uint64          `gorm:"primaryKey;column:id" json:"-"`
	PoolID       string          `gorm:"column:pool_id;size:32;not null;index:idx_pool_navs_pool" json:"pool_id"`
	NAV          decimal.Decimal `gorm:"column:nav;type:decimal(20,8);not null" json:"nav"`
	TotalCapital decimal.Decimal `gorm:"column:total_capital;type:decimal(20,8);not null" json:"total_capital"`
	TotalUnits   decimal.Decimal `gorm:"column:total_units;type:decimal(20,8);not null" json:"total_units"`
	Reason       string          `gorm:"column:reason;size:32;not null" json:"reason"`
	CreatedAt    time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

func (NAVSnapshot) TableName() string { return "pool_navs" }

type ExposureStatus string

const (
	ExposureActive    ExposureStatus = "ACTIVE"
	ExposureSettled   ExposureStatus = "SETTLED"
	ExposureDefaulted ExposureStatus = "DEFAULTED"
	ExposureRecovered ExposureStatus = "RECOVERED"
)

var exposureTransitions = map[ExposureStatus][]ExposureStatus{
	ExposureActive:    {ExposureSettled, ExposureDefaulted},
	ExposureDefaulted: {ExposureRecovered},
}

func (s ExposureStatus) CanTransitionTo(next ExposureStatus) bool {
	for _, n := range exposureTransitions[s] {
		if n == next {
			return true
		}
	}
	return false
}

// Exposure is capital a pool has committed to one contract.
type Exposure struct {
	ID             uint64          `gorm:"primaryKey;column:id" json:"-"`
	ExposureID     string          `gorm:"column:exposure_id;size:32;uniqueIndex:ux_exposures_exposure_id" json:"exposure_id"`
	PoolID         string          `gorm:"column:pool_id;size:32;not null;index:idx_exposures_pool" json:"pool_id"`
	ContractID     string          `gorm:"column:contract_id;size:32;not null;index:idx_exposures_contract" json:"contract_id"`
	ExposureAmount decimal.Decimal `gorm:"column:exposure_amount;type:decimal(20,8);not null" json:"exposure_amount"`
	ActivationFee  decimal.Decimal `gorm:"column:activation_fee;type:decimal(20,8);not null" json:"activation_fee"`
	Status         ExposureStatus  `gorm:"column:status;size:16;not null;index:idx_exposures_status" json:"status"`
	DelayPenalty   decimal.Decimal `gorm:"column:delay_penalty;type:decimal(20,8);not null" json:"delay_penalty"`
	PlatformFee    decimal.Decimal `gorm:"column:platform_fee;type:decimal(20,8);not null" json:"platform_fee"`
	PoolReturn     decimal.Decimal `gorm:"column:pool_return;type:decimal(20,8);not null" json:"pool_return"`
	RecoveryAmount decimal.Decimal `gorm:"column:recovery_amount;type:decimal(20,8);not null" json:"recovery_amount"`
	SettledAt      *time.Time      `gorm:"column:settled_at" json:"settled_at,omitempty"`
	DefaultedAt    *time.Time      `gorm:"column:defaulted_at" json:"defaulted_at,omitempty"`
	RecoveredAt    *time.Time      `gorm:"column:recovered_at" json:"recovered_at,omitempty"`
	CreatedAt      time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Exposure) TableName() string { return "contract_exposures" }
