package pool

import (
	"time"

	"contrack-backend/internal/domain/apperr"
	"contrack-backend/internal/domain/money"
	"contrack-backend/pkg/id"

	"github.com/shopspring/decimal"
)

var (
	// PlatformFeeRate is taken from the gross return of every settled exposure.
	PlatformFeeRate = decimal.RequireFromString("0.025")
	// ActivationFeeRate prices an exposure when the caller does not supply a fee.
	ActivationFeeRate = decimal.RequireFromString("0.01")
)

// Snapshot reasons.
const (
	ReasonInvestment = "INVESTMENT"
	ReasonRedemption = "REDEMPTION"
	ReasonSettlement = "SETTLEMENT"
	ReasonDefault    = "DEFAULT"
	ReasonRecovery   = "RECOVERY"
)

// New returns an empty pool priced at par.
func New(name, description string, risk RiskCategory) *Pool {
	return &Pool{
		PoolID:           id.NewID32(),
		Name:             name,
		Description:      description,
		RiskCategory:     risk,
		TotalCapital:     decimal.Zero,
		LockedCapital:    decimal.Zero,
		AvailableCapital: decimal.Zero,
		CurrentNAV:       money.One,
		TotalUnits:       decimal.Zero,
	}
}

// NAV is the price of one unit. A pool with no units outstanding trades at par;
// otherwise the stored NAV is used as is, including zero after a full write-off.
func (p *Pool) NAV() decimal.Decimal {
	if !p.TotalUnits.IsPositive() {
		return money.One
	}
	return p.CurrentNAV
}

// Balanced reports whether total capital equals locked plus available.
func (p *Pool) Balanced() bool {
	return p.TotalCapital.Equal(p.LockedCapital.Add(p.AvailableCapital))
}

func (p *Pool) recomputeNAV() {
	if !p.TotalUnits.IsPositive() {
		p.CurrentNAV = money.One
		return
	}
	nav := p.TotalCapital.DivRound(p.TotalUnits, money.Scale)
	if nav.IsNegative() {
		nav = decimal.Zero
	}
	p.CurrentNAV = nav
}

// Snapshot captures the pool's current pricing.
func (p *Pool) Snapshot(reason string) *NAVSnapshot {
	return &NAVSnapshot{
		PoolID:       p.PoolID,
		NAV:          p.CurrentNAV,
		TotalCapital: p.TotalCapital,
		TotalUnits:   p.TotalUnits,
		Reason:       reason,
	}
}

// Subscription is the outcome of an investment.
type Subscription struct {
	Amount decimal.Decimal
	Units  decimal.Decimal
	NAV    decimal.Decimal
}

// Subscribe issues units for amount at the pre-investment NAV. NAV does not move.
// A written-off pool with units still outstanding cannot take new money.
func (p *Pool) Subscribe(amount decimal.Decimal) (Subscription, error) {
	const op = "pool.Subscribe"
	amount = money.Round(amount)
	if !money.Positive(amount) {
		return Subscription{}, apperr.Validation(op, apperr.FieldError{Field: "amount", Message: "must be greater than 0"})
	}
	nav := p.NAV()
	if !nav.IsPositive() {
		return Subscription{}, apperr.From(apperr.ErrInvalidState, op,
			"pool NAV is "+nav.String()+" with "+p.TotalUnits.String()+" units outstanding")
	}
	units := amount.DivRound(nav, money.Scale)
	if !units.IsPositive() {
		return Subscription{}, apperr.Validation(op, apperr.FieldError{Field: "amount", Message: "too small to issue units"})
	}
	p.TotalCapital = p.TotalCapital.Add(amount)
	p.AvailableCapital = p.AvailableCapital.Add(amount)
	p.TotalUnits = p.TotalUnits.Add(units)
	p.CurrentNAV = nav
	return Subscription{Amount: amount, Units: units, NAV: nav}, nil
}

// Redeem pays out units × NAV from available capital. holding is what the investor may redeem.
// At a NAV of zero the units are retired for nothing.
func (p *Pool) Redeem(units, holding decimal.Decimal) (decimal.Decimal, error) {
	const op = "pool.Redeem"
	units = money.Round(units)
	if !money.Positive(units) {
		return decimal.Zero, apperr.Validation(op, apperr.FieldError{Field: "units", Message: "must be greater than 0"})
	}
	if holding.LessThan(units) {
		return decimal.Zero, apperr.From(apperr.ErrInsufficientUnits, op, "holding "+holding.String()+", requested "+units.String())
	}
	nav := p.NAV()
	amount := money.Round(units.Mul(nav))
	if p.AvailableCapital.LessThan(amount) {
		return decimal.Zero, apperr.From(apperr.ErrInsufficientLiquidity, op, "available "+p.AvailableCapital.String()+", required "+amount.String())
	}
	p.TotalCapital = p.TotalCapital.Sub(amount)
	p.AvailableCapital = p.AvailableCapital.Sub(amount)
	p.TotalUnits = p.TotalUnits.Sub(units)
	if !p.TotalUnits.IsPositive() {
		p.CurrentNAV = money.One
	}
	return amount, nil
}

// Commit locks amount of available capital against a new exposure.
func (p *Pool) Commit(contractID string, amount, fee decimal.Decimal) (*Exposure, error) {
	const op = "pool.Commit"
	amount = money.Round(amount)
	if !money.Positive(amount) {
		return nil, apperr.Validation(op, apperr.FieldError{Field: "exposure_amount", Message: "must be greater than 0"})
	}
	if fee.IsNegative() {
		return nil, apperr.Validation(op, apperr.FieldError{Field: "activation_fee", Message: "must be greater than or equal to 0"})
	}
	if p.AvailableCapital.LessThan(amount) {
		return nil, apperr.From(apperr.ErrInsufficientCapital, op, "available "+p.AvailableCapital.String()+", requested "+amount.String())
	}
	p.AvailableCapital = p.AvailableCapital.Sub(amount)
	p.LockedCapital = p.LockedCapital.Add(amount)
	return &Exposure{
		ExposureID:     id.NewID32(),
		PoolID:         p.PoolID,
		ContractID:     contractID,
		ExposureAmount: amount,
		ActivationFee:  money.Round(fee),
		Status:         ExposureActive,
		DelayPenalty:   decimal.Zero,
		PlatformFee:    decimal.Zero,
		PoolReturn:     decimal.Zero,
		RecoveryAmount: decimal.Zero,
	}, nil
}

// DefaultActivationFee is the fee charged when none is supplied.
func DefaultActivationFee(amount decimal.Decimal) decimal.Decimal {
	return money.ApplyRate(amount, ActivationFeeRate)
}

// SettlementBreakdown is how a settled exposure's gross return is split.
type SettlementBreakdown struct {
	TotalReturn decimal.Decimal `json:"total_return"`
	PlatformFee decimal.Decimal `json:"platform_fee"`
	PoolReturn  decimal.Decimal `json:"pool_return"`
	NetChange   decimal.Decimal `json:"net_change"`
}

// BreakdownFor prices the settlement of e with the given delay penalty.
func BreakdownFor(e *Exposure, delayPenalty decimal.Decimal) SettlementBreakdown {
	total := e.ExposureAmount.Add(e.ActivationFee).Add(delayPenalty)
	fee := money.ApplyRate(total, PlatformFeeRate)
	ret := total.Sub(fee)
	return SettlementBreakdown{
		TotalReturn: total,
		PlatformFee: fee,
		PoolReturn:  ret,
		NetChange:   ret.Sub(e.ExposureAmount),
	}
}

func (p *Pool) ensureCovered(op string, e *Exposure) error {
	if e.PoolID != p.PoolID {
		return apperr.Newf(apperr.KindInternal, op, "exposure %s belongs to pool %s", e.ExposureID, e.PoolID)
	}
	if p.LockedCapital.LessThan(e.ExposureAmount) {
		return apperr.Newf(apperr.KindInternal, op, "locked capital %s below exposure %s", p.LockedCapital, e.ExposureAmount)
	}
	return nil
}

// Settle releases an active exposure and credits the pool's share of its return.
func (p *Pool) Settle(e *Exposure, delayPenalty decimal.Decimal, now time.Time) (SettlementBreakdown, error) {
	const op = "pool.Settle"
	if !e.Status.CanTransitionTo(ExposureSettled) {
		return SettlementBreakdown{}, apperr.From(apperr.ErrInvalidState, op, "exposure is "+string(e.Status))
	}
	delayPenalty = money.Round(delayPenalty)
	if delayPenalty.IsNegative() {
		return SettlementBreakdown{}, apperr.Validation(op, apperr.FieldError{Field: "delay_penalty", Message: "must be greater than or equal to 0"})
	}
	if err := p.ensureCovered(op, e); err != nil {
		return SettlementBreakdown{}, err
	}
	b := BreakdownFor(e, delayPenalty)
	p.LockedCapital = p.LockedCapital.Sub(e.ExposureAmount)
	p.AvailableCapital = p.AvailableCapital.Add(b.PoolReturn)
	p.TotalCapital = p.TotalCapital.Add(b.NetChange)
	p.recomputeNAV()

	e.Status = ExposureSettled
	e.DelayPenalty = delayPenalty
	e.PlatformFee = b.PlatformFee
	e.PoolReturn = b.PoolReturn
	e.SettledAt = &now
	return b, nil
}

// WriteDown defaults an active exposure. The pool absorbs exposure minus recovery as a loss.
func (p *Pool) WriteDown(e *Exposure, recovery decimal.Decimal, now time.Time) (decimal.Decimal, error) {
	const op = "pool.WriteDown"
	if !e.Status.CanTransitionTo(ExposureDefaulted) {
		return decimal.Zero, apperr.From(apperr.ErrInvalidState, op, "exposure is "+string(e.Status))
	}
	recovery = money.Round(recovery)
	if recovery.IsNegative() || recovery.GreaterThan(e.ExposureAmount) {
		return decimal.Zero, apperr.Validation(op, apperr.FieldError{Field: "recovery_amount", Message: "must be between 0 and the exposure amount"})
	}
	if err := p.ensureCovered(op, e); err != nil {
		return decimal.Zero, err
	}
	loss := e.ExposureAmount.Sub(recovery)
	p.LockedCapital = p.LockedCapital.Sub(e.ExposureAmount)
	p.AvailableCapital = p.AvailableCapital.Add(recovery)
	p.TotalCapital = p.TotalCapital.Sub(loss)
	p.recomputeNAV()

	e.Status = ExposureDefaulted
	e.RecoveryAmount = recovery
	e.DefaultedAt = &now
	return loss, nil
}

// Recover credits a post-default recovery. Only a full recovery closes the exposure.
func (p *Pool) Recover(e *Exposure, amount decimal.Decimal, full bool, now time.Time) error {
	const op = "pool.Recover"
	if e.Status != ExposureDefaulted {
		return apperr.From(apperr.ErrInvalidState, op, "exposure is "+string(e.Status))
	}
	if e.PoolID != p.PoolID {
		return apperr.Newf(apperr.KindInternal, op, "exposure %s belongs to pool %s", e.ExposureID, e.PoolID)
	}
	amount = money.Round(amount)
	if amount.IsNegative() || (amount.IsZero() && !full) {
		return apperr.Validation(op, apperr.FieldError{Field: "amount", Message: "must be greater than 0"})
	}
	p.TotalCapital = p.TotalCapital.Add(amount)
	p.AvailableCapital = p.AvailableCapital.Add(amount)
	p.recomputeNAV()

	e.RecoveryAmount = e.RecoveryAmount.Add(amount)
	if full {
		e.Status = ExposureRecovered
		e.RecoveredAt = &now
	}
	return nil
}

// RecoveryRate is recovered / exposed as a percentage.
func (e *Exposure) RecoveryRate() decimal.Decimal {
	if !e.ExposureAmount.IsPositive() {
		return decimal.Zero
	}
	return e.RecoveryAmount.Mul(money.Hundred).DivRound(e.ExposureAmount, 2)
}
