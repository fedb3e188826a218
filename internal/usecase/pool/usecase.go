// Package pool is the capital pool ledger. Every mutation runs against one
// locked, versioned pool row and is retried when another writer got there first.
package pool

import (
	"context"
	"time"

	"contrack-backend/internal/domain/apperr"
	"contrack-backend/internal/domain/contract"
	"contrack-backend/internal/domain/event"
	"contrack-backend/internal/domain/money"
	poolDomain "contrack-backend/internal/domain/pool"
	"contrack-backend/internal/domain/uow"
	"contrack-backend/internal/usecase/intake"
	"contrack-backend/internal/usecase/journal"
	"contrack-backend/pkg/id"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const maxAttempts = 3

type Usecase struct {
	pools     poolDomain.Repository
	exposures poolDomain.ExposureRepository
	contracts contract.Repository
	uow       uow.UnitOfWork
	validate  *intake.Validator
	log       zerolog.Logger
	now       func() time.Time
}

func NewUsecase(pools poolDomain.Repository, exposures poolDomain.ExposureRepository, contracts contract.Repository,
	tx uow.UnitOfWork, v *intake.Validator, log zerolog.Logger) *Usecase {
	if v == nil {
		v = intake.New()
	}
	return &Usecase{
		pools: pools, exposures: exposures, contracts: contracts, uow: tx,
		validate: v, log: log, now: func() time.Time { return time.Now().UTC() },
	}
}

// withPool runs fn on the locked pool, checks the capital identity and writes the
// pool back under its version. Version conflicts rerun the whole unit of work.
func (u *Usecase) withPool(ctx context.Context, op, poolID string, fn func(r uow.Repos, p *poolDomain.Pool) error) error {
	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err = u.uow.WithinPoolTx(ctx, poolID, func(r uow.Repos, p *poolDomain.Pool) error {
			if err := fn(r, p); err != nil {
				return err
			}
			if !p.Balanced() {
				return apperr.Newf(apperr.KindInternal, op, "pool %s out of balance: total %s, locked %s, available %s",
					p.PoolID, p.TotalCapital, p.LockedCapital, p.AvailableCapital)
			}
			return r.Pools.SaveVersioned(ctx, p)
		})
		if !apperr.IsKind(err, apperr.KindConflict) {
			break
		}
		u.log.Warn().Str("op", op).Str("pool_id", poolID).Int("attempt", attempt).Msg("pool version conflict, retrying")
	}
	return apperr.Wrap(op, err)
}

func (u *Usecase) CreatePool(ctx context.Context, req intake.PoolRequest, actorID string) (*poolDomain.Pool, error) {
	const op = "pool.CreatePool"
	req, err := u.validate.Pool(req)
	if err != nil {
		return nil, err
	}
	p := poolDomain.New(req.Name, req.Description, poolDomain.RiskCategory(req.RiskCategory))
	err = u.uow.WithinTx(ctx, func(r uow.Repos) error {
		if err := r.Pools.Create(ctx, p); err != nil {
			return err
		}
		_, err := journal.Record(ctx, r.Events, journal.Entry{
			Type:     event.PoolCreated,
			PoolID:   p.PoolID,
			ActorID:  actorID,
			Metadata: map[string]any{"name": p.Name, "risk_category": p.RiskCategory},
		})
		return err
	})
	if err != nil {
		return nil, apperr.Wrap(op, err)
	}
	u.log.Info().Str("op", op).Str("pool_id", p.PoolID).Str("risk_category", string(p.RiskCategory)).Msg("pool created")
	return p, nil
}

// Invest buys units at the pre-investment NAV.
func (u *Usecase) Invest(ctx context.Context, poolID string, req intake.InvestmentRequest) (*InvestmentResult, error) {
	const op = "pool.Invest"
	if err := u.validate.Investment(req); err != nil {
		return nil, err
	}
	var out *InvestmentResult
	err := u.withPool(ctx, op, poolID, func(r uow.Repos, p *poolDomain.Pool) error {
		sub, err := p.Subscribe(req.Amount)
		if err != nil {
			return err
		}
		unit := &poolDomain.Unit{
			UnitID:     id.NewID32(),
			PoolID:     p.PoolID,
			InvestorID: req.InvestorID,
			Units:      sub.Units,
			NAVAtEntry: sub.NAV,
			AmountPaid: sub.Amount,
		}
		if err := r.Pools.AppendUnit(ctx, unit); err != nil {
			return err
		}
		if err := r.Pools.AppendNAV(ctx, p.Snapshot(poolDomain.ReasonInvestment)); err != nil {
			return err
		}
		if _, err := journal.Record(ctx, r.Events, journal.Entry{
			Type:    event.PoolInvestment,
			PoolID:  p.PoolID,
			ActorID: req.InvestorID,
			Metadata: map[string]any{
				"amount": sub.Amount.String(), "units": sub.Units.String(), "nav": sub.NAV.String(), "pool_name": p.Name,
			},
			Notify: []string{req.InvestorID},
		}); err != nil {
			return err
		}
		out = &InvestmentResult{PoolID: p.PoolID, UnitID: unit.UnitID, Amount: sub.Amount, Units: sub.Units, NAV: sub.NAV, Pool: p}
		return nil
	})
	if err != nil {
		return nil, err
	}
	u.log.Info().Str("op", op).Str("pool_id", poolID).Str("investor_id", req.InvestorID).
		Str("amount", out.Amount.String()).Str("units", out.Units.String()).Msg("investment recorded")
	return out, nil
}

// Redeem pays units back at the current NAV out of available capital only.
func (u *Usecase) Redeem(ctx context.Context, poolID string, req intake.RedemptionRequest) (*RedemptionResult, error) {
	const op = "pool.Redeem"
	if err := u.validate.Redemption(req); err != nil {
		return nil, err
	}
	var out *RedemptionResult
	err := u.withPool(ctx, op, poolID, func(r uow.Repos, p *poolDomain.Pool) error {
		units, err := r.Pools.ListUnitsByHolder(ctx, p.PoolID, req.InvestorID)
		if err != nil {
			return err
		}
		redeemed, err := r.Pools.ListRedemptionsByHolder(ctx, p.PoolID, req.InvestorID)
		if err != nil {
			return err
		}
		holding := poolDomain.HoldingOf(p.PoolID, req.InvestorID, units, redeemed)
		nav := p.NAV()
		amount, err := p.Redeem(req.Units, holding.NetUnits())
		if err != nil {
			return err
		}
		rd := &poolDomain.Redemption{
			RedemptionID: id.NewID32(),
			PoolID:       p.PoolID,
			InvestorID:   req.InvestorID,
			Units:        money.Round(req.Units),
			NAV:          nav,
			Amount:       amount,
		}
		if err := r.Pools.AppendRedemption(ctx, rd); err != nil {
			return err
		}
		if err := r.Pools.AppendNAV(ctx, p.Snapshot(poolDomain.ReasonRedemption)); err != nil {
			return err
		}
		if _, err := journal.Record(ctx, r.Events, journal.Entry{
			Type:    event.PoolRedemption,
			PoolID:  p.PoolID,
			ActorID: req.InvestorID,
			Metadata: map[string]any{
				"units": rd.Units.String(), "amount": amount.String(), "nav": nav.String(), "pool_name": p.Name,
			},
			Notify: []string{req.InvestorID},
		}); err != nil {
			return err
		}
		out = &RedemptionResult{PoolID: p.PoolID, RedemptionID: rd.RedemptionID, Units: rd.Units, Amount: amount, NAV: nav, Pool: p}
		return nil
	})
	if err != nil {
		return nil, err
	}
	u.log.Info().Str("op", op).Str("pool_id", poolID).Str("investor_id", req.InvestorID).
		Str("units", out.Units.String()).Str("amount", out.Amount.String()).Msg("redemption recorded")
	return out, nil
}

// CreateExposure locks pool capital against a live contract.
func (u *Usecase) CreateExposure(ctx context.Context, poolID string, req intake.ExposureRequest, actorID string) (*poolDomain.Exposure, error) {
	const op = "pool.CreateExposure"
	if err := u.validate.Exposure(req); err != nil {
		return nil, err
	}
	fee := poolDomain.DefaultActivationFee(req.ExposureAmount)
	if req.ActivationFee != nil {
		fee = *req.ActivationFee
	}

	var out *poolDomain.Exposure
	err := u.withPool(ctx, op, poolID, func(r uow.Repos, p *poolDomain.Pool) error {
		c, err := r.Contracts.GetByContractID(ctx, req.ContractID)
		if err != nil {
			return err
		}
		if c.Status.Terminal() {
			return apperr.From(apperr.ErrInvalidState, op, "contract is "+string(c.Status))
		}
		e, err := p.Commit(c.ContractID, req.ExposureAmount, fee)
		if err != nil {
			return err
		}
		if err := r.Exposures.Create(ctx, e); err != nil {
			return err
		}
		if _, err := journal.Record(ctx, r.Events, journal.Entry{
			Type:       event.ExposureCreated,
			ContractID: c.ContractID,
			PoolID:     p.PoolID,
			ActorID:    actorID,
			Metadata: map[string]any{
				"exposure_id": e.ExposureID, "exposure_amount": e.ExposureAmount.String(),
				"activation_fee": e.ActivationFee.String(), "pool_name": p.Name, "title": c.Title,
			},
			Notify: []string{c.VendorID},
		}); err != nil {
			return err
		}
		out = e
		return nil
	})
	if err != nil {
		return nil, err
	}
	u.log.Info().Str("op", op).Str("pool_id", poolID).Str("contract_id", req.ContractID).
		Str("exposure_id", out.ExposureID).Str("amount", out.ExposureAmount.String()).Msg("exposure created")
	return out, nil
}

// exposurePool resolves which pool an exposure lives in so its row can be locked first.
func (u *Usecase) exposurePool(ctx context.Context, exposureID string) (string, error) {
	e, err := u.exposures.GetByExposureID(ctx, exposureID)
	if err != nil {
		return "", err
	}
	return e.PoolID, nil
}

// SettleExposure releases an ACTIVE exposure and credits the pool's net return.
func (u *Usecase) SettleExposure(ctx context.Context, exposureID string, delayPenalty decimal.Decimal, actorID string) (*SettlementResult, error) {
	const op = "pool.SettleExposure"
	poolID, err := u.exposurePool(ctx, exposureID)
	if err != nil {
		return nil, apperr.Wrap(op, err)
	}
	var out *SettlementResult
	err = u.withPool(ctx, op, poolID, func(r uow.Repos, p *poolDomain.Pool) error {
		e, err := r.Exposures.GetByExposureIDForUpdate(ctx, exposureID)
		if err != nil {
			return err
		}
		b, err := p.Settle(e, delayPenalty, u.now())
		if err != nil {
			return err
		}
		if err := r.Exposures.Save(ctx, e); err != nil {
			return err
		}
		if err := r.Pools.AppendNAV(ctx, p.Snapshot(poolDomain.ReasonSettlement)); err != nil {
			return err
		}
		if err := u.recordResolution(ctx, r, p, e, event.ExposureSettled, actorID, map[string]any{
			"total_return": b.TotalReturn.String(), "platform_fee": b.PlatformFee.String(),
			"pool_return": b.PoolReturn.String(), "net_change": b.NetChange.String(),
		}); err != nil {
			return err
		}
		out = &SettlementResult{Exposure: e, Breakdown: b, NAV: p.CurrentNAV}
		return nil
	})
	if err != nil {
		return nil, err
	}
	u.log.Info().Str("op", op).Str("exposure_id", exposureID).Str("pool_id", poolID).
		Str("pool_return", out.Breakdown.PoolReturn.String()).Str("nav", out.NAV.String()).Msg("exposure settled")
	return out, nil
}

// DefaultExposure writes an ACTIVE exposure down; the pool absorbs exposure minus recovery.
func (u *Usecase) DefaultExposure(ctx context.Context, exposureID string, recovery decimal.Decimal, actorID string) (*DefaultResult, error) {
	const op = "pool.DefaultExposure"
	poolID, err := u.exposurePool(ctx, exposureID)
	if err != nil {
		return nil, apperr.Wrap(op, err)
	}
	var out *DefaultResult
	err = u.withPool(ctx, op, poolID, func(r uow.Repos, p *poolDomain.Pool) error {
		e, err := r.Exposures.GetByExposureIDForUpdate(ctx, exposureID)
		if err != nil {
			return err
		}
		loss, err := p.WriteDown(e, recovery, u.now())
		if err != nil {
			return err
		}
		if err := r.Exposures.Save(ctx, e); err != nil {
			return err
		}
		if err := r.Pools.AppendNAV(ctx, p.Snapshot(poolDomain.ReasonDefault)); err != nil {
			return err
		}
		if err := u.recordResolution(ctx, r, p, e, event.ExposureDefaulted, actorID, map[string]any{
			"loss": loss.String(), "recovery_amount": e.RecoveryAmount.String(),
		}); err != nil {
			return err
		}
		out = &DefaultResult{Exposure: e, Loss: loss, NAV: p.CurrentNAV}
		return nil
	})
	if err != nil {
		return nil, err
	}
	u.log.Info().Str("op", op).Str("exposure_id", exposureID).Str("pool_id", poolID).
		Str("loss", out.Loss.String()).Str("nav", out.NAV.String()).Msg("exposure defaulted")
	return out, nil
}

// RecordRecovery credits money recovered on a DEFAULTED exposure.
func (u *Usecase) RecordRecovery(ctx context.Context, in RecoveryInput) (*RecoveryResult, error) {
	const op = "pool.RecordRecovery"
	poolID, err := u.exposurePool(ctx, in.ExposureID)
	if err != nil {
		return nil, apperr.Wrap(op, err)
	}
	var out *RecoveryResult
	err = u.withPool(ctx, op, poolID, func(r uow.Repos, p *poolDomain.Pool) error {
		e, err := r.Exposures.GetByExposureIDForUpdate(ctx, in.ExposureID)
		if err != nil {
			return err
		}
		if err := p.Recover(e, in.Amount, in.Full, u.now()); err != nil {
			return err
		}
		if err := r.Exposures.Save(ctx, e); err != nil {
			return err
		}
		if err := r.Pools.AppendNAV(ctx, p.Snapshot(poolDomain.ReasonRecovery)); err != nil {
			return err
		}
		recoveryType := "PARTIAL"
		if in.Full {
			recoveryType = "FULL"
		}
		if err := u.recordResolution(ctx, r, p, e, event.ExposureRecovery, in.ActorID, map[string]any{
			"recovery_amount": money.Round(in.Amount).String(), "recovery_type": recoveryType,
			"total_recovered": e.RecoveryAmount.String(), "notes": in.Notes,
		}); err != nil {
			return err
		}
		out = &RecoveryResult{Exposure: e, TotalRecovered: e.RecoveryAmount, NAV: p.CurrentNAV}
		return nil
	})
	if err != nil {
		return nil, err
	}
	u.log.Info().Str("op", op).Str("exposure_id", in.ExposureID).Str("pool_id", poolID).
		Str("total_recovered", out.TotalRecovered.String()).Bool("full", in.Full).Msg("recovery recorded")
	return out, nil
}

// recordResolution journals an exposure outcome and the NAV move it caused.
func (u *Usecase) recordResolution(ctx context.Context, r uow.Repos, p *poolDomain.Pool, e *poolDomain.Exposure,
	typ event.Type, actorID string, meta map[string]any) error {
	meta["exposure_id"] = e.ExposureID
	meta["exposure_amount"] = e.ExposureAmount.String()
	meta["pool_name"] = p.Name

	var notify []string
	if c, err := r.Contracts.GetByContractID(ctx, e.ContractID); err == nil {
		meta["title"] = c.Title
		notify = []string{c.ClientID, c.VendorID}
	}
	if _, err := journal.Record(ctx, r.Events, journal.Entry{
		Type: typ, ContractID: e.ContractID, PoolID: p.PoolID, ActorID: actorID, Metadata: meta, Notify: notify,
	}); err != nil {
		return err
	}
	_, err := journal.Record(ctx, r.Events, journal.Entry{
		Type:    event.NAVUpdated,
		PoolID:  p.PoolID,
		ActorID: actorID,
		Metadata: map[string]any{
			"nav": p.CurrentNAV.String(), "total_capital": p.TotalCapital.String(),
			"total_units": p.TotalUnits.String(), "cause": string(typ),
		},
	})
	return err
}

func (u *Usecase) GetPool(ctx context.Context, poolID string) (*poolDomain.Pool, error) {
	p, err := u.pools.GetByPoolID(ctx, poolID)
	if err != nil {
		return nil, apperr.Wrap("pool.GetPool", err)
	}
	return p, nil
}

// GetNAVHistory returns the pool's snapshots, oldest first.
func (u *Usecase) GetNAVHistory(ctx context.Context, poolID string) ([]poolDomain.NAVSnapshot, error) {
	const op = "pool.GetNAVHistory"
	if _, err := u.pools.GetByPoolID(ctx, poolID); err != nil {
		return nil, apperr.Wrap(op, err)
	}
	out, err := u.pools.ListNAV(ctx, poolID)
	if err != nil {
		return nil, apperr.Wrap(op, err)
	}
	return out, nil
}

func (u *Usecase) GetInvestorHolding(ctx context.Context, poolID, investorID string) (*InvestorHolding, error) {
	const op = "pool.GetInvestorHolding"
	p, err := u.pools.GetByPoolID(ctx, poolID)
	if err != nil {
		return nil, apperr.Wrap(op, err)
	}
	units, err := u.pools.ListUnitsByHolder(ctx, poolID, investorID)
	if err != nil {
		return nil, apperr.Wrap(op, err)
	}
	redeemed, err := u.pools.ListRedemptionsByHolder(ctx, poolID, investorID)
	if err != nil {
		return nil, apperr.Wrap(op, err)
	}
	h := poolDomain.HoldingOf(poolID, investorID, units, redeemed)
	net := h.NetUnits()
	return &InvestorHolding{
		Holding:      h,
		NetUnits:     net,
		NAV:          p.NAV(),
		CurrentValue: money.Round(net.Mul(p.NAV())),
	}, nil
}

// GetRecoveryStatus reports every exposure of a contract with its recovery progress.
func (u *Usecase) GetRecoveryStatus(ctx context.Context, contractID string) ([]RecoveryStatus, error) {
	const op = "pool.GetRecoveryStatus"
	if _, err := u.contracts.GetByContractID(ctx, contractID); err != nil {
		return nil, apperr.Wrap(op, err)
	}
	exposures, err := u.exposures.ListByContract(ctx, contractID)
	if err != nil {
		return nil, apperr.Wrap(op, err)
	}
	names := map[string]string{}
	out := make([]RecoveryStatus, 0, len(exposures))
	for i := range exposures {
		e := &exposures[i]
		name, ok := names[e.PoolID]
		if !ok {
			if p, err := u.pools.GetByPoolID(ctx, e.PoolID); err == nil {
				name = p.Name
			}
			names[e.PoolID] = name
		}
		out = append(out, RecoveryStatus{
			ExposureID:         e.ExposureID,
			PoolID:             e.PoolID,
			PoolName:           name,
			OriginalAmount:     e.ExposureAmount,
			RecoveredAmount:    e.RecoveryAmount,
			Status:             e.Status,
			RecoveryPercentage: e.RecoveryRate(),
		})
	}
	return out, nil
}
