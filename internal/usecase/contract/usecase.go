// Package contract is the contract lifecycle manager. It owns the contract
// state machine and drives scoring, scheduling and exposure resolution.
package contract

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"contrack-backend/internal/domain/apperr"
	contractDomain "contrack-backend/internal/domain/contract"
	"contrack-backend/internal/domain/event"
	"contrack-backend/internal/domain/money"
	poolDomain "contrack-backend/internal/domain/pool"
	"contrack-backend/internal/domain/uow"
	"contrack-backend/internal/usecase/intake"
	"contrack-backend/internal/usecase/journal"
	"contrack-backend/internal/usecase/payment"
	poolUC "contrack-backend/internal/usecase/pool"
	"contrack-backend/internal/usecase/scoring"
	"contrack-backend/pkg/id"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Scorer is the advisory risk scorer. It must not fail.
type Scorer interface {
	Score(ctx context.Context, in scoring.Input) scoring.Result
}

// ExposureLedger resolves exposures; each call is its own pool unit of work.
type ExposureLedger interface {
	SettleExposure(ctx context.Context, exposureID string, delayPenalty decimal.Decimal, actorID string) (*poolUC.SettlementResult, error)
	DefaultExposure(ctx context.Context, exposureID string, recovery decimal.Decimal, actorID string) (*poolUC.DefaultResult, error)
}

type Usecase struct {
	contracts contractDomain.Repository
	exposures poolDomain.ExposureRepository
	events    event.Repository
	uow       uow.UnitOfWork
	scorer    Scorer
	ledger    ExposureLedger
	validate  *intake.Validator
	log       zerolog.Logger
	now       func() time.Time
}

func NewUsecase(contracts contractDomain.Repository, exposures poolDomain.ExposureRepository, events event.Repository,
	tx uow.UnitOfWork, scorer Scorer, ledger ExposureLedger, v *intake.Validator, log zerolog.Logger) *Usecase {
	if v == nil {
		v = intake.New()
	}
	return &Usecase{
		contracts: contracts, exposures: exposures, events: events, uow: tx,
		scorer: scorer, ledger: ledger, validate: v, log: log,
		now: func() time.Time { return time.Now().UTC() },
	}
}

// Create stores a DRAFT contract with its intake artifact, risk score and optional
// milestone plan in one unit of work. An invalid plan leaves no contract behind.
func (u *Usecase) Create(ctx context.Context, req intake.ContractRequest, actorID string) (*CreateResult, error) {
	const op = "contract.Create"
	req, warnings, err := u.validate.Contract(req)
	if err != nil {
		return nil, err
	}

	score := u.scorer.Score(ctx, scoring.Input{ContractValue: req.Amount, ClientID: req.ClientID, VendorID: req.VendorID})
	if score.Fallback {
		warnings = append(warnings, "risk scoring unavailable, default score applied")
	}

	description := req.Description
	if description == "" {
		description = "Contract for " + req.WorkType + ": " + req.Title
	}
	value := money.Round(req.Amount)
	c := &contractDomain.Contract{
		ContractID:      id.NewID32(),
		Title:           req.Title,
		Description:     description,
		Value:           value,
		Currency:        req.Currency,
		Status:          contractDomain.StatusDraft,
		ClientID:        req.ClientID,
		VendorID:        req.VendorID,
		TotalPaid:       decimal.Zero,
		RemainingAmount: value,
		RiskScore:       score.Score,
		RiskTier:        score.Tier,
		PricingModifier: score.PricingModifier,
	}

	out := &CreateResult{
		ContractID:      c.ContractID,
		Status:          c.Status,
		Score:           score.Score,
		RiskTier:        score.Tier,
		PricingModifier: score.PricingModifier,
	}
	err = u.uow.WithinTx(ctx, func(r uow.Repos) error {
		if err := r.Contracts.Create(ctx, c); err != nil {
			return err
		}
		if err := journal.Artifact(ctx, r.Events, event.ArtifactIntakeValidation, c.ContractID, map[string]any{
			"invoice_number":   req.InvoiceNumber,
			"po_number":        req.PONumber,
			"settlement_terms": req.SettlementTerms,
			"due_date":         req.DueDate,
			"work_type":        req.WorkType,
			"supporting_docs":  nonNilDocs(req.SupportingDocs),
			"currency":         req.Currency,
		}); err != nil {
			return err
		}
		if err := u.scoringArtifact(ctx, r, c.ContractID, score); err != nil {
			return err
		}
		if _, err := journal.Record(ctx, r.Events, journal.Entry{
			Type:       event.ContractCreated,
			ContractID: c.ContractID,
			ActorID:    actorID,
			Metadata:   map[string]any{"title": c.Title, "amount": c.Value.String(), "client_id": c.ClientID},
			Notify:     []string{c.ClientID},
		}); err != nil {
			return err
		}
		if _, err := journal.Record(ctx, r.Events, journal.Entry{
			Type:       event.ContractScored,
			ContractID: c.ContractID,
			ActorID:    actorID,
			Metadata:   map[string]any{"score": score.Score, "risk_tier": score.Tier, "fallback": score.Fallback},
		}); err != nil {
			return err
		}
		if len(req.Milestones) == 0 {
			return nil
		}
		schedules, err := payment.AttachSchedules(ctx, r, c, actorID, req.PaymentMilestones())
		if err != nil {
			return err
		}
		out.Schedules = schedules
		return nil
	})
	if err != nil {
		return nil, apperr.Wrap(op, err)
	}
	out.Warnings = warnings
	u.log.Info().Str("op", op).Str("contract_id", c.ContractID).Str("client_id", c.ClientID).
		Str("value", c.Value.String()).Int("score", score.Score).Str("risk_tier", string(score.Tier)).Msg("contract created")
	return out, nil
}

func (u *Usecase) scoringArtifact(ctx context.Context, r uow.Repos, contractID string, s scoring.Result) error {
	if !s.Fallback {
		return journal.Artifact(ctx, r.Events, event.ArtifactScoringResult, contractID, s)
	}
	return journal.Artifact(ctx, r.Events, event.ArtifactWarning, contractID, map[string]any{
		"message":       "Scoring failed, using default score",
		"default_score": scoring.FallbackScore,
		"error":         s.Error,
	})
}

func nonNilDocs(docs []intake.Document) []intake.Document {
	if docs == nil {
		return []intake.Document{}
	}
	return docs
}

func (u *Usecase) Get(ctx context.Context, contractID string) (*Details, error) {
	const op = "contract.Get"
	c, err := u.contracts.GetByContractID(ctx, contractID)
	if err != nil {
		return nil, apperr.Wrap(op, err)
	}
	exposures, err := u.exposures.ListByContract(ctx, contractID)
	if err != nil {
		return nil, apperr.Wrap(op, err)
	}
	artifacts, err := u.events.ListArtifacts(ctx, contractID)
	if err != nil {
		return nil, apperr.Wrap(op, err)
	}
	return &Details{Contract: c, Exposures: exposures, Artifacts: artifacts}, nil
}

// Activate moves a DRAFT contract to ACTIVE. Only the contract's client may do it,
// and of several concurrent callers exactly one wins.
func (u *Usecase) Activate(ctx context.Context, contractID, clientID string) (*contractDomain.Contract, error) {
	const op = "contract.Activate"
	c, err := u.contracts.GetByContractID(ctx, contractID)
	if err != nil {
		return nil, apperr.Wrap(op, err)
	}
	if c.ClientID != clientID {
		return nil, apperr.From(apperr.ErrUnauthorized, op, "not the contract client")
	}
	if c.Status != contractDomain.StatusDraft {
		return nil, apperr.From(apperr.ErrInvalidState, op, "contract is "+string(c.Status))
	}

	err = u.uow.WithinTx(ctx, func(r uow.Repos) error {
		ok, err := r.Contracts.TransitionStatus(ctx, contractID,
			[]contractDomain.Status{contractDomain.StatusDraft}, contractDomain.StatusActive, nil)
		if err != nil {
			return err
		}
		if !ok {
			return apperr.From(apperr.ErrInvalidState, op, "contract is no longer DRAFT")
		}
		_, err = journal.Record(ctx, r.Events, journal.Entry{
			Type:       event.ContractActivated,
			ContractID: contractID,
			ActorID:    clientID,
			Metadata:   map[string]any{"activated_at": u.now().Format(time.RFC3339), "title": c.Title},
			Notify:     []string{c.VendorID},
		})
		return err
	})
	if err != nil {
		return nil, apperr.Wrap(op, err)
	}
	c.Status = contractDomain.StatusActive
	u.log.Info().Str("op", op).Str("contract_id", contractID).Msg("contract activated")
	return c, nil
}

// Settle settles every ACTIVE exposure through the pool ledger, then finalizes
// the contract. Each exposure commits on its own, so a retry after a partial
// failure skips the ones already settled. An exposure defaulted by a cancellation
// blocks settlement.
func (u *Usecase) Settle(ctx context.Context, in SettleInput) (*SettlementOutcome, error) {
	const op = "contract.Settle"
	out, err := u.settle(ctx, op, in)
	if err != nil {
		if !apperr.IsKind(err, apperr.KindNotFound) {
			u.errorArtifact(ctx, op, in.ContractID, err)
		}
		return nil, apperr.Wrap(op, err)
	}
	u.log.Info().Str("op", op).Str("contract_id", in.ContractID).Str("amount", out.Payout.TotalAmount.String()).
		Int("exposures_settled", out.ExposuresSettled).Msg("contract settled")
	return out, nil
}

func (u *Usecase) settle(ctx context.Context, op string, in SettleInput) (*SettlementOutcome, error) {
	c, err := u.contracts.GetByContractID(ctx, in.ContractID)
	if err != nil {
		return nil, err
	}
	if c.Status == contractDomain.StatusSettled {
		return nil, apperr.From(apperr.ErrInvalidState, op, "contract already settled")
	}
	if !c.Status.CanTransitionTo(contractDomain.StatusSettled) {
		return nil, apperr.From(apperr.ErrInvalidState, op, "contract is "+string(c.Status))
	}
	amount := c.Value
	if in.ActualAmount != nil {
		amount = money.Round(*in.ActualAmount)
	}
	if !money.Positive(amount) {
		return nil, apperr.Validation(op, apperr.FieldError{Field: "actual_amount", Message: "must be greater than 0"})
	}

	poolReturns := decimal.Zero
	settled := 0
	err = u.resolveExposures(ctx, op, c.ContractID, func(e poolDomain.Exposure) error {
		res, err := u.ledger.SettleExposure(ctx, e.ExposureID, decimal.Zero, in.ActorID)
		if err != nil {
			return err
		}
		poolReturns = poolReturns.Add(res.Breakdown.PoolReturn)
		settled++
		return nil
	}, poolDomain.ExposureSettled)
	if err != nil {
		return nil, err
	}

	payout := contractDomain.PayoutFor(amount)
	now := u.now()
	err = u.uow.WithinTx(ctx, func(r uow.Repos) error {
		ok, err := r.Contracts.TransitionStatus(ctx, c.ContractID, contractDomain.Sources(contractDomain.StatusSettled),
			contractDomain.StatusSettled, map[string]any{"settlement_amount": amount, "settled_at": now})
		if err != nil {
			return err
		}
		if !ok {
			return apperr.From(apperr.ErrInvalidState, op, "contract changed state during settlement")
		}
		if err := journal.Artifact(ctx, r.Events, event.ArtifactSettlementOutcome, c.ContractID, map[string]any{
			"breakdown":         payout,
			"pool_returns":      poolReturns,
			"exposures_settled": settled,
			"settled_at":        now,
		}); err != nil {
			return err
		}
		_, err = journal.Record(ctx, r.Events, journal.Entry{
			Type:       event.ContractSettled,
			ContractID: c.ContractID,
			ActorID:    in.ActorID,
			Metadata: map[string]any{
				"title": c.Title, "total_amount": payout.TotalAmount.String(),
				"platform_fee": payout.PlatformFee.String(), "vendor_payout": payout.VendorPayout.String(),
			},
			Notify: []string{c.ClientID, c.VendorID},
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return &SettlementOutcome{
		ContractID:       c.ContractID,
		Status:           contractDomain.StatusSettled,
		Payout:           payout,
		PoolReturns:      poolReturns,
		ExposuresSettled: settled,
	}, nil
}

// resolveExposures calls fn for every exposure still ACTIVE. Exposures already in one
// of the done states were resolved by an earlier or concurrent run and are skipped.
// Any other outcome means the contract is being resolved the opposite way, so the
// run stops with InvalidState before the contract is touched.
func (u *Usecase) resolveExposures(ctx context.Context, op, contractID string, fn func(e poolDomain.Exposure) error,
	done ...poolDomain.ExposureStatus) error {
	exposures, err := u.exposures.ListByContract(ctx, contractID)
	if err != nil {
		return err
	}
	for _, e := range exposures {
		status := e.Status
		if status == poolDomain.ExposureActive {
			err := fn(e)
			if err == nil {
				continue
			}
			if !errors.Is(err, apperr.ErrInvalidState) {
				return err
			}
			current, rerr := u.exposures.GetByExposureID(ctx, e.ExposureID)
			if rerr != nil || current.Status == poolDomain.ExposureActive {
				return err
			}
			status = current.Status
		}
		if !slices.Contains(done, status) {
			return apperr.From(apperr.ErrInvalidState, op, "exposure "+e.ExposureID+" is "+string(status))
		}
	}
	return nil
}

// errorArtifact records a failed settlement outside the unit of work that failed.
func (u *Usecase) errorArtifact(ctx context.Context, op, contractID string, cause error) {
	err := journal.Artifact(ctx, u.events, event.ArtifactError, contractID, map[string]any{
		"operation": op,
		"error":     cause.Error(),
		"at":        u.now(),
	})
	if err != nil {
		u.log.Warn().Err(err).Str("op", op).Str("contract_id", contractID).Msg("could not record error artifact")
	}
}

// Cancel defaults every ACTIVE exposure with nothing recovered, then closes the contract.
func (u *Usecase) Cancel(ctx context.Context, contractID, reason, actorID string) (*CancelOutcome, error) {
	const op = "contract.Cancel"
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, apperr.Validation(op, apperr.FieldError{Field: "reason", Message: "is required"})
	}
	c, err := u.contracts.GetByContractID(ctx, contractID)
	if err != nil {
		return nil, apperr.Wrap(op, err)
	}
	if !c.Status.CanTransitionTo(contractDomain.StatusCancelled) {
		return nil, apperr.From(apperr.ErrInvalidState, op, "contract is "+string(c.Status))
	}

	loss := decimal.Zero
	defaulted := 0
	err = u.resolveExposures(ctx, op, contractID, func(e poolDomain.Exposure) error {
		res, err := u.ledger.DefaultExposure(ctx, e.ExposureID, decimal.Zero, actorID)
		if err != nil {
			return err
		}
		loss = loss.Add(res.Loss)
		defaulted++
		return nil
	}, poolDomain.ExposureDefaulted, poolDomain.ExposureRecovered)
	if err != nil {
		return nil, apperr.Wrap(op, err)
	}

	err = u.uow.WithinTx(ctx, func(r uow.Repos) error {
		ok, err := r.Contracts.TransitionStatus(ctx, contractID, contractDomain.Sources(contractDomain.StatusCancelled),
			contractDomain.StatusCancelled, nil)
		if err != nil {
			return err
		}
		if !ok {
			return apperr.From(apperr.ErrInvalidState, op, "contract changed state during cancellation")
		}
		if err := journal.Artifact(ctx, r.Events, event.ArtifactSettlementOutcome, contractID, map[string]any{
			"status":              contractDomain.StatusCancelled,
			"reason":              reason,
			"exposures_defaulted": defaulted,
			"pool_loss":           loss,
			"at":                  u.now(),
		}); err != nil {
			return err
		}
		_, err = journal.Record(ctx, r.Events, journal.Entry{
			Type:       event.ContractCancelled,
			ContractID: contractID,
			ActorID:    actorID,
			Metadata:   map[string]any{"title": c.Title, "reason": reason},
			Notify:     []string{c.ClientID, c.VendorID},
		})
		return err
	})
	if err != nil {
		return nil, apperr.Wrap(op, err)
	}
	u.log.Info().Str("op", op).Str("contract_id", contractID).Int("exposures_defaulted", defaulted).
		Str("pool_loss", loss.String()).Msg("contract cancelled")
	return &CancelOutcome{
		ContractID: contractID, Status: contractDomain.StatusCancelled, Reason: reason,
		ExposuresDefaulted: defaulted, PoolLoss: loss,
	}, nil
}

// Dispute is raised by either party while the contract is ACTIVE or IN_VERIFICATION.
func (u *Usecase) Dispute(ctx context.Context, contractID, raisedBy, reason string) (*contractDomain.Contract, error) {
	const op = "contract.Dispute"
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, apperr.Validation(op, apperr.FieldError{Field: "reason", Message: "is required"})
	}
	c, err := u.contracts.GetByContractID(ctx, contractID)
	if err != nil {
		return nil, apperr.Wrap(op, err)
	}
	if !c.IsParty(raisedBy) {
		return nil, apperr.From(apperr.ErrUnauthorized, op, "only the client or the vendor may dispute")
	}
	from := []contractDomain.Status{contractDomain.StatusActive, contractDomain.StatusInVerification}
	err = u.uow.WithinTx(ctx, func(r uow.Repos) error {
		ok, err := r.Contracts.TransitionStatus(ctx, contractID, from, contractDomain.StatusDisputed, nil)
		if err != nil {
			return err
		}
		if !ok {
			return apperr.From(apperr.ErrInvalidState, op, "contract is "+string(c.Status))
		}
		_, err = journal.Record(ctx, r.Events, journal.Entry{
			Type:       event.ContractDisputed,
			ContractID: contractID,
			ActorID:    raisedBy,
			Metadata:   map[string]any{"title": c.Title, "reason": reason},
			Notify:     []string{c.ClientID, c.VendorID},
		})
		return err
	})
	if err != nil {
		return nil, apperr.Wrap(op, err)
	}
	c.Status = contractDomain.StatusDisputed
	u.log.Info().Str("op", op).Str("contract_id", contractID).Str("raised_by", raisedBy).Msg("contract disputed")
	return c, nil
}
