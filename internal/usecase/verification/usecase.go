// Package verification gates settlement on proof of delivery. A failure inside
// verification never approves anything: it degrades to MANUAL_REQUIRED.
package verification

import (
	"context"
	"errors"
	"time"

	"contrack-backend/internal/domain/apperr"
	contractDomain "contrack-backend/internal/domain/contract"
	"contrack-backend/internal/domain/event"
	"contrack-backend/internal/domain/uow"
	"contrack-backend/internal/usecase/intake"
	"contrack-backend/internal/usecase/journal"

	"github.com/rs/zerolog"
)

var errVendorMismatch = errors.New("vendor mismatch")

type Usecase struct {
	contracts contractDomain.Repository
	events    event.Repository
	uow       uow.UnitOfWork
	validate  *intake.Validator
	log       zerolog.Logger
	now       func() time.Time
}

func NewUsecase(contracts contractDomain.Repository, events event.Repository, tx uow.UnitOfWork, v *intake.Validator, log zerolog.Logger) *Usecase {
	if v == nil {
		v = intake.New()
	}
	return &Usecase{
		contracts: contracts, events: events, uow: tx, validate: v, log: log,
		now: func() time.Time { return time.Now().UTC() },
	}
}

// VerifyProof scores the vendor's evidence for a contract. Only malformed input is
// returned as an error; every other failure comes back as a fallback Result.
func (u *Usecase) VerifyProof(ctx context.Context, contractID, vendorID string, req ProofRequest) (*Result, error) {
	const op = "verification.VerifyProof"
	if err := u.validate.Struct(op, req); err != nil {
		return nil, err
	}

	res, err := u.verify(ctx, op, contractID, vendorID, req)
	if err != nil {
		u.log.Warn().Err(err).Str("op", op).Str("contract_id", contractID).Msg("verification failed, manual review required")
		return u.fallback(ctx, op, contractID, err), nil
	}
	u.log.Info().Str("op", op).Str("contract_id", contractID).Str("status", string(res.Status)).
		Int("confidence", res.Confidence).Msg("proof verified")
	return res, nil
}

func (u *Usecase) verify(ctx context.Context, op, contractID, vendorID string, req ProofRequest) (*Result, error) {
	c, err := u.contracts.GetByContractID(ctx, contractID)
	if err != nil {
		return nil, err
	}
	if c.VendorID == "" || c.VendorID != vendorID {
		return nil, errVendorMismatch
	}
	if !c.Status.CanTransitionTo(contractDomain.StatusInVerification) {
		return nil, apperr.From(apperr.ErrInvalidState, op, "contract is "+string(c.Status))
	}

	confidence, reasons, manual := Analyze(req.Evidence)
	res := &Result{
		Status:               StatusFor(confidence, manual),
		Confidence:           confidence,
		Reasons:              reasons,
		RequiresManualReview: manual,
		ContractStatus:       c.Status,
	}

	err = u.uow.WithinTx(ctx, func(r uow.Repos) error {
		data := map[string]any{
			"status":         res.Status,
			"confidence":     confidence,
			"reasons":        reasons,
			"evidence_count": len(req.Evidence),
			"evidence":       req.Evidence,
			"at":             u.now(),
		}
		if req.InvoiceAmount != nil {
			data["invoice_amount"] = req.InvoiceAmount.String()
		}
		if err := journal.Artifact(ctx, r.Events, event.ArtifactVerificationProof, contractID, data); err != nil {
			return err
		}
		if _, err := journal.Record(ctx, r.Events, journal.Entry{
			Type:       event.ProofSubmitted,
			ContractID: contractID,
			ActorID:    vendorID,
			Metadata:   map[string]any{"status": res.Status, "confidence": confidence, "title": c.Title},
			Notify:     []string{c.ClientID},
		}); err != nil {
			return err
		}
		if res.Status != StatusVerified {
			return nil
		}
		if err := u.markVerified(ctx, op, r, c, vendorID, "AUTOMATED"); err != nil {
			return err
		}
		res.ContractStatus = contractDomain.StatusInVerification
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (u *Usecase) markVerified(ctx context.Context, op string, r uow.Repos, c *contractDomain.Contract, actorID, reviewType string) error {
	ok, err := r.Contracts.TransitionStatus(ctx, c.ContractID,
		contractDomain.Sources(contractDomain.StatusInVerification), contractDomain.StatusInVerification, nil)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.From(apperr.ErrInvalidState, op, "contract changed state during verification")
	}
	_, err = journal.Record(ctx, r.Events, journal.Entry{
		Type:       event.ContractVerified,
		ContractID: c.ContractID,
		ActorID:    actorID,
		Metadata:   map[string]any{"title": c.Title, "review_type": reviewType},
		Notify:     []string{c.ClientID, c.VendorID},
	})
	return err
}

func (u *Usecase) fallback(ctx context.Context, op, contractID string, cause error) *Result {
	if err := journal.Artifact(ctx, u.events, event.ArtifactError, contractID, map[string]any{
		"error":     "Verification system failure",
		"fallback":  "MANUAL_REVIEW_REQUIRED",
		"operation": op,
		"at":        u.now(),
	}); err != nil {
		u.log.Warn().Err(err).Str("op", op).Str("contract_id", contractID).Msg("could not record error artifact")
	}
	return &Result{
		Status:               StatusManualRequired,
		Confidence:           0,
		Reasons:              []string{"Verification system unavailable"},
		RequiresManualReview: true,
		Fallback:             true,
		Error:                cause.Error(),
	}
}

// ApproveManualReview records a human decision. Approval moves the contract to
// IN_VERIFICATION under the same rules as an automated VERIFIED result.
func (u *Usecase) ApproveManualReview(ctx context.Context, contractID, reviewerID string, approved bool) (*ReviewResult, error) {
	const op = "verification.ApproveManualReview"
	if reviewerID == "" {
		return nil, apperr.Validation(op, apperr.FieldError{Field: "reviewer_id", Message: "is required"})
	}
	c, err := u.contracts.GetByContractID(ctx, contractID)
	if err != nil {
		return nil, apperr.Wrap(op, err)
	}
	status := StatusRejected
	if approved {
		status = StatusVerified
		if !c.Status.CanTransitionTo(contractDomain.StatusInVerification) {
			return nil, apperr.From(apperr.ErrInvalidState, op, "contract is "+string(c.Status))
		}
	}

	out := &ReviewResult{ContractID: contractID, Status: status, ReviewerID: reviewerID, ContractStatus: c.Status}
	err = u.uow.WithinTx(ctx, func(r uow.Repos) error {
		if err := journal.Artifact(ctx, r.Events, event.ArtifactVerificationProof, contractID, map[string]any{
			"status":      status,
			"review_type": "MANUAL",
			"reviewer_id": reviewerID,
			"at":          u.now(),
		}); err != nil {
			return err
		}
		if _, err := journal.Record(ctx, r.Events, journal.Entry{
			Type:       event.ManualReviewDone,
			ContractID: contractID,
			ActorID:    reviewerID,
			Metadata:   map[string]any{"status": status, "title": c.Title},
			Notify:     []string{c.VendorID},
		}); err != nil {
			return err
		}
		if !approved {
			return nil
		}
		if err := u.markVerified(ctx, op, r, c, reviewerID, "MANUAL"); err != nil {
			return err
		}
		out.ContractStatus = contractDomain.StatusInVerification
		return nil
	})
	if err != nil {
		return nil, apperr.Wrap(op, err)
	}
	u.log.Info().Str("op", op).Str("contract_id", contractID).Str("reviewer_id", reviewerID).
		Bool("approved", approved).Msg("manual review recorded")
	return out, nil
}
