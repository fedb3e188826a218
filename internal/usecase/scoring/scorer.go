// Package scoring produces the advisory risk score of a contract. It never blocks
// contract creation: any failure yields the neutral fallback.
package scoring

import (
	"context"
	"fmt"

	"contrack-backend/internal/domain/contract"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

var (
	smallContract = decimal.NewFromInt(5000)
	largeContract = decimal.NewFromInt(50000)

	modifiers = map[contract.RiskTier]decimal.Decimal{
		contract.TierLow:     decimal.RequireFromString("0.01"),
		contract.TierMedium:  decimal.RequireFromString("0.015"),
		contract.TierHigh:    decimal.RequireFromString("0.03"),
		contract.TierNeutral: decimal.RequireFromString("0.02"),
	}
)

type Scorer struct {
	contracts contract.Repository
	market    Market
	log       zerolog.Logger
}

func NewScorer(contracts contract.Repository, market Market, log zerolog.Logger) *Scorer {
	if market == nil {
		market = NewRandMarket(0)
	}
	return &Scorer{contracts: contracts, market: market, log: log}
}

// Score always returns a usable result. Errors and panics fall back to the neutral default.
func (s *Scorer) Score(ctx context.Context, in Input) (res Result) {
	defer func() {
		if rec := recover(); rec != nil {
			res = Fallback(fmt.Errorf("scorer panic: %v", rec))
			s.log.Warn().Str("op", "scoring.Score").Str("client_id", in.ClientID).Msg(res.Error)
		}
	}()

	h := in.History
	if h == nil {
		loaded, err := s.history(ctx, in.ClientID, in.VendorID)
		if err != nil {
			s.log.Warn().Err(err).Str("op", "scoring.Score").Str("client_id", in.ClientID).Msg("history unavailable, using fallback score")
			return Fallback(err)
		}
		h = &loaded
	}

	score, rationale := Compute(in.ContractValue, *h, s.market.Factor())
	tier := TierFor(score)
	return Result{
		Score:           score,
		Tier:            tier,
		PricingModifier: ModifierFor(tier),
		Rationale:       rationale,
	}
}

func (s *Scorer) history(ctx context.Context, clientID, vendorID string) (History, error) {
	var (
		h   History
		err error
	)
	if h.ClientSettled, err = s.contracts.CountByClientAndStatus(ctx, clientID, contract.StatusSettled); err != nil {
		return h, err
	}
	if h.ClientDefaults, err = s.contracts.CountByClientAndStatus(ctx, clientID, contract.StatusCancelled); err != nil {
		return h, err
	}
	if vendorID != "" {
		if h.VendorSettled, err = s.contracts.CountByVendorAndStatus(ctx, vendorID, contract.StatusSettled); err != nil {
			return h, err
		}
	}
	return h, nil
}

// Compute is the scoring rule set. marketFactor is added as-is.
func Compute(value decimal.Decimal, h History, marketFactor int) (int, []string) {
	score := baseScore
	var rationale []string

	switch {
	case value.LessThan(smallContract):
		score += 10
		rationale = append(rationale, "Small contract value reduces risk")
	case value.GreaterThan(largeContract):
		score -= 10
		rationale = append(rationale, "Large contract value increases scrutiny")
	}

	if h.ClientSettled > 5 {
		score += 15
		rationale = append(rationale, "Client has established history")
	}
	if h.ClientDefaults > 0 {
		score -= 20 * int(h.ClientDefaults)
		rationale = append(rationale, fmt.Sprintf("Client has %d past default(s)", h.ClientDefaults))
	}
	if h.VendorSettled > 10 {
		score += 10
		rationale = append(rationale, "Vendor has strong track record")
	}

	score += marketFactor
	if marketFactor > 0 {
		rationale = append(rationale, "Market conditions: favorable")
	} else {
		rationale = append(rationale, "Market conditions: uncertain")
	}

	return clamp(score), rationale
}

func clamp(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

func TierFor(score int) contract.RiskTier {
	switch {
	case score >= 75:
		return contract.TierLow
	case score >= 50:
		return contract.TierMedium
	case score >= 30:
		return contract.TierHigh
	default:
		return contract.TierNeutral
	}
}

func ModifierFor(t contract.RiskTier) decimal.Decimal {
	if m, ok := modifiers[t]; ok {
		return m
	}
	return modifiers[contract.TierNeutral]
}

// Fallback is the neutral result used whenever scoring cannot complete.
func Fallback(cause error) Result {
	r := Result{
		Score:           FallbackScore,
		Tier:            FallbackTier,
		PricingModifier: ModifierFor(FallbackTier),
		Rationale:       []string{"Scoring unavailable, using default"},
		Fallback:        true,
	}
	if cause != nil {
		r.Error = cause.Error()
	}
	return r
}
