// Package fixture seeds ledger rows for usecase tests.
package fixture

import (
	"context"
	"testing"

	"contrack-backend/internal/domain/contract"
	"contrack-backend/internal/domain/pool"
	"contrack-backend/internal/domain/uow"
	"contrack-backend/pkg/id"

	"github.com/shopspring/decimal"
)

// Contract stores a DRAFT contract worth 10,000 between two fresh parties.
func Contract(t testing.TB, r uow.Repos, mutate ...func(*contract.Contract)) *contract.Contract {
	t.Helper()
	v := decimal.NewFromInt(10000)
	c := &contract.Contract{
		ContractID:      id.NewID32(),
		Title:           "Warehouse fit-out",
		Value:           v,
		Currency:        "USD",
		Status:          contract.StatusDraft,
		ClientID:        id.NewID32(),
		VendorID:        id.NewID32(),
		TotalPaid:       decimal.Zero,
		RemainingAmount: v,
		RiskTier:        contract.TierNeutral,
		PricingModifier: decimal.Zero,
	}
	for _, m := range mutate {
		m(c)
	}
	if err := r.Contracts.Create(context.Background(), c); err != nil {
		t.Fatalf("seed contract: %v", err)
	}
	return c
}

// Pool stores a pool already holding capital at NAV 1.
func Pool(t testing.TB, r uow.Repos, capital int64) *pool.Pool {
	t.Helper()
	p := pool.New("Growth", "seeded", pool.RiskMedium)
	if capital > 0 {
		if _, err := p.Subscribe(decimal.NewFromInt(capital)); err != nil {
			t.Fatalf("seed subscribe: %v", err)
		}
	}
	if err := r.Pools.Create(context.Background(), p); err != nil {
		t.Fatalf("seed pool: %v", err)
	}
	return p
}

// Dec parses s or fails the test.
func Dec(t testing.TB, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("decimal %q: %v", s, err)
	}
	return d
}
