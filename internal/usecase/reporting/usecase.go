// Package reporting builds read-only dashboards over the ledgers.
package reporting

import (
	"context"
	"sort"

	"contrack-backend/internal/domain/apperr"
	"contrack-backend/internal/domain/contract"
	"contrack-backend/internal/domain/pool"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

type Usecase struct {
	contracts contract.Repository
	pools     pool.Repository
	exposures pool.ExposureRepository
	log       zerolog.Logger
}

func NewUsecase(contracts contract.Repository, pools pool.Repository, exposures pool.ExposureRepository, log zerolog.Logger) *Usecase {
	return &Usecase{contracts: contracts, pools: pools, exposures: exposures, log: log}
}

func (u *Usecase) VendorMetrics(ctx context.Context, vendorID string) (*VendorMetrics, error) {
	cs, err := u.contracts.ListByVendor(ctx, vendorID)
	if err != nil {
		return nil, apperr.Wrap("reporting.VendorMetrics", err)
	}
	m := VendorMetricsOf(vendorID, cs)
	return &m, nil
}

func (u *Usecase) ClientMetrics(ctx context.Context, clientID string) (*ClientMetrics, error) {
	cs, err := u.contracts.ListByClient(ctx, clientID)
	if err != nil {
		return nil, apperr.Wrap("reporting.ClientMetrics", err)
	}
	m := ClientMetricsOf(clientID, cs)
	return &m, nil
}

func (u *Usecase) PoolMetrics(ctx context.Context, poolID string) (*PoolMetrics, error) {
	const op = "reporting.PoolMetrics"
	p, err := u.pools.GetByPoolID(ctx, poolID)
	if err != nil {
		return nil, apperr.Wrap(op, err)
	}
	exposures, err := u.exposures.ListByPool(ctx, poolID)
	if err != nil {
		return nil, apperr.Wrap(op, err)
	}
	m := PoolMetricsOf(p, exposures)
	return &m, nil
}

func (u *Usecase) InvestorMetrics(ctx context.Context, investorID string) (*InvestorMetrics, error) {
	const op = "reporting.InvestorMetrics"
	units, err := u.pools.ListUnitsByInvestor(ctx, investorID)
	if err != nil {
		return nil, apperr.Wrap(op, err)
	}
	redemptions, err := u.pools.ListRedemptionsByInvestor(ctx, investorID)
	if err != nil {
		return nil, apperr.Wrap(op, err)
	}

	unitsByPool := map[string][]pool.Unit{}
	for _, un := range units {
		unitsByPool[un.PoolID] = append(unitsByPool[un.PoolID], un)
	}
	redByPool := map[string][]pool.Redemption{}
	for _, r := range redemptions {
		redByPool[r.PoolID] = append(redByPool[r.PoolID], r)
	}
	poolIDs := make([]string, 0, len(unitsByPool))
	for id := range unitsByPool {
		poolIDs = append(poolIDs, id)
	}
	sort.Strings(poolIDs)

	holdings := make([]pool.Holding, 0, len(poolIDs))
	navs := make(map[string]decimal.Decimal, len(poolIDs))
	for _, id := range poolIDs {
		p, err := u.pools.GetByPoolID(ctx, id)
		if err != nil {
			return nil, apperr.Wrap(op, err)
		}
		navs[id] = p.CurrentNAV
		holdings = append(holdings, pool.HoldingOf(id, investorID, unitsByPool[id], redByPool[id]))
	}
	m := InvestorMetricsOf(investorID, holdings, navs)
	u.log.Debug().Str("op", op).Str("investor_id", investorID).Int("pools", m.PoolsInvested).Msg("investor metrics built")
	return &m, nil
}
