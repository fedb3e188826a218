package reporting

import (
	"context"
	"testing"

	"contrack-backend/internal/adapter/repository/mysql"
	"contrack-backend/internal/domain/pool"
	"contrack-backend/internal/testutil/dbtest"
	"contrack-backend/internal/testutil/fixture"
	"contrack-backend/pkg/id"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUsecase_ReadsFromStorage(t *testing.T) {
	db := dbtest.Open(t)
	r := mysql.Repos(db)
	uc := NewUsecase(r.Contracts, r.Pools, r.Exposures, zerolog.Nop())
	ctx := context.Background()

	c := fixture.Contract(t, r)
	vm, err := uc.VendorMetrics(ctx, c.VendorID)
	require.NoError(t, err)
	assert.Equal(t, 1, vm.TotalContracts)
	assertDec(t, "10000", vm.AverageContractValue, "average")

	cm, err := uc.ClientMetrics(ctx, c.ClientID)
	require.NoError(t, err)
	assert.Equal(t, 1, cm.TotalContracts)
	assert.Zero(t, cm.ActiveObligations)

	p := fixture.Pool(t, r, 0)
	investor := id.NewID32()
	require.NoError(t, r.Pools.AppendUnit(ctx, &pool.Unit{
		UnitID: id.NewID32(), PoolID: p.PoolID, InvestorID: investor,
		Units: d("250"), NAVAtEntry: d("1"), AmountPaid: d("250"),
	}))

	im, err := uc.InvestorMetrics(ctx, investor)
	require.NoError(t, err)
	assert.Equal(t, 1, im.PoolsInvested)
	assertDec(t, "250", im.CurrentValue, "value")
	assert.True(t, im.UnrealizedGains.IsZero())

	pm, err := uc.PoolMetrics(ctx, p.PoolID)
	require.NoError(t, err)
	assert.Equal(t, p.PoolID, pm.PoolID)

	_, err = uc.PoolMetrics(ctx, id.NewID32())
	assert.ErrorIs(t, err, pool.ErrNotFound)
}
