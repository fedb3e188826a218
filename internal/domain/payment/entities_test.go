package payment

import (
	"testing"

	"contrack-backend/internal/domain/apperr"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pct(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestStatus_Transitions(t *testing.T) {
	assert.True(t, StatusPending.CanTransitionTo(StatusCompleted))
	assert.True(t, StatusProcessing.CanTransitionTo(StatusFailed))
	assert.False(t, StatusCompleted.CanTransitionTo(StatusRefunded))
	assert.False(t, StatusFailed.CanTransitionTo(StatusCompleted))

	for _, s := range []Status{StatusCompleted, StatusFailed, StatusCancelled, StatusRefunded} {
		assert.True(t, s.Terminal(), s)
	}
	assert.False(t, StatusPending.Terminal())
	assert.False(t, Status("BOGUS").Valid())
}

func TestBuildSchedules_PricesAndOrders(t *testing.T) {
	s, err := BuildSchedules("c1", decimal.NewFromInt(10000), []Milestone{
		{Name: "Kickoff", Percentage: pct("30")},
		{Name: " Delivery ", Percentage: pct("50")},
		{Name: "Sign-off", Percentage: pct("20")},
	})
	require.NoError(t, err)
	require.Len(t, s, 3)
	assert.Equal(t, 1, s[0].Order)
	assert.Equal(t, 3, s[2].Order)
	assert.Equal(t, "Delivery", s[1].Name)
	assert.True(t, s[0].Amount.Equal(decimal.NewFromInt(3000)))
	assert.True(t, s[1].Amount.Equal(decimal.NewFromInt(5000)))
	assert.Len(t, s[0].ScheduleID, 32)
}

func TestBuildSchedules_ToleranceBoundaries(t *testing.T) {
	_, err := BuildSchedules("c1", decimal.NewFromInt(100), []Milestone{
		{Name: "a", Percentage: pct("33.33")},
		{Name: "b", Percentage: pct("33.33")},
		{Name: "c", Percentage: pct("33.33")},
	})
	require.NoError(t, err, "99.99 is inside the tolerance")

	_, err = BuildSchedules("c1", decimal.NewFromInt(100), []Milestone{
		{Name: "a", Percentage: pct("50")},
		{Name: "b", Percentage: pct("50.01")},
	})
	require.NoError(t, err, "100.01 is inside the tolerance")

	_, err = BuildSchedules("c1", decimal.NewFromInt(100), []Milestone{
		{Name: "a", Percentage: pct("50")},
		{Name: "b", Percentage: pct("49.98")},
	})
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestBuildSchedules_FieldErrors(t *testing.T) {
	_, err := BuildSchedules("c1", decimal.NewFromInt(100), []Milestone{
		{Name: "", Percentage: pct("120")},
	})
	require.Error(t, err)
	fields := apperr.FieldsOf(err)
	var names []string
	for _, f := range fields {
		names = append(names, f.Field)
	}
	assert.Contains(t, names, "milestones[0].name")
	assert.Contains(t, names, "milestones[0].percentage")
	assert.Contains(t, names, "milestones")

	_, err = BuildSchedules("c1", decimal.NewFromInt(100), nil)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}
