package contract

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestStatus_Transitions(t *testing.T) {
	assert.True(t, StatusDraft.CanTransitionTo(StatusActive))
	assert.False(t, StatusDraft.CanTransitionTo(StatusSettled))
	assert.True(t, StatusActive.CanTransitionTo(StatusInVerification))
	assert.True(t, StatusDisputed.CanTransitionTo(StatusInVerification))
	assert.False(t, StatusSettled.CanTransitionTo(StatusActive))
	assert.False(t, StatusCancelled.CanTransitionTo(StatusActive))

	assert.True(t, StatusSettled.Terminal())
	assert.True(t, StatusCancelled.Terminal())
	assert.False(t, StatusDraft.Terminal())
}

func TestSources(t *testing.T) {
	assert.ElementsMatch(t, []Status{StatusActive, StatusInVerification, StatusDisputed}, Sources(StatusSettled))
	assert.ElementsMatch(t, []Status{StatusDraft, StatusActive, StatusInVerification, StatusDisputed}, Sources(StatusCancelled))
	assert.Equal(t, []Status{StatusDraft}, Sources(StatusActive))
}

func TestContract_IsParty(t *testing.T) {
	c := &Contract{ClientID: "c", VendorID: "v"}
	assert.True(t, c.IsParty("c"))
	assert.True(t, c.IsParty("v"))
	assert.False(t, c.IsParty("x"))
	assert.False(t, (&Contract{ClientID: "c"}).IsParty(""))
}

func TestPayoutFor(t *testing.T) {
	p := PayoutFor(decimal.NewFromInt(10000))
	assert.Equal(t, "250", p.PlatformFee.String())
	assert.Equal(t, "9750", p.VendorPayout.String())
	assert.True(t, p.PlatformFee.Add(p.VendorPayout).Equal(p.TotalAmount))
}
