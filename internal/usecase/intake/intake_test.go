package intake

import (
	"strings"
	"testing"

	"contrack-backend/internal/domain/apperr"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const clientID = "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"

func validContract() ContractRequest {
	return ContractRequest{
		Title:    "  Website redesign  ",
		Amount:   decimal.NewFromInt(5000),
		ClientID: clientID,
	}
}

func TestContract_NormalizesAndDefaults(t *testing.T) {
	req := validContract()
	req.Currency = "eur"

	got, warnings, err := New().Contract(req)
	require.NoError(t, err)
	assert.Equal(t, "Website redesign", got.Title)
	assert.Equal(t, "EUR", got.Currency)
	assert.Equal(t, DefaultWorkType, got.WorkType)
	assert.Equal(t, DefaultSettlementTerms, got.SettlementTerms)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "Net-30")
}

func TestContract_DefaultCurrencyNoWarningWithTerms(t *testing.T) {
	req := validContract()
	req.SettlementTerms = "Net-15"

	got, warnings, err := New().Contract(req)
	require.NoError(t, err)
	assert.Equal(t, DefaultCurrency, got.Currency)
	assert.Empty(t, warnings)
}

func TestContract_FieldErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ContractRequest)
		field  string
		msg    string
	}{
		{"short title after trim", func(r *ContractRequest) { r.Title = "  ab  " }, "title", "at least 3"},
		{"long title", func(r *ContractRequest) { r.Title = strings.Repeat("x", 201) }, "title", "at most 200"},
		{"long description", func(r *ContractRequest) { r.Description = strings.Repeat("x", 2001) }, "description", "at most 2000"},
		{"zero amount", func(r *ContractRequest) { r.Amount = decimal.Zero }, "amount", "greater than 0"},
		{"negative amount", func(r *ContractRequest) { r.Amount = decimal.NewFromInt(-1) }, "amount", "greater than 0"},
		{"missing client", func(r *ContractRequest) { r.ClientID = "" }, "client_id", "is required"},
		{"bad vendor", func(r *ContractRequest) { r.VendorID = "nope" }, "vendor_id", "32-char"},
		{"bad work type", func(r *ContractRequest) { r.WorkType = "labour" }, "work_type", "one of GOODS, SERVICES, MIXED"},
		{"bad currency", func(r *ContractRequest) { r.Currency = "dollars" }, "currency", "3-letter"},
		{"bad doc url", func(r *ContractRequest) {
			r.SupportingDocs = []Document{{Type: "invoice", URL: "not a url"}}
		}, "supporting_docs[0].url", "valid URL"},
		{"unnamed milestone", func(r *ContractRequest) {
			r.Milestones = []MilestoneRequest{{Name: " ", Percentage: decimal.NewFromInt(100)}}
		}, "milestones[0].name", "is required"},
		{"milestone over 100", func(r *ContractRequest) {
			r.Milestones = []MilestoneRequest{{Name: "all", Percentage: decimal.NewFromInt(101)}}
		}, "milestones[0].percentage", "less than or equal to 100"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := validContract()
			tc.mutate(&req)
			_, _, err := New().Contract(req)
			require.Error(t, err)
			assert.True(t, apperr.IsKind(err, apperr.KindValidation))
			assert.True(t, containsFieldMsg(err, tc.field, tc.msg), "fields: %+v", apperr.FieldsOf(err))
		})
	}
}

func TestContract_ReportsEveryViolation(t *testing.T) {
	_, _, err := New().Contract(ContractRequest{Title: "x"})
	require.Error(t, err)
	fields := apperr.FieldsOf(err)
	assert.GreaterOrEqual(t, len(fields), 3)
}

func TestPaymentMilestones(t *testing.T) {
	req := validContract()
	req.Milestones = []MilestoneRequest{
		{Name: "design", Percentage: decimal.NewFromInt(40)},
		{Name: "build", Percentage: decimal.NewFromInt(60)},
	}
	ms := req.PaymentMilestones()
	require.Len(t, ms, 2)
	assert.Equal(t, "build", ms[1].Name)
	assert.True(t, ms[1].Percentage.Equal(decimal.NewFromInt(60)))
}

func TestPool(t *testing.T) {
	cv := New()
	got, err := cv.Pool(PoolRequest{Name: " Growth ", RiskCategory: "low_risk"})
	require.NoError(t, err)
	assert.Equal(t, "Growth", got.Name)
	assert.Equal(t, "LOW_RISK", got.RiskCategory)

	_, err = cv.Pool(PoolRequest{Name: "ab", RiskCategory: "WILD"})
	assert.True(t, containsFieldMsg(err, "name", "at least 3"))
	assert.True(t, containsFieldMsg(err, "risk_category", "one of"))

	_, err = cv.Pool(PoolRequest{Name: "Growth", RiskCategory: "SECTORAL", Description: strings.Repeat("d", 501)})
	assert.True(t, containsFieldMsg(err, "description", "at most 500"))
}

func TestInvestmentMinimum(t *testing.T) {
	cv := New()
	assert.NoError(t, cv.Investment(InvestmentRequest{InvestorID: clientID, Amount: decimal.NewFromInt(100)}))

	err := cv.Investment(InvestmentRequest{InvestorID: clientID, Amount: decimal.RequireFromString("99.99")})
	assert.True(t, containsFieldMsg(err, "amount", "greater than or equal to 100"))

	err = cv.Investment(InvestmentRequest{InvestorID: clientID, Amount: decimal.Zero})
	assert.True(t, containsFieldMsg(err, "amount", "greater than 0"))
}

func TestRedemptionAndExposure(t *testing.T) {
	cv := New()
	assert.True(t, containsFieldMsg(cv.Redemption(RedemptionRequest{InvestorID: clientID}), "units", "greater than 0"))

	fee := decimal.NewFromInt(-1)
	err := cv.Exposure(ExposureRequest{ContractID: clientID, ExposureAmount: decimal.NewFromInt(10), ActivationFee: &fee})
	assert.True(t, containsFieldMsg(err, "activation_fee", "greater than or equal to 0"))

	zero := decimal.Zero
	assert.NoError(t, cv.Exposure(ExposureRequest{ContractID: clientID, ExposureAmount: decimal.NewFromInt(10), ActivationFee: &zero}))
	assert.NoError(t, cv.Exposure(ExposureRequest{ContractID: clientID, ExposureAmount: decimal.NewFromInt(10)}))
}

func TestUser(t *testing.T) {
	cv := New()
	got, err := cv.User(UserRequest{Email: " Ann@Example.COM ", Name: "Ann", Role: "vendor"})
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", got.Email)
	assert.Equal(t, "VENDOR", got.Role)

	_, err = cv.User(UserRequest{Email: "nope", Name: "A", Role: "BOSS"})
	assert.True(t, containsFieldMsg(err, "email", "valid email"))
	assert.True(t, containsFieldMsg(err, "name", "at least 2"))
	assert.True(t, containsFieldMsg(err, "role", "one of"))
}
