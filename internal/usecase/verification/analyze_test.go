package verification

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnalyze(t *testing.T) {
	long := "signed off by site manager"
	cases := []struct {
		name       string
		evidence   []Evidence
		confidence int
		manual     bool
		status     Status
	}{
		{
			name:       "no evidence",
			evidence:   nil,
			confidence: 35, // 50 - 15 no invoice
			manual:     true,
			status:     StatusManualRequired,
		},
		{
			name:       "invoice only",
			evidence:   []Evidence{{Type: ProofInvoice}},
			confidence: 55, // 50 - 10 + 15
			manual:     true,
			status:     StatusManualRequired,
		},
		{
			name: "invoice and receipt",
			evidence: []Evidence{
				{Type: ProofInvoice, Description: long},
				{Type: ProofDeliveryReceipt, Description: long},
			},
			confidence: 85, // 50 + 15 + 10 + 10
			status:     StatusVerified,
		},
		{
			name: "full set",
			evidence: []Evidence{
				{Type: ProofInvoice, Description: long},
				{Type: ProofDeliveryReceipt, Description: long},
				{Type: ProofServiceCompletion},
			},
			confidence: 100, // 50 + 20 + 15 + 10 + 10 + 10, clamped
			status:     StatusVerified,
		},
		{
			name: "urls only",
			evidence: []Evidence{
				{Type: ProofInvoice, URL: "https://x.test/i.pdf"},
				{Type: ProofScreenshot, URL: "https://x.test/s.png"},
			},
			confidence: 55, // 50 + 15 - 10
			manual:     true,
			status:     StatusManualRequired,
		},
		{
			name: "pending review band",
			evidence: []Evidence{
				{Type: ProofInvoice},
				{Type: ProofDocument},
			},
			confidence: 65,
			status:     StatusPendingReview,
		},
		{
			name: "without invoice is always manual",
			evidence: []Evidence{
				{Type: ProofDeliveryReceipt, Description: long},
				{Type: ProofServiceCompletion, Description: long},
				{Type: ProofScreenshot},
			},
			confidence: 85, // 50 + 20 - 15 + 10 + 10 + 10
			manual:     true,
			status:     StatusManualRequired,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			conf, reasons, manual := Analyze(tc.evidence)
			assert.Equal(t, tc.confidence, conf)
			assert.Equal(t, tc.manual, manual)
			assert.Equal(t, tc.status, StatusFor(conf, manual))
			assert.NotEmpty(t, reasons)
		})
	}
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, StatusVerified, StatusFor(75, false))
	assert.Equal(t, StatusPendingReview, StatusFor(74, false))
	assert.Equal(t, StatusPendingReview, StatusFor(50, false))
	assert.Equal(t, StatusRejected, StatusFor(49, false))
	assert.Equal(t, StatusManualRequired, StatusFor(100, true))
}
