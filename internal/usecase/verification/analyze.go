package verification

const (
	baseConfidence = 50
	// below this an automated result always goes to a human
	manualThreshold = 60
)

// Analyze scores the evidence set. It is pure so the rules can be tested without storage.
func Analyze(evidence []Evidence) (confidence int, reasons []string, manual bool) {
	confidence = baseConfidence
	reasons = []string{}

	types := map[ProofType]struct{}{}
	for _, e := range evidence {
		types[e.Type] = struct{}{}
	}
	switch {
	case len(types) >= 3:
		confidence += 20
		reasons = append(reasons, "Multiple proof types provided")
	case len(types) == 1:
		confidence -= 10
		reasons = append(reasons, "Only one proof type provided")
	}

	_, hasInvoice := types[ProofInvoice]
	if hasInvoice {
		confidence += 15
		reasons = append(reasons, "Invoice included")
	} else {
		confidence -= 15
		reasons = append(reasons, "No invoice provided, manual review recommended")
	}
	if _, ok := types[ProofDeliveryReceipt]; ok {
		confidence += 10
		reasons = append(reasons, "Delivery receipt provided")
	}
	if _, ok := types[ProofServiceCompletion]; ok {
		confidence += 10
		reasons = append(reasons, "Service completion documentation provided")
	}

	described, urls := 0, 0
	for _, e := range evidence {
		if len(e.Description) > 10 {
			described++
		}
		if e.URL != "" {
			urls++
		}
	}
	if described >= 2 {
		confidence += 10
		reasons = append(reasons, "Detailed descriptions provided")
	}
	if len(evidence) > 0 && urls == len(evidence) {
		confidence -= 10
		reasons = append(reasons, "All evidence is URL-based (requires validation)")
	}

	confidence = max(0, min(100, confidence))
	manual = confidence < manualThreshold || !hasInvoice || len(evidence) == 0
	return confidence, reasons, manual
}

func StatusFor(confidence int, manual bool) Status {
	switch {
	case manual:
		return StatusManualRequired
	case confidence >= 75:
		return StatusVerified
	case confidence >= 50:
		return StatusPendingReview
	default:
		return StatusRejected
	}
}
