package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Capability names a kind of work an external provider can perform.
type Capability string

const (
	CapabilitySummarize Capability = "summarize"
	CapabilityGenerate  Capability = "generate"
	CapabilityAnalyze   Capability = "analyze"
	CapabilityFinancial Capability = "financial"
	CapabilityPayment   Capability = "payment"
	CapabilityTrack     Capability = "track"
)

// Provider names as they appear in configuration, credentials and responses.
const (
	ProviderOpenAI     = "openai"
	ProviderXAI        = "xai"
	ProviderDedalus    = "dedalus"
	ProviderCapitalOne = "capitalone"
	ProviderKnot       = "knot"
	ProviderAmplitude  = "amplitude"
	ProviderLocal      = "local"
)

// Outcome is the reported result of a claim submission.
type Outcome string

const (
	OutcomeApproved Outcome = "Approved"
	OutcomeDenied   Outcome = "Denied"
)

// ParseOutcome accepts "approved"/"denied" in any case.
func ParseOutcome(s string) (Outcome, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "approved":
		return OutcomeApproved, true
	case "denied":
		return OutcomeDenied, true
	default:
		return "", false
	}
}

// AmountTier buckets a claim amount for aggregation and scoring.
type AmountTier string

const (
	AmountLow    AmountTier = "low"
	AmountMedium AmountTier = "medium"
	AmountHigh   AmountTier = "high"
)

var (
	lowAmountCeiling    = decimal.NewFromInt(1000)
	mediumAmountCeiling = decimal.NewFromInt(10000)
)

// TierForAmount buckets amount: low up to 1000, medium up to 10000, high above.
func TierForAmount(amount decimal.Decimal) AmountTier {
	switch {
	case amount.LessThanOrEqual(lowAmountCeiling):
		return AmountLow
	case amount.LessThanOrEqual(mediumAmountCeiling):
		return AmountMedium
	default:
		return AmountHigh
	}
}

// BiasVerdict is the outcome class of a bias analysis.
type BiasVerdict string

const (
	VerdictInsufficientData BiasVerdict = "insufficient_data"
	VerdictNoDisparity      BiasVerdict = "no_disparity"
	VerdictDisparity        BiasVerdict = "disparity"
)

// ClaimCategory is the coarse denial category used for appeal rationale and
// anonymized reason tracking.
type ClaimCategory string

const (
	CategoryMedicalNecessity   ClaimCategory = "medical_necessity"
	CategoryPriorAuthorization ClaimCategory = "prior_authorization"
	CategoryOutOfNetwork       ClaimCategory = "out_of_network"
	CategoryExperimental       ClaimCategory = "experimental"
	CategoryCodingError        ClaimCategory = "coding_error"
	CategoryGeneral            ClaimCategory = "general"
)

// categoryKeywords is checked in order; the first category with a matching
// keyword wins.
var categoryKeywords = []struct {
	category ClaimCategory
	keywords []string
}{
	{CategoryPriorAuthorization, []string{"prior auth", "pre-authorization", "preauthorization", "precertification", "authorization"}},
	{CategoryOutOfNetwork, []string{"out-of-network", "out of network", "non-participating", "network provider"}},
	{CategoryExperimental, []string{"experimental", "investigational", "clinical trial"}},
	{CategoryCodingError, []string{"coding", "billing error", "invalid code", "modifier", "cpt", "duplicate claim"}},
	{CategoryMedicalNecessity, []string{"medical necessity", "medically necessary", "not necessary", "necessity"}},
}

// CategorizeClaim derives a ClaimCategory from free text.
func CategorizeClaim(text string) ClaimCategory {
	lower := strings.ToLower(text)
	for _, ck := range categoryKeywords {
		for _, kw := range ck.keywords {
			if strings.Contains(lower, kw) {
				return ck.category
			}
		}
	}
	return CategoryGeneral
}
