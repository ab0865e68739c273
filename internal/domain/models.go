package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Credentials is the per-request set of provider API keys, keyed by provider
// name. It lives only as long as the request that carried it.
type Credentials map[string]string

// For returns the trimmed key for provider, or "" when absent.
func (c Credentials) For(provider string) string {
	if c == nil {
		return ""
	}
	return strings.TrimSpace(c[provider])
}

// Has reports whether a non-empty key is present for provider.
func (c Credentials) Has(provider string) bool {
	return c.For(provider) != ""
}

// ClaimFeatures are keyword-derived signals extracted from claim text.
type ClaimFeatures struct {
	TextLength   int `json:"text_length"`
	HasICDCode   int `json:"has_icd_code"`
	HasPriorAuth int `json:"has_prior_auth"`
	HasDenial    int `json:"has_denial"`
	HasAppeal    int `json:"has_appeal"`
}

// SummaryResult records a summary and which path in the fallback chain produced it.
type SummaryResult struct {
	SummaryText  string `json:"summary"`
	ProviderUsed string `json:"provider_used"`
}

// PredictionInput holds the structured features scored by the prediction engine.
type PredictionInput struct {
	Age                   int
	ZipCode               string
	ClaimAmount           decimal.Decimal
	HasPriorAuthorization bool
}

// PredictionResult is the bounded success-probability estimate.
type PredictionResult struct {
	ProbabilityPercent int `json:"probability"`
}

// BucketKey identifies one anonymized aggregation bucket.
type BucketKey struct {
	ZipBucket         string `db:"zip_bucket" json:"zip_bucket"`
	DemographicBucket string `db:"demographic_bucket" json:"demographic_bucket"`
}

// BiasRecord is one anonymized unit of evidence. It never carries raw zip or
// demographic values.
type BiasRecord struct {
	BucketKey
	Outcome        Outcome       `db:"outcome" json:"outcome"`
	AmountBucket   AmountTier    `db:"amount_bucket" json:"amount_bucket"`
	ReasonCategory ClaimCategory `db:"reason_category" json:"reason_category"`
}

// BiasBucketStats are the aggregate counters for one bucket.
type BiasBucketStats struct {
	BucketKey
	TotalCount  int64 `db:"total_count" json:"total_count"`
	DeniedCount int64 `db:"denied_count" json:"denied_count"`
}

// DenialRate returns DeniedCount/TotalCount, or 0 for an empty bucket.
func (s BiasBucketStats) DenialRate() float64 {
	if s.TotalCount == 0 {
		return 0
	}
	return float64(s.DeniedCount) / float64(s.TotalCount)
}

// Consistent reports whether the counters satisfy 0 <= denied <= total.
func (s BiasBucketStats) Consistent() bool {
	return s.TotalCount >= 0 && s.DeniedCount >= 0 && s.DeniedCount <= s.TotalCount
}

// BiasAnalysisResult is the outcome of comparing one bucket against the baseline.
type BiasAnalysisResult struct {
	Message           string      `json:"bias_message"`
	HasSufficientData bool        `json:"has_sufficient_data"`
	HeatmapAvailable  bool        `json:"has_figure"`
	Verdict           BiasVerdict `json:"verdict"`
	BucketDenialRate  float64     `json:"bucket_denial_rate"`
	BaselineRate      float64     `json:"baseline_denial_rate"`
}

// AppealLetterRequest carries the inputs for appeal letter generation.
type AppealLetterRequest struct {
	ClaimText        string
	AdditionalNotes  string
	PatientName      string
	InsuranceCompany string
	PolicyNumber     string
}

// HasContent reports whether at least one of claim text or notes is non-blank.
func (r AppealLetterRequest) HasContent() bool {
	return strings.TrimSpace(r.ClaimText) != "" || strings.TrimSpace(r.AdditionalNotes) != ""
}

// AppealLetterResult is a generated, fully formatted appeal letter.
type AppealLetterResult struct {
	LetterText   string        `json:"appeal_letter"`
	ProviderUsed string        `json:"provider_used"`
	Category     ClaimCategory `json:"category"`
}
