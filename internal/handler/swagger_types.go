package handler

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"claimequity/internal/domain"
	"claimequity/internal/service"
)

// FlexString accepts a JSON string or number. Clients send ZIP codes both
// ways; numbers are left-padded to five digits.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(strings.TrimSpace(s))
		return nil
	}
	n, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return fmt.Errorf("expected string or integer, got %s", data)
	}
	if n >= 0 && n < 100000 {
		*f = FlexString(fmt.Sprintf("%05d", n))
		return nil
	}
	*f = FlexString(strconv.FormatInt(n, 10))
	return nil
}

// --- Request Types ---

// SummarizeRequest represents the summarize request body.
type SummarizeRequest struct {
	ClaimText         string `json:"claim_text" example:"Claim denied: prior authorization not obtained for MRI."`
	UseOpenAI         bool   `json:"use_openai" example:"true"`
	OpenAIKey         string `json:"openai_key" example:"sk-..."`
	UseXAI            bool   `json:"use_xai" example:"false"`
	XAIKey            string `json:"xai_key" example:"xai-..."`
	PreferredProvider string `json:"preferred_provider" example:"openai"`
}

// PredictAppealRequest represents the predict-appeal request body. Omitted
// fields default to age 50, zip "10000" and amount 5000.
type PredictAppealRequest struct {
	Age           *int                  `json:"age" example:"45"`
	Zip           FlexString            `json:"zip" swaggertype:"string" example:"08540"`
	Amount        *decimal.Decimal      `json:"amount" swaggertype:"number" example:"5000"`
	HasPriorAuth  bool                  `json:"has_prior_auth" example:"false"`
	ClaimFeatures *domain.ClaimFeatures `json:"claim_features"`
	AmplitudeKey  string                `json:"amplitude_key" example:""`
}

// DetectBiasRequest represents the detect-bias request body.
type DetectBiasRequest struct {
	Zip          FlexString `json:"zip" swaggertype:"string" example:"08540"`
	Demo         string     `json:"demo" example:"age_40"`
	AmplitudeKey string     `json:"amplitude_key" example:""`
}

// ShareAnonDataRequest represents the share-anon-data request body.
type ShareAnonDataRequest struct {
	Reason       string           `json:"reason" example:"Not medically necessary"`
	Zip          FlexString       `json:"zip" swaggertype:"string" example:"08540"`
	Demo         string           `json:"demo" example:"age_40"`
	Amount       *decimal.Decimal `json:"amount" swaggertype:"number" example:"5000"`
	Outcome      string           `json:"outcome" example:"Denied"`
	AmplitudeKey string           `json:"amplitude_key" example:""`
}

// GenerateAppealRequest represents the generate-appeal request body.
type GenerateAppealRequest struct {
	ClaimText        string `json:"claim_text" example:"Claim denied: MRI not medically necessary."`
	AdditionalNotes  string `json:"additional_notes" example:"My physician documented six weeks of failed physical therapy."`
	DedalusKey       string `json:"dedalus_key" example:"dsk-..."`
	OpenAIKey        string `json:"openai_key" example:"sk-..."`
	PatientName      string `json:"patient_name" example:"Jane Doe"`
	InsuranceCompany string `json:"insurance_company" example:"Acme Health"`
	PolicyNumber     string `json:"policy_number" example:"POL-123456"`
	AmplitudeKey     string `json:"amplitude_key" example:""`
}

// GrokAnalysisRequest represents the grok-analysis request body.
type GrokAnalysisRequest struct {
	Query  string `json:"query" example:"Denial trends for MRI claims in New Jersey"`
	XAIKey string `json:"xai_key" example:"xai-..."`
}

// FinancialImpactRequest represents the financial-impact request body.
type FinancialImpactRequest struct {
	ClaimAmount *decimal.Decimal `json:"claim_amount" swaggertype:"number" example:"5000"`
	CapOneKey   string           `json:"cap_one_key" example:""`
}

// AppealFeeLinkRequest represents the appeal-fee-link request body. An
// omitted amount defaults to 50.
type AppealFeeLinkRequest struct {
	Amount           *decimal.Decimal `json:"amount" swaggertype:"number" example:"50"`
	InsuranceCompany string           `json:"insurance_company" example:"Acme Health"`
	KnotKey          string           `json:"knot_key" example:""`
}

// --- Response Types ---

// ParseClaimResponse is the parse-claim response body.
type ParseClaimResponse struct {
	Success bool `json:"success" example:"true"`
	service.ParsedClaim
}

// SummarizeResponse is the summarize response body.
type SummarizeResponse struct {
	Success      bool   `json:"success" example:"true"`
	Summary      string `json:"summary" example:"The MRI claim was denied because prior authorization was not obtained."`
	UsedXAI      bool   `json:"used_xai" example:"false"`
	ProviderUsed string `json:"provider_used" example:"openai"`
}

// UserData echoes the scored input back to the caller.
type UserData struct {
	Age    int     `json:"age" example:"45"`
	Zip    string  `json:"zip" example:"08540"`
	Amount float64 `json:"amount" example:"5000"`
	Demo   string  `json:"demo" example:"age_40"`
}

// PredictAppealResponse is the predict-appeal response body.
type PredictAppealResponse struct {
	Success     bool     `json:"success" example:"true"`
	Probability int      `json:"probability" example:"48"`
	UserData    UserData `json:"user_data"`
}

// DetectBiasResponse is the detect-bias response body.
type DetectBiasResponse struct {
	Success bool `json:"success" example:"true"`
	domain.BiasAnalysisResult
}

// ShareAnonDataResponse is the share-anon-data response body.
type ShareAnonDataResponse struct {
	Success bool   `json:"success" example:"true"`
	Message string `json:"message" example:"Anonymized data added successfully"`
	Counted bool   `json:"counted" example:"true"`
}

// GenerateAppealResponse is the generate-appeal response body.
type GenerateAppealResponse struct {
	Success bool `json:"success" example:"true"`
	domain.AppealLetterResult
}

// GrokAnalysisResponse is the grok-analysis response body.
type GrokAnalysisResponse struct {
	Success  bool   `json:"success" example:"true"`
	Insights string `json:"insights"`
}

// FinancialImpactResponse is the financial-impact response body.
type FinancialImpactResponse struct {
	Success bool                     `json:"success" example:"true"`
	Impact  *service.FinancialImpact `json:"impact"`
}

// AppealFeeLinkResponse is the appeal-fee-link response body.
type AppealFeeLinkResponse struct {
	Success bool                 `json:"success" example:"true"`
	Payment *service.PaymentLink `json:"payment"`
}
