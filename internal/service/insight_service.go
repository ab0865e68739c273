package service

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"claimequity/internal/domain"
	"claimequity/internal/port"
)

const analystSystemPrompt = "You are a healthcare equity analyst. Analyze insurance claim trends and bias patterns in real-time."

// FinancialImpact is the out-of-pocket view of a denied claim. Live holds the
// provider response when a credential was supplied.
type FinancialImpact struct {
	BalanceAfterDenial *string                `json:"balance_after_denial"`
	Impact             string                 `json:"impact"`
	Message            string                 `json:"message,omitempty"`
	Live               map[string]interface{} `json:"live,omitempty"`
}

// FeeLinkInput describes the appeal fee to collect.
type FeeLinkInput struct {
	Amount           decimal.Decimal
	InsuranceCompany string
}

// PaymentLink is the appeal fee payment link. Link is nil in sandbox mode,
// which covers both a missing key and a provider response without a link.
type PaymentLink struct {
	Link    *string                `json:"link"`
	Sandbox bool                   `json:"sandbox"`
	Message string                 `json:"message,omitempty"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// InsightService exposes the pass-through analysis and payment operations.
type InsightService interface {
	Analyze(ctx context.Context, query string, creds domain.Credentials) (string, error)
	FinancialImpact(ctx context.Context, amount decimal.Decimal, creds domain.Credentials) (*FinancialImpact, error)
	AppealFeeLink(ctx context.Context, input FeeLinkInput, creds domain.Credentials) (*PaymentLink, error)
}

type insightService struct {
	analyst   port.ProviderAdapter
	financial port.ProviderAdapter
	payments  port.ProviderAdapter
	maxTokens int
}

// NewInsightService creates an InsightService. Any adapter may be nil.
func NewInsightService(analyst, financial, payments port.ProviderAdapter, maxTokens int) InsightService {
	return &insightService{analyst: analyst, financial: financial, payments: payments, maxTokens: maxTokens}
}

func (s *insightService) Analyze(ctx context.Context, query string, creds domain.Credentials) (string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", domain.ErrEmptyQuery
	}
	if s.analyst == nil || !creds.Has(s.analyst.Name()) {
		return "", domain.ErrCredentialRequired
	}

	out, err := s.analyst.Invoke(ctx, domain.CapabilityAnalyze, port.ProviderPayload{
		System:    analystSystemPrompt,
		Prompt:    query,
		MaxTokens: s.maxTokens,
	}, creds.For(s.analyst.Name()))
	if err != nil {
		return "", err
	}
	return out.Text, nil
}

func (s *insightService) FinancialImpact(ctx context.Context, amount decimal.Decimal, creds domain.Credentials) (*FinancialImpact, error) {
	if amount.IsNegative() {
		return nil, domain.ErrNegativeAmount
	}
	estimate := "Estimated out-of-pocket: $" + formatMoney(amount)

	if s.financial == nil || !creds.Has(s.financial.Name()) {
		return &FinancialImpact{
			Impact:  estimate,
			Message: "Capital One API key required for live data",
		}, nil
	}

	out, err := s.financial.Invoke(ctx, domain.CapabilityFinancial, port.ProviderPayload{
		Params: map[string]string{"claim_amount": amount.StringFixed(2)},
	}, creds.For(s.financial.Name()))
	if err != nil {
		return nil, err
	}
	return &FinancialImpact{Impact: estimate, Live: out.Raw}, nil
}

func (s *insightService) AppealFeeLink(ctx context.Context, input FeeLinkInput, creds domain.Credentials) (*PaymentLink, error) {
	if input.Amount.IsNegative() {
		return nil, domain.ErrNegativeAmount
	}
	if s.payments == nil || !creds.Has(s.payments.Name()) {
		return &PaymentLink{Sandbox: true, Message: "Knot API key required"}, nil
	}

	description := "Appeal fee"
	if company := strings.TrimSpace(input.InsuranceCompany); company != "" {
		description = "Appeal fee for " + company
	}
	out, err := s.payments.Invoke(ctx, domain.CapabilityPayment, port.ProviderPayload{
		Params: map[string]string{
			"amount":      input.Amount.StringFixed(2),
			"description": description,
		},
	}, creds.For(s.payments.Name()))
	if err != nil {
		return nil, err
	}

	if out.Text == "" {
		return &PaymentLink{Sandbox: true, Message: "Payment link not issued (sandbox mode)", Details: out.Raw}, nil
	}
	link := out.Text
	return &PaymentLink{Link: &link, Details: out.Raw}, nil
}

// formatMoney renders amount with two decimals and thousands separators.
func formatMoney(amount decimal.Decimal) string {
	fixed := amount.Round(2).StringFixed(2)
	intPart, frac, _ := strings.Cut(fixed, ".")
	neg := strings.HasPrefix(intPart, "-")
	intPart = strings.TrimPrefix(intPart, "-")

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	out := b.String() + "." + frac
	if neg {
		out = "-" + out
	}
	return out
}
