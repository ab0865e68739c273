package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/apex/log"

	"claimequity/internal/domain"
	"claimequity/internal/metrics"
	"claimequity/internal/port"
	"claimequity/internal/provider"
	"claimequity/internal/summarizer"
)

const summarySystemPrompt = "You are a healthcare insurance claim expert. Summarize claims in plain English, " +
	"highlighting key details like diagnosis codes, denial reasons, and treatment costs."

// SummarizeInput is the DTO for a claim summary request.
type SummarizeInput struct {
	ClaimText string
	// Preferred, when it names a provider in the configured order, is tried first.
	Preferred string
	// Enabled holds the caller's per-provider use flags; a provider that is not
	// enabled is never tried.
	Enabled     map[string]bool
	Credentials domain.Credentials
}

// SummarizeConfig holds the fallback chain settings.
type SummarizeConfig struct {
	Order         []string
	ChainTimeout  time.Duration
	MaxInputChars int
	LocalMaxChars int
}

// SummarizeService turns claim text into a summary, trying providers in order
// and falling back to local extraction.
type SummarizeService interface {
	Summarize(ctx context.Context, input SummarizeInput) (*domain.SummaryResult, error)
}

type summarizeService struct {
	adapters map[string]port.ProviderAdapter
	cfg      SummarizeConfig
}

// NewSummarizeService creates a SummarizeService over the given adapters.
// Adapters that do not support summarization are ignored.
func NewSummarizeService(adapters []port.ProviderAdapter, cfg SummarizeConfig) SummarizeService {
	byName := make(map[string]port.ProviderAdapter, len(adapters))
	for _, a := range adapters {
		if a.Supports(domain.CapabilitySummarize) {
			byName[a.Name()] = a
		}
	}
	return &summarizeService{adapters: byName, cfg: cfg}
}

func (s *summarizeService) Summarize(ctx context.Context, input SummarizeInput) (*domain.SummaryResult, error) {
	text := strings.TrimSpace(input.ClaimText)
	if text == "" {
		return nil, domain.ErrEmptyClaimText
	}

	chainCtx := ctx
	if s.cfg.ChainTimeout > 0 {
		var cancel context.CancelFunc
		chainCtx, cancel = context.WithTimeout(ctx, s.cfg.ChainTimeout)
		defer cancel()
	}

	payload := port.ProviderPayload{
		System: summarySystemPrompt,
		Prompt: "Summarize this insurance claim in plain English, focusing on what was denied and why: " +
			clip(text, s.cfg.MaxInputChars),
	}

	for _, adapter := range s.chain(input) {
		if err := chainCtx.Err(); err != nil {
			log.WithError(err).Warn("summarizeService.Summarize: chain deadline reached, using local summary")
			break
		}

		out, err := adapter.Invoke(chainCtx, domain.CapabilitySummarize, payload, input.Credentials.For(adapter.Name()))
		if err == nil {
			metrics.SummarizePathTotal.WithLabelValues(adapter.Name()).Inc()
			return &domain.SummaryResult{SummaryText: out.Text, ProviderUsed: adapter.Name()}, nil
		}

		kind := provider.KindUnavailable
		var pe *provider.Error
		if errors.As(err, &pe) {
			kind = pe.Kind
		}
		log.WithFields(log.Fields{"provider": adapter.Name(), "kind": kind}).
			Warnf("summarizeService.Summarize: provider failed, advancing: %v", err)
	}

	metrics.SummarizePathTotal.WithLabelValues(domain.ProviderLocal).Inc()
	return &domain.SummaryResult{
		SummaryText:  summarizer.Extract(text, s.cfg.LocalMaxChars),
		ProviderUsed: domain.ProviderLocal,
	}, nil
}

// chain returns the eligible adapters in try order: configured order, with a
// configured preferred provider moved to the front.
func (s *summarizeService) chain(input SummarizeInput) []port.ProviderAdapter {
	order := make([]string, 0, len(s.cfg.Order))
	if p := strings.ToLower(strings.TrimSpace(input.Preferred)); p != "" && contains(s.cfg.Order, p) {
		order = append(order, p)
	}
	for _, name := range s.cfg.Order {
		if !contains(order, name) {
			order = append(order, name)
		}
	}

	var eligible []port.ProviderAdapter
	for _, name := range order {
		adapter, ok := s.adapters[name]
		if !ok || !input.Enabled[name] || !input.Credentials.Has(name) {
			continue
		}
		eligible = append(eligible, adapter)
	}
	return eligible
}

func contains(list []string, item string) bool {
	for _, s := range list {
		if s == item {
			return true
		}
	}
	return false
}

// clip cuts s to at most maxChars runes. A non-positive maxChars disables clipping.
func clip(s string, maxChars int) string {
	if maxChars <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= maxChars {
		return s
	}
	return string(runes[:maxChars])
}
