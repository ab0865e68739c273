package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/apex/log"

	"claimequity/internal/appeal"
	"claimequity/internal/domain"
	"claimequity/internal/port"
	"claimequity/internal/provider"
)

const appealSystemPrompt = "You are a healthcare insurance claim agent who writes persuasive, factual appeal letters."

var errEmptyDraft = errors.New("provider returned an empty draft")

// AppealConfig holds appeal generation settings. Token limits are left to
// each adapter's own provider config.
type AppealConfig struct {
	Order         []string
	MaxInputChars int
}

// AppealService produces formatted appeal letters. Unlike summarization there
// is no local fallback: if no provider drafts a body the call fails.
type AppealService interface {
	Generate(ctx context.Context, req domain.AppealLetterRequest, creds domain.Credentials) (*domain.AppealLetterResult, error)
}

type appealService struct {
	adapters map[string]port.ProviderAdapter
	tracker  port.EventTracker
	cfg      AppealConfig
	now      func() time.Time
}

// NewAppealService creates an AppealService over the generate-capable
// adapters. tracker may be nil.
func NewAppealService(adapters []port.ProviderAdapter, tracker port.EventTracker, cfg AppealConfig) AppealService {
	byName := make(map[string]port.ProviderAdapter, len(adapters))
	for _, a := range adapters {
		if a.Supports(domain.CapabilityGenerate) {
			byName[a.Name()] = a
		}
	}
	return &appealService{adapters: byName, tracker: tracker, cfg: cfg, now: time.Now}
}

func (s *appealService) Generate(ctx context.Context, req domain.AppealLetterRequest, creds domain.Credentials) (*domain.AppealLetterResult, error) {
	if !req.HasContent() {
		return nil, domain.ErrAppealInputMissing
	}

	draft, used, err := s.draft(ctx, req, creds)
	if err != nil {
		return nil, err
	}

	category := domain.CategorizeClaim(req.ClaimText + " " + req.AdditionalNotes)
	letter, err := appeal.Format(appeal.LetterFields{
		PatientName:      req.PatientName,
		InsuranceCompany: req.InsuranceCompany,
		PolicyNumber:     req.PolicyNumber,
		Draft:            draft,
		Rationale:        appeal.Rationale(category),
		Notes:            req.AdditionalNotes,
		Date:             s.now(),
	})
	if err != nil {
		return nil, err
	}

	trackEvent(s.tracker, ctx, creds, EventAppealGenerated, map[string]string{
		"has_claim":     strconv.FormatBool(strings.TrimSpace(req.ClaimText) != ""),
		"provider_used": used,
	})
	return &domain.AppealLetterResult{LetterText: letter, ProviderUsed: used, Category: category}, nil
}

// draft asks each eligible provider in order for a letter body and returns the
// first non-empty one. With no eligible provider it returns an auth error for
// the first configured provider.
func (s *appealService) draft(ctx context.Context, req domain.AppealLetterRequest, creds domain.Credentials) (string, string, error) {
	payload := port.ProviderPayload{
		System: appealSystemPrompt,
		Prompt: appeal.DraftPrompt(req.ClaimText, req.AdditionalNotes, s.cfg.MaxInputChars),
	}

	var lastErr error
	for _, name := range s.cfg.Order {
		adapter, ok := s.adapters[name]
		if !ok || !creds.Has(name) {
			continue
		}

		out, err := adapter.Invoke(ctx, domain.CapabilityGenerate, payload, creds.For(name))
		if err == nil && strings.TrimSpace(out.Text) == "" {
			err = provider.NewError(provider.KindUnavailable, name, errEmptyDraft)
		}
		if err != nil {
			log.WithField("provider", name).Warnf("appealService.Generate: draft failed: %v", err)
			lastErr = err
			continue
		}
		return out.Text, name, nil
	}

	if lastErr != nil {
		return "", "", lastErr
	}
	first := domain.ProviderDedalus
	if len(s.cfg.Order) > 0 {
		first = s.cfg.Order[0]
	}
	return "", "", provider.MissingCredential(first)
}
