package service

import (
	"context"
	"strconv"

	"github.com/apex/log"

	"claimequity/internal/claimtext"
	"claimequity/internal/domain"
	"claimequity/internal/port"
)

// ParsedClaim is the extracted text and its keyword features.
type ParsedClaim struct {
	ClaimText string               `json:"claim_text"`
	Features  domain.ClaimFeatures `json:"features"`
}

// ClaimService turns an uploaded claim document into text.
type ClaimService interface {
	Parse(ctx context.Context, doc claimtext.Document, creds domain.Credentials) (*ParsedClaim, error)
}

type claimService struct {
	maxBytes int64
	tracker  port.EventTracker
}

// NewClaimService creates a ClaimService that rejects documents over maxBytes.
// tracker may be nil.
func NewClaimService(maxBytes int64, tracker port.EventTracker) ClaimService {
	return &claimService{maxBytes: maxBytes, tracker: tracker}
}

func (s *claimService) Parse(ctx context.Context, doc claimtext.Document, creds domain.Credentials) (*ParsedClaim, error) {
	if err := doc.Validate(s.maxBytes); err != nil {
		return nil, err
	}

	text, err := claimtext.ExtractText(doc.Data)
	if err != nil {
		log.WithError(err).WithField("size", len(doc.Data)).Warn("claimService.Parse: text extraction failed")
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	features := claimtext.Features(text)
	trackEvent(s.tracker, ctx, creds, EventClaimAnalyzed, map[string]string{
		"text_length": strconv.Itoa(features.TextLength),
	})
	return &ParsedClaim{ClaimText: text, Features: features}, nil
}
