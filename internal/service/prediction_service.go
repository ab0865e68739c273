package service

import (
	"context"
	"strconv"

	"claimequity/internal/domain"
	"claimequity/internal/port"
	"claimequity/internal/prediction"
)

const (
	minAge = 18
	maxAge = 120
)

// PredictionService validates prediction input and scores it.
type PredictionService interface {
	Predict(ctx context.Context, input domain.PredictionInput, creds domain.Credentials) (*domain.PredictionResult, error)
}

type predictionService struct {
	engine  *prediction.Engine
	tracker port.EventTracker
}

// NewPredictionService creates a PredictionService over engine. tracker may
// be nil.
func NewPredictionService(engine *prediction.Engine, tracker port.EventTracker) PredictionService {
	return &predictionService{engine: engine, tracker: tracker}
}

func (s *predictionService) Predict(ctx context.Context, input domain.PredictionInput, creds domain.Credentials) (*domain.PredictionResult, error) {
	if input.Age < minAge || input.Age > maxAge {
		return nil, domain.ErrAgeOutOfRange
	}
	if input.ClaimAmount.IsNegative() {
		return nil, domain.ErrNegativeAmount
	}
	res := s.engine.Predict(input)
	trackEvent(s.tracker, ctx, creds, EventAppealPredicted, map[string]string{
		"success_prob": strconv.Itoa(res.ProbabilityPercent),
		"amount_tier":  string(domain.TierForAmount(input.ClaimAmount)),
	})
	return &res, nil
}
