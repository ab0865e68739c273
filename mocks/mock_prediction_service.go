package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"claimequity/internal/domain"
)

// MockPredictionService is a mock implementation of service.PredictionService.
type MockPredictionService struct {
	mock.Mock
}

func (m *MockPredictionService) Predict(ctx context.Context, input domain.PredictionInput, creds domain.Credentials) (*domain.PredictionResult, error) {
	args := m.Called(ctx, input, creds)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PredictionResult), args.Error(1)
}
