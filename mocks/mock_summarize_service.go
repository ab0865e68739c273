package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"claimequity/internal/domain"
	"claimequity/internal/service"
)

// MockSummarizeService is a mock implementation of service.SummarizeService.
type MockSummarizeService struct {
	mock.Mock
}

func (m *MockSummarizeService) Summarize(ctx context.Context, input service.SummarizeInput) (*domain.SummaryResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SummaryResult), args.Error(1)
}
