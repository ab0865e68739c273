package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"claimequity/internal/domain"
)

// MockAppealService is a mock implementation of service.AppealService.
type MockAppealService struct {
	mock.Mock
}

func (m *MockAppealService) Generate(ctx context.Context, req domain.AppealLetterRequest, creds domain.Credentials) (*domain.AppealLetterResult, error) {
	args := m.Called(ctx, req, creds)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AppealLetterResult), args.Error(1)
}
