package mocks

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"claimequity/internal/domain"
	"claimequity/internal/service"
)

// MockInsightService is a mock implementation of service.InsightService.
type MockInsightService struct {
	mock.Mock
}

func (m *MockInsightService) Analyze(ctx context.Context, query string, creds domain.Credentials) (string, error) {
	args := m.Called(ctx, query, creds)
	return args.String(0), args.Error(1)
}

func (m *MockInsightService) FinancialImpact(ctx context.Context, amount decimal.Decimal, creds domain.Credentials) (*service.FinancialImpact, error) {
	args := m.Called(ctx, amount, creds)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.FinancialImpact), args.Error(1)
}

func (m *MockInsightService) AppealFeeLink(ctx context.Context, input service.FeeLinkInput, creds domain.Credentials) (*service.PaymentLink, error) {
	args := m.Called(ctx, input, creds)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.PaymentLink), args.Error(1)
}
