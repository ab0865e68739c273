package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"claimequity/internal/domain"
	"claimequity/internal/service"
)

// MockBiasService is a mock implementation of service.BiasService.
type MockBiasService struct {
	mock.Mock
}

func (m *MockBiasService) RecordOutcome(ctx context.Context, input service.ShareInput) (*service.ShareResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ShareResult), args.Error(1)
}

func (m *MockBiasService) Analyze(ctx context.Context, zip, demographic string, creds domain.Credentials) (*domain.BiasAnalysisResult, error) {
	args := m.Called(ctx, zip, demographic, creds)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BiasAnalysisResult), args.Error(1)
}

func (m *MockBiasService) Heatmap(ctx context.Context) ([]byte, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// Export writes the string passed as the first Return value to w.
func (m *MockBiasService) Export(ctx context.Context, w io.Writer) error {
	args := m.Called(ctx, w)
	if s, ok := args.Get(0).(string); ok {
		if _, err := io.WriteString(w, s); err != nil {
			return err
		}
	}
	return args.Error(1)
}
