package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"claimequity/internal/claimtext"
	"claimequity/internal/domain"
	"claimequity/internal/service"
)

// MockClaimService is a mock implementation of service.ClaimService.
type MockClaimService struct {
	mock.Mock
}

func (m *MockClaimService) Parse(ctx context.Context, doc claimtext.Document, creds domain.Credentials) (*service.ParsedClaim, error) {
	args := m.Called(ctx, doc, creds)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ParsedClaim), args.Error(1)
}
