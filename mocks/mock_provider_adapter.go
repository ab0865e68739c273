package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"claimequity/internal/domain"
	"claimequity/internal/port"
)

// MockProviderAdapter is a mock implementation of port.ProviderAdapter. Name
// and Supports are answered from fields; Invoke goes through testify.
type MockProviderAdapter struct {
	mock.Mock
	ProviderName string
	Capabilities []domain.Capability
}

// NewMockProviderAdapter creates a mock adapter with the given name and capabilities.
func NewMockProviderAdapter(name string, capabilities ...domain.Capability) *MockProviderAdapter {
	return &MockProviderAdapter{ProviderName: name, Capabilities: capabilities}
}

func (m *MockProviderAdapter) Name() string {
	return m.ProviderName
}

func (m *MockProviderAdapter) Supports(capability domain.Capability) bool {
	for _, c := range m.Capabilities {
		if c == capability {
			return true
		}
	}
	return false
}

func (m *MockProviderAdapter) Invoke(ctx context.Context, capability domain.Capability, payload port.ProviderPayload, credential string) (*port.ProviderResult, error) {
	args := m.Called(ctx, capability, payload, credential)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*port.ProviderResult), args.Error(1)
}
