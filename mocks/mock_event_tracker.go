package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"claimequity/internal/domain"
	"claimequity/internal/port"
)

// MockEventTracker is a mock implementation of port.EventTracker.
type MockEventTracker struct {
	mock.Mock
}

func (m *MockEventTracker) Track(ctx context.Context, creds domain.Credentials, event port.AnalyticsEvent) {
	m.Called(ctx, creds, event)
}
