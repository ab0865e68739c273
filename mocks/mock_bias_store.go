package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"claimequity/internal/domain"
)

// MockBiasStore is a mock implementation of port.BiasStore.
type MockBiasStore struct {
	mock.Mock
}

func (m *MockBiasStore) Record(ctx context.Context, rec domain.BiasRecord) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *MockBiasStore) Bucket(ctx context.Context, key domain.BucketKey) (*domain.BiasBucketStats, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BiasBucketStats), args.Error(1)
}

func (m *MockBiasStore) Buckets(ctx context.Context) ([]domain.BiasBucketStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BiasBucketStats), args.Error(1)
}
