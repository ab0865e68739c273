package port

import (
	"context"

	"claimequity/internal/domain"
)

// BiasStore is the append-only aggregate store behind the bias aggregator.
// Record must atomically increment the counters of exactly one bucket.
type BiasStore interface {
	Record(ctx context.Context, rec domain.BiasRecord) error
	Bucket(ctx context.Context, key domain.BucketKey) (*domain.BiasBucketStats, error)
	Buckets(ctx context.Context) ([]domain.BiasBucketStats, error)
}
