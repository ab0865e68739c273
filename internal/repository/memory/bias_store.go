// Package memory provides process-local implementations of the storage ports.
package memory

import (
	"context"
	"sort"
	"sync"

	"claimequity/internal/domain"
)

// BiasStore keeps bias aggregates in a mutex-guarded map. Records are kept so
// the store mirrors the append-only table of the Postgres implementation.
type BiasStore struct {
	mu      sync.RWMutex
	stats   map[domain.BucketKey]*domain.BiasBucketStats
	records []domain.BiasRecord
}

// NewBiasStore creates an empty in-memory BiasStore.
func NewBiasStore() *BiasStore {
	return &BiasStore{stats: make(map[domain.BucketKey]*domain.BiasBucketStats)}
}

func (s *BiasStore) Record(ctx context.Context, rec domain.BiasRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.stats[rec.BucketKey]
	if !ok {
		st = &domain.BiasBucketStats{BucketKey: rec.BucketKey}
		s.stats[rec.BucketKey] = st
	}
	st.TotalCount++
	if rec.Outcome == domain.OutcomeDenied {
		st.DeniedCount++
	}
	s.records = append(s.records, rec)
	return nil
}

// Bucket returns a copy of the bucket's counters, or nil when the bucket has
// never been recorded.
func (s *BiasStore) Bucket(_ context.Context, key domain.BucketKey) (*domain.BiasBucketStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.stats[key]
	if !ok {
		return nil, nil
	}
	out := *st
	return &out, nil
}

// Buckets returns a snapshot of every bucket, ordered by key.
func (s *BiasStore) Buckets(_ context.Context) ([]domain.BiasBucketStats, error) {
	s.mu.RLock()
	out := make([]domain.BiasBucketStats, 0, len(s.stats))
	for _, st := range s.stats {
		out = append(out, *st)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].ZipBucket != out[j].ZipBucket {
			return out[i].ZipBucket < out[j].ZipBucket
		}
		return out[i].DemographicBucket < out[j].DemographicBucket
	})
	return out, nil
}

// RecordCount returns how many records were appended.
func (s *BiasStore) RecordCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
