package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"claimequity/internal/domain"
)

type biasStoreRepo struct {
	db *sqlx.DB
}

// NewBiasStoreRepo creates a new PostgreSQL-backed BiasStore.
func NewBiasStoreRepo(db *sqlx.DB) *biasStoreRepo {
	return &biasStoreRepo{db: db}
}

// Record increments the bucket counters and appends the record in one
// transaction. The upsert is a single statement, so concurrent writers to the
// same bucket never lose an increment.
func (r *biasStoreRepo) Record(ctx context.Context, rec domain.BiasRecord) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning bias record tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	denied := 0
	if rec.Outcome == domain.OutcomeDenied {
		denied = 1
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO bias_bucket_stats (zip_bucket, demographic_bucket, total_count, denied_count, created_at, updated_at)
		VALUES ($1, $2, 1, $3, NOW(), NOW())
		ON CONFLICT (zip_bucket, demographic_bucket) DO UPDATE SET
			total_count = bias_bucket_stats.total_count + 1,
			denied_count = bias_bucket_stats.denied_count + EXCLUDED.denied_count,
			updated_at = NOW()`,
		rec.ZipBucket, rec.DemographicBucket, denied)
	if err != nil {
		return fmt.Errorf("upserting bias bucket: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO bias_records (zip_bucket, demographic_bucket, outcome, amount_bucket, reason_category)
		VALUES ($1, $2, $3, $4, $5)`,
		rec.ZipBucket, rec.DemographicBucket, rec.Outcome, rec.AmountBucket, rec.ReasonCategory)
	if err != nil {
		return fmt.Errorf("inserting bias record: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing bias record: %w", err)
	}
	return nil
}

func (r *biasStoreRepo) Bucket(ctx context.Context, key domain.BucketKey) (*domain.BiasBucketStats, error) {
	var st domain.BiasBucketStats
	err := r.db.GetContext(ctx, &st, `
		SELECT zip_bucket, demographic_bucket, total_count, denied_count
		FROM bias_bucket_stats
		WHERE zip_bucket = $1 AND demographic_bucket = $2`,
		key.ZipBucket, key.DemographicBucket)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("getting bias bucket: %w", err)
	}
	return &st, nil
}

func (r *biasStoreRepo) Buckets(ctx context.Context) ([]domain.BiasBucketStats, error) {
	var out []domain.BiasBucketStats
	err := r.db.SelectContext(ctx, &out, `
		SELECT zip_bucket, demographic_bucket, total_count, denied_count
		FROM bias_bucket_stats
		ORDER BY zip_bucket, demographic_bucket`)
	if err != nil {
		return nil, fmt.Errorf("listing bias buckets: %w", err)
	}
	return out, nil
}
