package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/apex/log"
	"github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"

	"claimequity/internal/bias"
	"claimequity/internal/csvexport"
	"claimequity/internal/domain"
	"claimequity/internal/metrics"
	"claimequity/internal/port"
)

const heatmapCacheKey = "heatmap"

// ShareInput is the DTO for an anonymized outcome submission. Raw values are
// hashed and dropped inside RecordOutcome.
type ShareInput struct {
	Zip         string
	Demographic string
	Reason      string
	Outcome     string
	Amount      decimal.Decimal
	// Credentials carries optional analytics keys. It is never recorded.
	Credentials domain.Credentials
}

// ShareResult reports whether a submission was counted.
type ShareResult struct {
	Counted bool
}

// BiasConfig holds bias service settings.
type BiasConfig struct {
	Thresholds     bias.Thresholds
	HeatmapTTL     time.Duration
	SnapshotBucket string
}

// BiasService aggregates anonymized outcomes and reports disparities.
type BiasService interface {
	RecordOutcome(ctx context.Context, input ShareInput) (*ShareResult, error)
	Analyze(ctx context.Context, zip, demographic string, creds domain.Credentials) (*domain.BiasAnalysisResult, error)
	Heatmap(ctx context.Context) ([]byte, error)
	Export(ctx context.Context, w io.Writer) error
}

type biasService struct {
	store     port.BiasStore
	hasher    *bias.Hasher
	policy    bias.RepeatPolicy
	snapshots port.ObjectStorage
	tracker   port.EventTracker
	charts    *cache.Cache
	cfg       BiasConfig
	now       func() time.Time
}

// NewBiasService creates a BiasService. snapshots may be nil, in which case
// rendered heatmaps are not published. tracker may be nil.
func NewBiasService(
	store port.BiasStore,
	hasher *bias.Hasher,
	policy bias.RepeatPolicy,
	snapshots port.ObjectStorage,
	tracker port.EventTracker,
	cfg BiasConfig,
) BiasService {
	ttl := cfg.HeatmapTTL
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &biasService{
		store:     store,
		hasher:    hasher,
		policy:    policy,
		snapshots: snapshots,
		tracker:   tracker,
		charts:    cache.New(ttl, 2*ttl),
		cfg:       cfg,
		now:       time.Now,
	}
}

func (s *biasService) RecordOutcome(ctx context.Context, input ShareInput) (*ShareResult, error) {
	if blank(input.Zip) || blank(input.Demographic) {
		return nil, domain.ErrMissingGroup
	}
	outcome, ok := domain.ParseOutcome(input.Outcome)
	if !ok {
		return nil, domain.ErrInvalidOutcome
	}
	if input.Amount.IsNegative() {
		return nil, domain.ErrNegativeAmount
	}

	rec := domain.BiasRecord{
		BucketKey:      s.hasher.Key(input.Zip, input.Demographic),
		Outcome:        outcome,
		AmountBucket:   domain.TierForAmount(input.Amount),
		ReasonCategory: domain.CategorizeClaim(input.Reason),
	}
	fingerprint := s.hasher.Fingerprint(
		bias.NormalizeZip(input.Zip),
		bias.NormalizeDemographic(input.Demographic),
		strings.ToLower(strings.TrimSpace(input.Reason)),
		input.Amount.String(),
		string(outcome),
	)

	if !s.policy.Admit(fingerprint) {
		metrics.BiasRecordsTotal.WithLabelValues(string(outcome), "false").Inc()
		log.WithField("zip_bucket", rec.ZipBucket).Debug("biasService.RecordOutcome: repeat submission not counted")
		s.trackShared(ctx, input.Credentials, outcome, false)
		return &ShareResult{Counted: false}, nil
	}

	if err := s.store.Record(ctx, rec); err != nil {
		return nil, fmt.Errorf("recording bias outcome: %w", err)
	}
	metrics.BiasRecordsTotal.WithLabelValues(string(outcome), "true").Inc()
	s.trackShared(ctx, input.Credentials, outcome, true)
	return &ShareResult{Counted: true}, nil
}

// trackShared reports a submission without any group value, raw or hashed.
func (s *biasService) trackShared(ctx context.Context, creds domain.Credentials, outcome domain.Outcome, counted bool) {
	trackEvent(s.tracker, ctx, creds, EventDataShared, map[string]string{
		"outcome": string(outcome),
		"counted": strconv.FormatBool(counted),
	})
}

func (s *biasService) Analyze(ctx context.Context, zip, demographic string, creds domain.Credentials) (*domain.BiasAnalysisResult, error) {
	if blank(zip) || blank(demographic) {
		return nil, domain.ErrMissingGroup
	}
	key := s.hasher.Key(zip, demographic)

	bucket, err := s.store.Bucket(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("reading bias bucket: %w", err)
	}
	all, err := s.consistentBuckets(ctx)
	if err != nil {
		return nil, err
	}
	if bucket != nil && !bucket.Consistent() {
		logInconsistent(*bucket)
		return nil, domain.ErrAggregationInconsistent
	}

	res := bias.Analyze(bucket, all, s.cfg.Thresholds)
	trackEvent(s.tracker, ctx, creds, EventBiasDetected, map[string]string{
		"verdict": string(res.Verdict),
	})
	return &res, nil
}

func (s *biasService) Heatmap(ctx context.Context) ([]byte, error) {
	if cached, ok := s.charts.Get(heatmapCacheKey); ok {
		return cached.([]byte), nil
	}

	all, err := s.consistentBuckets(ctx)
	if err != nil {
		return nil, err
	}
	sufficient := bias.Sufficient(all, s.cfg.Thresholds.MinSample)
	if len(sufficient) == 0 || len(sufficient) < s.cfg.Thresholds.MinHeatmapBuckets {
		return nil, domain.ErrHeatmapUnavailable
	}

	png, err := bias.RenderHeatmap(sufficient, bias.Baseline(all))
	if err != nil {
		return nil, fmt.Errorf("rendering heatmap: %w", err)
	}
	s.charts.SetDefault(heatmapCacheKey, png)
	s.publish(ctx, png)
	return png, nil
}

func (s *biasService) Export(ctx context.Context, w io.Writer) error {
	all, err := s.consistentBuckets(ctx)
	if err != nil {
		return err
	}

	if _, err := w.Write(csvexport.BOM); err != nil {
		return fmt.Errorf("writing csv bom: %w", err)
	}
	cw := csvexport.NewWriter(w, s.cfg.Thresholds.MinSample)
	if err := cw.WriteHeader(); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}
	if err := cw.WriteBuckets(all); err != nil {
		return fmt.Errorf("writing csv rows: %w", err)
	}
	cw.Flush()
	return cw.Error()
}

// consistentBuckets loads every bucket and fails if any violates the
// counter invariants.
func (s *biasService) consistentBuckets(ctx context.Context) ([]domain.BiasBucketStats, error) {
	all, err := s.store.Buckets(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing bias buckets: %w", err)
	}
	for _, b := range all {
		if !b.Consistent() {
			logInconsistent(b)
			return nil, domain.ErrAggregationInconsistent
		}
	}
	return all, nil
}

func (s *biasService) publish(ctx context.Context, png []byte) {
	if s.snapshots == nil || s.cfg.SnapshotBucket == "" {
		return
	}
	key := fmt.Sprintf("heatmaps/%d.png", s.now().Unix())
	out, err := s.snapshots.Upload(ctx, port.UploadInput{
		Bucket:      s.cfg.SnapshotBucket,
		Key:         key,
		Body:        bytes.NewReader(png),
		ContentType: "image/png",
		Size:        int64(len(png)),
	})
	if err != nil {
		log.WithError(err).WithField("key", key).Warn("biasService.Heatmap: snapshot upload failed")
		return
	}
	log.WithFields(log.Fields{"key": key, "location": out.Location}).Info("biasService.Heatmap: snapshot published")
}

func logInconsistent(b domain.BiasBucketStats) {
	log.WithFields(log.Fields{
		"zip_bucket":         b.ZipBucket,
		"demographic_bucket": b.DemographicBucket,
		"total_count":        b.TotalCount,
		"denied_count":       b.DeniedCount,
	}).Error("biasService: inconsistent bucket counters")
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
