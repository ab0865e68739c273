package service_test

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"claimequity/internal/bias"
	"claimequity/internal/csvexport"
	"claimequity/internal/domain"
	"claimequity/internal/port"
	"claimequity/internal/repository/memory"
	"claimequity/internal/service"
	"claimequity/mocks"
)

func biasConfig() service.BiasConfig {
	return service.BiasConfig{
		Thresholds: bias.Thresholds{MinSample: 20, RelativeRisk: 1.3, MinHeatmapBuckets: 2},
		HeatmapTTL: time.Minute,
	}
}

func newBiasService(t *testing.T, store port.BiasStore, policyName string, snapshots port.ObjectStorage, cfg service.BiasConfig) service.BiasService {
	t.Helper()
	return newTrackedBiasService(t, store, policyName, snapshots, nil, cfg)
}

func newTrackedBiasService(t *testing.T, store port.BiasStore, policyName string, snapshots port.ObjectStorage, tracker port.EventTracker, cfg service.BiasConfig) service.BiasService {
	t.Helper()
	hasher, err := bias.NewHasher("test-salt")
	require.NoError(t, err)
	policy, err := bias.NewRepeatPolicy(policyName, 1, time.Hour)
	require.NoError(t, err)
	return service.NewBiasService(store, hasher, policy, snapshots, tracker, cfg)
}

func share(t *testing.T, svc service.BiasService, zip, demo, outcome string, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		res, err := svc.RecordOutcome(context.Background(), service.ShareInput{
			Zip: zip, Demographic: demo, Outcome: outcome, Reason: "not medically necessary", Amount: decimal.NewFromInt(1200),
		})
		require.NoError(t, err)
		require.True(t, res.Counted)
	}
}

func seedDisparity(t *testing.T, svc service.BiasService) {
	t.Helper()
	share(t, svc, "08540", "age_60-70", "Denied", 25)
	share(t, svc, "08540", "age_60-70", "approved", 5)
	share(t, svc, "10001", "age_30-40", "Denied", 15)
	share(t, svc, "10001", "age_30-40", "Approved", 55)
}

func TestBiasService_DisparityEndToEnd(t *testing.T) {
	svc := newBiasService(t, memory.NewBiasStore(), bias.PolicyCountAll, nil, biasConfig())
	seedDisparity(t, svc)

	res, err := svc.Analyze(context.Background(), "08540", "age_60-70", nil)
	require.NoError(t, err)

	assert.True(t, res.HasSufficientData)
	assert.Equal(t, domain.VerdictDisparity, res.Verdict)
	assert.InDelta(t, 0.833, res.BucketDenialRate, 0.001)
	assert.InDelta(t, 0.40, res.BaselineRate, 0.0001)
	assert.True(t, res.HeatmapAvailable)

	other, err := svc.Analyze(context.Background(), "10001", "age_30-40", nil)
	require.NoError(t, err)
	assert.Equal(t, domain.VerdictNoDisparity, other.Verdict)
}

func TestBiasService_InsufficientData(t *testing.T) {
	svc := newBiasService(t, memory.NewBiasStore(), bias.PolicyCountAll, nil, biasConfig())
	share(t, svc, "08540", "age_60-70", "Denied", 5)

	res, err := svc.Analyze(context.Background(), "08540", "age_60-70", nil)
	require.NoError(t, err)

	assert.False(t, res.HasSufficientData)
	assert.Equal(t, domain.VerdictInsufficientData, res.Verdict)
	assert.NotContains(t, res.Message, "BIAS ALERT")
}

func TestBiasService_StoresOnlyHashedBuckets(t *testing.T) {
	store := memory.NewBiasStore()
	svc := newBiasService(t, store, bias.PolicyCountAll, nil, biasConfig())
	share(t, svc, "08540", "age_60-70", "Denied", 3)

	buckets, err := store.Buckets(context.Background())
	require.NoError(t, err)
	require.Len(t, buckets, 1)
	assert.Equal(t, int64(3), buckets[0].TotalCount)
	assert.NotContains(t, buckets[0].ZipBucket, "08540")
	assert.NotContains(t, buckets[0].DemographicBucket, "age")
}

func TestBiasService_RepeatCapDropsDuplicates(t *testing.T) {
	store := memory.NewBiasStore()
	svc := newBiasService(t, store, bias.PolicyCap, nil, biasConfig())
	in := service.ShareInput{Zip: "08540", Demographic: "age_60-70", Outcome: "Denied", Amount: decimal.NewFromInt(100)}

	first, err := svc.RecordOutcome(context.Background(), in)
	require.NoError(t, err)
	second, err := svc.RecordOutcome(context.Background(), in)
	require.NoError(t, err)

	assert.True(t, first.Counted)
	assert.False(t, second.Counted)
	assert.Equal(t, 1, store.RecordCount())

	in.Outcome = "Approved"
	third, err := svc.RecordOutcome(context.Background(), in)
	require.NoError(t, err)
	assert.True(t, third.Counted)
}

func TestBiasService_RecordOutcomeValidation(t *testing.T) {
	store := new(mocks.MockBiasStore)
	svc := newBiasService(t, store, bias.PolicyCountAll, nil, biasConfig())

	tests := []struct {
		name string
		in   service.ShareInput
		want error
	}{
		{"missing zip", service.ShareInput{Demographic: "x", Outcome: "Denied"}, domain.ErrMissingGroup},
		{"missing demo", service.ShareInput{Zip: "08540", Outcome: "Denied"}, domain.ErrMissingGroup},
		{"bad outcome", service.ShareInput{Zip: "08540", Demographic: "x", Outcome: "Pending"}, domain.ErrInvalidOutcome},
		{"negative amount", service.ShareInput{Zip: "08540", Demographic: "x", Outcome: "Denied", Amount: decimal.NewFromInt(-5)}, domain.ErrNegativeAmount},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.RecordOutcome(context.Background(), tt.in)
			assert.ErrorIs(t, err, tt.want)
		})
	}
	store.AssertNotCalled(t, "Record", mock.Anything, mock.Anything)
}

func TestBiasService_RecordCarriesCategoryAndTier(t *testing.T) {
	store := new(mocks.MockBiasStore)
	store.On("Record", mock.Anything, mock.MatchedBy(func(rec domain.BiasRecord) bool {
		return rec.Outcome == domain.OutcomeDenied &&
			rec.AmountBucket == domain.AmountHigh &&
			rec.ReasonCategory == domain.CategoryOutOfNetwork
	})).Return(nil).Once()

	svc := newBiasService(t, store, bias.PolicyCountAll, nil, biasConfig())
	res, err := svc.RecordOutcome(context.Background(), service.ShareInput{
		Zip: "08540", Demographic: "age_60-70", Outcome: "DENIED", Reason: "Out of network provider", Amount: decimal.NewFromInt(20000),
	})

	require.NoError(t, err)
	assert.True(t, res.Counted)
	store.AssertExpectations(t)
}

func TestBiasService_StoreErrorPropagates(t *testing.T) {
	store := new(mocks.MockBiasStore)
	store.On("Record", mock.Anything, mock.Anything).Return(errors.New("db down"))

	svc := newBiasService(t, store, bias.PolicyCountAll, nil, biasConfig())
	_, err := svc.RecordOutcome(context.Background(), service.ShareInput{Zip: "08540", Demographic: "x", Outcome: "Denied"})

	assert.Error(t, err)
}

func TestBiasService_InconsistentCountersFailLoudly(t *testing.T) {
	broken := domain.BiasBucketStats{BucketKey: domain.BucketKey{ZipBucket: "a", DemographicBucket: "b"}, TotalCount: 3, DeniedCount: 5}
	store := new(mocks.MockBiasStore)
	store.On("Bucket", mock.Anything, mock.Anything).Return(&broken, nil)
	store.On("Buckets", mock.Anything).Return([]domain.BiasBucketStats{broken}, nil)

	svc := newBiasService(t, store, bias.PolicyCountAll, nil, biasConfig())

	_, err := svc.Analyze(context.Background(), "08540", "x", nil)
	assert.ErrorIs(t, err, domain.ErrAggregationInconsistent)

	_, err = svc.Heatmap(context.Background())
	assert.ErrorIs(t, err, domain.ErrAggregationInconsistent)

	err = svc.Export(context.Background(), &bytes.Buffer{})
	assert.ErrorIs(t, err, domain.ErrAggregationInconsistent)
}

func TestBiasService_HeatmapUnavailable(t *testing.T) {
	svc := newBiasService(t, memory.NewBiasStore(), bias.PolicyCountAll, nil, biasConfig())

	_, err := svc.Heatmap(context.Background())
	assert.ErrorIs(t, err, domain.ErrHeatmapUnavailable)

	share(t, svc, "08540", "age_60-70", "Denied", 25)
	_, err = svc.Heatmap(context.Background())
	assert.ErrorIs(t, err, domain.ErrHeatmapUnavailable)
}

func TestBiasService_HeatmapCachedAndPublished(t *testing.T) {
	snapshots := new(mocks.MockObjectStorage)
	snapshots.On("Upload", mock.Anything, mock.MatchedBy(func(in port.UploadInput) bool {
		return in.Bucket == "snapshots" && strings.HasPrefix(in.Key, "heatmaps/") && in.ContentType == "image/png" && in.Size > 0
	})).Return(&port.UploadOutput{Location: "s3://snapshots/heatmaps/1.png"}, nil).Once()

	cfg := biasConfig()
	cfg.SnapshotBucket = "snapshots"
	svc := newBiasService(t, memory.NewBiasStore(), bias.PolicyCountAll, snapshots, cfg)
	seedDisparity(t, svc)

	first, err := svc.Heatmap(context.Background())
	require.NoError(t, err)
	second, err := svc.Heatmap(context.Background())
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(first, []byte("\x89PNG")))
	assert.Equal(t, first, second)
	snapshots.AssertExpectations(t)
}

func TestBiasService_HeatmapUploadFailureIsNotFatal(t *testing.T) {
	snapshots := new(mocks.MockObjectStorage)
	snapshots.On("Upload", mock.Anything, mock.Anything).Return(nil, errors.New("access denied"))

	cfg := biasConfig()
	cfg.SnapshotBucket = "snapshots"
	svc := newBiasService(t, memory.NewBiasStore(), bias.PolicyCountAll, snapshots, cfg)
	seedDisparity(t, svc)

	png, err := svc.Heatmap(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, png)
}

func TestBiasService_Export(t *testing.T) {
	svc := newBiasService(t, memory.NewBiasStore(), bias.PolicyCountAll, nil, biasConfig())
	seedDisparity(t, svc)

	var buf bytes.Buffer
	require.NoError(t, svc.Export(context.Background(), &buf))

	assert.True(t, bytes.HasPrefix(buf.Bytes(), csvexport.BOM))
	var lines []string
	scanner := bufio.NewScanner(bytes.NewReader(buf.Bytes()[len(csvexport.BOM):]))
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "Zip Bucket,Demographic Bucket"))
	assert.NotContains(t, buf.String(), "08540")
}

func TestBiasService_ExportSuppressesSmallBuckets(t *testing.T) {
	svc := newBiasService(t, memory.NewBiasStore(), bias.PolicyCountAll, nil, biasConfig())
	seedDisparity(t, svc)
	share(t, svc, "73301", "age_18-30", "Denied", 1)
	share(t, svc, "94110", "age_60-70", "Approved", 3)

	hasher, err := bias.NewHasher("test-salt")
	require.NoError(t, err)
	lone := hasher.Key("73301", "age_18-30")

	var buf bytes.Buffer
	require.NoError(t, svc.Export(context.Background(), &buf))

	rows, err := csv.NewReader(bytes.NewReader(buf.Bytes()[len(csvexport.BOM):])).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{csvexport.SuppressedLabel, csvexport.SuppressedLabel, "4", "1", "0.2500", "No"}, rows[3])
	assert.NotContains(t, buf.String(), lone.ZipBucket)
	assert.NotContains(t, buf.String(), lone.DemographicBucket)
}

func TestBiasService_TracksSharesWithoutGroupValues(t *testing.T) {
	creds := domain.Credentials{domain.ProviderAmplitude: "ak"}
	tracker := new(mocks.MockEventTracker)
	tracker.On("Track", mock.Anything, creds, port.AnalyticsEvent{
		Type:       service.EventDataShared,
		Properties: map[string]string{"outcome": "Denied", "counted": "true"},
	}).Once()
	tracker.On("Track", mock.Anything, creds, port.AnalyticsEvent{
		Type:       service.EventDataShared,
		Properties: map[string]string{"outcome": "Denied", "counted": "false"},
	}).Once()
	svc := newTrackedBiasService(t, memory.NewBiasStore(), bias.PolicyCap, nil, tracker, biasConfig())

	in := service.ShareInput{Zip: "08540", Demographic: "age_60-70", Outcome: "denied", Reason: "not covered", Credentials: creds}
	first, err := svc.RecordOutcome(context.Background(), in)
	require.NoError(t, err)
	require.True(t, first.Counted)
	second, err := svc.RecordOutcome(context.Background(), in)
	require.NoError(t, err)
	require.False(t, second.Counted)

	tracker.AssertExpectations(t)
	for _, call := range tracker.Calls {
		event := call.Arguments.Get(2).(port.AnalyticsEvent)
		for _, v := range event.Properties {
			assert.NotContains(t, v, "08540")
			assert.NotContains(t, v, "age_60-70")
		}
	}
}

func TestBiasService_TracksVerdict(t *testing.T) {
	creds := domain.Credentials{domain.ProviderAmplitude: "ak"}
	tracker := new(mocks.MockEventTracker)
	tracker.On("Track", mock.Anything, creds, port.AnalyticsEvent{
		Type:       service.EventBiasDetected,
		Properties: map[string]string{"verdict": string(domain.VerdictDisparity)},
	}).Once()
	svc := newTrackedBiasService(t, memory.NewBiasStore(), bias.PolicyCountAll, nil, tracker, biasConfig())
	seedDisparity(t, svc)

	_, err := svc.Analyze(context.Background(), "08540", "age_60-70", creds)

	require.NoError(t, err)
	tracker.AssertExpectations(t)
}

func TestBiasService_NoEventWithoutTracker(t *testing.T) {
	svc := newBiasService(t, memory.NewBiasStore(), bias.PolicyCountAll, nil, biasConfig())

	res, err := svc.RecordOutcome(context.Background(), service.ShareInput{
		Zip: "08540", Demographic: "age_60-70", Outcome: "Approved",
		Credentials: domain.Credentials{domain.ProviderAmplitude: "ak"},
	})

	require.NoError(t, err)
	assert.True(t, res.Counted)
}
