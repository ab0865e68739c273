package bias

import (
	"fmt"

	"claimequity/internal/domain"
)

// Thresholds parameterize a disparity analysis.
type Thresholds struct {
	MinSample         int64
	RelativeRisk      float64
	MinHeatmapBuckets int
}

const noDataMessage = "No data available yet. Share anonymized data to build bias detection."

// Analyze compares the bucket's denial rate with the baseline across all
// buckets. bucket may be nil when nothing was ever recorded for it.
func Analyze(bucket *domain.BiasBucketStats, all []domain.BiasBucketStats, th Thresholds) domain.BiasAnalysisResult {
	var total, denied int64
	sufficient := 0
	for _, b := range all {
		total += b.TotalCount
		denied += b.DeniedCount
		if b.TotalCount >= th.MinSample {
			sufficient++
		}
	}

	res := domain.BiasAnalysisResult{
		HeatmapAvailable: sufficient >= th.MinHeatmapBuckets,
		Verdict:          domain.VerdictInsufficientData,
	}
	if total > 0 {
		res.BaselineRate = float64(denied) / float64(total)
	}

	if total == 0 {
		res.Message = noDataMessage
		return res
	}
	if bucket == nil || bucket.TotalCount < th.MinSample {
		var n int64
		if bucket != nil {
			n = bucket.TotalCount
		}
		res.Message = fmt.Sprintf(
			"Not enough data for your group yet (%d of %d submissions needed). No conclusion can be drawn.",
			n, th.MinSample)
		return res
	}

	rate := bucket.DenialRate()
	res.HasSufficientData = true
	res.BucketDenialRate = rate

	if rate > 0 && rate >= res.BaselineRate*th.RelativeRisk {
		res.Verdict = domain.VerdictDisparity
		res.Message = fmt.Sprintf(
			"BIAS ALERT: High denial rate detected in your group (%d denials of %d claims, %.1f%% vs %.1f%% overall).",
			bucket.DeniedCount, bucket.TotalCount, rate*100, res.BaselineRate*100)
		return res
	}

	res.Verdict = domain.VerdictNoDisparity
	res.Message = fmt.Sprintf(
		"No disparity detected for your group (%.1f%% denial rate vs %.1f%% overall).",
		rate*100, res.BaselineRate*100)
	return res
}

// Sufficient returns the buckets with at least minSample submissions.
func Sufficient(all []domain.BiasBucketStats, minSample int64) []domain.BiasBucketStats {
	var out []domain.BiasBucketStats
	for _, b := range all {
		if b.TotalCount >= minSample {
			out = append(out, b)
		}
	}
	return out
}

// Baseline returns the pooled denial rate across buckets.
func Baseline(all []domain.BiasBucketStats) float64 {
	var total, denied int64
	for _, b := range all {
		total += b.TotalCount
		denied += b.DeniedCount
	}
	if total == 0 {
		return 0
	}
	return float64(denied) / float64(total)
}
