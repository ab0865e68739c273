package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	// ProviderAttemptsTotal counts outbound provider calls by provider, capability and result.
	ProviderAttemptsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "claimequity",
		Subsystem: "provider",
		Name:      "attempts_total",
		Help:      "Outbound provider calls, labeled by provider, capability and result (ok or error kind).",
	}, []string{"provider", "capability", "result"})

	// SummarizePathTotal counts which path of the fallback chain produced a summary.
	SummarizePathTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "claimequity",
		Subsystem: "summarizer",
		Name:      "path_total",
		Help:      "Summaries produced, labeled by the provider that produced them (local for the extractive fallback).",
	}, []string{"provider"})

	// BiasRecordsTotal counts anonymized submissions by outcome and whether they were counted.
	BiasRecordsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "claimequity",
		Subsystem: "bias",
		Name:      "records_total",
		Help:      "Anonymized outcome submissions, labeled by outcome and counted (true/false).",
	}, []string{"outcome", "counted"})

	// ProviderCallDurationSeconds is wall time per provider call.
	ProviderCallDurationSeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "claimequity",
		Subsystem: "provider",
		Name:      "call_duration_seconds",
		Help:      "Duration of outbound provider calls.",
		Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 20, 30},
	}, []string{"provider"})
)

// Register registers all collectors with the default registry. Safe to call more than once.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			ProviderAttemptsTotal,
			SummarizePathTotal,
			BiasRecordsTotal,
			ProviderCallDurationSeconds,
		)
	})
}
