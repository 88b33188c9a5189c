package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	cacheOps = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "concierge_cache_ops_total",
		Help: "Cache operations by tier and outcome",
	}, []string{"tier", "outcome"})

	sharedFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "concierge_cache_shared_failures_total",
		Help: "Shared-tier connectivity failures absorbed by the fallback",
	})

	inferenceLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "concierge_inference_latency_ms",
		Help:    "Latency of inference calls in milliseconds",
		Buckets: []float64{100, 250, 500, 1000, 2000, 4000, 8000, 15000, 30000},
	}, []string{"outcome"})

	inferencePolls = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "concierge_inference_polls",
		Help:    "Number of status polls per generation job",
		Buckets: []float64{0, 1, 2, 5, 10, 20, 40, 60},
	})

	classifications = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "concierge_classifications_total",
		Help: "Query classifications by category",
	}, []string{"category"})

	responses = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "concierge_responses_total",
		Help: "Responses by source (cache, template, inference, fallback)",
	}, []string{"source"})
)

func ensureRegistered() {
	once.Do(func() {
		prometheus.MustRegister(cacheOps, sharedFailures, inferenceLatency, inferencePolls, classifications, responses)
	})
}

// IncCacheOp records a cache operation outcome for a tier
// (outcome: hit, miss, set, error).
func IncCacheOp(tier, outcome string) {
	ensureRegistered()
	cacheOps.WithLabelValues(tier, outcome).Inc()
}

// IncSharedFailure counts a shared-tier connectivity failure.
func IncSharedFailure() {
	ensureRegistered()
	sharedFailures.Inc()
}

// ObserveInference records latency and outcome of one generation
// (outcome: direct, completed, failed, timeout).
func ObserveInference(outcome string, start time.Time) {
	ensureRegistered()
	inferenceLatency.WithLabelValues(outcome).Observe(float64(time.Since(start).Milliseconds()))
}

// ObservePolls records how many status polls a job needed.
func ObservePolls(n int) {
	ensureRegistered()
	inferencePolls.Observe(float64(n))
}

// IncClassification counts a classified category.
func IncClassification(category string) {
	ensureRegistered()
	classifications.WithLabelValues(category).Inc()
}

// IncResponse counts a response by the path that produced it.
func IncResponse(source string) {
	ensureRegistered()
	responses.WithLabelValues(source).Inc()
}

// Collectors exposes all collectors for external registration with a custom registry.
func Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		cacheOps, sharedFailures, inferenceLatency, inferencePolls, classifications, responses,
	}
}
