package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameHTTPRequestsTotal,
			Help: HelpTextHTTPRequestsTotal,
		},
		[]string{LabelMethod, LabelPath, LabelStatus},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameHTTPRequestDuration,
			Help:    HelpTextHTTPRequestDuration,
			Buckets: HTTPLatencyBuckets,
		},
		[]string{LabelMethod, LabelPath},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameHTTPRequestsInFlight,
			Help: HelpTextHTTPRequestsInFlight,
		},
	)
)

// Upstream Metrics
var (
	UpstreamRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameUpstreamRequestsTotal,
			Help: HelpTextUpstreamRequestsTotal,
		},
		[]string{LabelPlatform, LabelOutcome},
	)

	UpstreamRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameUpstreamRequestDuration,
			Help:    HelpTextUpstreamRequestDuration,
			Buckets: UpstreamLatencyBuckets,
		},
		[]string{LabelPlatform},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: MetricNameCircuitBreakerState,
			Help: HelpTextCircuitBreakerState,
		},
		[]string{LabelPlatform},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameCircuitBreakerTransitions,
			Help: HelpTextCircuitBreakerTransitions,
		},
		[]string{LabelPlatform, LabelFrom, LabelTo},
	)
)

// Sync Metrics
var (
	SyncResultsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameSyncResultsTotal,
			Help: HelpTextSyncResultsTotal,
		},
		[]string{LabelPlatform, LabelKind},
	)

	SyncDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameSyncDuration,
			Help:    HelpTextSyncDuration,
			Buckets: UpstreamLatencyBuckets,
		},
		[]string{LabelPlatform},
	)

	SweepsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameSweepsTotal,
			Help: HelpTextSweepsTotal,
		},
		[]string{LabelResult},
	)

	SweepDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    MetricNameSweepDuration,
			Help:    HelpTextSweepDuration,
			Buckets: SweepDurationBuckets,
		},
	)

	SweepUsersInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameSweepUsersInFlight,
			Help: HelpTextSweepUsersInFlight,
		},
	)
)

// Cache Metrics
var (
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameCacheHits,
			Help: HelpTextCacheHits,
		},
		[]string{LabelLayer},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameCacheMisses,
			Help: HelpTextCacheMisses,
		},
		[]string{LabelLayer},
	)

	CacheStaleRejections = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameCacheStaleRejections,
			Help: HelpTextCacheStaleRejections,
		},
	)
)

// Verification Metrics
var (
	VerificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameVerificationsTotal,
			Help: HelpTextVerificationsTotal,
		},
		[]string{LabelPlatform, LabelResult},
	)
)

// Worker Metrics
var (
	WorkerJobsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameWorkerJobsTotal,
			Help: HelpTextWorkerJobsTotal,
		},
		[]string{LabelJob, LabelResult},
	)
)
