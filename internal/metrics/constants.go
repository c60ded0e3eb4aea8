package metrics

// ============================================================================
// Metric Names
// ============================================================================

// HTTP metric names
const (
	MetricNameHTTPRequestsTotal    = "http_requests_total"
	MetricNameHTTPRequestDuration  = "http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight = "http_requests_in_flight"
)

// Upstream metric names
const (
	MetricNameUpstreamRequestsTotal     = "upstream_requests_total"
	MetricNameUpstreamRequestDuration   = "upstream_request_duration_seconds"
	MetricNameCircuitBreakerState       = "upstream_circuit_breaker_state"
	MetricNameCircuitBreakerTransitions = "upstream_circuit_breaker_transitions_total"
)

// Sync metric names
const (
	MetricNameSyncResultsTotal   = "sync_results_total"
	MetricNameSyncDuration       = "sync_duration_seconds"
	MetricNameSweepsTotal        = "sweeps_total"
	MetricNameSweepDuration      = "sweep_duration_seconds"
	MetricNameSweepUsersInFlight = "sweep_users_in_flight"
)

// Cache metric names
const (
	MetricNameCacheHits            = "stats_cache_hits_total"
	MetricNameCacheMisses          = "stats_cache_misses_total"
	MetricNameCacheStaleRejections = "stats_cache_stale_rejections_total"
)

// Verification metric names
const (
	MetricNameVerificationsTotal = "verifications_total"
)

// Worker metric names
const (
	MetricNameWorkerJobsTotal = "worker_jobs_total"
)

// ============================================================================
// Metric Help Text
// ============================================================================

// HTTP metric help text
const (
	HelpTextHTTPRequestsTotal    = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration  = "HTTP request latency in seconds"
	HelpTextHTTPRequestsInFlight = "Current number of HTTP requests being served"
)

// Upstream metric help text
const (
	HelpTextUpstreamRequestsTotal     = "Total number of requests sent to external platforms by outcome"
	HelpTextUpstreamRequestDuration   = "External platform request latency in seconds"
	HelpTextCircuitBreakerState       = "Circuit breaker state per platform (0=closed, 1=half-open, 2=open)"
	HelpTextCircuitBreakerTransitions = "Total number of circuit breaker state transitions"
)

// Sync metric help text
const (
	HelpTextSyncResultsTotal   = "Total number of per-platform sync results by error kind"
	HelpTextSyncDuration       = "Per-platform sync latency in seconds"
	HelpTextSweepsTotal        = "Total number of scheduled sweeps by result"
	HelpTextSweepDuration      = "Sweep duration in seconds"
	HelpTextSweepUsersInFlight = "Number of users currently being synced by a sweep"
)

// Cache metric help text
const (
	HelpTextCacheHits            = "Total number of stats cache hits by layer"
	HelpTextCacheMisses          = "Total number of stats cache misses by layer"
	HelpTextCacheStaleRejections = "Total number of cache writes rejected because a newer snapshot was stored"
)

// Verification metric help text
const (
	HelpTextVerificationsTotal = "Total number of verification attempts by result"
)

// Worker metric help text
const (
	HelpTextWorkerJobsTotal = "Total number of background jobs run by the worker pool by result"
)

// ============================================================================
// Label Names
// ============================================================================

const (
	LabelMethod   = "method"
	LabelPath     = "path"
	LabelStatus   = "status"
	LabelPlatform = "platform"
	LabelOutcome  = "outcome"
	LabelKind     = "kind"
	LabelJob      = "job"
	LabelFrom     = "from"
	LabelTo       = "to"
	LabelLayer    = "layer"
	LabelResult   = "result"
)

// ============================================================================
// Label Values
// ============================================================================

const (
	OutcomeOK        = "ok"
	OutcomeRejected  = "rejected"
	OutcomeThrottled = "throttled"

	LayerMemory     = "memory"
	LayerPersistent = "persistent"

	ResultCompleted = "completed"
	ResultSkipped   = "skipped"
	ResultFailed    = "failed"
	ResultPanicked  = "panicked"
)

// ============================================================================
// Buckets
// ============================================================================

var (
	HTTPLatencyBuckets     = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 15}
	UpstreamLatencyBuckets = []float64{.05, .1, .25, .5, 1, 2, 4, 8, 12, 15}
	SweepDurationBuckets   = []float64{1, 5, 15, 30, 60, 120, 300, 600, 1800, 3600}
)
