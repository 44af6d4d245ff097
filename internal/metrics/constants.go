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

// Synchronization metric names
const (
	MetricNameEvictionsTotal     = "channel_evictions_total"
	MetricNameInvitesTotal       = "channel_invites_total"
	MetricNameNotificationsTotal = "notifications_sent_total"
	MetricNameSyncFailuresTotal  = "sync_failures_total"
)

// Business metric names
const (
	MetricNameUsersRegistered  = "users_registered_total"
	MetricNameUsersApproved    = "users_approved_total"
	MetricNameUsersDeleted     = "users_deleted_total"
	MetricNameContentPublished = "content_published_total"
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

// Synchronization metric help text
const (
	HelpTextEvictionsTotal     = "Total number of channel eviction attempts"
	HelpTextInvitesTotal       = "Total number of invite link requests"
	HelpTextNotificationsTotal = "Total number of direct notifications sent"
	HelpTextSyncFailuresTotal  = "Total number of isolated external-call failures"
)

// Business metric help text
const (
	HelpTextUsersRegistered  = "Total number of user registrations processed"
	HelpTextUsersApproved    = "Total number of approval decisions processed"
	HelpTextUsersDeleted     = "Total number of users deleted"
	HelpTextContentPublished = "Total number of contents published"
)

// ============================================================================
// Metric Label Names
// ============================================================================

// Common label names used across metrics
const (
	LabelMethod  = "method"
	LabelPath    = "path"
	LabelStatus  = "status"
	LabelLevel   = "level"
	LabelOp      = "op"
	LabelOutcome = "outcome"
)

// Label values for the outcome label
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// HTTPLatencyBuckets are the histogram buckets for request duration
var HTTPLatencyBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}
