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

// Synchronization Metrics
var (
	EvictionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEvictionsTotal,
			Help: HelpTextEvictionsTotal,
		},
		[]string{LabelLevel, LabelOutcome},
	)

	InvitesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameInvitesTotal,
			Help: HelpTextInvitesTotal,
		},
		[]string{LabelLevel, LabelOutcome},
	)

	NotificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameNotificationsTotal,
			Help: HelpTextNotificationsTotal,
		},
		[]string{LabelOutcome},
	)

	SyncFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameSyncFailuresTotal,
			Help: HelpTextSyncFailuresTotal,
		},
		[]string{LabelOp},
	)
)

// Business Metrics
var (
	UsersRegistered = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameUsersRegistered,
			Help: HelpTextUsersRegistered,
		},
		[]string{LabelStatus},
	)

	UsersApproved = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameUsersApproved,
			Help: HelpTextUsersApproved,
		},
		[]string{LabelStatus},
	)

	UsersDeleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameUsersDeleted,
			Help: HelpTextUsersDeleted,
		},
	)

	ContentPublished = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameContentPublished,
			Help: HelpTextContentPublished,
		},
	)
)
