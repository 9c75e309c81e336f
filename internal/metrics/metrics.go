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

// Order Metrics
var (
	OrdersPlaced = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameOrdersPlaced,
			Help: HelpTextOrdersPlaced,
		},
	)

	OrdersRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameOrdersRejected,
			Help: HelpTextOrdersRejected,
		},
		[]string{LabelReason},
	)

	OrderConflictRetries = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameOrderConflictRetries,
			Help: HelpTextOrderConflictRetries,
		},
	)

	BooksSold = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameBooksSold,
			Help: HelpTextBooksSold,
		},
	)

	RevenueCents = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameRevenueCents,
			Help: HelpTextRevenueCents,
		},
	)
)

// Job Queue Metrics
var (
	JobsEnqueued = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameJobsEnqueued,
			Help: HelpTextJobsEnqueued,
		},
		[]string{LabelQueue, LabelKind},
	)

	JobsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameJobsProcessed,
			Help: HelpTextJobsProcessed,
		},
		[]string{LabelQueue, LabelKind, LabelOutcome},
	)

	JobsDeadLettered = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameJobsDeadLettered,
			Help: HelpTextJobsDeadLettered,
		},
		[]string{LabelQueue, LabelKind},
	)

	JobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameJobDuration,
			Help:    HelpTextJobDuration,
			Buckets: JobDurationBuckets,
		},
		[]string{LabelQueue, LabelKind},
	)
)
