package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Label value constants to prevent typos
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
	ResultIgnored = "ignored"
	ResultInvalid = "invalid"
)

// Sync pipeline metrics
var (
	SyncRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "event_sync_runs_total",
			Help: "Total number of sync passes by operation and result",
		},
		[]string{"operation", "result"},
	)

	SyncDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "event_sync_duration_seconds",
			Help:    "Sync pass duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"operation"},
	)

	ActiveEvent = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "event_sync_active_event",
			Help: "Whether an event is currently active (1) or not (0)",
		},
	)

	StatsCacheRowsSwept = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "stats_cache_rows_swept_total",
			Help: "Total number of expired stats-cache rows removed by cleanup",
		},
	)
)

// Scheduler metrics
var (
	SchedulerRunning = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "event_scheduler_running",
			Help: "Whether the event scheduler is running (1) or stopped (0)",
		},
	)

	SchedulerTicks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "event_scheduler_ticks_total",
			Help: "Total number of scheduler ticks fired by operation",
		},
		[]string{"operation"},
	)
)

// Webhook metrics
var (
	WebhooksReceived = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tba_webhooks_received_total",
			Help: "Total number of inbound webhook notifications by type and result",
		},
		[]string{"message_type", "result"},
	)
)

// Upstream API metrics
var (
	TBARequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tba_api_requests_total",
			Help: "Total number of requests to The Blue Alliance API",
		},
		[]string{"endpoint", "status_code"},
	)

	TBARequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tba_api_request_duration_seconds",
			Help:    "The Blue Alliance API request latency in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 20},
		},
		[]string{"endpoint"},
	)
)
