package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AlertsEmitted counts city alerts created per alert kind (lost|found).
	AlertsEmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lofo_city_alerts_emitted_total",
			Help: "Total number of city alerts emitted from new item reports",
		},
		[]string{"kind"},
	)

	// AlertEmitFailures counts alert writes that failed after report creation.
	AlertEmitFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "lofo_city_alert_emit_failures_total",
			Help: "Total number of failed alert emissions",
		},
	)

	// NotificationsPushed counts native notification deliveries by result (sent|dropped).
	NotificationsPushed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lofo_notifications_pushed_total",
			Help: "Total number of unread-count notifications pushed",
		},
		[]string{"result"},
	)

	// MatchScans counts match pool scans by entry point (best|quick|cases).
	MatchScans = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lofo_match_scans_total",
			Help: "Total number of lost/found match pool scans",
		},
		[]string{"mode"},
	)

	// APILatency measures HTTP request latencies.
	APILatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "lofo_api_latency_seconds",
			Help:    "API endpoint latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)
