// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Classification metrics
	TransactionsClassified prometheus.Counter
	SwapsRecorded          *prometheus.CounterVec
	SplitSwapsRecorded     prometheus.Counter
	ErasuresTotal          *prometheus.CounterVec
	ConfidenceTotal        *prometheus.CounterVec
	NegativeNetAlarms      prometheus.Counter

	// Tracker metrics
	TrackedWallets    prometheus.Gauge
	WalletPollErrors  *prometheus.CounterVec
	DuplicatesSkipped prometheus.Counter
	StreamReconnects  prometheus.Counter
	NotificationsSeen prometheus.Counter

	// Provider metrics
	ProviderCallLatency *prometheus.HistogramVec
	ProviderCallErrors  *prometheus.CounterVec

	// Database metrics
	DBQueryDuration *prometheus.HistogramVec
	DBQueryErrors   *prometheus.CounterVec

	// Health metrics
	LastSuccessfulPoll prometheus.Gauge
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "whale_watch"
	}

	return &Metrics{
		// Classification metrics
		TransactionsClassified: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "classifier",
			Name:      "transactions_classified_total",
			Help:      "Total number of transactions run through the classifier",
		}),
		SwapsRecorded: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "classifier",
			Name:      "swaps_recorded_total",
			Help:      "Total number of classified swaps by direction",
		}, []string{"direction"}),
		SplitSwapsRecorded: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "classifier",
			Name:      "split_swaps_recorded_total",
			Help:      "Total number of non-core pair swaps split into two legs",
		}),
		ErasuresTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "classifier",
			Name:      "erasures_total",
			Help:      "Total number of erased transactions by reason",
		}, []string{"reason"}),
		ConfidenceTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "classifier",
			Name:      "confidence_total",
			Help:      "Total number of classified swaps by confidence grade",
		}, []string{"confidence"}),
		NegativeNetAlarms: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "classifier",
			Name:      "negative_net_alarms_total",
			Help:      "Total number of sells whose net proceeds were floored at zero",
		}),

		// Tracker metrics
		TrackedWallets: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "tracker",
			Name:      "tracked_wallets",
			Help:      "Current number of actively tracked wallets",
		}),
		WalletPollErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "tracker",
			Name:      "wallet_poll_errors_total",
			Help:      "Total number of wallet poll errors by stage",
		}, []string{"stage"}),
		DuplicatesSkipped: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "tracker",
			Name:      "duplicates_skipped_total",
			Help:      "Total number of already-recorded signatures skipped",
		}),
		StreamReconnects: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "tracker",
			Name:      "stream_reconnects_total",
			Help:      "Total number of WebSocket stream reconnects",
		}),
		NotificationsSeen: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "tracker",
			Name:      "notifications_seen_total",
			Help:      "Total number of stream notifications received",
		}),

		// Provider metrics
		ProviderCallLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "provider",
			Name:      "call_latency_seconds",
			Help:      "Provider API call latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
		ProviderCallErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "provider",
			Name:      "call_errors_total",
			Help:      "Total number of provider API call errors",
		}, []string{"method"}),

		// Database metrics
		DBQueryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_duration_seconds",
			Help:      "Database query duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"database", "operation"}),
		DBQueryErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_errors_total",
			Help:      "Total number of database query errors",
		}, []string{"database", "operation"}),

		// Health metrics
		LastSuccessfulPoll: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_successful_poll_timestamp",
			Help:      "Unix timestamp of last successful wallet poll",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordClassification increments the classifier throughput counter.
func RecordClassification() {
	DefaultMetrics.TransactionsClassified.Inc()
}

// RecordSwap records a classified swap by direction and confidence.
func RecordSwap(direction, confidence string) {
	DefaultMetrics.SwapsRecorded.WithLabelValues(direction).Inc()
	DefaultMetrics.ConfidenceTotal.WithLabelValues(confidence).Inc()
}

// RecordSplitSwap records a synthesized split pair.
func RecordSplitSwap() {
	DefaultMetrics.SplitSwapsRecorded.Inc()
}

// RecordErasure records an erased transaction by reason.
func RecordErasure(reason string) {
	DefaultMetrics.ErasuresTotal.WithLabelValues(reason).Inc()
}

// RecordNegativeNetAlarm records a sell floored at zero net proceeds.
func RecordNegativeNetAlarm() {
	DefaultMetrics.NegativeNetAlarms.Inc()
}

// RecordProviderCall records provider API call metrics.
func RecordProviderCall(method string, seconds float64, err error) {
	DefaultMetrics.ProviderCallLatency.WithLabelValues(method).Observe(seconds)
	if err != nil {
		DefaultMetrics.ProviderCallErrors.WithLabelValues(method).Inc()
	}
}

// RecordDBQuery records database query metrics.
func RecordDBQuery(database, operation string, seconds float64, err error) {
	DefaultMetrics.DBQueryDuration.WithLabelValues(database, operation).Observe(seconds)
	if err != nil {
		DefaultMetrics.DBQueryErrors.WithLabelValues(database, operation).Inc()
	}
}
