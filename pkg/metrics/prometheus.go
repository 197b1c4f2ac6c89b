package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint", "status_code"},
	)

	// Queue metrics
	submissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "queue_submissions_total",
			Help: "Total number of queue submissions by outcome",
		},
		[]string{"outcome"},
	)

	bidAmount = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "queue_bid_amount",
			Help:    "Bid amount attached to submissions",
			Buckets: []float64{1, 5, 10, 50, 100, 500, 1000, 5000, 10000, 100000},
		},
	)

	queueSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "queue_size",
			Help: "Current number of queued submissions",
		},
	)

	popsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "queue_pops_total",
			Help: "Total number of successful queue pops",
		},
	)

	// Payment metrics
	paymentsForwardedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payments_forwarded_total",
			Help: "Total number of payment forwarding attempts",
		},
		[]string{"status"},
	)

	// Redis metrics
	redisOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "redis_operations_total",
			Help: "Total number of Redis operations",
		},
		[]string{"operation", "status"},
	)

	// Authentication metrics
	authAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_attempts_total",
			Help: "Total number of authentication attempts",
		},
		[]string{"status"},
	)

	// Application metrics
	systemErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "system_errors_total",
			Help: "Total number of system errors",
		},
		[]string{"error_type", "component"},
	)
)

// HTTP Metrics
func RecordHTTPRequest(method, endpoint, statusCode string, duration float64) {
	httpRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	httpRequestDuration.WithLabelValues(method, endpoint, statusCode).Observe(duration)
}

// Queue Metrics
func RecordSubmission(outcome string, bid float64) {
	submissionsTotal.WithLabelValues(outcome).Inc()
	if bid > 0 {
		bidAmount.Observe(bid)
	}
}

func SetQueueSize(size float64) {
	queueSize.Set(size)
}

func RecordPop() {
	popsTotal.Inc()
}

// Payment Metrics
func RecordPaymentForward(status string) {
	paymentsForwardedTotal.WithLabelValues(status).Inc()
}

// Redis Metrics
func RecordRedisOperation(operation, status string) {
	redisOperationsTotal.WithLabelValues(operation, status).Inc()
}

// Authentication Metrics
func RecordAuthAttempt(status string) {
	authAttemptsTotal.WithLabelValues(status).Inc()
}

// Application Metrics
func RecordSystemError(errorType, component string) {
	systemErrorsTotal.WithLabelValues(errorType, component).Inc()
}
