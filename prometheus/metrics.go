package prometheus

import (
	"time"

	"vendor-service/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request metrics
	HttpRequestsTotal   prometheus.CounterVec
	HttpRequestDuration prometheus.HistogramVec

	// Authentication metrics
	AuthAttemptsCounter prometheus.Counter
	AuthSuccessCounter  prometheus.Counter
	AuthErrorsCounter   prometheus.Counter

	// Database operation metrics
	DbOperationDuration prometheus.HistogramVec

	// Entity operation counters
	VendorOperationsCounter        prometheus.CounterVec
	PurchaseOrderOperationsCounter prometheus.CounterVec

	// Performance engine metrics
	RecomputeCounter  prometheus.CounterVec
	RecomputeDuration prometheus.HistogramVec
	NoDataCounter     prometheus.Counter

	// Vendor count across the system
	VendorsGauge prometheus.Gauge
)

// InitMetrics initializes Prometheus metrics with configuration
func InitMetrics(config *config.Config) {
	// Use metric prefix from configuration
	prefix := config.Metrics.Prefix

	HttpRequestsTotal = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HttpRequestDuration = *promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	AuthAttemptsCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_auth_attempts_total",
			Help: "Total number of authentication attempts",
		},
	)

	AuthSuccessCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_auth_success_total",
			Help: "Total number of successful authentications",
		},
	)

	AuthErrorsCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_auth_errors_total",
			Help: "Total number of authentication errors",
		},
	)

	DbOperationDuration = *promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_db_operation_duration_seconds",
			Help:    "Duration of database operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation_type"},
	)

	VendorOperationsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_vendor_operations_total",
			Help: "Total number of vendor operations",
		},
		[]string{"operation"},
	)

	PurchaseOrderOperationsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_purchase_order_operations_total",
			Help: "Total number of purchase order operations",
		},
		[]string{"operation"},
	)

	RecomputeCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_performance_recomputes_total",
			Help: "Total number of performance metric recomputations",
		},
		[]string{"scope"},
	)

	RecomputeDuration = *promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_performance_recompute_duration_seconds",
			Help:    "Duration of performance metric recomputations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"scope"},
	)

	NoDataCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_performance_no_data_total",
			Help: "Total number of performance queries with no completed orders",
		},
	)

	VendorsGauge = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: prefix + "_vendors",
			Help: "Number of vendors in the system",
		},
	)
}

// TrackDBOperation returns a function that records the duration of a database operation
func TrackDBOperation(operationType string) func(startTime time.Time) {
	return func(startTime time.Time) {
		duration := time.Since(startTime).Seconds()
		DbOperationDuration.WithLabelValues(operationType).Observe(duration)
	}
}

// RecordVendorOperation increments the counter for vendor operations
func RecordVendorOperation(operation string) {
	VendorOperationsCounter.WithLabelValues(operation).Inc()
}

// RecordPurchaseOrderOperation increments the counter for purchase order operations
func RecordPurchaseOrderOperation(operation string) {
	PurchaseOrderOperationsCounter.WithLabelValues(operation).Inc()
}

// TrackRecompute records a recomputation and returns a function that records
// its duration. Scope is "full" or "response_time".
func TrackRecompute(scope string) func(startTime time.Time) {
	RecomputeCounter.WithLabelValues(scope).Inc()
	return func(startTime time.Time) {
		RecomputeDuration.WithLabelValues(scope).Observe(time.Since(startTime).Seconds())
	}
}

// UpdateVendorCount updates the vendors gauge
func UpdateVendorCount(count int64) {
	VendorsGauge.Set(float64(count))
}
