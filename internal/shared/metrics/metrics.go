package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "library_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status_code"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "library_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "route"},
	)

	// Borrowing lifecycle
	BorrowingTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "library_borrowing_transitions_total",
			Help: "Applied borrowing status transitions",
		},
		[]string{"from", "to"},
	)

	BorrowingRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "library_borrowing_rejections_total",
			Help: "Borrowing operations refused, by reason",
		},
		[]string{"reason"}, // invalid_transition, out_of_stock, conflict
	)

	BorrowingsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "library_borrowings_created_total",
			Help: "Borrowings created in the queued state",
		},
	)

	// Auth
	LoginAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "library_login_attempts_total",
			Help: "Login attempts by outcome",
		},
		[]string{"outcome"}, // success, invalid, throttled
	)

	// Cache
	CacheRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "library_cache_requests_total",
			Help: "Cache lookups by key family and result",
		},
		[]string{"family", "result"}, // hit, miss, error
	)
)

// RecordTransition counts an applied status change
func RecordTransition(from, to string) {
	BorrowingTransitions.WithLabelValues(from, to).Inc()
}

// RecordRejection counts a refused borrowing operation
func RecordRejection(reason string) {
	BorrowingRejections.WithLabelValues(reason).Inc()
}

// RecordCache counts a cache lookup
func RecordCache(family string, hit bool, err error) {
	result := "miss"
	switch {
	case err != nil:
		result = "error"
	case hit:
		result = "hit"
	}
	CacheRequests.WithLabelValues(family, result).Inc()
}
