// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recipebox_http_requests_total",
			Help: "HTTP requests by method, route pattern and status code",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recipebox_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	ReviewsAddedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "recipebox_reviews_added_total",
		Help: "Reviews successfully stored",
	})

	// ReviewConflictsTotal counts lost compare-and-swap rounds on review submission.
	ReviewConflictsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "recipebox_review_conflicts_total",
		Help: "Review writes retried because the recipe changed concurrently",
	})

	FavoritesChangesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recipebox_favorites_changes_total",
			Help: "Favorite additions and removals",
		},
		[]string{"op"},
	)

	UploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recipebox_uploads_total",
			Help: "Image uploads by result",
		},
		[]string{"result"},
	)
)

// ObserveHTTP records one finished request.
func ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}
