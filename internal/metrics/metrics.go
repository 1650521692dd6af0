// Package metrics exposes Prometheus instrumentation for the API and the
// cascade engine. Metrics are registered on the default registry and served
// at /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookreviews_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "route", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bookreviews_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"method", "route"},
	)

	CascadesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookreviews_cascades_total",
			Help: "Cascades run after user or book mutations",
		},
		[]string{"trigger"}, // user_write, user_delete, book_write, book_delete
	)

	CascadeDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bookreviews_cascade_duration_seconds",
			Help:    "Time spent inside a cascade, lock held",
			Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10),
		},
		[]string{"trigger"},
	)

	RecommendationsGenerated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bookreviews_recommendations_generated_total",
			Help: "Recommendations produced by the generator",
		},
	)

	RecommendationsPruned = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bookreviews_recommendations_pruned_total",
			Help: "Recommendations dropped by cascades",
		},
	)

	ReviewsPropagated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bookreviews_review_snapshots_propagated_total",
			Help: "Review snapshots overwritten after a user or book write",
		},
	)

	CollectionSize = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "bookreviews_collection_size",
			Help: "Number of records per collection",
		},
		[]string{"collection"},
	)

	SnapshotOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookreviews_snapshot_operations_total",
			Help: "Snapshot loads and saves by backend and outcome",
		},
		[]string{"backend", "operation", "status"},
	)
)

// RecordAPIRequest records one served request.
func RecordAPIRequest(method, route string, status int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	APIRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordCascade records one cascade and its effect on recommendations.
func RecordCascade(trigger string, pruned, generated int, duration time.Duration) {
	CascadesTotal.WithLabelValues(trigger).Inc()
	CascadeDuration.WithLabelValues(trigger).Observe(duration.Seconds())
	RecommendationsPruned.Add(float64(pruned))
	RecommendationsGenerated.Add(float64(generated))
}

// RecordPropagation counts review snapshots rewritten by a cascade.
func RecordPropagation(n int) {
	ReviewsPropagated.Add(float64(n))
}

// SetCollectionSizes updates the per-collection gauges.
func SetCollectionSizes(users, books, reviews, recommendations int) {
	CollectionSize.WithLabelValues("users").Set(float64(users))
	CollectionSize.WithLabelValues("books").Set(float64(books))
	CollectionSize.WithLabelValues("reviews").Set(float64(reviews))
	CollectionSize.WithLabelValues("recommendations").Set(float64(recommendations))
}

// RecordSnapshot records a snapshot load or save.
func RecordSnapshot(backend, operation string, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	SnapshotOperations.WithLabelValues(backend, operation, status).Inc()
}
