package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "photofolio_http_requests_total",
		Help: "Number of HTTP requests",
	}, []string{"method", "path", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "photofolio_http_request_duration_seconds",
		Help:    "HTTP request duration",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	// ListingConflicts считает отклонённые условные записи листинга.
	ListingConflicts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "photofolio_listing_version_conflicts_total",
		Help: "Listing writes rejected by version token mismatch",
	}, []string{"category"})

	// PartialSyncFailures считает операции, оставившие хранилище и
	// листинг рассогласованными (объект есть, записи нет, и наоборот).
	// Автоматического восстановления нет, только этот сигнал.
	PartialSyncFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "photofolio_partial_sync_failures_total",
		Help: "Operations that left the blob store and the listing inconsistent",
	}, []string{"operation", "category"})
)
