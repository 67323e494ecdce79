// Package metrics provides Prometheus metrics for the file manager server.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "filemanager_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "filemanager_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	syncsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "filemanager_syncs_total",
			Help: "Total sync requests by result",
		},
		[]string{"result"},
	)

	syncDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "filemanager_sync_duration_seconds",
			Help:    "Time spent copying files for a sync job",
			Buckets: prometheus.DefBuckets,
		},
	)

	filesCopiedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "filemanager_files_copied_total",
			Help: "Total files copied by sync jobs",
		},
	)

	pairsCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "filemanager_sync_pairs_created_total",
			Help: "Total sync pairs created",
		},
	)

	listingsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "filemanager_listings_total",
			Help: "Total directory listings by status",
		},
		[]string{"status"},
	)

	rateLimitHitsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "filemanager_rate_limit_hits_total",
			Help: "Total rate limit rejections (429s)",
		},
	)
)

// Sync results
const (
	SyncCompleted = "completed"
	SyncFailed    = "failed"
	SyncConflict  = "conflict"
)

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

func RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	httpRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordSync records the result of a sync request. files and duration are
// only meaningful for jobs that ran.
func RecordSync(result string, files int, duration time.Duration) {
	syncsTotal.WithLabelValues(result).Inc()
	if result == SyncConflict {
		return
	}
	filesCopiedTotal.Add(float64(files))
	syncDuration.Observe(duration.Seconds())
}

func RecordPairCreated() {
	pairsCreatedTotal.Inc()
}

func RecordListing(success bool) {
	status := "success"
	if !success {
		status = "error"
	}
	listingsTotal.WithLabelValues(status).Inc()
}

func RecordRateLimitHit() {
	rateLimitHitsTotal.Inc()
}
