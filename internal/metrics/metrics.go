package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Index build metrics
	IndexBuildDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommender_index_build_duration_seconds",
			Help:    "Duration of catalog load, vectorization and similarity build",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
	)

	IndexBuildErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recommender_index_build_errors_total",
			Help: "Total number of failed index builds",
		},
	)

	CatalogItems = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "recommender_catalog_items",
			Help: "Number of items in the loaded catalog",
		},
	)

	VocabularySize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "recommender_vocabulary_terms",
			Help: "Number of terms in the fitted vocabulary",
		},
	)

	// Retrieval metrics
	RetrievalRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommender_retrieval_requests_total",
			Help: "Total number of retrieval calls by strategy",
		},
		[]string{"strategy"}, // "similar", "personalized", "trending"
	)

	RetrievalResultSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recommender_retrieval_result_size",
			Help:    "Number of items returned per retrieval call",
			Buckets: []float64{0, 1, 2, 4, 8, 16, 32, 64, 100},
		},
		[]string{"strategy"},
	)

	InteractionsRecorded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommender_interactions_recorded_total",
			Help: "Total number of recorded user interactions",
		},
		[]string{"action"},
	)

	HistoryPruned = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recommender_history_pruned_total",
			Help: "Total number of view records removed by the retention job",
		},
	)

	// API metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)
)

// RecordIndexBuild records a finished index build
func RecordIndexBuild(duration time.Duration, items, terms int, err error) {
	IndexBuildDuration.Observe(duration.Seconds())
	if err != nil {
		IndexBuildErrors.Inc()
		return
	}
	CatalogItems.Set(float64(items))
	VocabularySize.Set(float64(terms))
}

// RecordRetrieval records a retrieval call and its result size
func RecordRetrieval(strategy string, results int) {
	RetrievalRequests.WithLabelValues(strategy).Inc()
	RetrievalResultSize.WithLabelValues(strategy).Observe(float64(results))
}

// RecordInteraction records a stored interaction
func RecordInteraction(action string) {
	InteractionsRecorded.WithLabelValues(action).Inc()
}

// RecordHistoryPruned records view records removed by retention
func RecordHistoryPruned(count int64) {
	HistoryPruned.Add(float64(count))
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// GinMiddleware records request count and latency per route template
func GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}
		RecordAPIRequest(c.Request.Method, endpoint, strconv.Itoa(c.Writer.Status()), time.Since(start))
	}
}
