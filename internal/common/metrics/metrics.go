// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
		},
		[]string{"task_type"},
	)

	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "worker_jobs_active",
			Help: "Number of active jobs per worker",
		},
		[]string{"task_type"},
	)

	EmbeddingCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "embedding_cache_lookups_total",
			Help: "Embedding cache lookups by result (hit or miss)",
		},
		[]string{"result"},
	)

	VectorSearchCandidates = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "vector_search_candidates",
			Help:    "Number of candidates returned per vector search",
			Buckets: []float64{0, 1, 5, 10, 15, 25, 50, 100},
		},
	)

	RerankFallbacks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "rerank_fallbacks_total",
			Help: "Times the LLM rerank was skipped and the score order was kept",
		},
	)
)
