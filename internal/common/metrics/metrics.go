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
)

var (
	VendorsEvaluated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "matching_vendors_evaluated_total",
			Help: "Vendors run through the hard filter and scoring stages",
		},
		[]string{"category"},
	)

	VendorsExcluded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "matching_vendors_excluded_total",
			Help: "Vendors excluded by a hard constraint",
		},
		[]string{"category", "reason"},
	)

	CacheWriteFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "matching_cache_write_failures_total",
			Help: "Recommendation cache writes that failed and were skipped",
		},
	)

	MatchingDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "matching_run_duration_seconds",
			Help:    "Duration of matching engine operations",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)
)
