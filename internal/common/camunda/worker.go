// internal/common/camunda/worker.go
package camunda

import (
	"context"
	"time"

	"vendor-matching-workers/internal/common/config"
	apperrors "vendor-matching-workers/internal/common/errors"
	"vendor-matching-workers/internal/common/logger"
	"vendor-matching-workers/internal/common/metrics"
	"vendor-matching-workers/internal/common/observability"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
)

// JobHandler reports the job outcome to the broker itself and returns the
// error it reported, if any, so the caller can record it.
type JobHandler interface {
	Handle(client worker.JobClient, job entities.Job) error
}

type CamundaWorker struct {
	worker   worker.JobWorker
	logger   logger.Logger
	taskType string
}

// StartWorker opens a job worker for taskType, wrapping handler with job
// metrics. It returns nil when the worker is disabled in config.
func StartWorker(
	client zbc.Client,
	taskType string,
	wcfg config.WorkerConfig,
	handler JobHandler,
	obs *observability.Observability,
	log logger.Logger,
) *CamundaWorker {
	log = log.WithFields(map[string]interface{}{"taskType": taskType})

	if !wcfg.Enabled {
		log.Info("worker disabled", nil)
		return nil
	}

	jobWorker := client.NewJobWorker().
		JobType(taskType).
		Handler(instrument(taskType, handler, obs)).
		MaxJobsActive(wcfg.MaxJobsActive).
		Timeout(config.GetDuration(wcfg.Timeout)).
		Open()

	log.Info("worker started", map[string]interface{}{
		"maxJobsActive": wcfg.MaxJobsActive,
		"timeout_ms":    wcfg.Timeout,
	})

	return &CamundaWorker{worker: jobWorker, logger: log, taskType: taskType}
}

func instrument(taskType string, handler JobHandler, obs *observability.Observability) worker.JobHandler {
	return func(client worker.JobClient, job entities.Job) {
		start := time.Now()
		metrics.WorkerJobsActive.WithLabelValues(taskType).Inc()
		defer metrics.WorkerJobsActive.WithLabelValues(taskType).Dec()

		outcome := observability.JobOutcome{TaskType: taskType, Status: "completed"}
		if err := handler.Handle(client, job); err != nil {
			outcome.Status = "failed"
			outcome.ErrorCode = string(apperrors.ErrCodeInternal)
			if stdErr, ok := apperrors.AsStandardError(err); ok {
				outcome.ErrorCode = string(stdErr.Code)
			}
		} else {
			metrics.WorkerJobsCompleted.WithLabelValues(taskType).Inc()
		}

		outcome.Duration = time.Since(start)
		metrics.WorkerJobDuration.WithLabelValues(taskType).Observe(outcome.Duration.Seconds())
		obs.RecordJob(context.Background(), outcome)
	}
}

// Stop closes the job worker and waits for in-flight jobs.
func (w *CamundaWorker) Stop() {
	w.logger.Info("stopping worker", nil)
	w.worker.Close()
	w.worker.AwaitClose()
}
