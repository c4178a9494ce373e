package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"shareit/internal/database"
	"shareit/internal/models"

	"github.com/rs/zerolog"
)

const TaskTypeBookingsReport = "bookings_report"

type reportPayload struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// ReportWorker drains the persisted report task queue and renders
// booking reports to disk. Tasks survive restarts in the report_tasks
// table; the channel is only a wake-up buffer.
type ReportWorker struct {
	db     *database.DB
	writer *ReportWriter
	queue  chan models.ReportTask
	retry  RetryPolicy
	logger *zerolog.Logger
}

func NewReportWorker(db *database.DB, reportsPath string, retry RetryPolicy, logger *zerolog.Logger) *ReportWorker {
	return &ReportWorker{
		db:     db,
		writer: NewReportWriter(db, reportsPath),
		queue:  make(chan models.ReportTask, models.ReportWorkerQueueSize),
		retry:  retry,
		logger: logger,
	}
}

// EnqueueBookingsReport persists an export job covering [start, end].
func (w *ReportWorker) EnqueueBookingsReport(ctx context.Context, start, end time.Time) error {
	raw, err := json.Marshal(reportPayload{Start: start, End: end})
	if err != nil {
		return fmt.Errorf("marshal report payload: %w", err)
	}

	task := &models.ReportTask{
		TaskType: TaskTypeBookingsReport,
		Payload:  string(raw),
		Status:   models.TaskStatusPending,
	}
	if err := w.db.CreateReportTask(ctx, task); err != nil {
		return err
	}

	// Best effort wake-up; the poller catches anything dropped here.
	select {
	case w.queue <- *task:
	default:
	}
	return nil
}

// Start runs the worker loop until the context is canceled.
func (w *ReportWorker) Start(ctx context.Context) {
	w.logger.Info().Msg("report worker started")

	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info().Msg("report worker stopped")
			return
		case task := <-w.queue:
			w.processTask(ctx, &task)
		case <-ticker.C:
			tasks, err := w.db.GetPendingReportTasks(ctx, 10)
			if err != nil {
				w.logger.Error().Err(err).Msg("poll report tasks error")
				continue
			}
			for i := range tasks {
				w.processTask(ctx, &tasks[i])
			}
		}
	}
}

func (w *ReportWorker) processTask(ctx context.Context, task *models.ReportTask) {
	if task.TaskType != TaskTypeBookingsReport {
		w.failTask(ctx, task, fmt.Errorf("unknown task type %q", task.TaskType))
		return
	}

	var payload reportPayload
	if err := json.Unmarshal([]byte(task.Payload), &payload); err != nil {
		w.failTask(ctx, task, fmt.Errorf("decode payload: %w", err))
		return
	}

	path, err := w.writer.WriteBookingsReport(ctx, payload.Start, payload.End)
	if err != nil {
		w.retryOrFail(ctx, task, err)
		return
	}

	if err := w.db.UpdateReportTaskStatus(ctx, task.ID, models.TaskStatusDone, "", nil); err != nil {
		w.logger.Error().Err(err).Int64("task_id", task.ID).Msg("mark report task done error")
		return
	}
	w.logger.Info().Int64("task_id", task.ID).Str("path", path).Msg("report written")
}

func (w *ReportWorker) retryOrFail(ctx context.Context, task *models.ReportTask, cause error) {
	if task.RetryCount >= w.retry.MaxRetries {
		w.failTask(ctx, task, cause)
		return
	}

	delay := w.retry.NextDelay(task.RetryCount + 1)
	nextRetry := time.Now().Add(delay)
	w.logger.Warn().Err(cause).
		Int64("task_id", task.ID).
		Int("retry_count", task.RetryCount+1).
		Dur("delay", delay).
		Msg("report task failed, scheduling retry")

	if err := w.db.UpdateReportTaskStatus(ctx, task.ID, models.TaskStatusRetry, cause.Error(), &nextRetry); err != nil {
		w.logger.Error().Err(err).Int64("task_id", task.ID).Msg("schedule report retry error")
	}
}

func (w *ReportWorker) failTask(ctx context.Context, task *models.ReportTask, cause error) {
	w.logger.Error().Err(cause).Int64("task_id", task.ID).Msg("report task moved to dead letter")
	if err := w.db.UpdateReportTaskStatus(ctx, task.ID, models.TaskStatusDeadLetter, cause.Error(), nil); err != nil {
		w.logger.Error().Err(err).Int64("task_id", task.ID).Msg("mark report task dead letter error")
	}
}
