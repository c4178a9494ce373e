package database

import (
	"context"
	"time"

	"shareit/internal/models"
)

func (db *DB) CreateReportTask(ctx context.Context, task *models.ReportTask) error {
	query := `INSERT INTO report_tasks (task_type, payload, status, retry_count, last_error, created_at, next_retry_at)
              VALUES (?, ?, ?, ?, ?, ?, ?)`
	now := time.Now()
	result, err := db.ExecContext(ctx, query,
		task.TaskType,
		task.Payload,
		task.Status,
		task.RetryCount,
		task.LastError,
		now,
		task.NextRetryAt,
	)
	if err != nil {
		return wrapRowErr("create report task", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return wrapRowErr("create report task last insert id", err)
	}
	task.ID = id
	task.CreatedAt = now
	return nil
}

func (db *DB) GetPendingReportTasks(ctx context.Context, limit int) ([]models.ReportTask, error) {
	query := `SELECT id, task_type, payload, status, retry_count, last_error, created_at, processed_at, next_retry_at
              FROM report_tasks
              WHERE status IN ('pending', 'retry') AND (next_retry_at IS NULL OR next_retry_at <= ?)
              ORDER BY created_at ASC LIMIT ?`
	rows, err := db.QueryContext(ctx, query, time.Now(), limit)
	if err != nil {
		return nil, wrapRowErr("pending report tasks", err)
	}
	defer rows.Close()

	var tasks []models.ReportTask
	for rows.Next() {
		var t models.ReportTask
		err := rows.Scan(
			&t.ID, &t.TaskType, &t.Payload, &t.Status, &t.RetryCount,
			&t.LastError, &t.CreatedAt, &t.ProcessedAt, &t.NextRetryAt,
		)
		if err != nil {
			return nil, wrapRowErr("scan report task", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapRowErr("pending report tasks rows", err)
	}
	return tasks, nil
}

func (db *DB) UpdateReportTaskStatus(ctx context.Context, id int64, status, errMsg string, nextRetryAt *time.Time) error {
	query := `UPDATE report_tasks
              SET status = ?,
                  retry_count = CASE WHEN ? = 'retry' THEN retry_count + 1 ELSE retry_count END,
                  last_error = NULLIF(?, ''),
                  processed_at = CASE WHEN ? IN ('done', 'dead_letter') THEN ? ELSE processed_at END,
                  next_retry_at = ?
              WHERE id = ?`
	now := time.Now()
	result, err := db.ExecContext(ctx, query, status, status, errMsg, status, now, nextRetryAt, id)
	if err != nil {
		return wrapRowErr("update report task", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return wrapRowErr("update report task rows affected", err)
	}
	if affected == 0 {
		return wrapRowErr("update report task", errNoRowsAffected)
	}
	return nil
}
