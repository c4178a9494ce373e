package database

import (
	"context"
	"testing"
	"time"

	"shareit/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportTaskLifecycle(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()

	task := &models.ReportTask{
		TaskType: "bookings_report",
		Payload:  `{"start":"2026-03-01T00:00:00Z","end":"2026-03-31T00:00:00Z"}`,
		Status:   models.TaskStatusPending,
	}
	require.NoError(t, db.CreateReportTask(ctx, task))
	assert.NotZero(t, task.ID)

	pending, err := db.GetPendingReportTasks(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, task.ID, pending[0].ID)
	assert.Equal(t, "bookings_report", pending[0].TaskType)

	// Retry bumps the counter and records the error.
	retryAt := time.Now().Add(-time.Minute)
	require.NoError(t, db.UpdateReportTaskStatus(ctx, task.ID, models.TaskStatusRetry, "disk full", &retryAt))

	pending, err = db.GetPendingReportTasks(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, 1, pending[0].RetryCount)
	require.NotNil(t, pending[0].LastError)
	assert.Equal(t, "disk full", *pending[0].LastError)

	// Done takes it out of the pending set and stamps processed_at.
	require.NoError(t, db.UpdateReportTaskStatus(ctx, task.ID, models.TaskStatusDone, "", nil))

	pending, err = db.GetPendingReportTasks(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestReportTaskRetryNotDueYet(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()

	task := &models.ReportTask{TaskType: "bookings_report", Status: models.TaskStatusPending}
	require.NoError(t, db.CreateReportTask(ctx, task))

	future := time.Now().Add(time.Hour)
	require.NoError(t, db.UpdateReportTaskStatus(ctx, task.ID, models.TaskStatusRetry, "transient", &future))

	pending, err := db.GetPendingReportTasks(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestReportTaskDeadLetter(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()

	task := &models.ReportTask{TaskType: "bookings_report", Status: models.TaskStatusPending}
	require.NoError(t, db.CreateReportTask(ctx, task))

	require.NoError(t, db.UpdateReportTaskStatus(ctx, task.ID, models.TaskStatusDeadLetter, "gave up", nil))

	pending, err := db.GetPendingReportTasks(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestUpdateMissingReportTask(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	err := db.UpdateReportTaskStatus(context.Background(), 404, models.TaskStatusDone, "", nil)
	assert.Error(t, err)
}
