package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/lexbrief/internal/core/domain"
)

func TestSchedulerStore_SaveAndGetTask(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t).SchedulerStore()

	now := time.Now().UTC().Truncate(time.Second)
	task := &domain.ScheduledTask{
		ID:          domain.TaskIDRecordSync,
		Name:        "Record Sync",
		Interval:    time.Hour,
		LastRun:     now.Add(-30 * time.Minute),
		NextRun:     now.Add(30 * time.Minute),
		LastSuccess: now.Add(-30 * time.Minute),
		Enabled:     true,
	}
	require.NoError(t, store.SaveTask(ctx, task))

	got, err := store.GetTask(ctx, domain.TaskIDRecordSync)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, task.Name, got.Name)
	assert.Equal(t, task.Interval, got.Interval)
	assert.True(t, got.Enabled)
	assert.WithinDuration(t, task.LastRun, got.LastRun, time.Second)
	assert.WithinDuration(t, task.NextRun, got.NextRun, time.Second)
	assert.Empty(t, got.LastError)
}

func TestSchedulerStore_GetTask_NotFound(t *testing.T) {
	got, err := setupTestStore(t).SchedulerStore().GetTask(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSchedulerStore_ListAndDelete(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t).SchedulerStore()

	require.NoError(t, store.SaveTask(ctx, &domain.ScheduledTask{ID: "b", Name: "B", Interval: time.Minute}))
	require.NoError(t, store.SaveTask(ctx, &domain.ScheduledTask{ID: "a", Name: "A", Interval: time.Minute, LastError: "boom"}))

	tasks, err := store.ListTasks(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "a", tasks[0].ID)
	assert.Equal(t, "boom", tasks[0].LastError)
	assert.True(t, tasks[0].LastRun.IsZero())

	require.NoError(t, store.DeleteTask(ctx, "a"))
	tasks, err = store.ListTasks(ctx)
	require.NoError(t, err)
	assert.Len(t, tasks, 1)

	assert.ErrorIs(t, store.SaveTask(ctx, nil), domain.ErrInvalidInput)
}

func TestSchedulerStore_HistoryAndPrune(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t).SchedulerStore()

	base := time.Now().UTC().Truncate(time.Second)
	for i := 0; i < 5; i++ {
		start := base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, store.RecordResult(ctx, &domain.TaskResult{
			TaskID:         domain.TaskIDRecordSync,
			StartedAt:      start,
			EndedAt:        start.Add(time.Second),
			Success:        i%2 == 0,
			Error:          map[bool]string{true: "", false: "failed"}[i%2 == 0],
			ItemsProcessed: i,
		}))
	}

	history, err := store.GetTaskHistory(ctx, domain.TaskIDRecordSync, 3)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, 4, history[0].ItemsProcessed)
	assert.True(t, history[0].Success)
	assert.Equal(t, "failed", history[1].Error)

	require.NoError(t, store.PruneHistory(ctx, 2))
	history, err = store.GetTaskHistory(ctx, domain.TaskIDRecordSync, 10)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, 4, history[0].ItemsProcessed)
	assert.Equal(t, 3, history[1].ItemsProcessed)

	assert.ErrorIs(t, store.RecordResult(ctx, nil), domain.ErrInvalidInput)
}
