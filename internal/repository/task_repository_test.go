package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	apperr "taskhive/internal/errors"
	"taskhive/internal/model"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.User{}, &model.Task{}))
	return db
}

func datePtr(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func seedTask(t *testing.T, repo TaskRepository, task *model.Task) *model.Task {
	t.Helper()
	require.NoError(t, repo.Create(context.Background(), task))
	return task
}

func TestTaskRepository_FindByIDAndOwner(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTaskRepository(db)
	ctx := context.Background()

	task := seedTask(t, repo, &model.Task{OwnerID: 1, Title: "mine", Status: model.StatusTodo, Priority: model.PriorityMedium})

	found, err := repo.FindByIDAndOwner(ctx, task.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, "mine", found.Title)

	// Another user's lookup reports not-found, not forbidden.
	_, err = repo.FindByIDAndOwner(ctx, task.ID, 2)
	assert.ErrorIs(t, err, apperr.ErrTaskNotFound)

	_, err = repo.FindByIDAndOwner(ctx, 9999, 1)
	assert.ErrorIs(t, err, apperr.ErrTaskNotFound)
}

func TestTaskRepository_ListByOwner(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTaskRepository(db)
	ctx := context.Background()

	seedTask(t, repo, &model.Task{OwnerID: 1, Title: "todo high", Status: model.StatusTodo, Priority: model.PriorityHigh, DueDate: datePtr(2026, 9, 20)})
	seedTask(t, repo, &model.Task{OwnerID: 1, Title: "todo low", Status: model.StatusTodo, Priority: model.PriorityLow, DueDate: datePtr(2026, 9, 10)})
	seedTask(t, repo, &model.Task{OwnerID: 1, Title: "done high", Status: model.StatusCompleted, Priority: model.PriorityHigh})
	seedTask(t, repo, &model.Task{OwnerID: 2, Title: "other user", Status: model.StatusTodo, Priority: model.PriorityHigh})

	todo := model.StatusTodo
	high := model.PriorityHigh

	tests := []struct {
		name           string
		filter         TaskFilter
		expectedTitles []string
	}{
		{
			name:           "no filter returns all own tasks",
			filter:         TaskFilter{},
			expectedTitles: []string{"todo high", "todo low", "done high"},
		},
		{
			name:           "status filter",
			filter:         TaskFilter{Status: &todo},
			expectedTitles: []string{"todo high", "todo low"},
		},
		{
			name:           "priority filter",
			filter:         TaskFilter{Priority: &high},
			expectedTitles: []string{"todo high", "done high"},
		},
		{
			name:           "status and priority combined",
			filter:         TaskFilter{Status: &todo, Priority: &high},
			expectedTitles: []string{"todo high"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tasks, err := repo.ListByOwner(ctx, 1, tt.filter)
			require.NoError(t, err)

			titles := make([]string, 0, len(tasks))
			for _, task := range tasks {
				titles = append(titles, task.Title)
			}
			assert.ElementsMatch(t, tt.expectedTitles, titles)
		})
	}

	t.Run("sort by due date", func(t *testing.T) {
		tasks, err := repo.ListByOwner(ctx, 1, TaskFilter{Status: &todo, SortByDueDate: true})
		require.NoError(t, err)
		require.Len(t, tasks, 2)
		assert.Equal(t, "todo low", tasks[0].Title)
		assert.Equal(t, "todo high", tasks[1].Title)
	})
}

func TestTaskRepository_ListOverdue(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTaskRepository(db)
	ctx := context.Background()

	today := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	seedTask(t, repo, &model.Task{OwnerID: 1, Title: "late todo", Status: model.StatusTodo, Priority: model.PriorityHigh, DueDate: datePtr(2026, 8, 31)})
	seedTask(t, repo, &model.Task{OwnerID: 1, Title: "late done", Status: model.StatusCompleted, Priority: model.PriorityMedium, DueDate: datePtr(2026, 8, 20)})
	seedTask(t, repo, &model.Task{OwnerID: 1, Title: "due today", Status: model.StatusTodo, Priority: model.PriorityMedium, DueDate: datePtr(2026, 9, 1)})
	seedTask(t, repo, &model.Task{OwnerID: 1, Title: "no due date", Status: model.StatusTodo, Priority: model.PriorityMedium})
	seedTask(t, repo, &model.Task{OwnerID: 2, Title: "other late", Status: model.StatusTodo, Priority: model.PriorityMedium, DueDate: datePtr(2026, 8, 31)})

	tasks, err := repo.ListOverdue(ctx, 1, today)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "late todo", tasks[0].Title)

	count, err := repo.CountOverdue(ctx, 1, today)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestTaskRepository_ListDueBetween(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTaskRepository(db)
	ctx := context.Background()

	seedTask(t, repo, &model.Task{OwnerID: 1, Title: "before", Status: model.StatusTodo, Priority: model.PriorityMedium, DueDate: datePtr(2026, 8, 31)})
	seedTask(t, repo, &model.Task{OwnerID: 1, Title: "first day", Status: model.StatusTodo, Priority: model.PriorityMedium, DueDate: datePtr(2026, 9, 1)})
	seedTask(t, repo, &model.Task{OwnerID: 1, Title: "last day", Status: model.StatusTodo, Priority: model.PriorityMedium, DueDate: datePtr(2026, 9, 7)})
	seedTask(t, repo, &model.Task{OwnerID: 1, Title: "after", Status: model.StatusTodo, Priority: model.PriorityMedium, DueDate: datePtr(2026, 9, 8)})
	seedTask(t, repo, &model.Task{OwnerID: 2, Title: "other user", Status: model.StatusTodo, Priority: model.PriorityMedium, DueDate: datePtr(2026, 9, 3)})

	start := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)

	tasks, err := repo.ListDueBetween(ctx, 1, start, end)
	require.NoError(t, err)

	titles := make([]string, 0, len(tasks))
	for _, task := range tasks {
		titles = append(titles, task.Title)
	}
	assert.ElementsMatch(t, []string{"first day", "last day"}, titles)
}

func TestTaskRepository_Counts(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTaskRepository(db)
	ctx := context.Background()

	seedTask(t, repo, &model.Task{OwnerID: 1, Title: "a", Status: model.StatusTodo, Priority: model.PriorityMedium})
	seedTask(t, repo, &model.Task{OwnerID: 1, Title: "b", Status: model.StatusTodo, Priority: model.PriorityMedium})
	seedTask(t, repo, &model.Task{OwnerID: 1, Title: "c", Status: model.StatusInProgress, Priority: model.PriorityMedium})
	seedTask(t, repo, &model.Task{OwnerID: 1, Title: "d", Status: model.StatusCompleted, Priority: model.PriorityMedium})
	seedTask(t, repo, &model.Task{OwnerID: 2, Title: "e", Status: model.StatusTodo, Priority: model.PriorityMedium})

	total, err := repo.CountByOwner(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)

	todo, err := repo.CountByOwnerAndStatus(ctx, 1, model.StatusTodo)
	require.NoError(t, err)
	assert.Equal(t, int64(2), todo)

	inProgress, err := repo.CountByOwnerAndStatus(ctx, 1, model.StatusInProgress)
	require.NoError(t, err)
	assert.Equal(t, int64(1), inProgress)

	completed, err := repo.CountByOwnerAndStatus(ctx, 1, model.StatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, int64(1), completed)
}

func TestTaskRepository_SaveAndDelete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTaskRepository(db)
	ctx := context.Background()

	task := seedTask(t, repo, &model.Task{OwnerID: 1, Title: "draft", Status: model.StatusTodo, Priority: model.PriorityMedium})

	task.Title = "final"
	task.Status = model.StatusCompleted
	require.NoError(t, repo.Save(ctx, task))

	reloaded, err := repo.FindByIDAndOwner(ctx, task.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, "final", reloaded.Title)
	assert.Equal(t, model.StatusCompleted, reloaded.Status)

	require.NoError(t, repo.Delete(ctx, reloaded))

	_, err = repo.FindByIDAndOwner(ctx, task.ID, 1)
	assert.ErrorIs(t, err, apperr.ErrTaskNotFound)
}
