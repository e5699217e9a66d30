package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"taskhive/internal/cache"
	"taskhive/internal/model"
	"taskhive/internal/repository"
)

const (
	statsCacheKeyPrefix = "task_stats:"
	statsCacheTTL       = time.Minute
)

// TaskDraft carries the client-supplied fields for task creation. Owner is
// never part of the draft; it always comes from the resolved identity.
type TaskDraft struct {
	Title       string
	Description string
	Status      model.Status
	Priority    model.Priority
	DueDate     *time.Time
}

// TaskPatch carries a partial update. Nil fields are left unchanged.
type TaskPatch struct {
	Title       *string
	Description *string
	Status      *model.Status
	Priority    *model.Priority
	DueDate     *time.Time
}

// TaskStats summarizes a user's tasks by status.
type TaskStats struct {
	Total      int64 `json:"total"`
	Todo       int64 `json:"todo"`
	InProgress int64 `json:"in_progress"`
	Completed  int64 `json:"completed"`
	Overdue    int64 `json:"overdue"`
}

// TaskService performs ownership-scoped task operations. Every method takes
// the resolved caller's id; cross-user access fails closed with
// ErrTaskNotFound, indistinguishable from "does not exist".
type TaskService interface {
	Create(ctx context.Context, ownerID uint, draft TaskDraft) (*model.Task, error)
	ListFiltered(ctx context.Context, ownerID uint, filter repository.TaskFilter) ([]model.Task, error)
	ListOverdue(ctx context.Context, ownerID uint) ([]model.Task, error)
	ListDueBetween(ctx context.Context, ownerID uint, start, end time.Time) ([]model.Task, error)
	Get(ctx context.Context, ownerID, taskID uint) (*model.Task, error)
	Update(ctx context.Context, ownerID, taskID uint, patch TaskPatch) (*model.Task, error)
	Complete(ctx context.Context, ownerID, taskID uint) (*model.Task, error)
	Delete(ctx context.Context, ownerID, taskID uint) error
	Stats(ctx context.Context, ownerID uint) (*TaskStats, error)
}

type taskService struct {
	tasks repository.TaskRepository
	cache *cache.Client
}

// NewTaskService creates a new task service. The cache client may be nil;
// stats are then always computed from the store.
func NewTaskService(tasks repository.TaskRepository, cacheClient *cache.Client) TaskService {
	return &taskService{
		tasks: tasks,
		cache: cacheClient,
	}
}

// startOfToday returns today's date at UTC midnight. Due dates are stored at
// date precision, so "overdue" means due strictly before this instant.
func startOfToday() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// Create persists a new task for ownerID. Missing status defaults to TODO,
// missing priority to MEDIUM.
func (s *taskService) Create(ctx context.Context, ownerID uint, draft TaskDraft) (*model.Task, error) {
	task := &model.Task{
		OwnerID:     ownerID,
		Title:       draft.Title,
		Description: draft.Description,
		Status:      draft.Status,
		Priority:    draft.Priority,
		DueDate:     draft.DueDate,
	}
	if task.Status == "" {
		task.Status = model.StatusTodo
	}
	if task.Priority == "" {
		task.Priority = model.PriorityMedium
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}

	s.invalidateStats(ctx, ownerID)
	return task, nil
}

// ListFiltered returns the owner's tasks matching the filter.
func (s *taskService) ListFiltered(ctx context.Context, ownerID uint, filter repository.TaskFilter) ([]model.Task, error) {
	return s.tasks.ListByOwner(ctx, ownerID, filter)
}

// ListOverdue returns the owner's tasks due before today and not completed.
func (s *taskService) ListOverdue(ctx context.Context, ownerID uint) ([]model.Task, error) {
	return s.tasks.ListOverdue(ctx, ownerID, startOfToday())
}

// ListDueBetween returns the owner's tasks due within [start, end].
func (s *taskService) ListDueBetween(ctx context.Context, ownerID uint, start, end time.Time) ([]model.Task, error) {
	return s.tasks.ListDueBetween(ctx, ownerID, start, end)
}

// Get returns the task if it exists and belongs to ownerID.
func (s *taskService) Get(ctx context.Context, ownerID, taskID uint) (*model.Task, error) {
	return s.tasks.FindByIDAndOwner(ctx, taskID, ownerID)
}

// Update applies the non-nil fields of patch to the owner's task and persists
// the result.
func (s *taskService) Update(ctx context.Context, ownerID, taskID uint, patch TaskPatch) (*model.Task, error) {
	task, err := s.tasks.FindByIDAndOwner(ctx, taskID, ownerID)
	if err != nil {
		return nil, err
	}

	if patch.Title != nil {
		task.Title = *patch.Title
	}
	if patch.Description != nil {
		task.Description = *patch.Description
	}
	if patch.Status != nil {
		task.Status = *patch.Status
	}
	if patch.Priority != nil {
		task.Priority = *patch.Priority
	}
	if patch.DueDate != nil {
		task.DueDate = patch.DueDate
	}

	if err := s.tasks.Save(ctx, task); err != nil {
		return nil, fmt.Errorf("save task: %w", err)
	}

	s.invalidateStats(ctx, ownerID)
	return task, nil
}

// Complete forces the owner's task to COMPLETED regardless of prior status.
func (s *taskService) Complete(ctx context.Context, ownerID, taskID uint) (*model.Task, error) {
	task, err := s.tasks.FindByIDAndOwner(ctx, taskID, ownerID)
	if err != nil {
		return nil, err
	}

	task.Status = model.StatusCompleted
	if err := s.tasks.Save(ctx, task); err != nil {
		return nil, fmt.Errorf("save task: %w", err)
	}

	s.invalidateStats(ctx, ownerID)
	return task, nil
}

// Delete removes the owner's task permanently.
func (s *taskService) Delete(ctx context.Context, ownerID, taskID uint) error {
	task, err := s.tasks.FindByIDAndOwner(ctx, taskID, ownerID)
	if err != nil {
		return err
	}

	if err := s.tasks.Delete(ctx, task); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}

	s.invalidateStats(ctx, ownerID)
	return nil
}

// Stats returns task counts by status plus the overdue count. Results are
// cached briefly; every mutation invalidates the owner's entry.
func (s *taskService) Stats(ctx context.Context, ownerID uint) (*TaskStats, error) {
	key := statsCacheKey(ownerID)
	if data, _ := s.cache.Get(ctx, key); data != nil {
		var stats TaskStats
		if err := json.Unmarshal(data, &stats); err == nil {
			return &stats, nil
		}
	}

	today := startOfToday()
	stats := &TaskStats{}
	var err error

	// Total is a dedicated count-all query, not a nil-status filter.
	if stats.Total, err = s.tasks.CountByOwner(ctx, ownerID); err != nil {
		return nil, fmt.Errorf("count tasks: %w", err)
	}
	if stats.Todo, err = s.tasks.CountByOwnerAndStatus(ctx, ownerID, model.StatusTodo); err != nil {
		return nil, fmt.Errorf("count todo tasks: %w", err)
	}
	if stats.InProgress, err = s.tasks.CountByOwnerAndStatus(ctx, ownerID, model.StatusInProgress); err != nil {
		return nil, fmt.Errorf("count in-progress tasks: %w", err)
	}
	if stats.Completed, err = s.tasks.CountByOwnerAndStatus(ctx, ownerID, model.StatusCompleted); err != nil {
		return nil, fmt.Errorf("count completed tasks: %w", err)
	}
	if stats.Overdue, err = s.tasks.CountOverdue(ctx, ownerID, today); err != nil {
		return nil, fmt.Errorf("count overdue tasks: %w", err)
	}

	if data, err := json.Marshal(stats); err == nil {
		_ = s.cache.Set(ctx, key, data, statsCacheTTL)
	}

	return stats, nil
}

func (s *taskService) invalidateStats(ctx context.Context, ownerID uint) {
	_ = s.cache.Delete(ctx, statsCacheKey(ownerID))
}

func statsCacheKey(ownerID uint) string {
	return fmt.Sprintf("%s%d", statsCacheKeyPrefix, ownerID)
}
