package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	apperr "taskhive/internal/errors"
	"taskhive/internal/model"
)

// TaskFilter narrows task listings. Nil fields mean no restriction on that
// dimension.
type TaskFilter struct {
	Status        *model.Status
	Priority      *model.Priority
	SortByDueDate bool
}

// TaskRepository defines task persistence operations. Every read and write is
// scoped to an owner so tasks can never leak across users.
type TaskRepository interface {
	Create(ctx context.Context, task *model.Task) error
	Save(ctx context.Context, task *model.Task) error
	Delete(ctx context.Context, task *model.Task) error
	FindByIDAndOwner(ctx context.Context, id, ownerID uint) (*model.Task, error)
	ListByOwner(ctx context.Context, ownerID uint, filter TaskFilter) ([]model.Task, error)
	ListOverdue(ctx context.Context, ownerID uint, today time.Time) ([]model.Task, error)
	ListDueBetween(ctx context.Context, ownerID uint, start, end time.Time) ([]model.Task, error)
	CountByOwner(ctx context.Context, ownerID uint) (int64, error)
	CountByOwnerAndStatus(ctx context.Context, ownerID uint, status model.Status) (int64, error)
	CountOverdue(ctx context.Context, ownerID uint, today time.Time) (int64, error)
}

type taskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new task repository.
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &taskRepository{db: db}
}

// Create persists a new task.
func (r *taskRepository) Create(ctx context.Context, task *model.Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

// Save persists all fields of an existing task.
func (r *taskRepository) Save(ctx context.Context, task *model.Task) error {
	return r.db.WithContext(ctx).Save(task).Error
}

// Delete removes a task permanently.
func (r *taskRepository) Delete(ctx context.Context, task *model.Task) error {
	return r.db.WithContext(ctx).Delete(task).Error
}

// FindByIDAndOwner returns the task only if it exists and is owned by
// ownerID. Both "absent" and "not owned" report ErrTaskNotFound.
func (r *taskRepository) FindByIDAndOwner(ctx context.Context, id, ownerID uint) (*model.Task, error) {
	var task model.Task
	err := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		First(&task).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrTaskNotFound
		}
		return nil, err
	}
	return &task, nil
}

// ListByOwner returns the owner's tasks matching the filter.
func (r *taskRepository) ListByOwner(ctx context.Context, ownerID uint, filter TaskFilter) ([]model.Task, error) {
	q := r.db.WithContext(ctx).Where("owner_id = ?", ownerID)
	if filter.Status != nil {
		q = q.Where("status = ?", *filter.Status)
	}
	if filter.Priority != nil {
		q = q.Where("priority = ?", *filter.Priority)
	}
	if filter.SortByDueDate {
		q = q.Order("due_date ASC")
	}

	var tasks []model.Task
	if err := q.Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// ListOverdue returns the owner's tasks due strictly before today and not yet
// completed.
func (r *taskRepository) ListOverdue(ctx context.Context, ownerID uint, today time.Time) ([]model.Task, error) {
	var tasks []model.Task
	err := r.db.WithContext(ctx).
		Where("owner_id = ? AND due_date < ? AND status <> ?", ownerID, today, model.StatusCompleted).
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

// ListDueBetween returns the owner's tasks with a due date in [start, end].
func (r *taskRepository) ListDueBetween(ctx context.Context, ownerID uint, start, end time.Time) ([]model.Task, error) {
	var tasks []model.Task
	err := r.db.WithContext(ctx).
		Where("owner_id = ? AND due_date BETWEEN ? AND ?", ownerID, start, end).
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

// CountByOwner counts all tasks owned by ownerID.
func (r *taskRepository) CountByOwner(ctx context.Context, ownerID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("owner_id = ?", ownerID).
		Count(&count).Error
	return count, err
}

// CountByOwnerAndStatus counts the owner's tasks in the given status.
func (r *taskRepository) CountByOwnerAndStatus(ctx context.Context, ownerID uint, status model.Status) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("owner_id = ? AND status = ?", ownerID, status).
		Count(&count).Error
	return count, err
}

// CountOverdue counts the owner's overdue, not-completed tasks.
func (r *taskRepository) CountOverdue(ctx context.Context, ownerID uint, today time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("owner_id = ? AND due_date < ? AND status <> ?", ownerID, today, model.StatusCompleted).
		Count(&count).Error
	return count, err
}
