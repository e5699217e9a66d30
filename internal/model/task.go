package model

import "time"

// Status is the lifecycle state of a task.
type Status string

const (
	StatusTodo       Status = "TODO"
	StatusInProgress Status = "IN_PROGRESS"
	StatusCompleted  Status = "COMPLETED"
)

// Valid reports whether s is a known status value.
func (s Status) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// Priority is the urgency level of a task.
type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
)

// Valid reports whether p is a known priority value.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Task represents a to-do item owned by exactly one user. OwnerID is always
// assigned from the authenticated identity, never from client input.
type Task struct {
	ID          uint       `json:"id" gorm:"primaryKey"`
	OwnerID     uint       `json:"-" gorm:"index;not null"`
	Title       string     `json:"title" gorm:"size:255;not null"`
	Description string     `json:"description" gorm:"size:1000"`
	Status      Status     `json:"status" gorm:"size:20;not null;default:'TODO';index"`
	Priority    Priority   `json:"priority" gorm:"size:20;not null;default:'MEDIUM';index"`
	DueDate     *time.Time `json:"due_date,omitempty" gorm:"type:date"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
