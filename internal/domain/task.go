package domain

import "time"

// TaskStatus enumerates lifecycle states for tasks.
type TaskStatus string

const (
	TaskStatusPending   TaskStatus = "pending"
	TaskStatusCompleted TaskStatus = "completed"
)

// ValidTaskStatus reports whether s is a recognized status value.
func ValidTaskStatus(s string) bool {
	switch TaskStatus(s) {
	case TaskStatusPending, TaskStatusCompleted:
		return true
	}
	return false
}

// Task is the aggregate for a user-owned task.
type Task struct {
	ID          int64
	Title       string
	Description *string
	Status      TaskStatus
	DueDate     *time.Time
	UserID      int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
