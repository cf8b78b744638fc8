package dto

import (
	"time"

	"github.com/taskhub/task-service/internal/domain"
)

// CreateTaskRequest payload.
type CreateTaskRequest struct {
	Title       string  `json:"title" validate:"required,min=1,max=255"`
	Description *string `json:"description" validate:"omitnil,max=1000"`
	DueDate     *string `json:"dueDate" validate:"omitnil,iso8601"`
}

// UpdateTaskRequest payload; every field is optional, absent fields are
// left untouched.
type UpdateTaskRequest struct {
	Title       *string `json:"title" validate:"omitnil,min=1,max=255"`
	Description *string `json:"description" validate:"omitnil,max=1000"`
	Status      *string `json:"status" validate:"omitnil,oneof=pending completed"`
	DueDate     *string `json:"dueDate" validate:"omitnil,iso8601"`
}

// TaskResponse is the wire form of a task.
type TaskResponse struct {
	ID          int64             `json:"id"`
	Title       string            `json:"title"`
	Description *string           `json:"description"`
	Status      domain.TaskStatus `json:"status"`
	DueDate     *time.Time        `json:"dueDate"`
	UserID      int64             `json:"userId"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

// NewTaskResponse maps a domain task onto the wire shape.
func NewTaskResponse(task *domain.Task) TaskResponse {
	return TaskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Status:      task.Status,
		DueDate:     task.DueDate,
		UserID:      task.UserID,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}
