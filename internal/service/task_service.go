package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/taskhub/task-service/internal/domain"
	"github.com/taskhub/task-service/internal/events"
	"github.com/taskhub/task-service/internal/repository"
	apperrors "github.com/taskhub/task-service/pkg/util"
)

// TaskCreateInput carries validated fields for a new task.
type TaskCreateInput struct {
	Title       string
	Description *string
	DueDate     *time.Time
}

// TaskService implements the caller-scoped task operations.
type TaskService struct {
	tasks      repository.TaskRepository
	dispatcher events.Dispatcher
}

// NewTaskService builds the service.
func NewTaskService(tasks repository.TaskRepository, dispatcher events.Dispatcher) *TaskService {
	return &TaskService{tasks: tasks, dispatcher: dispatcher}
}

// List returns the caller's tasks newest-first. Unrecognized status filter
// values are ignored rather than rejected.
func (s *TaskService) List(ctx context.Context, userID int64, statusFilter string) ([]domain.Task, error) {
	var status *domain.TaskStatus
	if domain.ValidTaskStatus(statusFilter) {
		v := domain.TaskStatus(statusFilter)
		status = &v
	}

	tasks, err := s.tasks.ListByUser(ctx, userID, status)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tasks, nil
}

// Get fetches a single task owned by the caller.
func (s *TaskService) Get(ctx context.Context, userID, id int64) (*domain.Task, error) {
	task, err := s.tasks.GetByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("task")
		}
		return nil, apperrors.MapError(err)
	}
	return task, nil
}

// Create persists a new pending task for the caller.
func (s *TaskService) Create(ctx context.Context, userID int64, input TaskCreateInput) (*domain.Task, error) {
	task := &domain.Task{
		Title:       input.Title,
		Description: input.Description,
		Status:      domain.TaskStatusPending,
		DueDate:     input.DueDate,
		UserID:      userID,
	}
	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.EventTaskCreated, task, events.TaskCreatedPayload{
		Title:   task.Title,
		Status:  task.Status,
		DueDate: task.DueDate,
	})
	return task, nil
}

// Update applies a partial update to a task owned by the caller.
func (s *TaskService) Update(ctx context.Context, userID, id int64, patch repository.TaskPatch) (*domain.Task, error) {
	if patch.Empty() {
		return nil, apperrors.NewValidationError("no fields to update", nil)
	}

	current, err := s.tasks.GetByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("task")
		}
		return nil, apperrors.MapError(err)
	}

	updated, err := s.tasks.Update(ctx, userID, id, patch)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("task")
		}
		return nil, apperrors.MapError(err)
	}

	if patch.Status != nil && current.Status != updated.Status {
		s.publish(ctx, events.EventTaskStatusChanged, updated, events.TaskStatusChangedPayload{
			OldStatus: current.Status,
			NewStatus: updated.Status,
		})
	}
	return updated, nil
}

// Delete removes a task owned by the caller and returns its last state.
func (s *TaskService) Delete(ctx context.Context, userID, id int64) (*domain.Task, error) {
	task, err := s.tasks.Delete(ctx, userID, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("task")
		}
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.EventTaskDeleted, task, events.TaskDeletedPayload{
		Title:  task.Title,
		Status: task.Status,
	})
	return task, nil
}

func (s *TaskService) publish(ctx context.Context, eventType events.EventType, task *domain.Task, payload any) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		TaskID:    task.ID,
		UserID:    task.UserID,
		Timestamp: time.Now(),
		Payload:   payload,
	})
}
