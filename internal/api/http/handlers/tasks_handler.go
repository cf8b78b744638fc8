package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/taskhub/task-service/internal/api/dto"
	"github.com/taskhub/task-service/internal/auth"
	"github.com/taskhub/task-service/internal/domain"
	"github.com/taskhub/task-service/internal/repository"
	"github.com/taskhub/task-service/internal/service"
	"github.com/taskhub/task-service/internal/validation"
	apperrors "github.com/taskhub/task-service/pkg/util"
)

// TasksHandler manages the caller-scoped task endpoints.
type TasksHandler struct {
	service *service.TaskService
}

// NewTasksHandler constructs handler.
func NewTasksHandler(taskService *service.TaskService) *TasksHandler {
	return &TasksHandler{service: taskService}
}

// List GET /tasks.
func (h *TasksHandler) List(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	tasks, err := h.service.List(c.UserContext(), principal.UserID, c.Query("status"))
	if err != nil {
		return err
	}

	items := make([]dto.TaskResponse, 0, len(tasks))
	for i := range tasks {
		items = append(items, dto.NewTaskResponse(&tasks[i]))
	}
	return c.JSON(fiber.Map{"tasks": items, "total": len(items)})
}

// Get GET /tasks/:id.
func (h *TasksHandler) Get(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	id, err := parseTaskID(c)
	if err != nil {
		return err
	}

	task, err := h.service.Get(c.UserContext(), principal.UserID, id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"task": dto.NewTaskResponse(task)})
}

// Create POST /tasks.
func (h *TasksHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.CreateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := validation.ValidateStruct(&req); err != nil {
		return err
	}

	input := service.TaskCreateInput{
		Title:       req.Title,
		Description: req.Description,
	}
	if req.DueDate != nil {
		due, err := validation.ParseISO8601(*req.DueDate)
		if err != nil {
			return apperrors.NewValidationError("invalid request data", []apperrors.FieldViolation{
				{Field: "dueDate", Message: "dueDate must be an ISO-8601 timestamp"},
			})
		}
		input.DueDate = &due
	}

	task, err := h.service.Create(c.UserContext(), principal.UserID, input)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"message": "task created successfully",
		"task":    dto.NewTaskResponse(task),
	})
}

// Update PUT /tasks/:id.
func (h *TasksHandler) Update(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	id, err := parseTaskID(c)
	if err != nil {
		return err
	}

	var req dto.UpdateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := validation.ValidateStruct(&req); err != nil {
		return err
	}

	patch := repository.TaskPatch{
		Title:       req.Title,
		Description: req.Description,
	}
	if req.Status != nil {
		status := domain.TaskStatus(*req.Status)
		patch.Status = &status
	}
	if req.DueDate != nil {
		due, err := validation.ParseISO8601(*req.DueDate)
		if err != nil {
			return apperrors.NewValidationError("invalid request data", []apperrors.FieldViolation{
				{Field: "dueDate", Message: "dueDate must be an ISO-8601 timestamp"},
			})
		}
		patch.DueDate = &due
	}

	task, err := h.service.Update(c.UserContext(), principal.UserID, id, patch)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message": "task updated successfully",
		"task":    dto.NewTaskResponse(task),
	})
}

// Delete DELETE /tasks/:id.
func (h *TasksHandler) Delete(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	id, err := parseTaskID(c)
	if err != nil {
		return err
	}

	task, err := h.service.Delete(c.UserContext(), principal.UserID, id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message":     "task deleted successfully",
		"deletedTask": dto.NewTaskResponse(task),
	})
}

// parseTaskID treats malformed ids as missing tasks so that probing ids
// reveals nothing about what exists.
func parseTaskID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewNotFound("task")
	}
	return id, nil
}
