package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/taskhub/task-service/internal/domain"
)

// TaskPatch carries the optional fields of a partial update. Only non-nil
// fields are written; field names are fixed here and never taken from input.
type TaskPatch struct {
	Title       *string
	Description *string
	Status      *domain.TaskStatus
	DueDate     *time.Time
}

// Empty reports whether the patch carries no fields.
func (p TaskPatch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.Status == nil && p.DueDate == nil
}

// TaskRepository encapsulates task persistence. Every operation is scoped
// to the owning user; a non-owned id behaves as a missing row.
type TaskRepository interface {
	Create(ctx context.Context, task *domain.Task) error
	GetByID(ctx context.Context, userID, id int64) (*domain.Task, error)
	ListByUser(ctx context.Context, userID int64, status *domain.TaskStatus) ([]domain.Task, error)
	Update(ctx context.Context, userID, id int64, patch TaskPatch) (*domain.Task, error)
	Delete(ctx context.Context, userID, id int64) (*domain.Task, error)
}

type taskRepository struct {
	db DB
}

// NewTaskRepository instantiates repository.
func NewTaskRepository(db DB) TaskRepository {
	return &taskRepository{db: db}
}

const taskColumns = `id, title, description, status, due_date, user_id, created_at, updated_at`

func (r *taskRepository) Create(ctx context.Context, task *domain.Task) error {
	const query = `
        INSERT INTO tasks (title, description, status, due_date, user_id)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, created_at, updated_at`
	return r.db.QueryRow(ctx, query,
		task.Title,
		task.Description,
		task.Status,
		task.DueDate,
		task.UserID,
	).Scan(&task.ID, &task.CreatedAt, &task.UpdatedAt)
}

func (r *taskRepository) GetByID(ctx context.Context, userID, id int64) (*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id=$1 AND user_id=$2`
	return r.fetchSingle(ctx, query, id, userID)
}

func (r *taskRepository) ListByUser(ctx context.Context, userID int64, status *domain.TaskStatus) ([]domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE user_id=$1`
	args := []any{userID}

	if status != nil {
		args = append(args, *status)
		query += fmt.Sprintf(" AND status=$%d", len(args))
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTasks(rows)
}

func (r *taskRepository) Update(ctx context.Context, userID, id int64, patch TaskPatch) (*domain.Task, error) {
	assignments := []string{}
	args := []any{}

	if patch.Title != nil {
		args = append(args, *patch.Title)
		assignments = append(assignments, fmt.Sprintf("title=$%d", len(args)))
	}
	if patch.Description != nil {
		args = append(args, *patch.Description)
		assignments = append(assignments, fmt.Sprintf("description=$%d", len(args)))
	}
	if patch.Status != nil {
		args = append(args, *patch.Status)
		assignments = append(assignments, fmt.Sprintf("status=$%d", len(args)))
	}
	if patch.DueDate != nil {
		args = append(args, *patch.DueDate)
		assignments = append(assignments, fmt.Sprintf("due_date=$%d", len(args)))
	}
	if len(assignments) == 0 {
		return nil, pgx.ErrNoRows
	}
	assignments = append(assignments, "updated_at=NOW()")

	args = append(args, id)
	idPlaceholder := len(args)
	args = append(args, userID)
	userPlaceholder := len(args)

	query := fmt.Sprintf(`UPDATE tasks SET %s WHERE id=$%d AND user_id=$%d RETURNING %s`,
		strings.Join(assignments, ", "), idPlaceholder, userPlaceholder, taskColumns)

	return r.fetchSingle(ctx, query, args...)
}

func (r *taskRepository) Delete(ctx context.Context, userID, id int64) (*domain.Task, error) {
	query := `DELETE FROM tasks WHERE id=$1 AND user_id=$2 RETURNING ` + taskColumns
	return r.fetchSingle(ctx, query, id, userID)
}

func (r *taskRepository) fetchSingle(ctx context.Context, query string, args ...any) (*domain.Task, error) {
	var task domain.Task
	if err := r.db.QueryRow(ctx, query, args...).Scan(
		&task.ID,
		&task.Title,
		&task.Description,
		&task.Status,
		&task.DueDate,
		&task.UserID,
		&task.CreatedAt,
		&task.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &task, nil
}

func scanTasks(rows pgx.Rows) ([]domain.Task, error) {
	result := []domain.Task{}
	for rows.Next() {
		var task domain.Task
		if err := rows.Scan(
			&task.ID,
			&task.Title,
			&task.Description,
			&task.Status,
			&task.DueDate,
			&task.UserID,
			&task.CreatedAt,
			&task.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, task)
	}
	return result, rows.Err()
}
