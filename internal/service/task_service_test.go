package service

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"github.com/taskhub/task-service/internal/domain"
	"github.com/taskhub/task-service/internal/events"
	"github.com/taskhub/task-service/internal/repository"
)

type fakeTaskRepo struct {
	createFn func(ctx context.Context, task *domain.Task) error
	getFn    func(ctx context.Context, userID, id int64) (*domain.Task, error)
	listFn   func(ctx context.Context, userID int64, status *domain.TaskStatus) ([]domain.Task, error)
	updateFn func(ctx context.Context, userID, id int64, patch repository.TaskPatch) (*domain.Task, error)
	deleteFn func(ctx context.Context, userID, id int64) (*domain.Task, error)
}

func (f *fakeTaskRepo) Create(ctx context.Context, task *domain.Task) error {
	return f.createFn(ctx, task)
}

func (f *fakeTaskRepo) GetByID(ctx context.Context, userID, id int64) (*domain.Task, error) {
	return f.getFn(ctx, userID, id)
}

func (f *fakeTaskRepo) ListByUser(ctx context.Context, userID int64, status *domain.TaskStatus) ([]domain.Task, error) {
	return f.listFn(ctx, userID, status)
}

func (f *fakeTaskRepo) Update(ctx context.Context, userID, id int64, patch repository.TaskPatch) (*domain.Task, error) {
	return f.updateFn(ctx, userID, id, patch)
}

func (f *fakeTaskRepo) Delete(ctx context.Context, userID, id int64) (*domain.Task, error) {
	return f.deleteFn(ctx, userID, id)
}

// recorder captures published events.
type recorder struct {
	events []events.Event
}

func (r *recorder) record(_ context.Context, event events.Event) error {
	r.events = append(r.events, event)
	return nil
}

func newRecordingDispatcher(types ...events.EventType) (events.Dispatcher, *recorder) {
	dispatcher := events.NewInMemoryDispatcher()
	rec := &recorder{}
	for _, eventType := range types {
		dispatcher.Subscribe(eventType, rec.record)
	}
	return dispatcher, rec
}

func TestTaskServiceList(t *testing.T) {
	stored := []domain.Task{{ID: 2, Title: "b"}, {ID: 1, Title: "a"}}

	t.Run("passes recognized filter", func(t *testing.T) {
		var gotStatus *domain.TaskStatus
		repo := &fakeTaskRepo{
			listFn: func(_ context.Context, userID int64, status *domain.TaskStatus) ([]domain.Task, error) {
				require.Equal(t, int64(9), userID)
				gotStatus = status
				return stored, nil
			},
		}
		svc := NewTaskService(repo, nil)

		tasks, err := svc.List(context.Background(), 9, "completed")
		require.NoError(t, err)
		require.Len(t, tasks, 2)
		require.NotNil(t, gotStatus)
		require.Equal(t, domain.TaskStatusCompleted, *gotStatus)
	})

	t.Run("ignores unrecognized filter", func(t *testing.T) {
		repo := &fakeTaskRepo{
			listFn: func(_ context.Context, _ int64, status *domain.TaskStatus) ([]domain.Task, error) {
				require.Nil(t, status)
				return stored, nil
			},
		}
		svc := NewTaskService(repo, nil)

		_, err := svc.List(context.Background(), 9, "archived")
		require.NoError(t, err)
	})
}

func TestTaskServiceGet(t *testing.T) {
	t.Run("missing task maps to not found", func(t *testing.T) {
		repo := &fakeTaskRepo{
			getFn: func(_ context.Context, _, _ int64) (*domain.Task, error) {
				return nil, pgx.ErrNoRows
			},
		}
		svc := NewTaskService(repo, nil)

		_, err := svc.Get(context.Background(), 9, 3)
		de := domainErr(t, err)
		require.Equal(t, "NOT_FOUND", de.Code)
		require.Equal(t, 404, de.HTTPStatus)
	})
}

func TestTaskServiceCreate(t *testing.T) {
	dispatcher, rec := newRecordingDispatcher(events.EventTaskCreated)
	repo := &fakeTaskRepo{
		createFn: func(_ context.Context, task *domain.Task) error {
			task.ID = 11
			task.CreatedAt = time.Now()
			task.UpdatedAt = task.CreatedAt
			return nil
		},
	}
	svc := NewTaskService(repo, dispatcher)

	task, err := svc.Create(context.Background(), 9, TaskCreateInput{Title: "Buy milk"})
	require.NoError(t, err)
	require.Equal(t, domain.TaskStatusPending, task.Status)
	require.Equal(t, int64(9), task.UserID)
	require.Nil(t, task.Description)
	require.Nil(t, task.DueDate)

	require.Len(t, rec.events, 1)
	require.Equal(t, events.EventTaskCreated, rec.events[0].Type)
	require.Equal(t, int64(11), rec.events[0].TaskID)
}

func TestTaskServiceUpdate(t *testing.T) {
	current := &domain.Task{ID: 3, Title: "Buy milk", Status: domain.TaskStatusPending, UserID: 9}

	t.Run("empty patch rejected before any storage call", func(t *testing.T) {
		svc := NewTaskService(&fakeTaskRepo{}, nil) // any repo call would panic
		_, err := svc.Update(context.Background(), 9, 3, repository.TaskPatch{})
		de := domainErr(t, err)
		require.Equal(t, "VALIDATION_FAILED", de.Code)
	})

	t.Run("status change publishes event", func(t *testing.T) {
		dispatcher, rec := newRecordingDispatcher(events.EventTaskStatusChanged)
		repo := &fakeTaskRepo{
			getFn: func(_ context.Context, _, _ int64) (*domain.Task, error) {
				copied := *current
				return &copied, nil
			},
			updateFn: func(_ context.Context, _, _ int64, patch repository.TaskPatch) (*domain.Task, error) {
				updated := *current
				updated.Status = *patch.Status
				updated.UpdatedAt = time.Now()
				return &updated, nil
			},
		}
		svc := NewTaskService(repo, dispatcher)

		status := domain.TaskStatusCompleted
		task, err := svc.Update(context.Background(), 9, 3, repository.TaskPatch{Status: &status})
		require.NoError(t, err)
		require.Equal(t, domain.TaskStatusCompleted, task.Status)
		require.Equal(t, "Buy milk", task.Title)

		require.Len(t, rec.events, 1)
		payload, ok := rec.events[0].Payload.(events.TaskStatusChangedPayload)
		require.True(t, ok)
		require.Equal(t, domain.TaskStatusPending, payload.OldStatus)
		require.Equal(t, domain.TaskStatusCompleted, payload.NewStatus)
	})

	t.Run("title-only patch publishes nothing", func(t *testing.T) {
		dispatcher, rec := newRecordingDispatcher(events.EventTaskStatusChanged)
		repo := &fakeTaskRepo{
			getFn: func(_ context.Context, _, _ int64) (*domain.Task, error) {
				copied := *current
				return &copied, nil
			},
			updateFn: func(_ context.Context, _, _ int64, patch repository.TaskPatch) (*domain.Task, error) {
				updated := *current
				updated.Title = *patch.Title
				return &updated, nil
			},
		}
		svc := NewTaskService(repo, dispatcher)

		title := "Buy oat milk"
		_, err := svc.Update(context.Background(), 9, 3, repository.TaskPatch{Title: &title})
		require.NoError(t, err)
		require.Empty(t, rec.events)
	})

	t.Run("not owned maps to not found", func(t *testing.T) {
		repo := &fakeTaskRepo{
			getFn: func(_ context.Context, _, _ int64) (*domain.Task, error) {
				return nil, pgx.ErrNoRows
			},
		}
		svc := NewTaskService(repo, nil)

		title := "x"
		_, err := svc.Update(context.Background(), 1, 3, repository.TaskPatch{Title: &title})
		de := domainErr(t, err)
		require.Equal(t, "NOT_FOUND", de.Code)
	})
}

func TestTaskServiceDelete(t *testing.T) {
	t.Run("returns pre-delete snapshot", func(t *testing.T) {
		dispatcher, rec := newRecordingDispatcher(events.EventTaskDeleted)
		repo := &fakeTaskRepo{
			deleteFn: func(_ context.Context, userID, id int64) (*domain.Task, error) {
				require.Equal(t, int64(9), userID)
				return &domain.Task{ID: id, Title: "Buy milk", Status: domain.TaskStatusPending, UserID: userID}, nil
			},
		}
		svc := NewTaskService(repo, dispatcher)

		task, err := svc.Delete(context.Background(), 9, 3)
		require.NoError(t, err)
		require.Equal(t, "Buy milk", task.Title)
		require.Len(t, rec.events, 1)
		require.Equal(t, events.EventTaskDeleted, rec.events[0].Type)
	})

	t.Run("missing task maps to not found", func(t *testing.T) {
		repo := &fakeTaskRepo{
			deleteFn: func(_ context.Context, _, _ int64) (*domain.Task, error) {
				return nil, pgx.ErrNoRows
			},
		}
		svc := NewTaskService(repo, nil)

		_, err := svc.Delete(context.Background(), 9, 3)
		de := domainErr(t, err)
		require.Equal(t, "NOT_FOUND", de.Code)
	})
}
