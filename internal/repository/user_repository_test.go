package repository

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"github.com/taskhub/task-service/internal/domain"
)

// fakeUserRow supports create returns (2 dest) and full row fetches (5 dest).
type fakeUserRow struct {
	scanErr error
	user    *domain.User
}

func (r *fakeUserRow) Scan(dest ...any) error {
	if r.scanErr != nil {
		return r.scanErr
	}
	u := r.user
	switch len(dest) {
	case 5:
		*dest[0].(*int64) = u.ID
		*dest[1].(*string) = u.Name
		*dest[2].(*string) = u.Email
		*dest[3].(*string) = u.PasswordHash
		*dest[4].(*time.Time) = u.CreatedAt
	case 2:
		*dest[0].(*int64) = u.ID
		*dest[1].(*time.Time) = u.CreatedAt
	default:
		panic("fakeUserRow.Scan: unexpected dest count")
	}
	return nil
}

func TestUserRepository(t *testing.T) {
	now := time.Now().UTC()
	sample := &domain.User{
		ID:           7,
		Name:         "Alice",
		Email:        "alice@example.com",
		PasswordHash: "hash123",
		CreatedAt:    now,
	}

	t.Run("Create assigns generated fields", func(t *testing.T) {
		var gotSQL string
		db := &FakeDB{
			QueryRowFn: func(_ context.Context, sql string, _ ...any) pgx.Row {
				gotSQL = sql
				return &fakeUserRow{user: sample}
			},
		}
		user := &domain.User{Name: "Alice", Email: "alice@example.com", PasswordHash: "hash123"}
		require.NoError(t, NewUserRepository(db).Create(context.Background(), user))
		require.Equal(t, int64(7), user.ID)
		require.Equal(t, now, user.CreatedAt)
		require.Contains(t, gotSQL, "INSERT INTO users")
		require.Contains(t, gotSQL, "RETURNING id, created_at")
	})

	t.Run("GetByEmail success", func(t *testing.T) {
		db := &FakeDB{
			QueryRowFn: func(_ context.Context, _ string, args ...any) pgx.Row {
				require.Equal(t, []any{"alice@example.com"}, args)
				return &fakeUserRow{user: sample}
			},
		}
		user, err := NewUserRepository(db).GetByEmail(context.Background(), "alice@example.com")
		require.NoError(t, err)
		require.Equal(t, sample.PasswordHash, user.PasswordHash)
	})

	t.Run("GetByID not found", func(t *testing.T) {
		db := &FakeDB{
			QueryRowFn: func(_ context.Context, _ string, _ ...any) pgx.Row {
				return &fakeUserRow{scanErr: pgx.ErrNoRows}
			},
		}
		_, err := NewUserRepository(db).GetByID(context.Background(), 7)
		require.ErrorIs(t, err, pgx.ErrNoRows)
	})
}
