package service

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/taskhub/task-service/internal/auth"
	"github.com/taskhub/task-service/internal/config"
	"github.com/taskhub/task-service/internal/domain"
	apperrors "github.com/taskhub/task-service/pkg/util"
)

type fakeUserRepo struct {
	createFn     func(ctx context.Context, user *domain.User) error
	getByIDFn    func(ctx context.Context, id int64) (*domain.User, error)
	getByEmailFn func(ctx context.Context, email string) (*domain.User, error)
}

func (f *fakeUserRepo) Create(ctx context.Context, user *domain.User) error {
	return f.createFn(ctx, user)
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return f.getByIDFn(ctx, id)
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return f.getByEmailFn(ctx, email)
}

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{JWTSecret: "test-secret", TokenTTLHours: 24, BcryptCost: bcrypt.MinCost}
}

func domainErr(t *testing.T, err error) *apperrors.DomainError {
	t.Helper()
	var de *apperrors.DomainError
	require.True(t, errors.As(err, &de))
	return de
}

func TestAuthServiceRegister(t *testing.T) {
	t.Run("success normalizes email and hashes password", func(t *testing.T) {
		var created *domain.User
		repo := &fakeUserRepo{
			getByEmailFn: func(_ context.Context, _ string) (*domain.User, error) {
				return nil, pgx.ErrNoRows
			},
			createFn: func(_ context.Context, user *domain.User) error {
				user.ID = 1
				created = user
				return nil
			},
		}
		svc := NewAuthService(testAuthConfig(), repo)

		user, err := svc.Register(context.Background(), "Alice", "  Alice@Example.COM ", "secret1")
		require.NoError(t, err)
		require.Equal(t, int64(1), user.ID)
		require.Equal(t, "alice@example.com", created.Email)
		require.NotEqual(t, "secret1", created.PasswordHash)
		require.NoError(t, auth.ComparePassword(created.PasswordHash, "secret1"))
	})

	t.Run("duplicate email detected up front", func(t *testing.T) {
		repo := &fakeUserRepo{
			getByEmailFn: func(_ context.Context, _ string) (*domain.User, error) {
				return &domain.User{ID: 2, Email: "alice@example.com"}, nil
			},
		}
		svc := NewAuthService(testAuthConfig(), repo)

		_, err := svc.Register(context.Background(), "Alice", "alice@example.com", "secret1")
		de := domainErr(t, err)
		require.Equal(t, "CONFLICT", de.Code)
	})

	t.Run("duplicate race resolved by unique constraint", func(t *testing.T) {
		repo := &fakeUserRepo{
			getByEmailFn: func(_ context.Context, _ string) (*domain.User, error) {
				return nil, pgx.ErrNoRows
			},
			createFn: func(_ context.Context, _ *domain.User) error {
				return &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}
			},
		}
		svc := NewAuthService(testAuthConfig(), repo)

		_, err := svc.Register(context.Background(), "Alice", "alice@example.com", "secret1")
		de := domainErr(t, err)
		require.Equal(t, "CONFLICT", de.Code)
	})

	t.Run("storage failure maps to internal", func(t *testing.T) {
		repo := &fakeUserRepo{
			getByEmailFn: func(_ context.Context, _ string) (*domain.User, error) {
				return nil, errors.New("connection reset")
			},
		}
		svc := NewAuthService(testAuthConfig(), repo)

		_, err := svc.Register(context.Background(), "Alice", "alice@example.com", "secret1")
		de := domainErr(t, err)
		require.Equal(t, "INTERNAL_ERROR", de.Code)
	})
}

func TestAuthServiceLogin(t *testing.T) {
	hash, err := auth.HashPassword("secret1", bcrypt.MinCost)
	require.NoError(t, err)
	stored := &domain.User{ID: 5, Name: "Alice", Email: "alice@example.com", PasswordHash: hash}

	t.Run("success issues token", func(t *testing.T) {
		repo := &fakeUserRepo{
			getByEmailFn: func(_ context.Context, email string) (*domain.User, error) {
				require.Equal(t, "alice@example.com", email)
				return stored, nil
			},
		}
		svc := NewAuthService(testAuthConfig(), repo)

		user, token, exp, err := svc.Login(context.Background(), "Alice@Example.com", "secret1")
		require.NoError(t, err)
		require.Equal(t, int64(5), user.ID)
		require.NotEmpty(t, token)
		require.False(t, exp.IsZero())

		claims, err := svc.TokenManager().ParseToken(token)
		require.NoError(t, err)
		require.Equal(t, int64(5), claims.UserID)
		require.Equal(t, "Alice", claims.Name)
	})

	t.Run("unknown email and wrong password are indistinguishable", func(t *testing.T) {
		unknownRepo := &fakeUserRepo{
			getByEmailFn: func(_ context.Context, _ string) (*domain.User, error) {
				return nil, pgx.ErrNoRows
			},
		}
		wrongPassRepo := &fakeUserRepo{
			getByEmailFn: func(_ context.Context, _ string) (*domain.User, error) {
				return stored, nil
			},
		}

		_, _, _, errUnknown := NewAuthService(testAuthConfig(), unknownRepo).Login(context.Background(), "nobody@example.com", "secret1")
		_, _, _, errWrong := NewAuthService(testAuthConfig(), wrongPassRepo).Login(context.Background(), "alice@example.com", "wrong")

		deUnknown := domainErr(t, errUnknown)
		deWrong := domainErr(t, errWrong)
		require.Equal(t, deUnknown.Code, deWrong.Code)
		require.Equal(t, deUnknown.Message, deWrong.Message)
		require.Equal(t, deUnknown.HTTPStatus, deWrong.HTTPStatus)
		require.Equal(t, 401, deUnknown.HTTPStatus)
	})
}
