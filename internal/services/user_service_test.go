package services

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"TodoList/server/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUserServiceMock(t *testing.T) (pgxmock.PgxPoolIface, UserService) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock, NewUserService(mock)
}

func TestCreateUser(t *testing.T) {
	mock, svc := newUserServiceMock(t)

	id := uuid.New()
	created := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users (email,password_hash,username) VALUES ($1,$2,$3) RETURNING id, email, username, created_at")).
		WithArgs("a@example.com", "$2a$12$hash", "alice").
		WillReturnRows(pgxmock.NewRows([]string{"id", "email", "username", "created_at"}).
			AddRow(id, "a@example.com", "alice", created))

	user, err := svc.CreateUser(context.Background(), "a@example.com", "$2a$12$hash", "alice")
	require.NoError(t, err)
	assert.Equal(t, id, user.ID)
	assert.Equal(t, "alice", user.Username)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	mock, svc := newUserServiceMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users")).
		WithArgs("a@example.com", "hash", "alice").
		WillReturnError(&pgconn.PgError{Code: uniqueViolation, ConstraintName: "users_email_key"})

	_, err := svc.CreateUser(context.Background(), "a@example.com", "hash", "alice")
	assert.ErrorIs(t, err, models.ErrEmailExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetUserByEmail(t *testing.T) {
	mock, svc := newUserServiceMock(t)

	id := uuid.New()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, email, password_hash, username, created_at FROM users WHERE email = $1")).
		WithArgs("a@example.com").
		WillReturnRows(pgxmock.NewRows([]string{"id", "email", "password_hash", "username", "created_at"}).
			AddRow(id, "a@example.com", "hash", "alice", time.Now()))

	user, err := svc.GetUserByEmail(context.Background(), "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, id, user.ID)
	assert.Equal(t, "hash", user.PasswordHash)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetUserByEmail_NotFound(t *testing.T) {
	mock, svc := newUserServiceMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, email, password_hash, username, created_at FROM users WHERE email = $1")).
		WithArgs("missing@example.com").
		WillReturnError(pgx.ErrNoRows)

	_, err := svc.GetUserByEmail(context.Background(), "missing@example.com")
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetUserById_NotFound(t *testing.T) {
	mock, svc := newUserServiceMock(t)

	id := uuid.New()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, email, password_hash, username, created_at FROM users WHERE id = $1")).
		WithArgs(id).
		WillReturnError(pgx.ErrNoRows)

	_, err := svc.GetUserById(context.Background(), id)
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEmailExists(t *testing.T) {
	tests := []struct {
		name  string
		count int
		want  bool
	}{
		{"taken", 1, true},
		{"free", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, svc := newUserServiceMock(t)

			mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM users WHERE email = $1")).
				WithArgs("a@example.com").
				WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(tt.count))

			exists, err := svc.EmailExists(context.Background(), "a@example.com")
			require.NoError(t, err)
			assert.Equal(t, tt.want, exists)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestCreateUser_OtherErrorPassesThrough(t *testing.T) {
	mock, svc := newUserServiceMock(t)

	dbErr := errors.New("connection reset")
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users")).
		WithArgs("a@example.com", "hash", "alice").
		WillReturnError(dbErr)

	_, err := svc.CreateUser(context.Background(), "a@example.com", "hash", "alice")
	assert.ErrorIs(t, err, dbErr)
	assert.NotErrorIs(t, err, models.ErrEmailExists)
}
