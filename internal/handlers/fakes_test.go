package handlers

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"TodoList/server/internal/models"
	"TodoList/server/internal/services"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// --- response envelope helpers ---

type envelope struct {
	Success bool           `json:"success"`
	Data    map[string]any `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

// --- fake user service ---

type fakeUserService struct {
	emailExists    bool
	emailExistsErr error

	byEmail    *models.User
	byEmailErr error

	byID    *models.User
	byIDErr error

	created   *models.User
	createErr error
}

func (f *fakeUserService) CreateUser(ctx context.Context, email, passwordHash, username string) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	if f.created != nil {
		return f.created, nil
	}
	return &models.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: passwordHash,
		Username:     username,
		CreatedAt:    time.Now(),
	}, nil
}

func (f *fakeUserService) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	if f.byEmailErr != nil {
		return nil, f.byEmailErr
	}
	return f.byEmail, nil
}

func (f *fakeUserService) GetUserById(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if f.byIDErr != nil {
		return nil, f.byIDErr
	}
	return f.byID, nil
}

func (f *fakeUserService) EmailExists(ctx context.Context, email string) (bool, error) {
	return f.emailExists, f.emailExistsErr
}

// --- fake refresh token service ---

type fakeRefreshTokenService struct {
	createdUserID uuid.UUID
	createdToken  string
	createdExpiry time.Time
	createErr     error

	byToken    *models.RefreshToken
	byTokenErr error

	deletedIDs     []uuid.UUID
	deletedUserIDs []uuid.UUID
}

func (f *fakeRefreshTokenService) Create(ctx context.Context, userID uuid.UUID, token string, expiresAt time.Time) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.createdUserID = userID
	f.createdToken = token
	f.createdExpiry = expiresAt
	return nil
}

func (f *fakeRefreshTokenService) GetByToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	if f.byTokenErr != nil {
		return nil, f.byTokenErr
	}
	return f.byToken, nil
}

func (f *fakeRefreshTokenService) DeleteById(ctx context.Context, id uuid.UUID) error {
	f.deletedIDs = append(f.deletedIDs, id)
	return nil
}

func (f *fakeRefreshTokenService) DeleteByUserId(ctx context.Context, userID uuid.UUID) error {
	f.deletedUserIDs = append(f.deletedUserIDs, userID)
	return nil
}

// --- fake todo service ---

type fakeTodoService struct {
	todo    *models.Todo
	todoErr error

	todos    []models.Todo
	total    int
	listErr  error
	lastList services.TodoListParams

	lastUpdate services.TodoUpdate

	deleteErr error
}

func (f *fakeTodoService) CreateTodo(ctx context.Context, userID uuid.UUID, title string, content *string, startDate *time.Time, endDate time.Time) (*models.Todo, error) {
	if f.todoErr != nil {
		return nil, f.todoErr
	}
	if f.todo != nil {
		return f.todo, nil
	}
	now := time.Now()
	return &models.Todo{
		ID:        uuid.New(),
		UserID:    userID,
		Title:     title,
		Content:   content,
		StartDate: startDate,
		EndDate:   endDate,
		Status:    models.TodoStatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (f *fakeTodoService) GetTodos(ctx context.Context, userID uuid.UUID, params services.TodoListParams) ([]models.Todo, int, error) {
	f.lastList = params
	if f.listErr != nil {
		return nil, 0, f.listErr
	}
	return f.todos, f.total, nil
}

func (f *fakeTodoService) GetTodoById(ctx context.Context, userID, id uuid.UUID) (*models.Todo, error) {
	return f.todo, f.todoErr
}

func (f *fakeTodoService) UpdateTodo(ctx context.Context, userID, id uuid.UUID, upd services.TodoUpdate) (*models.Todo, error) {
	f.lastUpdate = upd
	return f.todo, f.todoErr
}

func (f *fakeTodoService) SoftDeleteTodo(ctx context.Context, userID, id uuid.UUID) (*models.Todo, error) {
	return f.todo, f.todoErr
}

func (f *fakeTodoService) GetTrashTodos(ctx context.Context, userID uuid.UUID, page, limit int) ([]models.Todo, int, error) {
	if f.listErr != nil {
		return nil, 0, f.listErr
	}
	return f.todos, f.total, nil
}

func (f *fakeTodoService) RestoreTodo(ctx context.Context, userID, id uuid.UUID) (*models.Todo, error) {
	return f.todo, f.todoErr
}

func (f *fakeTodoService) PermanentlyDeleteTodo(ctx context.Context, userID, id uuid.UUID) error {
	return f.deleteErr
}
