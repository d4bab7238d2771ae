package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"TodoList/server/internal/appMiddleware"
	"TodoList/server/internal/models"
	"TodoList/server/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const (
	defaultPage  = 1
	defaultLimit = 50

	maxTitleLen   = 200
	maxContentLen = 2000
)

type TodoHandler struct {
	todos services.TodoService
}

func NewTodoHandler(todos services.TodoService) *TodoHandler {
	return &TodoHandler{todos: todos}
}

type todoRequest struct {
	Title     *string `json:"title"`
	Content   *string `json:"content"`
	StartDate *string `json:"startDate"`
	EndDate   *string `json:"endDate"`
}

func (h *TodoHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity, ok := appMiddleware.IdentityFromContext(r.Context())
	if !ok {
		log.Println("Missing identity in request context")
		sendError(w, http.StatusInternalServerError, "AUTH_ERROR", "Authentication failed")
		return
	}

	var req todoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	title := ""
	if req.Title != nil {
		title = strings.TrimSpace(*req.Title)
	}
	if title == "" {
		sendError(w, http.StatusBadRequest, "INVALID_TITLE", "Title is required and must be a non-empty string")
		return
	}
	if utf8.RuneCountInString(title) > maxTitleLen {
		sendError(w, http.StatusBadRequest, "INVALID_TITLE", "Title must be less than 200 characters")
		return
	}
	if req.Content != nil && utf8.RuneCountInString(*req.Content) > maxContentLen {
		sendError(w, http.StatusBadRequest, "INVALID_CONTENT", "Content must be less than 2000 characters")
		return
	}

	if req.EndDate == nil || *req.EndDate == "" {
		sendError(w, http.StatusBadRequest, "INVALID_END_DATE", "End date is required")
		return
	}

	var startDate *time.Time
	if req.StartDate != nil && *req.StartDate != "" {
		parsed, err := time.Parse(time.RFC3339, *req.StartDate)
		if err != nil {
			sendError(w, http.StatusBadRequest, "INVALID_START_DATE", "Start date is invalid")
			return
		}
		startDate = &parsed
	}

	endDate, err := time.Parse(time.RFC3339, *req.EndDate)
	if err != nil {
		sendError(w, http.StatusBadRequest, "INVALID_END_DATE", "End date is invalid")
		return
	}

	if startDate != nil && startDate.After(endDate) {
		sendError(w, http.StatusBadRequest, "INVALID_DATE_RANGE", "Start date must be before or equal to end date")
		return
	}

	todo, err := h.todos.CreateTodo(r.Context(), identity.UserID, title, req.Content, startDate, endDate)
	if err != nil {
		log.Printf("Create todo error: %v", err)
		sendError(w, http.StatusInternalServerError, "CREATE_TODO_ERROR", "An error occurred while creating the todo")
		return
	}

	sendSuccess(w, http.StatusCreated, map[string]any{"todo": todo})
}

func (h *TodoHandler) List(w http.ResponseWriter, r *http.Request) {
	identity, ok := appMiddleware.IdentityFromContext(r.Context())
	if !ok {
		log.Println("Missing identity in request context")
		sendError(w, http.StatusInternalServerError, "AUTH_ERROR", "Authentication failed")
		return
	}

	page, limit := paging(r)
	params := services.TodoListParams{Page: page, Limit: limit}

	if raw := r.URL.Query().Get("startDate"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			sendError(w, http.StatusBadRequest, "INVALID_START_DATE", "Start date is invalid")
			return
		}
		params.StartDate = &parsed
	}
	if raw := r.URL.Query().Get("endDate"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			sendError(w, http.StatusBadRequest, "INVALID_END_DATE", "End date is invalid")
			return
		}
		params.EndDate = &parsed
	}

	todos, total, err := h.todos.GetTodos(r.Context(), identity.UserID, params)
	if err != nil {
		log.Printf("Get todos error: %v", err)
		sendError(w, http.StatusInternalServerError, "GET_TODOS_ERROR", "An error occurred while fetching todos")
		return
	}

	sendSuccess(w, http.StatusOK, map[string]any{
		"todos":      todos,
		"pagination": pagination(total, page, limit),
	})
}

func (h *TodoHandler) GetById(w http.ResponseWriter, r *http.Request) {
	identity, id, ok := h.identityAndId(w, r)
	if !ok {
		return
	}

	todo, err := h.todos.GetTodoById(r.Context(), identity.UserID, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			sendError(w, http.StatusNotFound, "NOT_FOUND", "Todo not found or you do not have permission to view it")
			return
		}
		log.Printf("Get todo error: %v", err)
		sendError(w, http.StatusInternalServerError, "GET_TODO_ERROR", "An error occurred while fetching the todo")
		return
	}

	sendSuccess(w, http.StatusOK, map[string]any{"todo": todo})
}

func (h *TodoHandler) Update(w http.ResponseWriter, r *http.Request) {
	identity, id, ok := h.identityAndId(w, r)
	if !ok {
		return
	}

	var req todoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	var upd services.TodoUpdate

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			sendError(w, http.StatusBadRequest, "INVALID_TITLE", "Title is required and must be a non-empty string")
			return
		}
		if utf8.RuneCountInString(title) > maxTitleLen {
			sendError(w, http.StatusBadRequest, "INVALID_TITLE", "Title must be less than 200 characters")
			return
		}
		upd.Title = &title
	}
	if req.Content != nil {
		if utf8.RuneCountInString(*req.Content) > maxContentLen {
			sendError(w, http.StatusBadRequest, "INVALID_CONTENT", "Content must be less than 2000 characters")
			return
		}
		upd.Content = req.Content
	}
	if req.StartDate != nil {
		parsed, err := time.Parse(time.RFC3339, *req.StartDate)
		if err != nil {
			sendError(w, http.StatusBadRequest, "INVALID_START_DATE", "Start date is invalid")
			return
		}
		upd.StartDate = &parsed
	}
	if req.EndDate != nil {
		parsed, err := time.Parse(time.RFC3339, *req.EndDate)
		if err != nil {
			sendError(w, http.StatusBadRequest, "INVALID_END_DATE", "End date is invalid")
			return
		}
		upd.EndDate = &parsed
	}
	if upd.StartDate != nil && upd.EndDate != nil && upd.StartDate.After(*upd.EndDate) {
		sendError(w, http.StatusBadRequest, "INVALID_DATE_RANGE", "Start date must be before or equal to end date")
		return
	}

	if upd.Title == nil && upd.Content == nil && upd.StartDate == nil && upd.EndDate == nil {
		sendError(w, http.StatusBadRequest, "BAD_REQUEST", "No fields to update provided")
		return
	}

	todo, err := h.todos.UpdateTodo(r.Context(), identity.UserID, id, upd)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrNotFound):
			sendError(w, http.StatusNotFound, "NOT_FOUND", "Todo not found or you do not have permission to update it")
		case errors.Is(err, models.ErrNothingToUpdate):
			sendError(w, http.StatusBadRequest, "BAD_REQUEST", "No fields to update provided")
		default:
			log.Printf("Update todo error: %v", err)
			sendError(w, http.StatusInternalServerError, "UPDATE_TODO_ERROR", "An error occurred while updating the todo")
		}
		return
	}

	sendSuccess(w, http.StatusOK, map[string]any{"todo": todo})
}

func (h *TodoHandler) SoftDelete(w http.ResponseWriter, r *http.Request) {
	identity, id, ok := h.identityAndId(w, r)
	if !ok {
		return
	}

	todo, err := h.todos.SoftDeleteTodo(r.Context(), identity.UserID, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			sendError(w, http.StatusNotFound, "NOT_FOUND", "Todo not found or already deleted")
			return
		}
		log.Printf("Delete todo error: %v", err)
		sendError(w, http.StatusInternalServerError, "DELETE_TODO_ERROR", "An error occurred while deleting the todo")
		return
	}

	sendSuccess(w, http.StatusOK, map[string]any{
		"message": "Todo moved to trash",
		"todo":    todo,
	})
}

func (h *TodoHandler) ListTrash(w http.ResponseWriter, r *http.Request) {
	identity, ok := appMiddleware.IdentityFromContext(r.Context())
	if !ok {
		log.Println("Missing identity in request context")
		sendError(w, http.StatusInternalServerError, "AUTH_ERROR", "Authentication failed")
		return
	}

	page, limit := paging(r)

	todos, total, err := h.todos.GetTrashTodos(r.Context(), identity.UserID, page, limit)
	if err != nil {
		log.Printf("Get trash todos error: %v", err)
		sendError(w, http.StatusInternalServerError, "GET_TRASH_TODOS_ERROR", "An error occurred while fetching trash todos")
		return
	}

	sendSuccess(w, http.StatusOK, map[string]any{
		"todos":      todos,
		"pagination": pagination(total, page, limit),
	})
}

func (h *TodoHandler) Restore(w http.ResponseWriter, r *http.Request) {
	identity, id, ok := h.identityAndId(w, r)
	if !ok {
		return
	}

	todo, err := h.todos.RestoreTodo(r.Context(), identity.UserID, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			sendError(w, http.StatusNotFound, "NOT_FOUND", "Todo not found or already restored")
			return
		}
		log.Printf("Restore todo error: %v", err)
		sendError(w, http.StatusInternalServerError, "RESTORE_TODO_ERROR", "An error occurred while restoring the todo")
		return
	}

	sendSuccess(w, http.StatusOK, map[string]any{
		"message": "Todo restored",
		"todo":    todo,
	})
}

func (h *TodoHandler) PermanentlyDelete(w http.ResponseWriter, r *http.Request) {
	identity, id, ok := h.identityAndId(w, r)
	if !ok {
		return
	}

	if err := h.todos.PermanentlyDeleteTodo(r.Context(), identity.UserID, id); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			sendError(w, http.StatusNotFound, "NOT_FOUND", "Todo not found or not in trash")
			return
		}
		log.Printf("Permanently delete todo error: %v", err)
		sendError(w, http.StatusInternalServerError, "PERMANENT_DELETE_TODO_ERROR", "An error occurred while permanently deleting the todo")
		return
	}

	sendSuccess(w, http.StatusOK, map[string]any{"message": "Todo permanently deleted"})
}

func (h *TodoHandler) identityAndId(w http.ResponseWriter, r *http.Request) (appMiddleware.Identity, uuid.UUID, bool) {
	identity, ok := appMiddleware.IdentityFromContext(r.Context())
	if !ok {
		log.Println("Missing identity in request context")
		sendError(w, http.StatusInternalServerError, "AUTH_ERROR", "Authentication failed")
		return appMiddleware.Identity{}, uuid.Nil, false
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		sendError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid todo ID")
		return appMiddleware.Identity{}, uuid.Nil, false
	}

	return identity, id, true
}

func paging(r *http.Request) (page, limit int) {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		page = defaultPage
	}

	limit, err = strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit < 1 {
		limit = defaultLimit
	}

	return page, limit
}

func pagination(total, page, limit int) models.Pagination {
	return models.Pagination{
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: (total + limit - 1) / limit,
	}
}
