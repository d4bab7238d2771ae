package services

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"TodoList/server/internal/db"
	"TodoList/server/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var todoColumns = []string{"id", "user_id", "title", "content", "start_date", "end_date", "status", "created_at", "updated_at", "deleted_at"}

type TodoListParams struct {
	Page      int
	Limit     int
	StartDate *time.Time
	EndDate   *time.Time
}

// TodoUpdate carries a partial update; nil fields are left unchanged.
type TodoUpdate struct {
	Title     *string
	Content   *string
	StartDate *time.Time
	EndDate   *time.Time
}

// TodoService persists todo items. Every operation is scoped to the owning
// user: rows belonging to somebody else are reported as models.ErrNotFound,
// indistinguishable from rows that do not exist.
type TodoService interface {
	CreateTodo(ctx context.Context, userID uuid.UUID, title string, content *string, startDate *time.Time, endDate time.Time) (*models.Todo, error)
	GetTodos(ctx context.Context, userID uuid.UUID, params TodoListParams) ([]models.Todo, int, error)
	GetTodoById(ctx context.Context, userID, id uuid.UUID) (*models.Todo, error)
	UpdateTodo(ctx context.Context, userID, id uuid.UUID, upd TodoUpdate) (*models.Todo, error)
	SoftDeleteTodo(ctx context.Context, userID, id uuid.UUID) (*models.Todo, error)
	GetTrashTodos(ctx context.Context, userID uuid.UUID, page, limit int) ([]models.Todo, int, error)
	RestoreTodo(ctx context.Context, userID, id uuid.UUID) (*models.Todo, error)
	PermanentlyDeleteTodo(ctx context.Context, userID, id uuid.UUID) error
}

type todoService struct {
	db db.Querier
}

func NewTodoService(q db.Querier) *todoService {
	return &todoService{db: q}
}

func (ts *todoService) CreateTodo(ctx context.Context, userID uuid.UUID, title string, content *string, startDate *time.Time, endDate time.Time) (*models.Todo, error) {
	query := psql.Insert("todos").
		Columns("user_id", "title", "content", "start_date", "end_date").
		Values(userID, title, content, startDate, endDate).
		Suffix("RETURNING " + strings.Join(todoColumns, ", "))

	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Printf("Failed to build SQL query: %v", err)
		return nil, err
	}

	todo, err := ts.scanTodo(ts.db.QueryRow(ctx, sqlStr, args...))
	if err != nil {
		log.Printf("Error creating todo: %v", err)
		return nil, err
	}

	log.Printf("Todo created: %s (user %s)", todo.ID, userID)
	return todo, nil
}

func (ts *todoService) GetTodos(ctx context.Context, userID uuid.UUID, params TodoListParams) ([]models.Todo, int, error) {
	listQuery := psql.Select(todoColumns...).
		From("todos").
		Where(squirrel.Eq{"user_id": userID, "status": models.TodoStatusActive})
	countQuery := psql.Select("COUNT(*)").
		From("todos").
		Where(squirrel.Eq{"user_id": userID, "status": models.TodoStatusActive})

	// Overlap semantics: a range filter matches every todo whose own range
	// touches the filter window, not only those contained in it.
	if params.StartDate != nil {
		listQuery = listQuery.Where(squirrel.GtOrEq{"end_date": *params.StartDate})
		countQuery = countQuery.Where(squirrel.GtOrEq{"end_date": *params.StartDate})
	}
	if params.EndDate != nil {
		listQuery = listQuery.Where(squirrel.LtOrEq{"start_date": *params.EndDate})
		countQuery = countQuery.Where(squirrel.LtOrEq{"start_date": *params.EndDate})
	}

	listQuery = listQuery.OrderBy("created_at DESC").
		Limit(uint64(params.Limit)).
		Offset(uint64((params.Page - 1) * params.Limit))

	total, err := ts.count(ctx, countQuery)
	if err != nil {
		return nil, 0, err
	}

	todos, err := ts.queryTodos(ctx, listQuery)
	if err != nil {
		return nil, 0, err
	}

	return todos, total, nil
}

func (ts *todoService) GetTodoById(ctx context.Context, userID, id uuid.UUID) (*models.Todo, error) {
	query := psql.Select(todoColumns...).
		From("todos").
		Where(squirrel.Eq{"id": id, "user_id": userID})

	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Printf("Failed to build SQL query: %v", err)
		return nil, err
	}

	todo, err := ts.scanTodo(ts.db.QueryRow(ctx, sqlStr, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		log.Printf("Error fetching todo %s: %v", id, err)
		return nil, err
	}

	return todo, nil
}

func (ts *todoService) UpdateTodo(ctx context.Context, userID, id uuid.UUID, upd TodoUpdate) (*models.Todo, error) {
	setClause := squirrel.Eq{}
	if upd.Title != nil {
		setClause["title"] = *upd.Title
	}
	if upd.Content != nil {
		setClause["content"] = *upd.Content
	}
	if upd.StartDate != nil {
		setClause["start_date"] = *upd.StartDate
	}
	if upd.EndDate != nil {
		setClause["end_date"] = *upd.EndDate
	}

	if len(setClause) == 0 {
		return nil, models.ErrNothingToUpdate
	}

	query := psql.Update("todos").
		SetMap(setClause).
		Set("updated_at", squirrel.Expr("now()")).
		Where("id = ? AND user_id = ?", id, userID).
		Suffix("RETURNING " + strings.Join(todoColumns, ", "))

	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Printf("Failed to build SQL query: %v", err)
		return nil, err
	}

	todo, err := ts.scanTodo(ts.db.QueryRow(ctx, sqlStr, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		log.Printf("Error updating todo %s: %v", id, err)
		return nil, err
	}

	return todo, nil
}

// SoftDeleteTodo moves an active todo to the trash. The status predicate
// makes the transition one-way: a trashed todo is "not found" here.
func (ts *todoService) SoftDeleteTodo(ctx context.Context, userID, id uuid.UUID) (*models.Todo, error) {
	query := psql.Update("todos").
		Set("status", models.TodoStatusTrash).
		Set("deleted_at", squirrel.Expr("now()")).
		Where("id = ? AND user_id = ? AND status = ?", id, userID, models.TodoStatusActive).
		Suffix("RETURNING " + strings.Join(todoColumns, ", "))

	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Printf("Failed to build SQL query: %v", err)
		return nil, err
	}

	todo, err := ts.scanTodo(ts.db.QueryRow(ctx, sqlStr, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		log.Printf("Error soft-deleting todo %s: %v", id, err)
		return nil, err
	}

	log.Printf("Todo moved to trash: %s", id)
	return todo, nil
}

func (ts *todoService) GetTrashTodos(ctx context.Context, userID uuid.UUID, page, limit int) ([]models.Todo, int, error) {
	listQuery := psql.Select(todoColumns...).
		From("todos").
		Where(squirrel.Eq{"user_id": userID, "status": models.TodoStatusTrash}).
		OrderBy("deleted_at DESC").
		Limit(uint64(limit)).
		Offset(uint64((page - 1) * limit))
	countQuery := psql.Select("COUNT(*)").
		From("todos").
		Where(squirrel.Eq{"user_id": userID, "status": models.TodoStatusTrash})

	total, err := ts.count(ctx, countQuery)
	if err != nil {
		return nil, 0, err
	}

	todos, err := ts.queryTodos(ctx, listQuery)
	if err != nil {
		return nil, 0, err
	}

	return todos, total, nil
}

func (ts *todoService) RestoreTodo(ctx context.Context, userID, id uuid.UUID) (*models.Todo, error) {
	query := psql.Update("todos").
		Set("status", models.TodoStatusActive).
		Set("deleted_at", nil).
		Set("updated_at", squirrel.Expr("now()")).
		Where("id = ? AND user_id = ? AND status = ?", id, userID, models.TodoStatusTrash).
		Suffix("RETURNING " + strings.Join(todoColumns, ", "))

	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Printf("Failed to build SQL query: %v", err)
		return nil, err
	}

	todo, err := ts.scanTodo(ts.db.QueryRow(ctx, sqlStr, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		log.Printf("Error restoring todo %s: %v", id, err)
		return nil, err
	}

	log.Printf("Todo restored: %s", id)
	return todo, nil
}

func (ts *todoService) PermanentlyDeleteTodo(ctx context.Context, userID, id uuid.UUID) error {
	query := psql.Delete("todos").
		Where("id = ? AND user_id = ? AND status = ?", id, userID, models.TodoStatusTrash)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Printf("Failed to build SQL query: %v", err)
		return err
	}

	tag, err := ts.db.Exec(ctx, sqlStr, args...)
	if err != nil {
		log.Printf("Error permanently deleting todo %s: %v", id, err)
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	log.Printf("Todo permanently deleted: %s", id)
	return nil
}

func (ts *todoService) count(ctx context.Context, query squirrel.SelectBuilder) (int, error) {
	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Printf("Failed to build SQL query: %v", err)
		return 0, err
	}

	var total int
	if err := ts.db.QueryRow(ctx, sqlStr, args...).Scan(&total); err != nil {
		log.Printf("Error counting todos: %v", err)
		return 0, err
	}
	return total, nil
}

func (ts *todoService) queryTodos(ctx context.Context, query squirrel.SelectBuilder) ([]models.Todo, error) {
	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Printf("Failed to build SQL query: %v", err)
		return nil, err
	}

	rows, err := ts.db.Query(ctx, sqlStr, args...)
	if err != nil {
		log.Printf("Error listing todos: %v", err)
		return nil, err
	}
	defer rows.Close()

	todos := make([]models.Todo, 0)
	for rows.Next() {
		var todo models.Todo
		if err := rows.Scan(&todo.ID, &todo.UserID, &todo.Title, &todo.Content, &todo.StartDate, &todo.EndDate, &todo.Status, &todo.CreatedAt, &todo.UpdatedAt, &todo.DeletedAt); err != nil {
			log.Printf("Error scanning todo row: %v", err)
			return nil, err
		}
		todos = append(todos, todo)
	}
	if err := rows.Err(); err != nil {
		log.Printf("Error iterating todo rows: %v", err)
		return nil, err
	}

	return todos, nil
}

func (ts *todoService) scanTodo(row pgx.Row) (*models.Todo, error) {
	var todo models.Todo
	err := row.Scan(&todo.ID, &todo.UserID, &todo.Title, &todo.Content, &todo.StartDate, &todo.EndDate, &todo.Status, &todo.CreatedAt, &todo.UpdatedAt, &todo.DeletedAt)
	if err != nil {
		return nil, err
	}
	return &todo, nil
}
