package services

import (
	"context"
	"errors"
	"log"

	"TodoList/server/internal/db"
	"TodoList/server/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

const uniqueViolation = "23505"

type UserService interface {
	CreateUser(ctx context.Context, email, passwordHash, username string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserById(ctx context.Context, id uuid.UUID) (*models.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
}

type userService struct {
	db db.Querier
}

func NewUserService(q db.Querier) *userService {
	return &userService{db: q}
}

func (us *userService) CreateUser(ctx context.Context, email, passwordHash, username string) (*models.User, error) {
	query := psql.Insert("users").
		Columns("email", "password_hash", "username").
		Values(email, passwordHash, username).
		Suffix("RETURNING id, email, username, created_at")

	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Printf("Failed to build SQL query: %v", err)
		return nil, err
	}

	user := models.User{PasswordHash: passwordHash}
	err = us.db.QueryRow(ctx, sqlStr, args...).Scan(&user.ID, &user.Email, &user.Username, &user.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, models.ErrEmailExists
		}
		log.Printf("Error creating user: %v", err)
		return nil, err
	}

	log.Printf("User created: %s (ID: %s)", user.Username, user.ID)
	return &user, nil
}

func (us *userService) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	query := psql.Select("id", "email", "password_hash", "username", "created_at").
		From("users").
		Where(squirrel.Eq{"email": email})

	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Printf("Failed to build SQL query: %v", err)
		return nil, err
	}

	var user models.User
	err = us.db.QueryRow(ctx, sqlStr, args...).Scan(&user.ID, &user.Email, &user.PasswordHash, &user.Username, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		log.Printf("Error fetching user by email: %v", err)
		return nil, err
	}

	return &user, nil
}

func (us *userService) GetUserById(ctx context.Context, id uuid.UUID) (*models.User, error) {
	query := psql.Select("id", "email", "password_hash", "username", "created_at").
		From("users").
		Where(squirrel.Eq{"id": id})

	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Printf("Failed to build SQL query: %v", err)
		return nil, err
	}

	var user models.User
	err = us.db.QueryRow(ctx, sqlStr, args...).Scan(&user.ID, &user.Email, &user.PasswordHash, &user.Username, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		log.Printf("Error fetching user by id: %v", err)
		return nil, err
	}

	return &user, nil
}

func (us *userService) EmailExists(ctx context.Context, email string) (bool, error) {
	query := psql.Select("COUNT(*)").
		From("users").
		Where(squirrel.Eq{"email": email})

	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Printf("Failed to build SQL query: %v", err)
		return false, err
	}

	var count int
	if err := us.db.QueryRow(ctx, sqlStr, args...).Scan(&count); err != nil {
		log.Printf("Error checking email existence: %v", err)
		return false, err
	}

	return count > 0, nil
}
