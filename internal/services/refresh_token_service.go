package services

import (
	"context"
	"errors"
	"log"
	"time"

	"TodoList/server/internal/db"
	"TodoList/server/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// RefreshTokenService is the server-side revocation list for refresh tokens:
// a refresh token is honored only while its row exists.
type RefreshTokenService interface {
	Create(ctx context.Context, userID uuid.UUID, token string, expiresAt time.Time) error
	GetByToken(ctx context.Context, token string) (*models.RefreshToken, error)
	DeleteById(ctx context.Context, id uuid.UUID) error
	DeleteByUserId(ctx context.Context, userID uuid.UUID) error
}

type refreshTokenService struct {
	db db.Querier
}

func NewRefreshTokenService(q db.Querier) *refreshTokenService {
	return &refreshTokenService{db: q}
}

func (rs *refreshTokenService) Create(ctx context.Context, userID uuid.UUID, token string, expiresAt time.Time) error {
	query := psql.Insert("refresh_tokens").
		Columns("user_id", "token", "expires_at").
		Values(userID, token, expiresAt)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Printf("Failed to build SQL query: %v", err)
		return err
	}

	if _, err := rs.db.Exec(ctx, sqlStr, args...); err != nil {
		log.Printf("Error storing refresh token: %v", err)
		return err
	}
	return nil
}

func (rs *refreshTokenService) GetByToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	query := psql.Select("id", "user_id", "token", "expires_at", "created_at").
		From("refresh_tokens").
		Where(squirrel.Eq{"token": token})

	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Printf("Failed to build SQL query: %v", err)
		return nil, err
	}

	var rt models.RefreshToken
	err = rs.db.QueryRow(ctx, sqlStr, args...).Scan(&rt.ID, &rt.UserID, &rt.Token, &rt.ExpiresAt, &rt.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		log.Printf("Error fetching refresh token: %v", err)
		return nil, err
	}

	return &rt, nil
}

func (rs *refreshTokenService) DeleteById(ctx context.Context, id uuid.UUID) error {
	query := psql.Delete("refresh_tokens").Where(squirrel.Eq{"id": id})

	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Printf("Failed to build SQL query: %v", err)
		return err
	}

	if _, err := rs.db.Exec(ctx, sqlStr, args...); err != nil {
		log.Printf("Error deleting refresh token %s: %v", id, err)
		return err
	}
	return nil
}

// DeleteByUserId removes every refresh token a user owns, ending all of
// their sessions at once.
func (rs *refreshTokenService) DeleteByUserId(ctx context.Context, userID uuid.UUID) error {
	query := psql.Delete("refresh_tokens").Where(squirrel.Eq{"user_id": userID})

	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Printf("Failed to build SQL query: %v", err)
		return err
	}

	if _, err := rs.db.Exec(ctx, sqlStr, args...); err != nil {
		log.Printf("Error deleting refresh tokens for user %s: %v", userID, err)
		return err
	}
	return nil
}
