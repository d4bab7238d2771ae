package models

import (
	"time"

	"github.com/google/uuid"
)

type TodoStatus string

const (
	TodoStatusActive TodoStatus = "active"
	TodoStatusTrash  TodoStatus = "trash"
)

type Todo struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	UserID    uuid.UUID  `json:"-" db:"user_id"`
	Title     string     `json:"title" db:"title"`
	Content   *string    `json:"content" db:"content"`
	StartDate *time.Time `json:"startDate" db:"start_date"`
	EndDate   time.Time  `json:"endDate" db:"end_date"`
	Status    TodoStatus `json:"status" db:"status"`
	CreatedAt time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time  `json:"updatedAt" db:"updated_at"`
	DeletedAt *time.Time `json:"deletedAt,omitempty" db:"deleted_at"`
}

type Pagination struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
}
