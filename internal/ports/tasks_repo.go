package ports

import (
	"context"
	"time"
)

// Task — authoritative record, owned by Postgres
type Task struct {
	ID          int64      `json:"id"`
	Description string     `json:"description"`
	Completed   bool       `json:"completed"`
	Priority    int        `json:"priority"`
	Category    string     `json:"category"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
	RemindAt    *time.Time `json:"remind_at,omitempty"`
	Recurring   bool       `json:"recurring"`
}

type TaskCreate struct {
	Description string     `json:"description"`
	Priority    int        `json:"priority"`
	Category    string     `json:"category"`
	RemindAt    *time.Time `json:"remind_at,omitempty"`
	Recurring   bool       `json:"recurring"`
}

// TaskUpdate — partial update, nil fields are left untouched
type TaskUpdate struct {
	Description *string    `json:"description,omitempty"`
	Completed   *bool      `json:"completed,omitempty"`
	Priority    *int       `json:"priority,omitempty"`
	Category    *string    `json:"category,omitempty"`
	RemindAt    *time.Time `json:"remind_at,omitempty"`
	Recurring   *bool      `json:"recurring,omitempty"`
}

// TaskSnapshot — immutable view of an open task, passed as LLM context
type TaskSnapshot struct {
	ID          int64  `json:"id"`
	Description string `json:"description"`
	Priority    int    `json:"priority"`
	Category    string `json:"category"`
}

type TaskRepo interface {
	Create(ctx context.Context, data TaskCreate) (Task, error)
	List(ctx context.Context, includeCompleted bool) ([]Task, error)
	Get(ctx context.Context, id int64) (*Task, error)
	Update(ctx context.Context, id int64, data TaskUpdate) (*Task, error)
	Delete(ctx context.Context, id int64) (bool, error)
	ClearCompleted(ctx context.Context) (int, error)
}
