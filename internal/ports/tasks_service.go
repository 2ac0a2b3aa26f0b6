package ports

import "context"

type TaskService interface {
	Create(ctx context.Context, data TaskCreate) (Task, error)
	List(ctx context.Context, includeCompleted bool) ([]Task, error)
	Get(ctx context.Context, id int64) (*Task, error)
	Update(ctx context.Context, id int64, data TaskUpdate) (*Task, error)
	Delete(ctx context.Context, id int64) (bool, error)
	Complete(ctx context.Context, id int64) (*Task, error)
	ClearCompleted(ctx context.Context) (int, error)

	// Snapshot — open tasks only, for the intent resolver context
	Snapshot(ctx context.Context) ([]TaskSnapshot, error)

	// FindByDescription — fuzzy match over open tasks, nil when nothing clears the threshold
	FindByDescription(ctx context.Context, identifier string) (*Task, error)
}
