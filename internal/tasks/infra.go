package tasks

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"github.com/Vovarama1992/voice_tasker/internal/ports"
)

type taskRepo struct {
	db *sql.DB
}

func NewTaskRepo(db *sql.DB) ports.TaskRepo {
	return &taskRepo{db: db}
}

const taskColumns = `id, description, completed, priority, category, created_at, updated_at, remind_at, recurring`

func scanTask(row interface{ Scan(...any) error }) (ports.Task, error) {
	var t ports.Task
	err := row.Scan(
		&t.ID,
		&t.Description,
		&t.Completed,
		&t.Priority,
		&t.Category,
		&t.CreatedAt,
		&t.UpdatedAt,
		&t.RemindAt,
		&t.Recurring,
	)
	return t, err
}

func (r *taskRepo) Create(ctx context.Context, data ports.TaskCreate) (ports.Task, error) {
	priority := data.Priority
	if priority < 1 || priority > 5 {
		priority = 3
	}
	category := data.Category
	if category == "" {
		category = "personal"
	}

	row := r.db.QueryRowContext(ctx, `
		INSERT INTO tasks (description, completed, priority, category, created_at, remind_at, recurring)
		VALUES ($1, false, $2, $3, $4, $5, $6)
		RETURNING `+taskColumns+`
	`, data.Description, priority, category, time.Now(), data.RemindAt, data.Recurring)

	return scanTask(row)
}

func (r *taskRepo) List(ctx context.Context, includeCompleted bool) ([]ports.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks`
	if !includeCompleted {
		query += ` WHERE completed = false`
	}
	query += ` ORDER BY priority DESC, created_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []ports.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (r *taskRepo) Get(ctx context.Context, id int64) (*ports.Task, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = $1`, id)
	t, err := scanTask(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *taskRepo) Update(ctx context.Context, id int64, data ports.TaskUpdate) (*ports.Task, error) {
	set := []string{}
	args := []any{}
	i := 1

	add := func(col string, val any) {
		set = append(set, fmt.Sprintf("%s = $%d", col, i))
		args = append(args, val)
		i++
	}

	if data.Description != nil {
		add("description", *data.Description)
	}
	if data.Completed != nil {
		add("completed", *data.Completed)
	}
	if data.Priority != nil {
		add("priority", *data.Priority)
	}
	if data.Category != nil {
		add("category", *data.Category)
	}
	if data.RemindAt != nil {
		add("remind_at", *data.RemindAt)
	}
	if data.Recurring != nil {
		add("recurring", *data.Recurring)
	}

	if len(set) == 0 {
		return r.Get(ctx, id)
	}

	add("updated_at", time.Now())
	args = append(args, id)

	query := fmt.Sprintf(
		`UPDATE tasks SET %s WHERE id = $%d RETURNING `+taskColumns,
		strings.Join(set, ", "), i,
	)

	row := r.db.QueryRowContext(ctx, query, args...)
	t, err := scanTask(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *taskRepo) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *taskRepo) ClearCompleted(ctx context.Context) (int, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE completed = true`)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}
