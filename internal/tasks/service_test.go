package tasks

import (
	"context"
	"errors"
	"testing"

	"github.com/Vovarama1992/voice_tasker/internal/ports"
)

type fakeRepo struct {
	tasks []ports.Task
	err   error
}

func (f *fakeRepo) Create(_ context.Context, data ports.TaskCreate) (ports.Task, error) {
	if f.err != nil {
		return ports.Task{}, f.err
	}
	task := ports.Task{ID: int64(len(f.tasks) + 1), Description: data.Description, Priority: data.Priority, Category: data.Category}
	f.tasks = append(f.tasks, task)
	return task, nil
}

func (f *fakeRepo) List(_ context.Context, includeCompleted bool) ([]ports.Task, error) {
	if f.err != nil {
		return nil, f.err
	}
	if includeCompleted {
		return f.tasks, nil
	}
	open := []ports.Task{}
	for _, task := range f.tasks {
		if !task.Completed {
			open = append(open, task)
		}
	}
	return open, nil
}

func (f *fakeRepo) Get(_ context.Context, id int64) (*ports.Task, error) {
	for i := range f.tasks {
		if f.tasks[i].ID == id {
			return &f.tasks[i], nil
		}
	}
	return nil, nil
}

func (f *fakeRepo) Update(ctx context.Context, id int64, data ports.TaskUpdate) (*ports.Task, error) {
	task, _ := f.Get(ctx, id)
	if task == nil {
		return nil, nil
	}
	if data.Completed != nil {
		task.Completed = *data.Completed
	}
	if data.Description != nil {
		task.Description = *data.Description
	}
	return task, nil
}

func (f *fakeRepo) Delete(_ context.Context, id int64) (bool, error) { return false, f.err }

func (f *fakeRepo) ClearCompleted(_ context.Context) (int, error) { return 0, f.err }

func TestServiceSnapshotExcludesCompleted(t *testing.T) {
	repo := &fakeRepo{tasks: []ports.Task{
		{ID: 1, Description: "open one", Priority: 3, Category: "personal"},
		{ID: 2, Description: "closed one", Completed: true},
	}}
	svc := NewService(repo)

	snap, err := svc.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if len(snap) != 1 {
		t.Fatalf("got %d entries, want 1", len(snap))
	}
	if snap[0].ID != 1 || snap[0].Description != "open one" || snap[0].Priority != 3 {
		t.Fatalf("snapshot entry = %+v", snap[0])
	}
}

func TestServiceCompleteSetsFlag(t *testing.T) {
	repo := &fakeRepo{tasks: []ports.Task{{ID: 5, Description: "groceries"}}}
	svc := NewService(repo)

	task, err := svc.Complete(context.Background(), 5)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if task == nil || !task.Completed {
		t.Fatalf("task = %+v", task)
	}
}

func TestServiceFindByDescription(t *testing.T) {
	repo := &fakeRepo{tasks: []ports.Task{
		{ID: 1, Description: "Buy groceries for the week"},
		{ID: 2, Description: "Call the dentist", Completed: true},
	}}
	svc := NewService(repo)

	match, err := svc.FindByDescription(context.Background(), "groceries")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if match == nil || match.ID != 1 {
		t.Fatalf("match = %+v", match)
	}

	match, err = svc.FindByDescription(context.Background(), "dentist")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if match != nil {
		t.Fatalf("matched completed task %d", match.ID)
	}
}

func TestServiceFindByDescriptionRepoError(t *testing.T) {
	svc := NewService(&fakeRepo{err: errors.New("db down")})

	if _, err := svc.FindByDescription(context.Background(), "anything"); err == nil {
		t.Fatal("expected repo error to propagate")
	}
}
