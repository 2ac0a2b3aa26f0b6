package delivery

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/Vovarama1992/voice_tasker/internal/ports"
)

type stubTaskService struct {
	tasks   []ports.Task
	cleared int
}

func (s *stubTaskService) Create(_ context.Context, data ports.TaskCreate) (ports.Task, error) {
	task := ports.Task{ID: int64(len(s.tasks) + 1), Description: data.Description, Priority: data.Priority}
	s.tasks = append(s.tasks, task)
	return task, nil
}

func (s *stubTaskService) List(_ context.Context, includeCompleted bool) ([]ports.Task, error) {
	if includeCompleted {
		return s.tasks, nil
	}
	open := []ports.Task{}
	for _, task := range s.tasks {
		if !task.Completed {
			open = append(open, task)
		}
	}
	return open, nil
}

func (s *stubTaskService) Get(_ context.Context, id int64) (*ports.Task, error) {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return &s.tasks[i], nil
		}
	}
	return nil, nil
}

func (s *stubTaskService) Update(ctx context.Context, id int64, data ports.TaskUpdate) (*ports.Task, error) {
	task, _ := s.Get(ctx, id)
	if task == nil {
		return nil, nil
	}
	if data.Description != nil {
		task.Description = *data.Description
	}
	if data.Completed != nil {
		task.Completed = *data.Completed
	}
	return task, nil
}

func (s *stubTaskService) Delete(_ context.Context, id int64) (bool, error) {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (s *stubTaskService) Complete(ctx context.Context, id int64) (*ports.Task, error) {
	completed := true
	return s.Update(ctx, id, ports.TaskUpdate{Completed: &completed})
}

func (s *stubTaskService) ClearCompleted(_ context.Context) (int, error) {
	kept := s.tasks[:0]
	n := 0
	for _, task := range s.tasks {
		if task.Completed {
			n++
			continue
		}
		kept = append(kept, task)
	}
	s.tasks = kept
	s.cleared = n
	return n, nil
}

func (s *stubTaskService) Snapshot(context.Context) ([]ports.TaskSnapshot, error) {
	return nil, nil
}

func (s *stubTaskService) FindByDescription(context.Context, string) (*ports.Task, error) {
	return nil, nil
}

func taskRouter(svc ports.TaskService) http.Handler {
	r := chi.NewRouter()
	h := NewTaskHandler(svc, nil)
	r.Post("/api/tasks/", h.Create)
	r.Get("/api/tasks/", h.List)
	r.Delete("/api/tasks/completed/clear", h.ClearCompleted)
	r.Get("/api/tasks/{id}", h.Get)
	r.Patch("/api/tasks/{id}", h.Update)
	r.Delete("/api/tasks/{id}", h.Delete)
	r.Post("/api/tasks/{id}/complete", h.Complete)
	return r
}

func TestTaskCreate(t *testing.T) {
	svc := &stubTaskService{}
	router := taskRouter(svc)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/tasks/", strings.NewReader(`{"description":"buy milk","priority":2}`))
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}

	var task ports.Task
	if err := json.NewDecoder(rec.Body).Decode(&task); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if task.Description != "buy milk" {
		t.Errorf("description = %q", task.Description)
	}
}

func TestTaskCreateMissingDescription(t *testing.T) {
	router := taskRouter(&stubTaskService{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/tasks/", strings.NewReader(`{}`))
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestTaskListFiltersCompleted(t *testing.T) {
	svc := &stubTaskService{tasks: []ports.Task{
		{ID: 1, Description: "open"},
		{ID: 2, Description: "closed", Completed: true},
	}}
	router := taskRouter(svc)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/tasks/", nil))

	var body struct {
		Tasks []ports.Task `json:"tasks"`
		Count int          `json:"count"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Count != 1 {
		t.Fatalf("count = %d, want open tasks only", body.Count)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/tasks/?include_completed=true", nil))
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Count != 2 {
		t.Fatalf("count = %d, want all tasks", body.Count)
	}
}

func TestTaskGetNotFound(t *testing.T) {
	router := taskRouter(&stubTaskService{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/tasks/42", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestTaskInvalidID(t *testing.T) {
	router := taskRouter(&stubTaskService{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/tasks/banana", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestTaskComplete(t *testing.T) {
	svc := &stubTaskService{tasks: []ports.Task{{ID: 3, Description: "report"}}}
	router := taskRouter(svc)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("POST", "/api/tasks/3/complete", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	if !svc.tasks[0].Completed {
		t.Fatal("task not completed")
	}
}

func TestTaskClearCompleted(t *testing.T) {
	svc := &stubTaskService{tasks: []ports.Task{
		{ID: 1, Description: "done", Completed: true},
		{ID: 2, Description: "open"},
	}}
	router := taskRouter(svc)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("DELETE", "/api/tasks/completed/clear", nil))

	var body struct {
		Cleared int `json:"cleared"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Cleared != 1 {
		t.Fatalf("cleared = %d, want 1", body.Cleared)
	}
}
