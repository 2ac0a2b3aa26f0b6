package delivery

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Vovarama1992/voice_tasker/internal/ports"
)

type TaskHandler struct {
	tasks ports.TaskService
	hub   *Hub
}

func NewTaskHandler(tasks ports.TaskService, hub *Hub) *TaskHandler {
	return &TaskHandler{tasks: tasks, hub: hub}
}

func (h *TaskHandler) taskID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil && id > 0
}

func (h *TaskHandler) broadcast(r *http.Request) {
	if h.hub != nil {
		h.hub.BroadcastTasks(r.Context())
	}
}

func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req ports.TaskCreate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.Description == "" {
		http.Error(w, "missing description", http.StatusBadRequest)
		return
	}

	task, err := h.tasks.Create(r.Context(), req)
	if err != nil {
		http.Error(w, "failed to create task", http.StatusInternalServerError)
		return
	}

	h.broadcast(r)
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(task)
}

func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	includeCompleted := r.URL.Query().Get("include_completed") == "true"

	tasks, err := h.tasks.List(r.Context(), includeCompleted)
	if err != nil {
		http.Error(w, "failed to list tasks", http.StatusInternalServerError)
		return
	}
	if tasks == nil {
		tasks = []ports.Task{}
	}

	_ = json.NewEncoder(w).Encode(map[string]any{"tasks": tasks, "count": len(tasks)})
}

func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.taskID(r)
	if !ok {
		http.Error(w, "invalid task id", http.StatusBadRequest)
		return
	}

	task, err := h.tasks.Get(r.Context(), id)
	if err != nil {
		http.Error(w, "failed to get task", http.StatusInternalServerError)
		return
	}
	if task == nil {
		http.Error(w, "task not found", http.StatusNotFound)
		return
	}

	_ = json.NewEncoder(w).Encode(task)
}

func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.taskID(r)
	if !ok {
		http.Error(w, "invalid task id", http.StatusBadRequest)
		return
	}

	var req ports.TaskUpdate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json: "+err.Error(), http.StatusBadRequest)
		return
	}

	task, err := h.tasks.Update(r.Context(), id, req)
	if err != nil {
		http.Error(w, "failed to update task", http.StatusInternalServerError)
		return
	}
	if task == nil {
		http.Error(w, "task not found", http.StatusNotFound)
		return
	}

	h.broadcast(r)
	_ = json.NewEncoder(w).Encode(task)
}

func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.taskID(r)
	if !ok {
		http.Error(w, "invalid task id", http.StatusBadRequest)
		return
	}

	deleted, err := h.tasks.Delete(r.Context(), id)
	if err != nil {
		http.Error(w, "failed to delete task", http.StatusInternalServerError)
		return
	}
	if !deleted {
		http.Error(w, "task not found", http.StatusNotFound)
		return
	}

	h.broadcast(r)
	_ = json.NewEncoder(w).Encode(map[string]any{"deleted": true})
}

func (h *TaskHandler) Complete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.taskID(r)
	if !ok {
		http.Error(w, "invalid task id", http.StatusBadRequest)
		return
	}

	task, err := h.tasks.Complete(r.Context(), id)
	if err != nil {
		http.Error(w, "failed to complete task", http.StatusInternalServerError)
		return
	}
	if task == nil {
		http.Error(w, "task not found", http.StatusNotFound)
		return
	}

	h.broadcast(r)
	_ = json.NewEncoder(w).Encode(task)
}

func (h *TaskHandler) ClearCompleted(w http.ResponseWriter, r *http.Request) {
	cleared, err := h.tasks.ClearCompleted(r.Context())
	if err != nil {
		http.Error(w, "failed to clear completed tasks", http.StatusInternalServerError)
		return
	}

	h.broadcast(r)
	_ = json.NewEncoder(w).Encode(map[string]any{"cleared": cleared})
}
