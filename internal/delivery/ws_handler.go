package delivery

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Vovarama1992/voice_tasker/internal/ports"
)

// Hub держит все живые ws-подключения и рассылает обновления списка задач
type Hub struct {
	tasks    ports.TaskService
	upgrader websocket.Upgrader

	mu    sync.Mutex
	conns map[*websocket.Conn]bool
}

func NewHub(tasks ports.TaskService) *Hub {
	return &Hub{
		tasks: tasks,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		conns: map[*websocket.Conn]bool{},
	}
}

func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[ws] upgrade failed: %v", err)
		return
	}

	h.mu.Lock()
	h.conns[conn] = true
	h.mu.Unlock()

	go h.readLoop(conn)
}

func (h *Hub) readLoop(conn *websocket.Conn) {
	defer h.drop(conn)

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var msg struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(raw, &msg); err != nil {
			h.send(conn, map[string]any{"type": "error", "message": "invalid json"})
			continue
		}

		switch msg.Type {
		case "ping":
			h.send(conn, map[string]any{"type": "pong"})
		case "get_tasks":
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			h.send(conn, h.tasksUpdate(ctx))
			cancel()
		default:
			h.send(conn, map[string]any{"type": "error", "message": "unknown message type"})
		}
	}
}

// BroadcastTasks пушит актуальный список открытых задач всем подключениям
func (h *Hub) BroadcastTasks(ctx context.Context) {
	payload := h.tasksUpdate(ctx)

	h.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(h.conns))
	for c := range h.conns {
		conns = append(conns, c)
	}
	h.mu.Unlock()

	for _, c := range conns {
		h.send(c, payload)
	}
}

func (h *Hub) tasksUpdate(ctx context.Context) map[string]any {
	tasks, err := h.tasks.List(ctx, false)
	if err != nil {
		log.Printf("[ws] list tasks failed: %v", err)
		tasks = nil
	}
	if tasks == nil {
		tasks = []ports.Task{}
	}
	return map[string]any{"type": "tasks_update", "tasks": tasks}
}

// send сериализует и пишет под мьютексом: у gorilla один писатель на соединение
func (h *Hub) send(conn *websocket.Conn, payload any) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.conns[conn] {
		return
	}
	conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	if err := conn.WriteMessage(websocket.TextMessage, raw); err != nil {
		delete(h.conns, conn)
		conn.Close()
	}
}

func (h *Hub) drop(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.conns[conn] {
		delete(h.conns, conn)
		conn.Close()
	}
}
