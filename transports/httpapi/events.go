package httpapi

import (
	"net/http"
	"sync"

	"github.com/bytedance/sonic"
	"github.com/gorilla/websocket"

	"voicekit/core"
)

// eventHub streams turn-state transitions to WebSocket subscribers so the UI
// can mirror the orchestrator (listening, searching, thinking) live. A
// subscriber may filter on one session; an empty filter receives everything.
type eventHub struct {
	upgrader websocket.Upgrader
	logger   *core.Logger

	mu    sync.Mutex
	conns map[*websocket.Conn]string // conn -> session filter
}

type stateEvent struct {
	Session string `json:"session"`
	State   string `json:"state"`
}

func newEventHub(logger *core.Logger) *eventHub {
	return &eventHub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The UI is served from this same origin; demos also run it from file://.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		logger: logger,
		conns:  make(map[*websocket.Conn]string),
	}
}

func (h *eventHub) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.With(map[string]any{"error": err}).Warn("websocket upgrade failed")
		return
	}

	filter := r.URL.Query().Get("session")
	h.mu.Lock()
	h.conns[conn] = filter
	h.mu.Unlock()

	// Read loop only to observe the close; inbound messages are ignored.
	go func() {
		defer h.drop(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// Notify fans one state transition out to every matching subscriber. Dead
// connections are dropped on write failure.
func (h *eventHub) Notify(sessionID string, state core.TurnState) {
	payload, err := sonic.Marshal(stateEvent{Session: sessionID, State: string(state)})
	if err != nil {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for conn, filter := range h.conns {
		if filter != "" && filter != sessionID {
			continue
		}
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			conn.Close()
			delete(h.conns, conn)
		}
	}
}

func (h *eventHub) drop(conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.conns, conn)
	h.mu.Unlock()
	conn.Close()
}
