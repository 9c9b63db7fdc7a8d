package conversation

import (
	"sync"

	"github.com/google/uuid"
)

// DefaultSessionID names the session used when a request carries no token.
// It keeps the bare {message} request contract working for single-client
// deployments.
const DefaultSessionID = "default"

// Session pairs a history with a mutex that serializes whole turns, so two
// concurrent requests against the same conversation cannot interleave their
// append/trim steps or evict each other's pending user turn.
type Session struct {
	ID      string
	History *History
	mu      sync.Mutex
}

// Lock serializes one turn against this session.
func (s *Session) Lock() { s.mu.Lock() }

// Unlock releases the session after the turn has fully completed or failed.
func (s *Session) Unlock() { s.mu.Unlock() }

// SessionTable issues session tokens and resolves tokens to sessions. Each
// session's history is mutated only by requests carrying its token. Nothing
// is persisted across process restarts.
type SessionTable struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewSessionTable() *SessionTable {
	return &SessionTable{sessions: make(map[string]*Session)}
}

// Issue creates a fresh session under a random token and returns it.
func (t *SessionTable) Issue() *Session {
	session := &Session{ID: uuid.NewString(), History: NewHistory()}
	t.mu.Lock()
	t.sessions[session.ID] = session
	t.mu.Unlock()
	return session
}

// Get resolves a token to its session, creating it on first use. An empty
// token resolves to the shared default session.
func (t *SessionTable) Get(id string) *Session {
	if id == "" {
		id = DefaultSessionID
	}
	t.mu.RLock()
	session, ok := t.sessions[id]
	t.mu.RUnlock()
	if ok {
		return session
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if session, ok := t.sessions[id]; ok {
		return session
	}
	session = &Session{ID: id, History: NewHistory()}
	t.sessions[id] = session
	return session
}

// Len reports the number of live sessions.
func (t *SessionTable) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.sessions)
}
