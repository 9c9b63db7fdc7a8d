package conversation

import (
	"sync"

	"voicekit/core"
)

// History is a bounded, ordered log of conversation turns. Insertion order
// defines conversation chronology. The store itself is goroutine-safe, but
// multi-step turn mutations (append user, complete, append assistant) must be
// serialized at the session level; see Session.
type History struct {
	mu    sync.Mutex
	turns []core.Turn
}

func NewHistory() *History {
	return &History{}
}

// Append adds a turn at the end of the log.
func (h *History) Append(turn core.Turn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.turns = append(h.turns, turn)
}

// TrimTo drops the oldest turns until at most max remain. Survivors keep
// their original relative order.
func (h *History) TrimTo(max int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if max >= 0 && len(h.turns) > max {
		h.turns = append([]core.Turn(nil), h.turns[len(h.turns)-max:]...)
	}
}

// All returns a snapshot of the turns in insertion order.
func (h *History) All() []core.Turn {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]core.Turn, len(h.turns))
	copy(out, h.turns)
	return out
}

// Clear resets the log to its initial empty state.
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.turns = nil
}

// Len reports the number of stored turns.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.turns)
}
