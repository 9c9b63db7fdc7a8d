package chat

import (
	"context"
	"time"

	"voicekit/core"
	"voicekit/handlers/conversation"
)

// CompletionService runs one chat completion over an assembled message list.
// Failures are reported as *core.TurnError values; they are never retried here.
type CompletionService interface {
	Complete(ctx context.Context, messages []core.Turn) (string, error)
	Configured() bool
}

// SearchService answers one web query. Implementations degrade to an empty
// outcome instead of returning errors; see core.SearchOutcome.
type SearchService interface {
	Search(ctx context.Context, query string, maxResults int) core.SearchOutcome
	Configured() bool
}

// StateFunc observes turn-state transitions for a session.
type StateFunc func(sessionID string, state core.TurnState)

// Reply is the successful outcome of one conversation turn. Sources is nil
// when the turn ran without search results.
type Reply struct {
	Response string
	Sources  []core.SearchResult
}

// ChatHandler drives one request through classification, optional search,
// prompt assembly and completion, maintaining the bounded per-session
// history. It is the only component that mutates History.
type ChatHandler struct {
	completion CompletionService
	search     SearchService
	config     ChatConfig
	logger     *core.Logger
	notify     StateFunc
}

func NewChatHandler(completion CompletionService, search SearchService, config ChatConfig, logger *core.Logger) *ChatHandler {
	defaults := DefaultConfig()
	if config.HistoryCap <= 0 {
		config.HistoryCap = defaults.HistoryCap
	}
	if config.SearchResultCount <= 0 {
		config.SearchResultCount = defaults.SearchResultCount
	}
	return &ChatHandler{
		completion: completion,
		search:     search,
		config:     config,
		logger:     logger,
	}
}

// WithStateFunc registers an observer for turn-state transitions.
func (h *ChatHandler) WithStateFunc(fn StateFunc) *ChatHandler {
	h.notify = fn
	return h
}

// Respond runs one conversation turn against the session. The session stays
// locked for the whole turn so concurrent requests cannot interleave their
// history mutations. On failure no assistant turn is appended; the user turn
// stays in the history as a record of what was asked.
func (h *ChatHandler) Respond(ctx context.Context, session *conversation.Session, message string) (Reply, error) {
	session.Lock()
	defer session.Unlock()
	defer h.setState(session.ID, core.TurnStateIdle)

	h.setState(session.ID, core.TurnStateReceived)
	if h.completion == nil || !h.completion.Configured() {
		h.setState(session.ID, core.TurnStateError)
		return Reply{}, core.NewConfigurationError("completion provider not configured")
	}

	var outcome core.SearchOutcome
	if NeedsSearch(message) && h.search != nil && h.search.Configured() {
		h.setState(session.ID, core.TurnStateSearching)
		outcome = h.search.Search(ctx, message, h.config.SearchResultCount)
		if outcome.Degraded {
			h.logger.With(map[string]any{"session": session.ID, "reason": outcome.Reason}).Warn("search degraded to empty results")
		} else {
			h.logger.With(map[string]any{"session": session.ID, "results": len(outcome.Results)}).Info("web search completed")
		}
	}

	session.History.Append(core.Turn{Role: core.RoleUser, Content: message})
	session.History.TrimTo(h.config.HistoryCap)

	h.setState(session.ID, core.TurnStateComposing)
	messages := buildMessages(h.now(), session.History.All(), outcome.Summary)

	h.setState(session.ID, core.TurnStateCompleting)
	answer, err := h.completion.Complete(ctx, messages)
	if err != nil {
		h.setState(session.ID, core.TurnStateError)
		h.logger.With(map[string]any{"session": session.ID, "kind": string(core.KindOf(err)), "error": err}).Error("completion failed")
		return Reply{}, err
	}

	session.History.Append(core.Turn{Role: core.RoleAssistant, Content: answer})
	session.History.TrimTo(h.config.HistoryCap)

	return Reply{Response: answer, Sources: outcome.Results}, nil
}

func (h *ChatHandler) setState(sessionID string, state core.TurnState) {
	if h.notify != nil {
		h.notify(sessionID, state)
	}
}

func (h *ChatHandler) now() time.Time {
	if h.config.Now != nil {
		return h.config.Now()
	}
	return time.Now()
}
