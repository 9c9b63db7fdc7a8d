package httpapi

import (
	"context"
	_ "embed"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/bytedance/sonic"

	"voicekit/core"
	"voicekit/factories"
	chathandler "voicekit/handlers/chat"
	"voicekit/handlers/conversation"
	ttshandler "voicekit/handlers/tts"
	heygenavatar "voicekit/services/heygen/avatar"
	"voicekit/utils/audio"
)

//go:embed web/index.html
var indexHTML []byte

// Config controls the HTTP listener.
type Config struct {
	Host string
	Port int
}

// Server exposes the voice-chat API: conversation turns, speech synthesis,
// session management, avatar brokering and a WebSocket turn-state stream.
type Server struct {
	config    Config
	chat      *chathandler.ChatHandler
	sessions  *conversation.SessionTable
	synthesis *ttshandler.TTSHandler
	avatar    *heygenavatar.AvatarClient
	caps      factories.Capabilities
	events    *eventHub
	logger    *core.Logger
}

func NewServer(
	config Config,
	chat *chathandler.ChatHandler,
	sessions *conversation.SessionTable,
	synthesis *ttshandler.TTSHandler,
	avatar *heygenavatar.AvatarClient,
	caps factories.Capabilities,
	logger *core.Logger,
) *Server {
	s := &Server{
		config:    config,
		chat:      chat,
		sessions:  sessions,
		synthesis: synthesis,
		avatar:    avatar,
		caps:      caps,
		events:    newEventHub(logger),
		logger:    logger,
	}
	chat.WithStateFunc(s.events.Notify)
	return s
}

// Routes builds the request multiplexer for the whole API surface.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("POST /api/chat", s.handleChat)
	mux.HandleFunc("POST /api/tts", s.handleTTS)
	mux.HandleFunc("POST /api/clear", s.handleClear)
	mux.HandleFunc("GET /api/status", s.handleStatus)
	mux.HandleFunc("POST /api/session", s.handleSession)
	mux.HandleFunc("GET /api/avatar/key", s.handleAvatarKey)
	mux.HandleFunc("POST /api/avatar/cleanup", s.handleAvatarCleanup)
	mux.HandleFunc("GET /api/events", s.events.handleWS)
	return mux
}

// ListenAndServe blocks until ctx is cancelled, then drains in-flight
// requests.
func (s *Server) ListenAndServe(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", s.config.Host, s.config.Port),
		Handler: s.Routes(),
	}

	errChan := make(chan error, 1)
	go func() {
		s.logger.With(map[string]any{"addr": httpServer.Addr}).Info("http server listening")
		errChan <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	}
}

type chatRequest struct {
	Message string `json:"message"`
	Session string `json:"session,omitempty"`
}

type chatResponse struct {
	Response string              `json:"response"`
	Sources  []core.SearchResult `json:"sources"`
}

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(indexHTML)
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if req.Message == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "message is required"})
		return
	}

	session := s.sessions.Get(req.Session)
	reply, err := s.chat.Respond(r.Context(), session, req.Message)
	if err != nil {
		// Turn failures are part of the conversation, not HTTP failures: the
		// UI renders them inline and the process stays available.
		writeJSON(w, http.StatusOK, errorResponse{Error: err.Error(), Kind: string(core.KindOf(err))})
		return
	}
	writeJSON(w, http.StatusOK, chatResponse{Response: reply.Response, Sources: reply.Sources})
}

type ttsRequest struct {
	Text   string  `json:"text"`
	Voice  string  `json:"voice,omitempty"`
	Speed  float64 `json:"speed,omitempty"`
	Format string  `json:"format,omitempty"` // "wav" (default) or "ulaw"
}

type ttsResponse struct {
	Audio  string `json:"audio"` // base64
	Format string `json:"format"`
}

func (s *Server) handleTTS(w http.ResponseWriter, r *http.Request) {
	var req ttsRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if s.synthesis == nil {
		writeJSON(w, http.StatusOK, errorResponse{Error: "speech synthesis not available"})
		return
	}

	// Speed is applied client-side via Audio.playbackRate, which preserves
	// pitch better than server-side resampling.
	wav, err := s.synthesis.Synthesize(r.Context(), req.Text, req.Voice)
	if err != nil {
		s.logger.With(map[string]any{"error": err}).Error("synthesis failed")
		writeJSON(w, http.StatusOK, errorResponse{Error: err.Error()})
		return
	}

	payload := wav
	format := "wav"
	if req.Format == "ulaw" {
		ulaw, _, err := audio.ToUlaw(wav)
		if err != nil {
			writeJSON(w, http.StatusOK, errorResponse{Error: fmt.Sprintf("ulaw transcode: %v", err)})
			return
		}
		payload = ulaw
		format = "ulaw"
	}

	writeJSON(w, http.StatusOK, ttsResponse{
		Audio:  base64.StdEncoding.EncodeToString(payload),
		Format: format,
	})
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session")
	if sessionID == "" {
		var req struct {
			Session string `json:"session"`
		}
		_ = decodeBody(r, &req)
		sessionID = req.Session
	}
	s.sessions.Get(sessionID).History.Clear()
	writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	session := s.sessions.Get(r.URL.Query().Get("session"))
	writeJSON(w, http.StatusOK, map[string]any{
		"completion_configured": s.caps.Completion,
		"search_configured":     s.caps.Search,
		"avatar_configured":     s.caps.Avatar,
		"synthesis_engines":     s.caps.Engines,
		"sessions":              s.sessions.Len(),
		"history_length":        session.History.Len(),
	})
}

func (s *Server) handleSession(w http.ResponseWriter, _ *http.Request) {
	session := s.sessions.Issue()
	writeJSON(w, http.StatusOK, map[string]string{"session": session.ID})
}

func (s *Server) handleAvatarKey(w http.ResponseWriter, _ *http.Request) {
	if s.avatar == nil || !s.avatar.Configured() {
		writeJSON(w, http.StatusOK, errorResponse{Error: "avatar provider not configured"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"api_key": s.avatar.APIKey()})
}

func (s *Server) handleAvatarCleanup(w http.ResponseWriter, r *http.Request) {
	if s.avatar == nil || !s.avatar.Configured() {
		writeJSON(w, http.StatusOK, errorResponse{Error: "avatar provider not configured"})
		return
	}
	stopped, err := s.avatar.CleanupSessions(r.Context())
	if err != nil {
		writeJSON(w, http.StatusOK, errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "stopped": stopped})
}

func decodeBody(r *http.Request, out any) error {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return err
	}
	if len(body) == 0 {
		return nil
	}
	return sonic.Unmarshal(body, out)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	data, err := sonic.Marshal(payload)
	if err != nil {
		http.Error(w, "encode response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}
