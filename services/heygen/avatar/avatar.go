package avatar

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultBaseURL = "https://api.heygen.com"

// Config holds the avatar streaming provider settings.
type Config struct {
	APIKey  string `json:"api_key"`
	BaseURL string `json:"base_url"`
}

// AvatarClient wraps the HeyGen streaming REST API. WebRTC negotiation and
// media stay in the browser; the server only brokers sessions and tasks.
type AvatarClient struct {
	config     Config
	httpClient *http.Client
}

// Session is the response from streaming.new. SDP and ICE payloads pass
// through untouched for the browser to consume.
type Session struct {
	SessionID  string          `json:"session_id"`
	SDP        json.RawMessage `json:"sdp,omitempty"`
	ICEServers json.RawMessage `json:"ice_servers2,omitempty"`
}

// SessionInfo is one entry in the streaming.list response.
type SessionInfo struct {
	SessionID string `json:"session_id"`
	Status    string `json:"status"`
	CreatedAt int64  `json:"created_at"`
}

func NewAvatarClient(config Config) *AvatarClient {
	if config.BaseURL == "" {
		config.BaseURL = defaultBaseURL
	}
	return &AvatarClient{
		config: config,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Configured reports whether an API key is present.
func (c *AvatarClient) Configured() bool {
	return c.config.APIKey != ""
}

// APIKey exposes the key for the browser-side WebRTC setup.
func (c *AvatarClient) APIKey() string {
	return c.config.APIKey
}

// NewSession opens a streaming session for the given avatar.
func (c *AvatarClient) NewSession(ctx context.Context, avatarName, quality string) (*Session, error) {
	payload := map[string]string{"quality": quality}
	if avatarName != "" {
		payload["avatar_name"] = avatarName
	}
	var out struct {
		Data Session `json:"data"`
	}
	if err := c.post(ctx, "/v1/streaming.new", payload, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

// StartSession confirms the browser's SDP answer for a session.
func (c *AvatarClient) StartSession(ctx context.Context, sessionID string, sdp json.RawMessage) error {
	payload := map[string]any{"session_id": sessionID, "sdp": sdp}
	return c.post(ctx, "/v1/streaming.start", payload, nil)
}

// SendTask forwards reply text to the avatar to be spoken.
func (c *AvatarClient) SendTask(ctx context.Context, sessionID, text string) error {
	payload := map[string]string{"session_id": sessionID, "text": text}
	return c.post(ctx, "/v1/streaming.task", payload, nil)
}

// StopSession terminates one streaming session.
func (c *AvatarClient) StopSession(ctx context.Context, sessionID string) error {
	payload := map[string]string{"session_id": sessionID}
	return c.post(ctx, "/v1/streaming.stop", payload, nil)
}

// ListSessions returns the currently active streaming sessions.
func (c *AvatarClient) ListSessions(ctx context.Context) ([]SessionInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.BaseURL+"/v1/streaming.list", nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("list sessions request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("list sessions: status %d: %s", resp.StatusCode, string(respBody))
	}

	var out struct {
		Data struct {
			Sessions []SessionInfo `json:"sessions"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode list response: %w", err)
	}
	return out.Data.Sessions, nil
}

// CleanupSessions stops every active streaming session and returns how many
// were stopped. Stuck sessions otherwise hold the account's concurrency slots.
func (c *AvatarClient) CleanupSessions(ctx context.Context) (int, error) {
	sessions, err := c.ListSessions(ctx)
	if err != nil {
		return 0, err
	}
	stopped := 0
	for _, session := range sessions {
		if session.SessionID == "" {
			continue
		}
		if err := c.StopSession(ctx, session.SessionID); err != nil {
			return stopped, err
		}
		stopped++
	}
	return stopped, nil
}

func (c *AvatarClient) post(ctx context.Context, path string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s request: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%s: status %d: %s", path, resp.StatusCode, string(respBody))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode %s response: %w", path, err)
		}
	}
	return nil
}

func (c *AvatarClient) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Api-Key", c.config.APIKey)
}
