package avatar

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSessionParsesData(t *testing.T) {
	var gotKey string
	var gotPayload map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/streaming.new", r.URL.Path)
		gotKey = r.Header.Get("X-Api-Key")
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &gotPayload))
		w.Write([]byte(`{"data":{"session_id":"sess-1","sdp":{"type":"offer"},"ice_servers2":[{"urls":["stun:stun.example.com"]}]}}`))
	}))
	defer server.Close()

	client := NewAvatarClient(Config{APIKey: "heygen-key", BaseURL: server.URL})
	session, err := client.NewSession(context.Background(), "josh_lite3_20230714", "high")
	require.NoError(t, err)

	assert.Equal(t, "heygen-key", gotKey)
	assert.Equal(t, "josh_lite3_20230714", gotPayload["avatar_name"])
	assert.Equal(t, "high", gotPayload["quality"])
	assert.Equal(t, "sess-1", session.SessionID)
	assert.JSONEq(t, `{"type":"offer"}`, string(session.SDP))
	assert.NotEmpty(t, session.ICEServers)
}

func TestCleanupSessionsStopsEveryActiveSession(t *testing.T) {
	var stopped []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/streaming.list":
			w.Write([]byte(`{"data":{"sessions":[{"session_id":"a","status":"connected"},{"session_id":"b","status":"new"}]}}`))
		case "/v1/streaming.stop":
			var payload map[string]string
			body, _ := io.ReadAll(r.Body)
			require.NoError(t, json.Unmarshal(body, &payload))
			stopped = append(stopped, payload["session_id"])
			w.Write([]byte(`{}`))
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	}))
	defer server.Close()

	client := NewAvatarClient(Config{APIKey: "heygen-key", BaseURL: server.URL})
	count, err := client.CleanupSessions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Equal(t, []string{"a", "b"}, stopped)
}

func TestPostSurfacesProviderStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"invalid api key"}`))
	}))
	defer server.Close()

	client := NewAvatarClient(Config{APIKey: "bad-key", BaseURL: server.URL})
	err := client.SendTask(context.Background(), "sess-1", "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
	assert.Contains(t, err.Error(), "invalid api key")
}

func TestConfigured(t *testing.T) {
	assert.False(t, NewAvatarClient(Config{}).Configured())
	assert.True(t, NewAvatarClient(Config{APIKey: "k"}).Configured())
}
