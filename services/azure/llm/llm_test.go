package llm

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voicekit/core"
)

func newTestService(t *testing.T, handler http.HandlerFunc, timeout time.Duration) *AzureLLMService {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewAzureLLMService(Config{
		Endpoint:   server.URL,
		APIKey:     "test-key",
		Deployment: "gpt-4",
		Timeout:    timeout,
	}, core.NewNopLogger())
}

func TestCompleteReturnsFirstChoice(t *testing.T) {
	var gotPath, gotKey string
	service := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("Api-Key")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"Paris."}}]}`))
	}, 5*time.Second)

	answer, err := service.Complete(context.Background(), []core.Turn{
		{Role: core.RoleSystem, Content: "You are a helpful voice assistant."},
		{Role: core.RoleUser, Content: "capital of France?"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Paris.", answer)
	assert.Equal(t, "test-key", gotKey)
	assert.True(t, strings.Contains(gotPath, "deployments/gpt-4/"), "path=%q", gotPath)
}

func TestCompleteUnconfigured(t *testing.T) {
	service := NewAzureLLMService(Config{}, core.NewNopLogger())
	assert.False(t, service.Configured())

	_, err := service.Complete(context.Background(), []core.Turn{{Role: core.RoleUser, Content: "hi"}})
	require.Error(t, err)
	assert.Equal(t, core.FailureConfiguration, core.KindOf(err))
}

func TestCompleteProviderErrorCarriesStatus(t *testing.T) {
	service := newTestService(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":{"message":"backend exploded","type":"server_error"}}`))
	}, 5*time.Second)

	_, err := service.Complete(context.Background(), []core.Turn{{Role: core.RoleUser, Content: "hi"}})
	require.Error(t, err)
	assert.Equal(t, core.FailureProvider, core.KindOf(err))

	var turnErr *core.TurnError
	require.True(t, errors.As(err, &turnErr))
	assert.Equal(t, http.StatusInternalServerError, turnErr.Status)
}

func TestCompleteTimeout(t *testing.T) {
	service := newTestService(t, func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(300 * time.Millisecond)
		w.Write([]byte(`{"choices":[]}`))
	}, 50*time.Millisecond)

	_, err := service.Complete(context.Background(), []core.Turn{{Role: core.RoleUser, Content: "hi"}})
	require.Error(t, err)
	assert.Equal(t, core.FailureTimeout, core.KindOf(err))
}

func TestCompleteEmptyChoices(t *testing.T) {
	service := newTestService(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[]}`))
	}, 5*time.Second)

	_, err := service.Complete(context.Background(), []core.Turn{{Role: core.RoleUser, Content: "hi"}})
	require.Error(t, err)
	assert.Equal(t, core.FailureProvider, core.KindOf(err))
}
