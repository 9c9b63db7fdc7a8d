package core

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTurnErrorMessages(t *testing.T) {
	assert.Equal(t, "configuration error: api key not set", NewConfigurationError("api key not set").Error())
	assert.Equal(t, "provider error (502): bad gateway", NewProviderError(502, "bad gateway").Error())
	assert.Equal(t, "timeout error: no answer", NewTimeoutError("no answer").Error())
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, FailureTimeout, KindOf(NewTimeoutError("slow")))
	assert.Equal(t, FailureProvider, KindOf(fmt.Errorf("wrapped: %w", NewProviderError(500, "boom"))))
	assert.Equal(t, FailureTransport, KindOf(errors.New("connection reset")), "untyped errors count as transport")
}

func TestSearchOutcomeEmpty(t *testing.T) {
	assert.True(t, SearchOutcome{}.Empty())
	assert.True(t, SearchOutcome{Degraded: true, Reason: "status 500"}.Empty())
	assert.False(t, SearchOutcome{Summary: "- a: b"}.Empty())
}
