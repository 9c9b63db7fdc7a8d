package core

import (
	"errors"
	"fmt"
)

// FailureKind classifies why a conversation turn could not complete.
type FailureKind string

const (
	FailureConfiguration FailureKind = "configuration" // Required credential or endpoint absent; checked before any network call.
	FailureTimeout       FailureKind = "timeout"       // Provider exceeded its bounded wait.
	FailureProvider      FailureKind = "provider"      // Provider answered with a failure status.
	FailureTransport     FailureKind = "transport"     // Any other connectivity failure.
)

// TurnError is a typed failure returned by provider clients and the chat
// handler. None of these are retried internally; the caller converts them
// into a user-visible error payload. Status is set for provider failures only.
type TurnError struct {
	Kind    FailureKind
	Status  int
	Message string
}

func (e *TurnError) Error() string {
	if e.Kind == FailureProvider && e.Status != 0 {
		return fmt.Sprintf("%s error (%d): %s", e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("%s error: %s", e.Kind, e.Message)
}

func NewConfigurationError(msg string) *TurnError {
	return &TurnError{Kind: FailureConfiguration, Message: msg}
}

func NewTimeoutError(msg string) *TurnError {
	return &TurnError{Kind: FailureTimeout, Message: msg}
}

func NewProviderError(status int, msg string) *TurnError {
	return &TurnError{Kind: FailureProvider, Status: status, Message: msg}
}

func NewTransportError(msg string) *TurnError {
	return &TurnError{Kind: FailureTransport, Message: msg}
}

// KindOf extracts the failure kind from err. Untyped errors count as
// transport failures.
func KindOf(err error) FailureKind {
	var turnErr *TurnError
	if errors.As(err, &turnErr) {
		return turnErr.Kind
	}
	return FailureTransport
}
