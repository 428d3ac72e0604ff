package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessage(t *testing.T) {
	err := &Error{Type: ErrorTypeServerError, Message: "server error", Code: 503}
	assert.Equal(t, "server_error error (code 503): server error", err.Error())

	wrapped := Wrap(ErrorTypePersistence, stderrors.New("disk full"), "failed to save snapshot")
	assert.Equal(t, "persistence error: failed to save snapshot: disk full", wrapped.Error())
}

func TestIsWalksChain(t *testing.T) {
	inner := New(ErrorTypeNotFound, "no snapshot for channel")
	outer := Wrap(ErrorTypePersistence, inner, "load failed")
	wrapped := fmt.Errorf("update: %w", outer)

	assert.True(t, Is(wrapped, ErrorTypePersistence))
	assert.True(t, Is(wrapped, ErrorTypeNotFound))
	assert.True(t, IsNotFound(wrapped))
	assert.False(t, Is(wrapped, ErrorTypeFetch))
	assert.Equal(t, ErrorTypePersistence, TypeOf(wrapped))
	assert.Equal(t, ErrorTypeUnknown, TypeOf(stderrors.New("plain")))
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		errorType ErrorType
		expected  bool
	}{
		{ErrorTypeNetwork, true},
		{ErrorTypeRateLimit, true},
		{ErrorTypeServerError, true},
		{ErrorTypeAuth, false},
		{ErrorTypeNotFound, false},
		{ErrorTypeParsing, false},
		{ErrorTypeNotify, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.errorType), func(t *testing.T) {
			assert.Equal(t, tt.expected, IsRetryable(tt.errorType))
		})
	}
}
