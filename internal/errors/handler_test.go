package errors

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Proton-105/creator-bot/pkg/logger"
)

func TestHandler_Handle(t *testing.T) {
	storeDown := stderrors.New("connection refused")

	testCases := []struct {
		name          string
		err           error
		wantMessage   string
		wantRetryable bool
		wantLog       string
	}{
		{
			name:          "storage error",
			err:           NewStorageError("add channel", storeDown),
			wantMessage:   "I could not access my storage right now. Please try again later.",
			wantRetryable: true,
			wantLog:       "code=E200",
		},
		{
			name:        "validation error keeps user text",
			err:         NewValidationError("bad channel", "Invalid channel format."),
			wantMessage: "Invalid channel format.",
			wantLog:     "code=E100",
		},
		{
			name:        "plain error",
			err:         storeDown,
			wantMessage: DefaultUserMessage,
			wantLog:     "code=E900",
		},
		{
			name:          "wrapped app error",
			err:           fmt.Errorf("handle update: %w", NewExternalAPIError("groq", storeDown)),
			wantMessage:   "An external service is unavailable right now. Please try again later.",
			wantRetryable: true,
			wantLog:       "code=E300",
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			h := NewHandler(slog.New(slog.NewTextHandler(&buf, nil)), false)

			ctx := logger.WithCorrelationID(context.Background(), "corr-1")
			msg, retryable := h.Handle(ctx, tc.err)

			assert.Equal(t, tc.wantMessage, msg)
			assert.Equal(t, tc.wantRetryable, retryable)
			assert.Contains(t, buf.String(), tc.wantLog)
			assert.Contains(t, buf.String(), "correlation_id=corr-1")
		})
	}
}

func TestHandler_NilError(t *testing.T) {
	msg, retryable := NewHandler(nil, false).Handle(context.Background(), nil)
	assert.Empty(t, msg)
	assert.False(t, retryable)
}

func TestAppError_Unwrap(t *testing.T) {
	cause := stderrors.New("boom")
	err := NewStorageError("pop topic", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "storage error during pop topic: boom", err.Error())
}

func TestHandler_LogLevelFollowsSeverity(t *testing.T) {
	testCases := []struct {
		name      string
		err       error
		wantLevel string
	}{
		{name: "validation", err: NewValidationError("bad channel", "Invalid channel format."), wantLevel: "level=WARN"},
		{name: "state", err: NewStateError("unexpected flag"), wantLevel: "level=ERROR"},
		{name: "storage", err: NewStorageError("get model", stderrors.New("down")), wantLevel: "level=ERROR"},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			NewHandler(slog.New(slog.NewTextHandler(&buf, nil)), false).Handle(context.Background(), tc.err)

			assert.Contains(t, buf.String(), tc.wantLevel)
		})
	}
}

func TestAppError_WithUserMessage(t *testing.T) {
	cause := stderrors.New("503")
	err := NewExternalAPIError("libretranslate", cause).WithUserMessage("Translation failed.")

	msg, retryable := NewHandler(nil, false).Handle(context.Background(), err)
	assert.Equal(t, "Translation failed.", msg)
	assert.True(t, retryable)
	assert.ErrorIs(t, err, cause)
}
