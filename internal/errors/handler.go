package errors

import (
	"context"
	"errors"
	"log/slog"

	"github.com/getsentry/sentry-go"

	"github.com/Proton-105/creator-bot/pkg/logger"
	"github.com/Proton-105/creator-bot/pkg/metrics"
)

// Handler logs errors, counts them and forwards severe ones to Sentry.
type Handler struct {
	log           *slog.Logger
	sentryEnabled bool
}

func NewHandler(log *slog.Logger, sentryEnabled bool) *Handler {
	if log == nil {
		log = slog.Default()
	}

	return &Handler{
		log:           log,
		sentryEnabled: sentryEnabled,
	}
}

// Handle returns the message to show the user and whether the failure is
// worth trying again.
func (h *Handler) Handle(ctx context.Context, err error) (string, bool) {
	if err == nil {
		return "", false
	}

	if ctx == nil {
		ctx = context.Background()
	}

	log := logger.FromContext(ctx, h.log)

	var appErr *AppError
	if !errors.As(err, &appErr) || appErr == nil {
		appErr = &AppError{
			Code:        CodeInternal,
			Message:     err.Error(),
			UserMessage: DefaultUserMessage,
			Severity:    SeverityHigh,
			cause:       err,
		}
	}

	level := slog.LevelError
	if appErr.Severity == SeverityLow {
		level = slog.LevelWarn
	}

	log.Log(ctx, level, "application error",
		slog.String("code", appErr.Code),
		slog.String("severity", string(appErr.Severity)),
		slog.Bool("retryable", appErr.Retryable),
		slog.Any("error", err),
	)
	metrics.RecordError(appErr.Code, string(appErr.Severity))

	if h.sentryEnabled && (appErr.Severity == SeverityCritical || appErr.Severity == SeverityHigh) {
		h.sendToSentry(ctx, appErr, err)
	}

	userMessage := appErr.UserMessage
	if userMessage == "" {
		userMessage = DefaultUserMessage
	}

	return userMessage, appErr.Retryable
}

func (h *Handler) sendToSentry(ctx context.Context, appErr *AppError, err error) {
	hub := sentry.GetHubFromContext(ctx)
	if hub == nil {
		hub = sentry.CurrentHub()
	}

	hub.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("code", appErr.Code)
		scope.SetTag("severity", string(appErr.Severity))
		if id := logger.CorrelationIDFromContext(ctx); id != "" {
			scope.SetTag("correlation_id", id)
		}
		hub.CaptureException(err)
	})
}
