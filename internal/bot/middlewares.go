package bot

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	apperrors "github.com/Proton-105/creator-bot/internal/errors"
	"github.com/Proton-105/creator-bot/internal/repository"
	"github.com/Proton-105/creator-bot/pkg/logger"
	"github.com/Proton-105/creator-bot/pkg/metrics"
)

// NotifyFunc sends a plain message to a chat.
type NotifyFunc func(ctx context.Context, chatID int64, text string)

// RecoveryMiddleware turns a panic into a reported internal error and a
// message to the chat.
func RecoveryMiddleware(notify NotifyFunc, errHandler *apperrors.Handler, log *slog.Logger) Middleware {
	if log == nil {
		log = slog.Default()
	}

	return func(next Handler) Handler {
		return func(ctx context.Context, action Action) (err error) {
			defer func() {
				r := recover()
				if r == nil {
					return
				}

				log.Error("panic recovered in handler",
					slog.String("action", action.Name()),
					slog.Any("panic", r),
					slog.String("stack", string(debug.Stack())),
				)

				userMsg := apperrors.DefaultUserMessage
				if errHandler != nil {
					if msg, _ := errHandler.Handle(ctx, apperrors.NewInternalError(fmt.Errorf("panic: %v", r))); msg != "" {
						userMsg = msg
					}
				}
				if notify != nil {
					notify(ctx, action.Chat(), userMsg)
				}

				err = nil
			}()

			return next(ctx, action)
		}
	}
}

// ErrorHandlingMiddleware reports handler errors and tells the chat what went wrong.
func ErrorHandlingMiddleware(notify NotifyFunc, errHandler *apperrors.Handler) Middleware {
	return func(next Handler) Handler {
		return func(ctx context.Context, action Action) error {
			err := next(ctx, action)
			if err == nil {
				return nil
			}

			userMsg := apperrors.DefaultUserMessage
			if errHandler != nil {
				if msg, _ := errHandler.Handle(ctx, err); msg != "" {
					userMsg = msg
				}
			}
			if notify != nil {
				notify(ctx, action.Chat(), userMsg)
			}

			return nil
		}
	}
}

// LoggingMiddleware logs every action with its duration.
func LoggingMiddleware(log *slog.Logger) Middleware {
	if log == nil {
		log = slog.Default()
	}

	return func(next Handler) Handler {
		return func(ctx context.Context, action Action) error {
			start := time.Now()
			l := logger.FromContext(ctx, log).With(
				slog.Int64("chat_id", action.Chat()),
				slog.String("action", action.Name()),
			)

			l.Info("handling update")
			err := next(ctx, action)
			l.Info("handled update", slog.Duration("duration", time.Since(start)), slog.Any("error", err))

			return err
		}
	}
}

// MetricsMiddleware records per-action counters and latency.
func MetricsMiddleware() Middleware {
	return func(next Handler) Handler {
		return func(ctx context.Context, action Action) error {
			start := time.Now()
			err := next(ctx, action)

			status := "ok"
			if err != nil {
				status = "error"
			}
			metrics.RecordCommand(action.Name(), status, time.Since(start))

			return err
		}
	}
}

// KnownUserMiddleware appends the chat to the known users list the first
// time it shows up. Registration failures are logged and do not block the
// action.
func KnownUserMiddleware(repo *repository.ChatRepository, log *slog.Logger) Middleware {
	if log == nil {
		log = slog.Default()
	}

	return func(next Handler) Handler {
		return func(ctx context.Context, action Action) error {
			if repo != nil {
				added, err := repo.RegisterUser(ctx, action.Chat())
				switch {
				case err != nil:
					log.Warn("failed to register user", slog.Int64("chat_id", action.Chat()), slog.Any("error", err))
				case added:
					log.Info("registered new user", slog.Int64("chat_id", action.Chat()))
				}
			}

			return next(ctx, action)
		}
	}
}
