// Package handlers contains the asynq task handlers run by the worker.
package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"
	telebot "gopkg.in/telebot.v3"

	"github.com/Proton-105/creator-bot/internal/jobs"
	"github.com/Proton-105/creator-bot/pkg/logger"
)

// UpdateProcessor is satisfied by bot.Processor.
type UpdateProcessor interface {
	Process(ctx context.Context, update telebot.Update) error
}

type ProcessUpdateHandler struct {
	processor UpdateProcessor
	log       *slog.Logger
}

func NewProcessUpdateHandler(processor UpdateProcessor, log *slog.Logger) *ProcessUpdateHandler {
	if log == nil {
		log = slog.Default()
	}
	return &ProcessUpdateHandler{processor: processor, log: log}
}

// ProcessTask decodes the queued update and dispatches it. A payload that
// does not decode is never retried.
func (h *ProcessUpdateHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload jobs.ProcessUpdatePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		h.log.ErrorContext(ctx, "process update: failed to decode payload", slog.String("task_type", t.Type()), slog.String("error", err.Error()))
		return fmt.Errorf("decode update payload: %v: %w", err, asynq.SkipRetry)
	}

	if payload.CorrelationID != "" {
		ctx = logger.WithCorrelationID(ctx, payload.CorrelationID)
	}

	h.log.DebugContext(ctx, "processing update",
		slog.String("task_type", t.Type()),
		slog.Int("update_id", payload.Update.ID),
		slog.String("correlation_id", payload.CorrelationID),
	)

	return h.processor.Process(ctx, payload.Update)
}
