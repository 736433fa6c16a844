package handlers

import (
	"context"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/Proton-105/creator-bot/internal/bot"
)

// TopicDrainer is satisfied by bot.Drainer.
type TopicDrainer interface {
	Drain(ctx context.Context) (bot.DrainReport, error)
}

type DrainTopicsHandler struct {
	drainer TopicDrainer
	log     *slog.Logger
}

func NewDrainTopicsHandler(drainer TopicDrainer, log *slog.Logger) *DrainTopicsHandler {
	if log == nil {
		log = slog.Default()
	}
	return &DrainTopicsHandler{drainer: drainer, log: log}
}

func (h *DrainTopicsHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	start := time.Now()

	report, err := h.drainer.Drain(ctx)
	if err != nil {
		h.log.ErrorContext(ctx, "drain topics failed", slog.String("task_type", t.Type()), slog.Any("error", err))
		return err
	}

	h.log.InfoContext(ctx, "drained scheduled topics",
		slog.Int("users", report.Users),
		slog.Int("drained", report.Drained),
		slog.Int("empty", report.Empty),
		slog.Int("invalid", report.Invalid),
		slog.Int("failed", report.Failed),
		slog.Duration("duration", time.Since(start)),
	)

	return nil
}
