package bot

import (
	"context"
	"log/slog"

	telebot "gopkg.in/telebot.v3"

	"github.com/Proton-105/creator-bot/pkg/logger"
)

// UpdateHandler is satisfied by Dispatcher.
type UpdateHandler interface {
	Handle(ctx context.Context, update telebot.Update) error
}

// Processor is the entry point for queued updates: it acknowledges callback
// queries and then dispatches.
type Processor struct {
	handler  UpdateHandler
	answerer CallbackAnswerer
	log      *slog.Logger
}

// NewProcessor builds a Processor. answerer may be nil.
func NewProcessor(handler UpdateHandler, answerer CallbackAnswerer, log *slog.Logger) *Processor {
	if log == nil {
		log = slog.Default()
	}
	return &Processor{handler: handler, answerer: answerer, log: log}
}

// Process handles one update.
func (p *Processor) Process(ctx context.Context, update telebot.Update) error {
	ctx, id := logger.EnsureCorrelationID(ctx)

	if cb := update.Callback; cb != nil && cb.ID != "" && p.answerer != nil {
		if err := p.answerer.AnswerCallback(ctx, cb.ID); err != nil {
			p.log.Warn("failed to answer callback", slog.String("correlation_id", id), slog.Any("error", err))
		}
	}

	return p.handler.Handle(ctx, update)
}
