package webhook

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	telebot "gopkg.in/telebot.v3"

	"github.com/Proton-105/creator-bot/internal/jobs"
	"github.com/Proton-105/creator-bot/pkg/logger"
)

// ErrShutdownTimeout is returned by InlineEnqueuer.Wait when in-flight
// updates outlive the deadline. Their work is lost.
var ErrShutdownTimeout = errors.New("timed out waiting for in-flight updates")

// Enqueuer hands an update to background processing and returns at once.
type Enqueuer interface {
	Enqueue(ctx context.Context, update telebot.Update) error
}

// AsynqEnqueuer stores updates as update:process tasks in Redis so they
// survive a restart of the process that accepted them.
type AsynqEnqueuer struct {
	manager jobs.Manager
}

func NewAsynqEnqueuer(manager jobs.Manager) *AsynqEnqueuer {
	return &AsynqEnqueuer{manager: manager}
}

func (e *AsynqEnqueuer) Enqueue(ctx context.Context, update telebot.Update) error {
	task, err := jobs.NewProcessUpdateTask(update, logger.CorrelationIDFromContext(ctx))
	if err != nil {
		return err
	}

	if _, err := e.manager.Enqueue(ctx, task); err != nil {
		return fmt.Errorf("enqueue update %d: %w", update.ID, err)
	}
	return nil
}

// Processor is satisfied by bot.Processor.
type Processor interface {
	Process(ctx context.Context, update telebot.Update) error
}

// InlineEnqueuer runs each update on its own goroutine inside this process.
// Work still running when Wait gives up is lost.
type InlineEnqueuer struct {
	processor Processor
	base      context.Context
	wg        sync.WaitGroup
	log       *slog.Logger
}

// NewInlineEnqueuer processes updates with base as the parent context, so
// cancelling base cancels in-flight work. Request contexts are not used
// because they end when the webhook response is written.
func NewInlineEnqueuer(base context.Context, processor Processor, log *slog.Logger) *InlineEnqueuer {
	if log == nil {
		log = slog.Default()
	}
	return &InlineEnqueuer{processor: processor, base: base, log: log}
}

func (e *InlineEnqueuer) Enqueue(ctx context.Context, update telebot.Update) error {
	taskCtx := e.base
	if id := logger.CorrelationIDFromContext(ctx); id != "" {
		taskCtx = logger.WithCorrelationID(taskCtx, id)
	}

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()

		if err := e.processor.Process(taskCtx, update); err != nil {
			e.log.Error("failed to process update", slog.Int("update_id", update.ID), slog.Any("error", err))
		}
	}()

	return nil
}

// Wait blocks until every started update finished or timeout elapsed.
func (e *InlineEnqueuer) Wait(timeout time.Duration) error {
	done := make(chan struct{})
	go func() {
		e.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		return ErrShutdownTimeout
	}
}

var (
	_ Enqueuer = (*AsynqEnqueuer)(nil)
	_ Enqueuer = (*InlineEnqueuer)(nil)
)
