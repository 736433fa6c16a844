package jobs

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"
)

type Scheduler interface {
	RegisterTasks() error
	Run()
	Shutdown()
}

type scheduler struct {
	asynqScheduler *asynq.Scheduler
	cronSpec       string
	log            *slog.Logger
}

// NewScheduler builds a scheduler that enqueues a topic drain on cronSpec,
// e.g. "@every 1h" or "0 * * * *".
func NewScheduler(redisOpt asynq.RedisConnOpt, cronSpec string, log *slog.Logger) Scheduler {
	if log == nil {
		log = slog.Default()
	}

	return &scheduler{
		asynqScheduler: asynq.NewScheduler(redisOpt, nil),
		cronSpec:       cronSpec,
		log:            log,
	}
}

func (s *scheduler) RegisterTasks() error {
	entryID, err := s.asynqScheduler.Register(s.cronSpec, NewDrainTopicsTask())
	if err != nil {
		return fmt.Errorf("register drain task %q: %w", s.cronSpec, err)
	}

	s.log.InfoContext(context.Background(), "scheduler: registered topic drain task",
		slog.String("cron", s.cronSpec),
		slog.String("entry_id", entryID),
	)

	return nil
}

func (s *scheduler) Run() {
	s.log.InfoContext(context.Background(), "scheduler: starting")

	go func() {
		if err := s.asynqScheduler.Run(); err != nil {
			s.log.ErrorContext(context.Background(), "scheduler: run failed", "error", err)
		}
	}()
}

func (s *scheduler) Shutdown() {
	s.log.InfoContext(context.Background(), "scheduler: shutting down")

	s.asynqScheduler.Shutdown()
}
