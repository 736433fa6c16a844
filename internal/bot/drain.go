package bot

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/Proton-105/creator-bot/internal/repository"
	"github.com/Proton-105/creator-bot/pkg/metrics"
)

// TopicGenerator runs the generate flow for a chat. Implemented by Dispatcher.
type TopicGenerator interface {
	Generate(ctx context.Context, chatID int64, topic string)
}

// DrainReport summarises one pass over the scheduled topic queues.
type DrainReport struct {
	Users   int
	Drained int
	Empty   int
	Invalid int
	Failed  int
}

// Drainer pops one scheduled topic per known user and generates it.
type Drainer struct {
	repo *repository.ChatRepository
	gen  TopicGenerator
	log  *slog.Logger
}

// NewDrainer builds a drainer over repo feeding gen.
func NewDrainer(repo *repository.ChatRepository, gen TopicGenerator, log *slog.Logger) *Drainer {
	if log == nil {
		log = slog.Default()
	}
	return &Drainer{repo: repo, gen: gen, log: log}
}

// Drain runs one pass. The shortened queue is persisted before the topic is
// generated, so a failing generation does not requeue it. One user's failure
// does not stop the pass; only a failure to read the known users list or a
// cancelled ctx is returned.
func (d *Drainer) Drain(ctx context.Context) (DrainReport, error) {
	var report DrainReport

	users, err := d.repo.KnownUsers(ctx)
	if err != nil {
		return report, fmt.Errorf("drain scheduled topics: %w", err)
	}
	report.Users = len(users)

	for _, user := range users {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		chatID, err := strconv.ParseInt(user, 10, 64)
		if err != nil {
			report.Invalid++
			d.log.Warn("skipping invalid user id", slog.String("user", user), slog.Any("error", err))
			continue
		}

		topic, ok, err := d.repo.PopScheduledTopic(ctx, user)
		if err != nil {
			report.Failed++
			d.log.Error("failed to pop scheduled topic", slog.String("user", user), slog.Any("error", err))
			continue
		}
		if !ok {
			report.Empty++
			continue
		}

		metrics.RecordTopicDrained()
		d.log.Info("generating scheduled topic", slog.Int64("chat_id", chatID))
		if err := d.generate(ctx, chatID, topic); err != nil {
			report.Failed++
			d.log.Error("scheduled generation panicked", slog.Int64("chat_id", chatID), slog.Any("error", err))
			continue
		}
		report.Drained++
	}

	return report, nil
}

// generate turns a panic in the generate flow into an error so the other
// users of the pass are still served.
func (d *Drainer) generate(ctx context.Context, chatID int64, topic string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	d.gen.Generate(ctx, chatID, topic)
	return nil
}
