package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/hibiken/asynq"
	"github.com/spf13/cobra"

	"github.com/Proton-105/creator-bot/internal/jobs"
	"github.com/Proton-105/creator-bot/internal/jobs/handlers"
	"github.com/Proton-105/creator-bot/internal/lifecycle"
	"github.com/Proton-105/creator-bot/internal/telegram"
	"github.com/Proton-105/creator-bot/internal/webhook"
	"github.com/Proton-105/creator-bot/pkg/config"
	"github.com/Proton-105/creator-bot/pkg/graceful"
	"github.com/Proton-105/creator-bot/pkg/metrics"
)

func newServeCMD() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the webhook server, update worker and topic scheduler",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.wireBot(); err != nil {
				return err
			}

			return serve(ctx, a)
		},
	}
}

func redisConnOpt(cfg *config.Config) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}
}

func serve(ctx context.Context, a *app) error {
	cfg := a.cfg
	log := a.log.Logger

	enqueuer, err := startQueue(ctx, a)
	if err != nil {
		return err
	}

	if cfg.Bot.WebhookURL != "" {
		if err := telegram.SetWebhook(a.telebot, cfg.Bot.WebhookURL, cfg.Bot.WebhookSecret); err != nil {
			return err
		}
		log.Info("webhook registered", slog.String("url", cfg.Bot.WebhookURL))
	}

	if cfg.Metrics.Enabled {
		go metrics.NewUsersCollector(a.dispatcher.Repository(), cfg.Metrics.PollInterval, log).Run(ctx)
	}

	router := webhook.NewRouter(webhook.RouterConfig{
		WebhookPath: cfg.Server.WebhookPath,
		Webhook:     webhook.NewHandler(cfg.Bot.WebhookSecret, enqueuer, log),
		Health:      a.health,
		Metrics:     cfg.Metrics.Enabled,
		Log:         log,
	})

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	return graceful.NewServer(log, srv, cfg.Server.ShutdownTimeout).ListenAndServe(ctx)
}

// startQueue starts background processing for the configured queue mode and
// returns the enqueuer the webhook hands updates to.
func startQueue(ctx context.Context, a *app) (webhook.Enqueuer, error) {
	cfg := a.cfg
	log := a.log.Logger

	switch cfg.Queue.Mode {
	case "asynq":
		redisOpt := redisConnOpt(cfg)

		manager := jobs.NewManager(redisOpt, log)
		a.shutdown.Register("asynq client", lifecycle.Closer(manager))

		worker := jobs.NewWorker(redisOpt, cfg.Queue.Concurrency, jobs.Queues, log)
		worker.RegisterHandler(jobs.TaskTypeProcessUpdate, handlers.NewProcessUpdateHandler(a.processor, log))
		worker.RegisterHandler(jobs.TaskTypeDrainTopics, handlers.NewDrainTopicsHandler(a.drainer, log))
		if err := worker.Start(); err != nil {
			return nil, fmt.Errorf("start worker: %w", err)
		}
		a.shutdown.Register("asynq worker", lifecycle.Func(worker.Shutdown))

		if cfg.Scheduler.Enabled {
			scheduler := jobs.NewScheduler(redisOpt, cfg.Scheduler.Cron, log)
			if err := scheduler.RegisterTasks(); err != nil {
				return nil, err
			}
			scheduler.Run()
			a.shutdown.Register("asynq scheduler", lifecycle.Func(scheduler.Shutdown))
		}

		return webhook.NewAsynqEnqueuer(manager), nil

	case "inline":
		inline := webhook.NewInlineEnqueuer(context.WithoutCancel(ctx), a.processor, log)
		a.shutdown.Register("inline updates", func(context.Context) error {
			return inline.Wait(cfg.Server.ShutdownTimeout)
		})
		return inline, nil

	default:
		return nil, fmt.Errorf("unknown queue mode %q", cfg.Queue.Mode)
	}
}
