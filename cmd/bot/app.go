package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/spf13/viper"
	telebot "gopkg.in/telebot.v3"

	_ "github.com/lib/pq"

	"github.com/Proton-105/creator-bot/internal/bot"
	"github.com/Proton-105/creator-bot/internal/database"
	apperrors "github.com/Proton-105/creator-bot/internal/errors"
	"github.com/Proton-105/creator-bot/internal/generator"
	"github.com/Proton-105/creator-bot/internal/health"
	"github.com/Proton-105/creator-bot/internal/i18n"
	"github.com/Proton-105/creator-bot/internal/imagegen"
	"github.com/Proton-105/creator-bot/internal/lifecycle"
	"github.com/Proton-105/creator-bot/internal/state"
	"github.com/Proton-105/creator-bot/internal/telegram"
	"github.com/Proton-105/creator-bot/internal/translate"
	"github.com/Proton-105/creator-bot/pkg/config"
	"github.com/Proton-105/creator-bot/pkg/logger"
	appredis "github.com/Proton-105/creator-bot/pkg/redis"
)

const sentryFlushTimeout = 2 * time.Second

// app holds what every subcommand needs: configuration, logging, the store
// and the shutdown sequence. Telegram and the generation collaborators are
// added by wireBot for commands that talk to users.
type app struct {
	cfg      *config.Config
	viper    *viper.Viper
	log      *logger.Logger
	shutdown *lifecycle.Shutdown
	health   *health.Checker
	store    state.Store

	telebot    *telebot.Bot
	gateway    *telegram.Gateway
	groq       *generator.Groq
	dispatcher *bot.Dispatcher
	processor  *bot.Processor
	drainer    *bot.Drainer
}

func loadConfig() (*config.Config, *viper.Viper, error) {
	if configPath != "" {
		return config.LoadFile(configPath)
	}
	return config.Load()
}

func newApp(ctx context.Context) (*app, error) {
	cfg, v, err := loadConfig()
	if err != nil {
		return nil, err
	}

	if cfg.Sentry.Enabled() {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.Sentry.DSN,
			Environment:      sentryEnvironment(cfg),
			TracesSampleRate: cfg.Sentry.TracesSampleRate,
		}); err != nil {
			return nil, fmt.Errorf("init sentry: %w", err)
		}
	}

	log, err := logger.New(cfg.Logger, logger.Options{Sentry: cfg.Sentry.Enabled()})
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	if v.ConfigFileUsed() != "" {
		log.WatchLevel(v)
	}
	slog.SetDefault(log.Logger)

	a := &app{
		cfg:      cfg,
		viper:    v,
		log:      log,
		shutdown: lifecycle.NewShutdown(log.Logger),
		health:   health.NewChecker(log.Logger, 5*time.Second),
	}

	// hooks run in reverse, so these two close last
	a.shutdown.Register("logger", func(context.Context) error {
		if cfg.Sentry.Enabled() {
			sentry.Flush(sentryFlushTimeout)
		}
		return log.Close()
	})

	store, err := a.openStore(ctx)
	if err != nil {
		a.close()
		return nil, err
	}
	a.store = store

	log.Info("creator bot initialized",
		slog.String("env", cfg.AppEnv),
		slog.String("store", cfg.Store.Driver),
		slog.String("queue", cfg.Queue.Mode),
		slog.String("log_level", cfg.Logger.Level),
	)

	return a, nil
}

func sentryEnvironment(cfg *config.Config) string {
	if cfg.Sentry.Environment != "" {
		return cfg.Sentry.Environment
	}
	return cfg.AppEnv
}

func (a *app) openStore(ctx context.Context) (state.Store, error) {
	log := a.log.Logger

	switch a.cfg.Store.Driver {
	case "redis":
		client, err := appredis.New(ctx, a.cfg.Redis)
		if err != nil {
			return nil, err
		}
		kv := appredis.NewMetricsClient(client)
		a.shutdown.Register("redis", lifecycle.Closer(kv))
		a.health.AddCheck("redis", health.NewPingChecker(kv))
		return state.NewRedisStorage(kv, log), nil

	case "buntdb":
		store, err := state.OpenBuntStorage(a.cfg.Bunt.Path, log)
		if err != nil {
			return nil, err
		}
		a.shutdown.Register("buntdb", lifecycle.Closer(store))
		a.health.AddCheck("buntdb", store)
		return store, nil

	case "postgres":
		db, err := sql.Open("postgres", a.cfg.Postgres.DSN())
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		a.shutdown.Register("postgres", lifecycle.Closer(db))

		if err := db.PingContext(ctx); err != nil {
			return nil, fmt.Errorf("ping postgres: %w", err)
		}
		if err := database.NewMigrator(db, log).ApplyDir(ctx, a.cfg.Postgres.MigrationsDir); err != nil {
			return nil, fmt.Errorf("apply migrations: %w", err)
		}
		a.health.AddCheck("postgres", health.NewDBChecker(db))
		return state.NewPostgresStorage(db, log), nil

	case "memory":
		log.Warn("using the in-memory store, state is lost on restart")
		return state.NewMemoryStorage(), nil

	default:
		return nil, fmt.Errorf("unknown store driver %q", a.cfg.Store.Driver)
	}
}

// wireBot connects Telegram and the generation collaborators.
func (a *app) wireBot() error {
	cfg := a.cfg
	log := a.log.Logger

	tb, err := telegram.NewBot(telegram.ClientConfig{
		Token:   cfg.Bot.Token,
		APIURL:  cfg.Bot.APIURL,
		Timeout: cfg.Bot.Timeout,
	})
	if err != nil {
		return err
	}
	a.telebot = tb
	a.gateway = telegram.NewGateway(tb, log)
	a.health.AddCheck("telegram", health.NewPingChecker(telegram.NewPinger(tb)))

	a.groq = generator.NewGroq(generator.Config{
		APIKey:  cfg.Groq.APIKey,
		BaseURL: cfg.Groq.BaseURL,
		Timeout: cfg.Groq.Timeout,
	}, log)
	a.health.AddCheck("groq", health.NewPingChecker(a.groq))

	texts, err := i18n.Load("en")
	if err != nil {
		return fmt.Errorf("load texts: %w", err)
	}
	log.Debug("texts loaded", slog.Any("languages", texts.Languages()))

	a.dispatcher = bot.NewDispatcher(bot.Deps{
		Messenger:    a.gateway,
		Content:      a.groq,
		Images:       imagegen.NewPollinations(cfg.Image.BaseURL, cfg.Image.Timeout, nil, log),
		Translate:    translate.NewLibreTranslate(cfg.Translate.URL, cfg.Translate.APIKey, cfg.Translate.Timeout, log),
		Store:        a.store,
		DefaultModel: cfg.Groq.DefaultModel,
		Texts:        texts.Translator(""),
		Errors:       apperrors.NewHandler(log, cfg.Sentry.Enabled()),
		Log:          log,
	})
	a.processor = bot.NewProcessor(a.dispatcher, a.gateway, log)
	a.drainer = bot.NewDrainer(a.dispatcher.Repository(), a.dispatcher, log)

	log.Info("bot wired", slog.Any("health_checks", a.health.Names()))
	return nil
}

// close runs the shutdown hooks with the configured timeout.
func (a *app) close() {
	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := a.shutdown.Execute(ctx); err != nil {
		a.log.Error("shutdown finished with errors", slog.Any("error", err))
	}
}
