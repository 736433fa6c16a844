package config

import (
	"fmt"
	"time"

	"github.com/Proton-105/creator-bot/pkg/redis"
)

// Config holds runtime configuration for the creator bot.
type Config struct {
	AppEnv string `mapstructure:"app_env"`

	Bot       BotConfig       `mapstructure:"bot"`
	Server    ServerConfig    `mapstructure:"server"`
	Store     StoreConfig     `mapstructure:"store"`
	Redis     redis.Config    `mapstructure:"redis"`
	Postgres  PostgresConfig  `mapstructure:"postgres"`
	Bunt      BuntConfig      `mapstructure:"bunt"`
	Queue     QueueConfig     `mapstructure:"queue"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Groq      GroqConfig      `mapstructure:"groq"`
	Image     ImageConfig     `mapstructure:"image"`
	Translate TranslateConfig `mapstructure:"translate"`
	Logger    LoggerConfig    `mapstructure:"logger"`
	Sentry    SentryConfig    `mapstructure:"sentry"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
}

// BotConfig configures the Telegram side.
type BotConfig struct {
	Token         string        `mapstructure:"token" validate:"required"`
	APIURL        string        `mapstructure:"api_url" validate:"omitempty,url"`
	WebhookURL    string        `mapstructure:"webhook_url" validate:"omitempty,url"`
	WebhookSecret string        `mapstructure:"webhook_secret"`
	Timeout       time.Duration `mapstructure:"timeout"`
}

// ServerConfig configures the inbound HTTP server.
type ServerConfig struct {
	Addr            string        `mapstructure:"addr" validate:"required"`
	WebhookPath     string        `mapstructure:"webhook_path" validate:"required,startswith=/"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// StoreConfig selects the key-value backend.
type StoreConfig struct {
	Driver string `mapstructure:"driver" validate:"oneof=redis buntdb postgres memory"`
}

// PostgresConfig describes the postgres store connection.
type PostgresConfig struct {
	Host          string `mapstructure:"host"`
	Port          int    `mapstructure:"port"`
	User          string `mapstructure:"user"`
	Password      string `mapstructure:"password"`
	Name          string `mapstructure:"name"`
	SSLMode       string `mapstructure:"sslmode"`
	MigrationsDir string `mapstructure:"migrations_dir"`
}

// DSN returns the lib/pq connection string.
func (c PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host,
		c.Port,
		c.User,
		c.Password,
		c.Name,
		c.SSLMode,
	)
}

// BuntConfig points at the buntdb file; ":memory:" keeps it in RAM.
type BuntConfig struct {
	Path string `mapstructure:"path"`
}

// QueueConfig selects how webhook updates are handed off.
type QueueConfig struct {
	Mode        string `mapstructure:"mode" validate:"oneof=asynq inline"`
	Concurrency int    `mapstructure:"concurrency" validate:"gte=1"`
}

// SchedulerConfig configures the periodic topic drain.
type SchedulerConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Cron    string `mapstructure:"cron" validate:"required_if=Enabled true"`
}

// GroqConfig configures the content generator.
type GroqConfig struct {
	APIKey       string        `mapstructure:"api_key" validate:"required"`
	BaseURL      string        `mapstructure:"base_url" validate:"required,url"`
	DefaultModel string        `mapstructure:"default_model" validate:"required"`
	Timeout      time.Duration `mapstructure:"timeout"`
}

// ImageConfig configures the image generator.
type ImageConfig struct {
	BaseURL string        `mapstructure:"base_url" validate:"required,url"`
	Timeout time.Duration `mapstructure:"timeout" validate:"gt=0"`
}

// TranslateConfig configures the /translate command backend.
type TranslateConfig struct {
	URL     string        `mapstructure:"url" validate:"required,url"`
	APIKey  string        `mapstructure:"api_key"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// LoggerConfig controls slog output.
type LoggerConfig struct {
	Level      string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format     string `mapstructure:"format" validate:"oneof=json text"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

// SentryConfig enables error reporting to Sentry.
type SentryConfig struct {
	DSN              string  `mapstructure:"dsn"`
	Environment      string  `mapstructure:"environment"`
	TracesSampleRate float64 `mapstructure:"traces_sample_rate" validate:"gte=0,lte=1"`
}

// Enabled reports whether a DSN was configured.
func (c SentryConfig) Enabled() bool {
	return c.DSN != ""
}

// MetricsConfig controls the /metrics route and known-users polling.
type MetricsConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	PollInterval time.Duration `mapstructure:"poll_interval"`
}
