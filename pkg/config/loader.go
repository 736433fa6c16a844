// Package config loads and validates the bot configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	validator "github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Load reads .env files, ./configs/{APP_ENV}.yaml when present and environment
// overrides, then validates the result.
func Load() (*Config, *viper.Viper, error) {
	_ = godotenv.Load(".env.local", ".env")

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}

	return load(fmt.Sprintf("./configs/%s.yaml", env), env, true)
}

// LoadFile is Load with an explicit config file; the file must exist.
func LoadFile(path string) (*Config, *viper.Viper, error) {
	_ = godotenv.Load(".env.local", ".env")

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}

	return load(path, env, false)
}

func load(path, env string, optional bool) (*Config, *viper.Viper, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindLegacyEnv(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !optional || !(errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist)) {
			return nil, nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.AppEnv = env

	if err := Validate(&cfg); err != nil {
		return nil, nil, err
	}

	return &cfg, v, nil
}

// Validate runs struct validation plus rules that depend on the selected driver.
func Validate(cfg *Config) error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}

	if cfg.Store.Driver == "postgres" && cfg.Postgres.Name == "" {
		return errors.New("validate config: postgres.name is required for the postgres store")
	}
	if cfg.Store.Driver == "buntdb" && cfg.Bunt.Path == "" {
		return errors.New("validate config: bunt.path is required for the buntdb store")
	}
	if cfg.Scheduler.Enabled && cfg.Queue.Mode != "asynq" {
		return errors.New("validate config: scheduler.enabled requires queue.mode asynq")
	}

	return nil
}

// bindLegacyEnv maps the flat variable names used by deployment manifests.
func bindLegacyEnv(v *viper.Viper) {
	_ = v.BindEnv("bot.token", "BOT_TOKEN")
	_ = v.BindEnv("bot.webhook_secret", "WEBHOOK_SECRET", "BOT_WEBHOOK_SECRET")
	_ = v.BindEnv("groq.api_key", "GROQ_API_KEY")
	_ = v.BindEnv("translate.api_key", "LIBRETRANSLATE_API_KEY", "TRANSLATE_API_KEY")
	_ = v.BindEnv("sentry.dsn", "SENTRY_DSN")
	_ = v.BindEnv("redis.addr", "REDIS_ADDR")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("bot.token", "")
	v.SetDefault("bot.api_url", "https://api.telegram.org")
	v.SetDefault("bot.webhook_url", "")
	v.SetDefault("bot.webhook_secret", "")
	v.SetDefault("bot.timeout", 10*time.Second)

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.webhook_path", "/webhook")
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 10*time.Second)
	v.SetDefault("server.shutdown_timeout", 30*time.Second)

	v.SetDefault("store.driver", "redis")

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("redis.min_idle_conns", 2)
	v.SetDefault("redis.dial_timeout", 5*time.Second)
	v.SetDefault("redis.read_timeout", 3*time.Second)
	v.SetDefault("redis.idle_timeout", 5*time.Minute)
	v.SetDefault("redis.max_retries", 0)

	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.port", 5432)
	v.SetDefault("postgres.user", "")
	v.SetDefault("postgres.password", "")
	v.SetDefault("postgres.name", "")
	v.SetDefault("postgres.sslmode", "disable")
	v.SetDefault("postgres.migrations_dir", "")

	v.SetDefault("bunt.path", "data/creator-bot.db")

	v.SetDefault("queue.mode", "asynq")
	v.SetDefault("queue.concurrency", 10)

	v.SetDefault("scheduler.enabled", true)
	v.SetDefault("scheduler.cron", "@every 1h")

	v.SetDefault("groq.api_key", "")
	v.SetDefault("groq.base_url", "https://api.groq.com/openai/v1")
	v.SetDefault("groq.default_model", "llama3-8b-8192")
	v.SetDefault("groq.timeout", 60*time.Second)

	v.SetDefault("image.base_url", "https://image.pollinations.ai")
	v.SetDefault("image.timeout", 15*time.Second)

	v.SetDefault("translate.url", "https://libretranslate.com/translate")
	v.SetDefault("translate.api_key", "")
	v.SetDefault("translate.timeout", 15*time.Second)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "json")
	v.SetDefault("logger.file", "")
	v.SetDefault("logger.max_size_mb", 100)
	v.SetDefault("logger.max_backups", 5)
	v.SetDefault("logger.max_age_days", 28)

	v.SetDefault("sentry.dsn", "")
	v.SetDefault("sentry.environment", "")
	v.SetDefault("sentry.traces_sample_rate", 0.0)

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.poll_interval", time.Minute)
}
