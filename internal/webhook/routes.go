package webhook

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Proton-105/creator-bot/internal/health"
	"github.com/Proton-105/creator-bot/internal/middleware"
	"github.com/Proton-105/creator-bot/pkg/logger"
)

const (
	rootText     = "Bot is running! ✅"
	notFoundText = "Not Found."
)

// HealthReporter is satisfied by health.Checker.
type HealthReporter interface {
	Check(ctx context.Context) health.Report
}

// RouterConfig lists what NewRouter mounts. Health and metrics routes are
// only mounted when set.
type RouterConfig struct {
	WebhookPath string
	Webhook     http.Handler
	Health      HealthReporter
	Metrics     bool
	Log         *slog.Logger
}

// NewRouter builds the HTTP surface: webhook, root, health, metrics and a
// 404 fallback, wrapped in correlation id and request logging middleware.
func NewRouter(cfg RouterConfig) http.Handler {
	log := cfg.Log
	if log == nil {
		log = slog.Default()
	}

	mux := http.NewServeMux()

	if cfg.Webhook != nil {
		mux.Handle(cfg.WebhookPath, middleware.Metrics("webhook", cfg.Webhook))
	}

	if cfg.Health != nil {
		mux.Handle("/healthz", middleware.Metrics("healthz", healthHandler(cfg.Health, log)))
	}

	if cfg.Metrics {
		mux.Handle("/metrics", promhttp.Handler())
	}

	mux.Handle("/", middleware.Metrics("root", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.Error(w, notFoundText, http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte(rootText))
	})))

	return logger.Middleware(middleware.New(log)(mux))
}

func healthHandler(checker HealthReporter, log *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		report := checker.Check(r.Context())

		status := http.StatusOK
		if !report.Healthy() {
			status = http.StatusServiceUnavailable
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if err := json.NewEncoder(w).Encode(report); err != nil {
			log.Warn("failed to write health report", slog.Any("error", err))
		}
	})
}
