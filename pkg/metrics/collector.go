// Package metrics owns the Prometheus collectors shared across the bot.
package metrics

import (
	"context"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/Proton-105/creator-bot/internal/state"
)

var (
	botCommandsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_commands_total",
			Help: "Dispatched updates labeled by action and status.",
		},
		[]string{"command", "status"},
	)
	commandDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "command_duration_seconds",
			Help:    "Time spent handling one update, by action.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"command"},
	)
	stateTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "state_transitions_total",
			Help: "Conversation flag transitions.",
		},
		[]string{"from", "to"},
	)
	errorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "errors_total",
			Help: "Handled errors split by code and severity.",
		},
		[]string{"type", "severity"},
	)
	knownUsers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "known_users",
			Help: "Size of the known users list.",
		},
	)
	generationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "generations_total",
			Help: "Generate flow stage outcomes.",
		},
		[]string{"stage", "result"},
	)
	scheduledTopicsDrained = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "scheduled_topics_drained_total",
			Help: "Topics popped from scheduled queues.",
		},
	)
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Inbound HTTP requests by route and status code.",
		},
		[]string{"route", "code"},
	)
)

func init() {
	state.RegisterTransitionRecorder(RecordStateTransition)
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}

// RecordCommand increments command counters and records duration.
func RecordCommand(command, status string, duration time.Duration) {
	command = orUnknown(command)
	botCommandsTotal.WithLabelValues(command, orUnknown(status)).Inc()
	commandDurationSeconds.WithLabelValues(command).Observe(duration.Seconds())
}

// RecordStateTransition tracks conversation flag transitions.
func RecordStateTransition(from, to string) {
	stateTransitionsTotal.WithLabelValues(orUnknown(from), orUnknown(to)).Inc()
}

// RecordError increments error counters.
func RecordError(errType, severity string) {
	errorsTotal.WithLabelValues(orUnknown(errType), orUnknown(severity)).Inc()
}

// RecordGeneration counts one stage outcome of the generate flow, e.g.
// ("article", "ok") or ("photo", "failed").
func RecordGeneration(stage, result string) {
	generationsTotal.WithLabelValues(orUnknown(stage), orUnknown(result)).Inc()
}

// RecordTopicDrained counts one topic popped by the scheduler.
func RecordTopicDrained() {
	scheduledTopicsDrained.Inc()
}

// RecordHTTPRequest counts an inbound HTTP request.
func RecordHTTPRequest(route, code string) {
	httpRequestsTotal.WithLabelValues(orUnknown(route), orUnknown(code)).Inc()
}

// SetKnownUsers updates the known users gauge.
func SetKnownUsers(count int) {
	knownUsers.Set(float64(count))
}

// KnownUsersLister is satisfied by repository.ChatRepository.
type KnownUsersLister interface {
	KnownUsers(ctx context.Context) ([]string, error)
}

// UsersCollector periodically reads the known users list and publishes its size.
type UsersCollector struct {
	users    KnownUsersLister
	interval time.Duration
	log      *slog.Logger
}

// NewUsersCollector builds a collector polling users every interval.
func NewUsersCollector(users KnownUsersLister, interval time.Duration, log *slog.Logger) *UsersCollector {
	if log == nil {
		log = slog.Default()
	}
	if interval <= 0 {
		interval = time.Minute
	}

	return &UsersCollector{users: users, interval: interval, log: log}
}

// Run polls until ctx is cancelled.
func (c *UsersCollector) Run(ctx context.Context) {
	if c == nil || c.users == nil {
		return
	}

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		if err := c.Collect(ctx); err != nil {
			c.log.Warn("failed to collect known users", slog.Any("error", err))
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// Collect performs a single poll.
func (c *UsersCollector) Collect(ctx context.Context) error {
	users, err := c.users.KnownUsers(ctx)
	if err != nil {
		return err
	}

	SetKnownUsers(len(users))
	return nil
}
