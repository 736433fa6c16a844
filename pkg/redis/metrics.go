package redis

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	goredis "github.com/redis/go-redis/v9"
)

var (
	requestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "creator_bot_redis_requests_total",
			Help: "Redis commands issued by the key-value store, by method.",
		},
		[]string{"method"},
	)
	errorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "creator_bot_redis_errors_total",
			Help: "Redis commands that failed, by method. Missing keys are not counted.",
		},
		[]string{"method"},
	)
	requestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "creator_bot_redis_request_duration_seconds",
			Help:    "Redis command latency.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)
)

func init() {
	prometheus.MustRegister(requestsTotal, errorsTotal, requestDuration)
}

// MetricsClient decorates Client with Prometheus instrumentation.
type MetricsClient struct {
	next *Client
}

// NewMetricsClient wraps next.
func NewMetricsClient(next *Client) *MetricsClient {
	return &MetricsClient{next: next}
}

func observe(method string, start time.Time, err error) {
	requestDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())
	requestsTotal.WithLabelValues(method).Inc()
	if err != nil && !errors.Is(err, goredis.Nil) {
		errorsTotal.WithLabelValues(method).Inc()
	}
}

func (m *MetricsClient) Get(ctx context.Context, key string) (string, error) {
	start := time.Now()
	value, err := m.next.Get(ctx, key)
	observe("get", start, err)
	return value, err
}

func (m *MetricsClient) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	start := time.Now()
	err := m.next.Set(ctx, key, value, ttl)
	observe("set", start, err)
	return err
}

func (m *MetricsClient) Delete(ctx context.Context, key string) error {
	start := time.Now()
	err := m.next.Delete(ctx, key)
	observe("delete", start, err)
	return err
}

// Ping forwards to the wrapped client without instrumentation.
func (m *MetricsClient) Ping(ctx context.Context) error {
	return m.next.Ping(ctx)
}

// Close closes the wrapped client.
func (m *MetricsClient) Close() error {
	return m.next.Close()
}
