// Package health aggregates dependency checks for the /healthz route.
package health

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"sort"
	"sync"
	"time"
)

const (
	StatusOK       = "ok"
	StatusDegraded = "degraded"
)

// Checkable represents a component that can report its health status.
type Checkable interface {
	HealthCheck(ctx context.Context) error
}

// CheckFunc adapts a plain ping function to Checkable.
type CheckFunc func(ctx context.Context) error

func (f CheckFunc) HealthCheck(ctx context.Context) error { return f(ctx) }

// Report is the JSON body served by /healthz.
type Report struct {
	Status     string            `json:"status"`
	Components map[string]string `json:"components"`
}

// Healthy reports whether every component passed.
func (r Report) Healthy() bool {
	return r.Status == StatusOK
}

// Checker aggregates health checks for multiple components.
type Checker struct {
	mu      sync.RWMutex
	log     *slog.Logger
	timeout time.Duration
	checks  map[string]Checkable
}

// NewChecker instantiates a Checker. Each check gets at most timeout;
// zero means no per-check limit.
func NewChecker(log *slog.Logger, timeout time.Duration) *Checker {
	if log == nil {
		log = slog.Default()
	}

	return &Checker{
		log:     log,
		timeout: timeout,
		checks:  make(map[string]Checkable),
	}
}

// AddCheck registers a checkable component by name.
func (c *Checker) AddCheck(name string, check Checkable) {
	if name == "" || check == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.checks[name] = check
}

// Names returns the registered component names in order.
func (c *Checker) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(c.checks))
	for name := range c.checks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Check runs all registered health checks concurrently.
func (c *Checker) Check(ctx context.Context) Report {
	c.mu.RLock()
	checks := make(map[string]Checkable, len(c.checks))
	for name, check := range c.checks {
		checks[name] = check
	}
	c.mu.RUnlock()

	report := Report{Status: StatusOK, Components: make(map[string]string, len(checks))}

	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)
	for name, check := range checks {
		name, check := name, check
		wg.Add(1)
		go func() {
			defer wg.Done()

			checkCtx := ctx
			if c.timeout > 0 {
				var cancel context.CancelFunc
				checkCtx, cancel = context.WithTimeout(ctx, c.timeout)
				defer cancel()
			}

			result := StatusOK
			if err := check.HealthCheck(checkCtx); err != nil {
				result = err.Error()
				c.log.Error("health check failed", slog.String("component", name), slog.Any("error", err))
			}

			mu.Lock()
			report.Components[name] = result
			if result != StatusOK {
				report.Status = StatusDegraded
			}
			mu.Unlock()
		}()
	}
	wg.Wait()

	return report
}

// DBChecker verifies connectivity to a PostgreSQL database.
type DBChecker struct {
	db *sql.DB
}

// NewDBChecker constructs a DBChecker.
func NewDBChecker(db *sql.DB) *DBChecker {
	return &DBChecker{db: db}
}

// HealthCheck pings the database to ensure it is reachable.
func (c *DBChecker) HealthCheck(ctx context.Context) error {
	if c == nil || c.db == nil {
		return sql.ErrConnDone
	}
	return c.db.PingContext(ctx)
}

// Pinger is implemented by pkg/redis clients, telegram.Pinger and generator.Groq.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ErrNotConfigured is reported for a check registered without a target.
var ErrNotConfigured = errors.New("not configured")

// PingChecker turns a Pinger into a Checkable.
type PingChecker struct {
	pinger Pinger
}

// NewPingChecker constructs a PingChecker.
func NewPingChecker(pinger Pinger) *PingChecker {
	return &PingChecker{pinger: pinger}
}

func (c *PingChecker) HealthCheck(ctx context.Context) error {
	if c == nil || c.pinger == nil {
		return ErrNotConfigured
	}
	return c.pinger.Ping(ctx)
}
