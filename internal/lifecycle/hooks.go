// Package lifecycle coordinates process shutdown.
package lifecycle

import "context"

// Hook describes a named shutdown hook.
type Hook struct {
	Name string
	Fn   func(ctx context.Context) error
}

// Closer adapts a Close() error method, such as a store or queue client, to a hook body.
func Closer(c interface{ Close() error }) func(context.Context) error {
	return func(context.Context) error {
		return c.Close()
	}
}

// Func adapts a function without a result, such as asynq's Shutdown, to a hook body.
func Func(fn func()) func(context.Context) error {
	return func(context.Context) error {
		fn()
		return nil
	}
}
