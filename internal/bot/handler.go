package bot

import "context"

// Handler processes one classified action.
type Handler func(ctx context.Context, action Action) error

// Middleware wraps handlers with additional behavior.
type Middleware func(Handler) Handler

// Chain wraps h so that the first middleware runs outermost.
func Chain(h Handler, middlewares ...Middleware) Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		if middlewares[i] != nil {
			h = middlewares[i](h)
		}
	}
	return h
}
