package state

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// ErrInvalidTransition indicates that a requested flag transition is not allowed.
var ErrInvalidTransition = errors.New("invalid state transition")

var transitionRecorder = func(from, to string) {}

// RegisterTransitionRecorder allows external packages to observe flag transitions.
func RegisterTransitionRecorder(recorder func(from, to string)) {
	if recorder == nil {
		transitionRecorder = func(string, string) {}
		return
	}

	transitionRecorder = recorder
}

// Conversation describes the operations supported on the per-chat conversation flag.
type Conversation interface {
	Get(ctx context.Context, chatID int64) (State, error)
	Set(ctx context.Context, chatID int64, state State) error
	Clear(ctx context.Context, chatID int64) error
}

// conversation stores the flag as a raw string under ConversationKey.
// Idle is represented by the key being absent.
type conversation struct {
	store Store
	log   *slog.Logger
}

// NewConversation creates a conversation flag controller on top of store.
func NewConversation(store Store, log *slog.Logger) Conversation {
	if log == nil {
		log = slog.Default()
	}

	return &conversation{
		store: store,
		log:   log,
	}
}

// Get returns the current flag, StateIdle when nothing is stored.
func (c *conversation) Get(ctx context.Context, chatID int64) (State, error) {
	value, err := c.store.Get(ctx, ConversationKey(chatID))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return StateIdle, nil
		}
		return StateIdle, fmt.Errorf("get conversation state: %w", err)
	}

	if value == "" {
		return StateIdle, nil
	}

	return State(value), nil
}

// Set moves the flag to state if the transition is allowed.
func (c *conversation) Set(ctx context.Context, chatID int64, next State) error {
	current, err := c.Get(ctx, chatID)
	if err != nil {
		return err
	}

	if !IsTransitionAllowed(current, next) {
		c.log.Warn("invalid state transition", "chat_id", chatID, "from", current, "to", next)
		return ErrInvalidTransition
	}

	if next == StateIdle {
		if err := c.store.Delete(ctx, ConversationKey(chatID)); err != nil {
			return fmt.Errorf("clear conversation state: %w", err)
		}
	} else if err := c.store.Put(ctx, ConversationKey(chatID), string(next)); err != nil {
		return fmt.Errorf("save conversation state: %w", err)
	}

	transitionRecorder(string(current), string(next))

	return nil
}

// Clear resets the flag to idle.
func (c *conversation) Clear(ctx context.Context, chatID int64) error {
	return c.Set(ctx, chatID, StateIdle)
}
