// Package repository implements typed accessors for per-chat bot state.
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/Proton-105/creator-bot/internal/state"
)

// ChatRepository reads and writes per-chat settings, channel lists, the known
// users list and scheduled topic queues. List mutations are read-modify-write
// against a single key and are not atomic.
type ChatRepository struct {
	store        state.Store
	defaultModel string
	log          *slog.Logger
}

// NewChatRepository builds a repository over store. defaultModel is returned
// by Model for chats that never selected one.
func NewChatRepository(store state.Store, defaultModel string, log *slog.Logger) *ChatRepository {
	if log == nil {
		log = slog.Default()
	}

	return &ChatRepository{
		store:        store,
		defaultModel: defaultModel,
		log:          log,
	}
}

// Model returns the selected model of a chat or the default model.
func (r *ChatRepository) Model(ctx context.Context, chatID int64) (string, error) {
	value, found, err := r.getString(ctx, state.ModelKey(chatID))
	if err != nil {
		return r.defaultModel, fmt.Errorf("get model: %w", err)
	}
	if !found || value == "" {
		return r.defaultModel, nil
	}

	return value, nil
}

// SetModel persists the selected model.
func (r *ChatRepository) SetModel(ctx context.Context, chatID int64, model string) error {
	if err := r.store.Put(ctx, state.ModelKey(chatID), model); err != nil {
		return fmt.Errorf("set model: %w", err)
	}
	return nil
}

// ActiveChannel returns the active posting channel of a chat.
func (r *ChatRepository) ActiveChannel(ctx context.Context, chatID int64) (string, bool, error) {
	value, found, err := r.getString(ctx, state.ActiveChannelKey(chatID))
	if err != nil {
		return "", false, fmt.Errorf("get active channel: %w", err)
	}

	return value, found && value != "", nil
}

// SetActiveChannel persists the active posting channel.
func (r *ChatRepository) SetActiveChannel(ctx context.Context, chatID int64, channel string) error {
	if err := r.store.Put(ctx, state.ActiveChannelKey(chatID), channel); err != nil {
		return fmt.Errorf("set active channel: %w", err)
	}
	return nil
}

// ClearActiveChannel removes the active posting channel.
func (r *ChatRepository) ClearActiveChannel(ctx context.Context, chatID int64) error {
	if err := r.store.Delete(ctx, state.ActiveChannelKey(chatID)); err != nil {
		return fmt.Errorf("clear active channel: %w", err)
	}
	return nil
}

// Channels returns the registered channels of a chat in insertion order.
func (r *ChatRepository) Channels(ctx context.Context, chatID int64) ([]string, error) {
	channels, err := r.getList(ctx, state.ChannelsKey(chatID))
	if err != nil {
		return nil, fmt.Errorf("get channels: %w", err)
	}
	return channels, nil
}

// AddChannel appends channel unless it is already registered. It reports
// whether the list changed.
func (r *ChatRepository) AddChannel(ctx context.Context, chatID int64, channel string) (bool, error) {
	channels, err := r.Channels(ctx, chatID)
	if err != nil {
		return false, err
	}

	if contains(channels, channel) {
		return false, nil
	}

	channels = append(channels, channel)
	if err := r.putList(ctx, state.ChannelsKey(chatID), channels); err != nil {
		return false, fmt.Errorf("save channels: %w", err)
	}

	return true, nil
}

// RemoveChannel drops every occurrence of channel. When it was the active
// channel the active channel is cleared too; the second result reports that.
func (r *ChatRepository) RemoveChannel(ctx context.Context, chatID int64, channel string) (bool, error) {
	channels, err := r.Channels(ctx, chatID)
	if err != nil {
		return false, err
	}

	kept := make([]string, 0, len(channels))
	for _, ch := range channels {
		if ch != channel {
			kept = append(kept, ch)
		}
	}

	active, hasActive, err := r.ActiveChannel(ctx, chatID)
	if err != nil {
		return false, err
	}

	clearedActive := false
	if hasActive && active == channel {
		if err := r.ClearActiveChannel(ctx, chatID); err != nil {
			return false, err
		}
		clearedActive = true
	}

	if err := r.putList(ctx, state.ChannelsKey(chatID), kept); err != nil {
		return clearedActive, fmt.Errorf("save channels: %w", err)
	}

	return clearedActive, nil
}

// KnownUsers returns every chat id that ever interacted with the bot.
func (r *ChatRepository) KnownUsers(ctx context.Context) ([]string, error) {
	users, err := r.getList(ctx, state.UsersKey())
	if err != nil {
		return nil, fmt.Errorf("get known users: %w", err)
	}
	return users, nil
}

// RegisterUser appends chatID to the known users list on first sight.
func (r *ChatRepository) RegisterUser(ctx context.Context, chatID int64) (bool, error) {
	users, err := r.KnownUsers(ctx)
	if err != nil {
		return false, err
	}

	id := strconv.FormatInt(chatID, 10)
	if contains(users, id) {
		return false, nil
	}

	users = append(users, id)
	if err := r.putList(ctx, state.UsersKey(), users); err != nil {
		return false, fmt.Errorf("save known users: %w", err)
	}

	return true, nil
}

// ScheduledTopics returns the pending topic queue of a user.
func (r *ChatRepository) ScheduledTopics(ctx context.Context, user string) ([]string, error) {
	topics, err := r.getList(ctx, state.ScheduledTopicsKey(user))
	if err != nil {
		return nil, fmt.Errorf("get scheduled topics: %w", err)
	}
	return topics, nil
}

// EnqueueTopic appends topic to the user's queue.
func (r *ChatRepository) EnqueueTopic(ctx context.Context, user, topic string) error {
	topics, err := r.ScheduledTopics(ctx, user)
	if err != nil {
		return err
	}

	if err := r.putList(ctx, state.ScheduledTopicsKey(user), append(topics, topic)); err != nil {
		return fmt.Errorf("save scheduled topics: %w", err)
	}
	return nil
}

// PopScheduledTopic removes and returns the oldest topic of the user's queue,
// persisting the shortened queue. ok is false for an empty queue.
func (r *ChatRepository) PopScheduledTopic(ctx context.Context, user string) (string, bool, error) {
	topics, err := r.ScheduledTopics(ctx, user)
	if err != nil {
		return "", false, err
	}

	if len(topics) == 0 {
		return "", false, nil
	}

	topic, rest := topics[0], topics[1:]
	if err := r.putList(ctx, state.ScheduledTopicsKey(user), rest); err != nil {
		return "", false, fmt.Errorf("save scheduled topics: %w", err)
	}

	return topic, true, nil
}

func (r *ChatRepository) getString(ctx context.Context, key state.Key) (string, bool, error) {
	value, err := r.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, state.ErrNotFound) {
			return "", false, nil
		}
		return "", false, err
	}

	return value, true, nil
}

func (r *ChatRepository) getList(ctx context.Context, key state.Key) ([]string, error) {
	raw, found, err := r.getString(ctx, key)
	if err != nil {
		return nil, err
	}
	if !found || raw == "" {
		return []string{}, nil
	}

	var list []string
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		r.log.Error("failed to decode stored list", slog.String("key", string(key)), slog.Any("error", err))
		return nil, fmt.Errorf("decode %s: %w", key, err)
	}
	if list == nil {
		list = []string{}
	}

	return list, nil
}

func (r *ChatRepository) putList(ctx context.Context, key state.Key, list []string) error {
	if list == nil {
		list = []string{}
	}

	payload, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}

	return r.store.Put(ctx, key, string(payload))
}

func contains(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}
