package state

import (
	"context"
	"io"
	"log/slog"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"

	appredis "github.com/Proton-105/creator-bot/pkg/redis"
)

func TestRedisStorage_PutAndGet(t *testing.T) {
	client, mr := setupTestRedis(t)
	storage := NewRedisStorage(client, testLogger())
	ctx := context.Background()

	err := storage.Put(ctx, ModelKey(123), "llama3-8b-8192")
	assert.NoError(t, err)

	value, err := storage.Get(ctx, ModelKey(123))
	assert.NoError(t, err)
	assert.Equal(t, "llama3-8b-8192", value)

	raw, err := mr.Get("model_123")
	assert.NoError(t, err)
	assert.Equal(t, "llama3-8b-8192", raw)
	assert.False(t, mr.Exists("model_124"))
}

func TestRedisStorage_GetNotFound(t *testing.T) {
	client, _ := setupTestRedis(t)
	storage := NewRedisStorage(client, testLogger())

	value, err := storage.Get(context.Background(), ChannelsKey(999))
	assert.Empty(t, value)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisStorage_Delete(t *testing.T) {
	client, _ := setupTestRedis(t)
	storage := NewRedisStorage(client, testLogger())
	ctx := context.Background()

	assert.NoError(t, storage.Put(ctx, ConversationKey(456), string(StateAwaitingTopic)))
	assert.NoError(t, storage.Delete(ctx, ConversationKey(456)))
	assert.NoError(t, storage.Delete(ctx, ConversationKey(456)))

	_, err := storage.Get(ctx, ConversationKey(456))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisStorage_NoExpiry(t *testing.T) {
	client, mr := setupTestRedis(t)
	storage := NewRedisStorage(client, testLogger())

	assert.NoError(t, storage.Put(context.Background(), UsersKey(), `["1"]`))
	assert.Zero(t, mr.TTL("users"))
}

func setupTestRedis(t *testing.T) (*appredis.Client, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := &appredis.Client{Client: redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})}

	t.Cleanup(func() {
		_ = client.Close()
	})

	return client, mr
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
