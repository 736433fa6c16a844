package bot

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Proton-105/creator-bot/internal/repository"
	"github.com/Proton-105/creator-bot/internal/state"
)

type generated struct {
	chatID int64
	topic  string
}

type recordingGenerator struct {
	runs []generated
}

func (g *recordingGenerator) Generate(_ context.Context, chatID int64, topic string) {
	g.runs = append(g.runs, generated{chatID: chatID, topic: topic})
}

func TestDrainer_PopsOneTopicPerUser(t *testing.T) {
	ctx := context.Background()
	store := state.NewMemoryStorage()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	repo := repository.NewChatRepository(store, "llama3-8b-8192", log)

	require.NoError(t, store.Put(ctx, state.UsersKey(), `["1","2","3","not-a-number"]`))
	require.NoError(t, repo.EnqueueTopic(ctx, "1", "A"))
	require.NoError(t, repo.EnqueueTopic(ctx, "1", "B"))
	require.NoError(t, repo.EnqueueTopic(ctx, "2", "C"))
	require.NoError(t, repo.EnqueueTopic(ctx, "not-a-number", "D"))

	gen := &recordingGenerator{}
	report, err := NewDrainer(repo, gen, log).Drain(ctx)
	require.NoError(t, err)

	assert.Equal(t, DrainReport{Users: 4, Drained: 2, Empty: 1, Invalid: 1}, report)
	assert.Equal(t, []generated{{chatID: 1, topic: "A"}, {chatID: 2, topic: "C"}}, gen.runs)

	raw, err := store.Get(ctx, state.ScheduledTopicsKey("1"))
	require.NoError(t, err)
	assert.JSONEq(t, `["B"]`, raw)

	raw, err = store.Get(ctx, state.ScheduledTopicsKey("2"))
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, raw)

	untouched, err := repo.ScheduledTopics(ctx, "not-a-number")
	require.NoError(t, err)
	assert.Equal(t, []string{"D"}, untouched)
}

func TestDrainer_CorruptQueueDoesNotStopThePass(t *testing.T) {
	ctx := context.Background()
	store := state.NewMemoryStorage()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	repo := repository.NewChatRepository(store, "llama3-8b-8192", log)

	require.NoError(t, store.Put(ctx, state.UsersKey(), `["1","2"]`))
	require.NoError(t, store.Put(ctx, state.ScheduledTopicsKey("1"), "garbage"))
	require.NoError(t, repo.EnqueueTopic(ctx, "2", "C"))

	gen := &recordingGenerator{}
	report, err := NewDrainer(repo, gen, log).Drain(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, []generated{{chatID: 2, topic: "C"}}, gen.runs)
}

func TestDrainer_StopsOnCancelledContext(t *testing.T) {
	store := state.NewMemoryStorage()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	repo := repository.NewChatRepository(store, "llama3-8b-8192", log)
	require.NoError(t, store.Put(context.Background(), state.UsersKey(), `["1"]`))
	require.NoError(t, repo.EnqueueTopic(context.Background(), "1", "A"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	gen := &recordingGenerator{}
	_, err := NewDrainer(repo, gen, log).Drain(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, gen.runs)
}

func TestDrainer_FeedsTheGenerateFlow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	repo := f.d.Repository()

	_, err := repo.RegisterUser(ctx, testChatID)
	require.NoError(t, err)
	require.NoError(t, repo.EnqueueTopic(ctx, "42", "launch day"))

	report, err := NewDrainer(repo, f.d, nil).Drain(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Drained)
	assert.Equal(t, []string{"send", "edit", "photo", "delete", "keyboard"}, f.msgr.Ops())
}

type panickingGenerator struct {
	panicFor int64
	runs     []generated
}

func (g *panickingGenerator) Generate(_ context.Context, chatID int64, topic string) {
	if chatID == g.panicFor {
		panic("image client exploded")
	}
	g.runs = append(g.runs, generated{chatID: chatID, topic: topic})
}

func TestDrainer_PanicDoesNotStopPass(t *testing.T) {
	ctx := context.Background()
	store := state.NewMemoryStorage()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	repo := repository.NewChatRepository(store, "llama3-8b-8192", log)

	require.NoError(t, store.Put(ctx, state.UsersKey(), `["1","2"]`))
	require.NoError(t, repo.EnqueueTopic(ctx, "1", "A"))
	require.NoError(t, repo.EnqueueTopic(ctx, "2", "B"))

	gen := &panickingGenerator{panicFor: 1}
	var (
		report DrainReport
		err    error
	)
	require.NotPanics(t, func() {
		report, err = NewDrainer(repo, gen, log).Drain(ctx)
	})
	require.NoError(t, err)

	assert.Equal(t, DrainReport{Users: 2, Drained: 1, Failed: 1}, report)
	assert.Equal(t, []generated{{chatID: 2, topic: "B"}}, gen.runs)

	// the panicking topic was already popped and is not requeued
	remaining, err := repo.ScheduledTopics(ctx, "1")
	require.NoError(t, err)
	assert.Empty(t, remaining)
}
