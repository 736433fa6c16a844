package state

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuntStorage_RoundTrip(t *testing.T) {
	storage, err := OpenBuntStorage(":memory:", testLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = storage.Close() })

	ctx := context.Background()

	_, err = storage.Get(ctx, ActiveChannelKey(1))
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, storage.Put(ctx, ActiveChannelKey(1), "@news"))
	value, err := storage.Get(ctx, ActiveChannelKey(1))
	require.NoError(t, err)
	assert.Equal(t, "@news", value)

	require.NoError(t, storage.Delete(ctx, ActiveChannelKey(1)))
	require.NoError(t, storage.Delete(ctx, ActiveChannelKey(1)))

	_, err = storage.Get(ctx, ActiveChannelKey(1))
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, storage.HealthCheck(ctx))
}

func TestBuntStorage_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")
	ctx := context.Background()

	storage, err := OpenBuntStorage(path, testLogger())
	require.NoError(t, err)
	require.NoError(t, storage.Put(ctx, UsersKey(), `["42"]`))
	require.NoError(t, storage.Close())

	reopened, err := OpenBuntStorage(path, testLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = reopened.Close() })

	value, err := reopened.Get(ctx, UsersKey())
	require.NoError(t, err)
	assert.Equal(t, `["42"]`, value)
}
