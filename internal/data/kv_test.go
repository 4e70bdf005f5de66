package data

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devricklin/tg-relay-bridge/internal/biz/repo"
)

func exerciseStore(t *testing.T, kv repo.KeyValueStore) {
	t.Helper()
	ctx := context.Background()

	_, err := kv.Get(ctx, "missing")
	assert.ErrorIs(t, err, repo.ErrMiss)

	require.NoError(t, kv.Put(ctx, "a", "1"))
	v, err := kv.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "1", v)

	require.NoError(t, kv.Put(ctx, "a", "2"))
	v, err = kv.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "2", v)

	require.NoError(t, kv.Delete(ctx, "a"))
	_, err = kv.Get(ctx, "a")
	assert.ErrorIs(t, err, repo.ErrMiss)

	// Deleting an absent key is fine
	require.NoError(t, kv.Delete(ctx, "a"))
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestSQLiteStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "relay.db")
	kv, err := NewSQLiteStore(path)
	require.NoError(t, err)
	defer kv.Close()

	exerciseStore(t, kv)
}

func TestSQLiteStore_Persists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "relay.db")
	ctx := context.Background()

	kv, err := NewSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, kv.Put(ctx, "thread:1", "99"))
	require.NoError(t, kv.Close())

	kv, err = NewSQLiteStore(path)
	require.NoError(t, err)
	defer kv.Close()
	v, err := kv.Get(ctx, "thread:1")
	require.NoError(t, err)
	assert.Equal(t, "99", v)
}

func TestRedisStore(t *testing.T) {
	url := os.Getenv("REDIS_URL")
	if url == "" {
		t.Skip("REDIS_URL not set")
	}
	kv, err := NewRedisStore(url, "tgrelay-test:")
	require.NoError(t, err)
	defer kv.Close()

	exerciseStore(t, kv)
}

func TestRedisStore_RequiresURL(t *testing.T) {
	_, err := NewRedisStore("", "x:")
	assert.Error(t, err)
}

func TestNewStore(t *testing.T) {
	kv, err := NewStore(StoreOptions{Driver: DriverMemory})
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, kv)

	_, err = NewStore(StoreOptions{Driver: "etcd"})
	assert.Error(t, err)
}
