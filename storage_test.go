package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlobStores(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		open func(t *testing.T) BlobStore
	}{
		{
			name: "memory",
			open: func(t *testing.T) BlobStore { return newMemoryStore() },
		},
		{
			name: "file",
			open: func(t *testing.T) BlobStore {
				s, err := newFileStore(t.TempDir())
				require.NoError(t, err)
				return s
			},
		},
		{
			name: "sqlite",
			open: func(t *testing.T) BlobStore {
				s, err := newSQLiteStore(context.Background(), filepath.Join(t.TempDir(), "board.db"))
				require.NoError(t, err)
				return s
			},
		},
		{
			name: "redis",
			open: func(t *testing.T) BlobStore {
				mr := miniredis.RunT(t)
				s, err := newRedisStore(context.Background(), mr.Addr(), "", 0)
				require.NoError(t, err)
				return s
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctx := context.Background()
			store := tt.open(t)
			t.Cleanup(func() { assert.NoError(t, store.Close()) })

			_, err := store.Get(ctx, defaultStorageKey)
			require.ErrorIs(t, err, ErrBlobNotFound)

			require.NoError(t, store.Put(ctx, defaultStorageKey, []byte(`{"pins":[]}`)))
			got, err := store.Get(ctx, defaultStorageKey)
			require.NoError(t, err)
			assert.Equal(t, `{"pins":[]}`, string(got))

			require.NoError(t, store.Put(ctx, defaultStorageKey, []byte(`{"pins":[],"view":{"scale":2}}`)))
			got, err = store.Get(ctx, defaultStorageKey)
			require.NoError(t, err)
			assert.Equal(t, `{"pins":[],"view":{"scale":2}}`, string(got))

			_, err = store.Get(ctx, "other")
			assert.ErrorIs(t, err, ErrBlobNotFound)
		})
	}
}

func TestFileStore_KeyStaysInsideDir(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	s, err := newFileStore(dir)
	require.NoError(t, err)

	require.NoError(t, s.Put(context.Background(), "../escape/key", []byte("x")))
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, ".._escape_key.json", entries[0].Name())
}

func TestOpenBlobStore(t *testing.T) {
	t.Parallel()

	s, err := openBlobStore(context.Background(), StorageConfig{Driver: "memory"})
	require.NoError(t, err)
	assert.IsType(t, &memoryStore{}, s)

	_, err = openBlobStore(context.Background(), StorageConfig{Driver: "tape"})
	assert.Error(t, err)

	_, err = openBlobStore(context.Background(), StorageConfig{Driver: "redis", RedisAddr: "127.0.0.1:1"})
	assert.Error(t, err)
}

func TestEncodeBoard(t *testing.T) {
	t.Parallel()

	raw, err := encodeBoard(nil, Viewport{Offset: point{1.5, -2}, Scale: 1.1})
	require.NoError(t, err)
	assert.JSONEq(t, `{"pins":[],"view":{"x":1.5,"y":-2,"scale":1.1}}`, string(raw))

	pins, view, err := decodeBoard(raw)
	require.NoError(t, err)
	assert.NotNil(t, pins)
	assert.Empty(t, pins)
	assert.Equal(t, Viewport{Offset: point{1.5, -2}, Scale: 1.1}, view)
}

func TestDecodeBoard_EmptyObject(t *testing.T) {
	t.Parallel()

	pins, view, err := decodeBoard([]byte(`{}`))
	require.NoError(t, err)
	assert.Empty(t, pins)
	assert.Equal(t, defaultViewport(), view)
}
