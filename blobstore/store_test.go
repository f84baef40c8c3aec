package blobstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stores(t *testing.T) map[string]Store {
	t.Helper()

	local, err := NewLocal(t.TempDir())
	require.NoError(t, err)

	return map[string]Store{
		"memory": NewMemory(),
		"local":  local,
	}
}

func TestPutGetDelete(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Put(ctx, "snapshots/region.bin", []byte("one")))

			got, err := s.Get(ctx, "snapshots/region.bin")
			require.NoError(t, err)
			assert.Equal(t, []byte("one"), got)

			// Puts replace.
			require.NoError(t, s.Put(ctx, "snapshots/region.bin", []byte("two")))
			got, err = s.Get(ctx, "snapshots/region.bin")
			require.NoError(t, err)
			assert.Equal(t, []byte("two"), got)

			require.NoError(t, s.Delete(ctx, "snapshots/region.bin"))
			_, err = s.Get(ctx, "snapshots/region.bin")
			assert.ErrorIs(t, err, ErrNotFound)

			// Deleting again is fine.
			require.NoError(t, s.Delete(ctx, "snapshots/region.bin"))
		})
	}
}

func TestList(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Put(ctx, "snapshots/a.bin", []byte("a")))
			require.NoError(t, s.Put(ctx, "snapshots/b.bin", []byte("b")))
			require.NoError(t, s.Put(ctx, "other/c.bin", []byte("c")))

			names, err := s.List(ctx, "snapshots/")
			require.NoError(t, err)
			assert.ElementsMatch(t, []string{"snapshots/a.bin", "snapshots/b.bin"}, names)

			all, err := s.List(ctx, "")
			require.NoError(t, err)
			assert.Len(t, all, 3)
		})
	}
}

func TestMemoryIsolation(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	data := []byte("mutable")
	require.NoError(t, m.Put(ctx, "x", data))
	data[0] = 'X'

	got, err := m.Get(ctx, "x")
	require.NoError(t, err)
	assert.Equal(t, []byte("mutable"), got)

	// Mutating the returned slice does not touch the store.
	got[0] = 'Y'
	again, err := m.Get(ctx, "x")
	require.NoError(t, err)
	assert.Equal(t, []byte("mutable"), again)
}
