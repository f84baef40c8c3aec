package cache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/colfilter/value"
)

func TestDedupAndNullNormalization(t *testing.T) {
	c := New([]any{nil, "", "  ", "A", "A"})

	// Exactly two distinct entries: the sentinel and "A".
	require.Equal(t, 2, c.Len())
	assert.True(t, c.ContainsNull())
	assert.Equal(t, 3, c.Count(nil))
	assert.Equal(t, 2, c.Count("A"))

	// Sentinel sorts before any real value.
	vals := c.Values()
	assert.True(t, vals[0].IsNull())
}

func TestTypeDetectionAndSort(t *testing.T) {
	c := New([]any{nil, 30, 4, 100, 2})

	assert.Equal(t, value.TypeNumber, c.Type())

	vals := c.Values()
	require.Len(t, vals, 5)
	assert.True(t, vals[0].IsNull())
	assert.Equal(t, value.Number(2), vals[1])
	assert.Equal(t, value.Number(4), vals[2])
	assert.Equal(t, value.Number(30), vals[3])
	assert.Equal(t, value.Number(100), vals[4])
}

func TestSortSkippedAboveLimit(t *testing.T) {
	c := New([]any{"b", "a", "c"}, WithSortLimit(2))

	vals := c.Values()
	assert.Equal(t, value.String("b"), vals[0])
	assert.Equal(t, value.String("a"), vals[1])
	assert.Equal(t, value.String("c"), vals[2])
}

func TestAddKeepsSortedOrder(t *testing.T) {
	c := New([]any{1, 5, 9})

	c.Add(3)
	c.Add(7)
	c.Add(5) // duplicate, count only

	vals := c.Values()
	require.Len(t, vals, 5)
	for i, want := range []float64{1, 3, 5, 7, 9} {
		assert.Equal(t, value.Number(want), vals[i])
	}
	assert.Equal(t, 2, c.Count(5))
}

func TestAddAppendsBeyondInsertLimit(t *testing.T) {
	c := New([]any{1, 2, 3, 4}, WithInsertSortLimit(3))

	c.Add(0)
	vals := c.Values()
	assert.Equal(t, value.Number(0), vals[len(vals)-1])
}

func TestRemove(t *testing.T) {
	c := New([]any{"x", "y", nil})

	require.True(t, c.Remove("y"))
	assert.Equal(t, 2, c.Len())
	assert.False(t, c.Remove("y"))

	require.True(t, c.Remove(nil))
	assert.False(t, c.ContainsNull())
}

func TestRedetectionOnReload(t *testing.T) {
	vals := []any{"1", "2"}
	p := &SliceProvider{Values: vals}
	c := NewLazy(p, "col")

	require.NoError(t, c.Load(context.Background()))
	assert.Equal(t, value.TypeNumber, c.Type())

	p.Values = []any{"a", "b", "1"}
	require.NoError(t, c.Load(context.Background()))
	assert.Equal(t, value.TypeString, c.Type())
	assert.Equal(t, 3, c.Len())
}

func TestLazyLoadOnFirstAccess(t *testing.T) {
	calls := 0
	p := ProviderFunc(func(_ context.Context, req Request) ([]any, error) {
		calls++
		assert.Equal(t, "city", req.ColumnKey)
		return []any{"Berlin", "Tokyo"}, nil
	})

	c := NewLazy(p, "city")
	assert.False(t, c.Loaded())

	require.NoError(t, c.Ensure(context.Background()))
	require.NoError(t, c.Ensure(context.Background()))
	assert.Equal(t, 1, calls, "result must be cached until invalidated")

	c.Refresh()
	require.NoError(t, c.Ensure(context.Background()))
	assert.Equal(t, 2, calls)
}

func TestReentrantLoadSupersedes(t *testing.T) {
	release := make(chan struct{})
	var mu sync.Mutex
	started := 0

	p := ProviderFunc(func(ctx context.Context, _ Request) ([]any, error) {
		mu.Lock()
		started++
		first := started == 1
		mu.Unlock()
		if first {
			select {
			case <-release:
				return []any{"old"}, nil
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
		return []any{"new"}, nil
	})

	c := NewLazy(p, "col")

	firstErr := make(chan error, 1)
	go func() { firstErr <- c.Load(context.Background()) }()

	// Wait for the first load to be in flight, then supersede it.
	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return started == 1
	}, time.Second, time.Millisecond)

	require.NoError(t, c.Load(context.Background()))
	close(release)

	err := <-firstErr
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSuperseded) || errors.Is(err, context.Canceled))

	vals := c.Values()
	require.Len(t, vals, 1)
	assert.Equal(t, value.String("new"), vals[0])
}

func TestSliceProviderPaging(t *testing.T) {
	p := &SliceProvider{Values: []any{1, 2, 3, 4, 5}}

	got, err := p.Fetch(context.Background(), Request{Skip: 1, Take: 2})
	require.NoError(t, err)
	assert.Equal(t, []any{2, 3}, got)

	got, err = p.Fetch(context.Background(), Request{Skip: 10})
	require.NoError(t, err)
	assert.Empty(t, got)
}
