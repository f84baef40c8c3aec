package resource

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestControllerFetchSlots(t *testing.T) {
	c := NewController(Config{MaxConcurrentFetches: 1})

	ctx := context.Background()
	require.NoError(t, c.AcquireFetch(ctx))
	assert.Equal(t, int64(1), c.InFlight())

	// Second acquire must block until the first slot is released.
	blocked, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	err := c.AcquireFetch(blocked)
	require.Error(t, err)

	c.ReleaseFetch()
	assert.Equal(t, int64(0), c.InFlight())

	require.NoError(t, c.AcquireFetch(ctx))
	c.ReleaseFetch()
}

func TestControllerNilIsNoop(t *testing.T) {
	var c *Controller
	require.NoError(t, c.AcquireFetch(context.Background()))
	c.ReleaseFetch()
	require.NoError(t, c.WaitRows(context.Background(), 1000))
	assert.Equal(t, int64(0), c.InFlight())
}

func TestControllerWaitRowsChunks(t *testing.T) {
	c := NewController(Config{MaxConcurrentFetches: 1, RowLimitPerSec: 1000})

	// Larger than burst: must be satisfied in chunks without error.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, c.WaitRows(ctx, 1500))
}
