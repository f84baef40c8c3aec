// Package resource bounds the engine's interaction with host value
// providers: how many fetches may run at once and how fast rows may be
// pulled.
package resource

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// Config holds fetch-side resource limits.
type Config struct {
	// MaxConcurrentFetches is the maximum number of provider fetches that
	// may run at once. If 0, defaults to 1.
	MaxConcurrentFetches int64

	// RowLimitPerSec throttles how many rows per second may be pulled from
	// providers across all columns. If 0, unlimited.
	RowLimitPerSec int64
}

// Controller manages provider fetch resources.
type Controller struct {
	cfg Config

	fetchSem   *semaphore.Weighted
	rowLimiter *rate.Limiter

	inFlight atomic.Int64
}

// NewController creates a new resource controller.
func NewController(cfg Config) *Controller {
	if cfg.MaxConcurrentFetches <= 0 {
		cfg.MaxConcurrentFetches = 1
	}

	c := &Controller{
		cfg:      cfg,
		fetchSem: semaphore.NewWeighted(cfg.MaxConcurrentFetches),
	}

	if cfg.RowLimitPerSec > 0 {
		c.rowLimiter = rate.NewLimiter(rate.Limit(cfg.RowLimitPerSec), int(cfg.RowLimitPerSec))
	}

	return c
}

// AcquireFetch reserves a fetch slot, blocking until one is free or ctx is
// canceled. Callers must pair it with ReleaseFetch.
func (c *Controller) AcquireFetch(ctx context.Context) error {
	if c == nil {
		return nil
	}
	if err := c.fetchSem.Acquire(ctx, 1); err != nil {
		return err
	}
	c.inFlight.Add(1)
	return nil
}

// ReleaseFetch releases a fetch slot.
func (c *Controller) ReleaseFetch() {
	if c == nil {
		return
	}
	c.inFlight.Add(-1)
	c.fetchSem.Release(1)
}

// WaitRows waits until n rows worth of throughput budget is available.
func (c *Controller) WaitRows(ctx context.Context, n int) error {
	if c == nil || c.rowLimiter == nil || n <= 0 {
		return nil
	}

	// rate.Limiter caps a single reservation at its burst size.
	burst := c.rowLimiter.Burst()
	for n > 0 {
		chunk := n
		if chunk > burst {
			chunk = burst
		}
		if err := c.rowLimiter.WaitN(ctx, chunk); err != nil {
			return err
		}
		n -= chunk
	}
	return nil
}

// InFlight returns the number of fetches currently running.
func (c *Controller) InFlight() int64 {
	if c == nil {
		return 0
	}
	return c.inFlight.Load()
}
