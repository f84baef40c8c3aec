// Package testutil provides testing utilities for colfilter.
//
// This package is intended for use in tests and benchmarks only.
// It provides a seeded RNG and generators for random column data in each
// supported column type.
package testutil

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/hupe1980/colfilter/value"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Float64 returns a pseudo-random number in [0.0,1.0).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// Numbers generates n random number values in [0, max).
// Locks only once per call.
func (r *RNG) Numbers(n int, max float64) []value.Value {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]value.Value, n)
	for i := range out {
		out[i] = value.Number(r.rand.Float64() * max)
	}
	return out
}

// Strings generates n random short string values drawn from a pool of
// distinct words.
func (r *RNG) Strings(n, distinct int) []value.Value {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]value.Value, n)
	for i := range out {
		out[i] = value.String(fmt.Sprintf("word-%03d", r.rand.Intn(distinct)))
	}
	return out
}

// Dates generates n random day-granularity dates in the year before now.
func (r *RNG) Dates(n int, now time.Time) []value.Value {
	r.mu.Lock()
	defer r.mu.Unlock()

	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	out := make([]value.Value, n)
	for i := range out {
		out[i] = value.DateTime(day.AddDate(0, 0, -r.rand.Intn(365)))
	}
	return out
}

// WithNulls replaces roughly one in ratio values with the null sentinel.
func (r *RNG) WithNulls(vals []value.Value, ratio int) []value.Value {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := append([]value.Value(nil), vals...)
	for i := range out {
		if r.rand.Intn(ratio) == 0 {
			out[i] = value.Null()
		}
	}
	return out
}

// RawColumn generates raw (pre-coercion) cell data mixing strings,
// numbers and blanks, the way host tables hand values in.
func (r *RNG) RawColumn(n int) []any {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]any, n)
	for i := range out {
		switch r.rand.Intn(4) {
		case 0:
			out[i] = nil
		case 1:
			out[i] = r.rand.Float64() * 100
		case 2:
			out[i] = fmt.Sprintf("%d", r.rand.Intn(100))
		default:
			out[i] = fmt.Sprintf("item-%02d", r.rand.Intn(50))
		}
	}
	return out
}
