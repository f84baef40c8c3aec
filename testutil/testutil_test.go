package testutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/colfilter/value"
)

func TestDeterminism(t *testing.T) {
	a := NewRNG(42).Numbers(100, 50)
	b := NewRNG(42).Numbers(100, 50)
	assert.Equal(t, a, b)

	r := NewRNG(42)
	first := r.Strings(10, 5)
	r.Reset()
	assert.Equal(t, first, r.Strings(10, 5))
}

func TestGenerators(t *testing.T) {
	r := NewRNG(1)

	for _, v := range r.Numbers(50, 10) {
		require.Equal(t, value.KindNumber, v.Kind)
		assert.Less(t, v.F64, 10.0)
	}

	now := time.Date(2024, 6, 12, 15, 0, 0, 0, time.UTC)
	for _, v := range r.Dates(50, now) {
		dt, ok := v.AsDateTime()
		require.True(t, ok)
		assert.False(t, dt.After(now))
	}

	withNulls := r.WithNulls(r.Strings(200, 10), 4)
	var nulls int
	for _, v := range withNulls {
		if v.IsNull() {
			nulls++
		}
	}
	assert.Greater(t, nulls, 0)
}
