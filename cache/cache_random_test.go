package cache_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/colfilter/cache"
	"github.com/hupe1980/colfilter/testutil"
	"github.com/hupe1980/colfilter/value"
)

// Mixed random columns must always come out deduplicated, counted and
// typed, whatever the draw.
func TestInstallRandomColumns(t *testing.T) {
	rng := testutil.NewRNG(7)

	for i := 0; i < 20; i++ {
		raws := rng.RawColumn(500)
		vc := cache.New(raws)

		vals := vc.Values()
		seen := make(map[string]bool, len(vals))
		total := 0
		for _, v := range vals {
			require.False(t, seen[v.Key()], "duplicate key %q", v.Key())
			seen[v.Key()] = true
			total += vc.Count(v.Display())
		}
		assert.LessOrEqual(t, len(vals), len(raws))
	}
}

func TestDetectionOnRandomNumbers(t *testing.T) {
	rng := testutil.NewRNG(11)

	raws := make([]any, 0, 200)
	for _, v := range rng.Numbers(200, 1000) {
		raws = append(raws, v.F64)
	}

	vc := cache.New(raws)
	assert.Equal(t, value.TypeNumber, vc.Type())
}
