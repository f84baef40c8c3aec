package snapshot

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/colfilter/blobstore"
	"github.com/hupe1980/colfilter/codec"
	"github.com/hupe1980/colfilter/rule"
	"github.com/hupe1980/colfilter/value"
)

func sampleState(t *testing.T) rule.ControllerState {
	t.Helper()

	ctrl := rule.NewController("amount", value.TypeNumber)
	tmpl := ctrl.Groups()[0].Templates[0]
	tmpl.SetOperator(rule.OpBetween)
	tmpl.SetValue(10)
	tmpl.SetSecondaryValue(20)

	t2 := ctrl.AddTemplate(rule.ConnectorOr)
	t2.SetOperator(rule.OpIsAnyOf)
	t2.SetSelectedValues([]value.Value{value.Number(42), value.Null()})

	return ctrl.State()
}

func TestRoundTrip(t *testing.T) {
	ctx := context.Background()

	compressions := []Compression{None{}, S2{}, LZ4{}}
	codecs := []codec.Codec{codec.JSON{}, codec.GoJSON{}}

	for _, comp := range compressions {
		for _, c := range codecs {
			t.Run(comp.Name()+"/"+c.Name(), func(t *testing.T) {
				store := blobstore.NewMemory()
				in := sampleState(t)

				err := Save(ctx, store, "cols/amount", in,
					WithCodec(c), WithCompression(comp))
				require.NoError(t, err)

				var out rule.ControllerState
				require.NoError(t, Load(ctx, store, "cols/amount", &out))
				assert.Equal(t, in, out)

				// Restored controllers keep their semantics.
				ctrl := rule.NewController("amount", value.TypeNumber)
				ctrl.Restore(out)
				assert.True(t, ctrl.Active())
			})
		}
	}
}

func TestLoadSelectsCodecFromHeader(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemory()

	in := sampleState(t)
	require.NoError(t, Save(ctx, store, "x", in, WithCodec(codec.JSON{}), WithCompression(S2{})))

	// Load takes no codec or compression options at all.
	var out rule.ControllerState
	require.NoError(t, Load(ctx, store, "x", &out))
	assert.Equal(t, in, out)
}

func TestLoadMissing(t *testing.T) {
	var out rule.ControllerState
	err := Load(context.Background(), blobstore.NewMemory(), "absent", &out)
	assert.ErrorIs(t, err, blobstore.ErrNotFound)
}

func TestLoadRejectsGarbage(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemory()

	var out rule.ControllerState

	require.NoError(t, store.Put(ctx, "short", []byte("xx")))
	err := Load(ctx, store, "short", &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too small")

	require.NoError(t, store.Put(ctx, "magic", []byte("NOPE012345678901")))
	err = Load(ctx, store, "magic", &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "magic")
}

func TestIncompressibleLZ4(t *testing.T) {
	// High-entropy keys defeat LZ4; the raw fallback must round-trip.
	ctx := context.Background()
	store := blobstore.NewMemory()

	var keys []string
	for i := 0; i < 64; i++ {
		keys = append(keys, strings.Repeat(string(rune('a'+i%26)), i%7+1))
	}
	in := map[string][]string{"keys": keys}

	require.NoError(t, Save(ctx, store, "k", in, WithCompression(LZ4{})))

	var out map[string][]string
	require.NoError(t, Load(ctx, store, "k", &out))
	assert.Equal(t, in, out)
}
