package value

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvert(t *testing.T) {
	when := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		raw    any
		target ColumnType
		want   Value
	}{
		{"nil is null", nil, TypeNumber, Null()},
		{"blank is null", "   ", TypeString, Null()},
		{"sentinel is null", NoValueSentinel, TypeString, Null()},
		{"number from string", "42.5", TypeNumber, Number(42.5)},
		{"number from int", 7, TypeNumber, Number(7)},
		{"number parse failure", "abc", TypeNumber, Null()},
		{"date from time", when, TypeDateTime, DateTime(when)},
		{"date from string", "2024-03-15", TypeDateTime, DateTime(when)},
		{"date parse failure", "not a date", TypeDateTime, Null()},
		{"bool passthrough", true, TypeBoolean, Bool(true)},
		{"bool rejects string", "true", TypeBoolean, Null()},
		{"string lowercased", "HeLLo", TypeString, String("hello")},
		{"enum passthrough", Enum("Red", 2), TypeEnum, Enum("Red", 2)},
		{"enum rejects string", "Red", TypeEnum, Null()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Convert(tt.raw, tt.target)
			assert.Equal(t, tt.want.Kind, got.Kind)
			assert.True(t, tt.want.Equal(got), "want %v got %v", tt.want, got)
		})
	}
}

func TestConvertRoundTrip(t *testing.T) {
	// Values accepted for a type must survive a to-string round trip.
	tests := []struct {
		name   string
		v      Value
		target ColumnType
	}{
		{"number", Number(42.5), TypeNumber},
		{"negative number", Number(-3), TypeNumber},
		{"date", DateTime(time.Date(2023, 7, 1, 0, 0, 0, 0, time.UTC)), TypeDateTime},
		{"string", String("hello"), TypeString},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Convert(tt.v.Display(), tt.target)
			assert.True(t, tt.v.Equal(got), "want %v got %v", tt.v, got)
		})
	}
}

func TestInferOrder(t *testing.T) {
	// DateTime wins over Number wins over Bool wins over String.
	assert.Equal(t, KindDateTime, Infer("2024-03-15").Kind)
	assert.Equal(t, KindNumber, Infer("123").Kind)
	assert.Equal(t, KindBool, Infer(true).Kind)
	assert.Equal(t, KindString, Infer("hello world").Kind)
	assert.Equal(t, KindNull, Infer("").Kind)
}

func TestDetectType(t *testing.T) {
	tests := []struct {
		name   string
		values []Value
		want   ColumnType
	}{
		{
			"numbers",
			[]Value{Null(), Number(1), Number(2), Number(3)},
			TypeNumber,
		},
		{
			"first slot skipped",
			[]Value{String("(blanks)"), Number(1), Number(2)},
			TypeNumber,
		},
		{
			"dates",
			[]Value{Null(), DateTime(time.Now()), DateTime(time.Now())},
			TypeDateTime,
		},
		{
			"bools",
			[]Value{Null(), Bool(true), Bool(false)},
			TypeBoolean,
		},
		{
			"enums",
			[]Value{Null(), Enum("A", 0), Enum("B", 1)},
			TypeEnum,
		},
		{
			"mixed falls back to string",
			[]Value{Null(), Number(1), String("x")},
			TypeString,
		},
		{
			"single value is not skipped",
			[]Value{Number(42)},
			TypeNumber,
		},
		{
			"empty is string",
			nil,
			TypeString,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectType(tt.values))
		})
	}
}

func TestCompare(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name string
		a, b Value
		ct   ColumnType
		want int
	}{
		{"null before number", Null(), Number(-1000), TypeNumber, -1},
		{"failed conversion before number", String("x"), Number(1), TypeNumber, -1},
		{"numbers", Number(2), Number(10), TypeNumber, -1},
		{"dates", DateTime(now), DateTime(now.Add(time.Hour)), TypeDateTime, -1},
		{"strings case-insensitive equal", String("ABC"), String("abc"), TypeString, 0},
		{"strings ordinal", String("apple"), String("Banana"), TypeString, -1},
		{"enum by ordinal", Enum("Z", 0), Enum("A", 1), TypeEnum, -1},
		{"bool false first", Bool(false), Bool(true), TypeBoolean, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Compare(tt.a, tt.b, tt.ct))
		})
	}
}

func TestOrderRange(t *testing.T) {
	lo, hi := OrderRange(Number(9), Number(3), TypeNumber)
	assert.Equal(t, Number(3), lo)
	assert.Equal(t, Number(9), hi)

	lo, hi = OrderRange(Number(3), Number(9), TypeNumber)
	assert.Equal(t, Number(3), lo)
	assert.Equal(t, Number(9), hi)

	// Nulls are left alone; ordering only applies to real operands.
	lo, hi = OrderRange(Number(3), Null(), TypeNumber)
	assert.Equal(t, Number(3), lo)
	assert.True(t, hi.IsNull())
}

func TestValueJSONRoundTrip(t *testing.T) {
	for _, v := range []Value{
		Null(),
		Bool(true),
		Number(4.25),
		DateTime(time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)),
		String("Hello"),
		Enum("Red", 2),
	} {
		b, err := v.MarshalJSON()
		require.NoError(t, err)

		var got Value
		require.NoError(t, got.UnmarshalJSON(b))
		assert.True(t, v.Equal(got), "round trip of %v got %v", v, got)
	}
}
