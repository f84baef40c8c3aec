package value

import (
	"math"
	"strconv"
	"strings"
	"time"
	"unique"

	gojson "github.com/goccy/go-json"
)

// Kind identifies the concrete type stored in a Value.
type Kind uint8

const (
	// KindInvalid represents an invalid kind.
	KindInvalid Kind = iota
	// KindNull represents the normalized null/blank sentinel.
	KindNull
	// KindBool represents a boolean value.
	KindBool
	// KindNumber represents a numeric value.
	KindNumber
	// KindDateTime represents a point-in-time value.
	KindDateTime
	// KindString represents a string value.
	KindString
	// KindEnum represents a named enumeration member with an ordinal.
	KindEnum
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "Null"
	case KindBool:
		return "Bool"
	case KindNumber:
		return "Number"
	case KindDateTime:
		return "DateTime"
	case KindString:
		return "String"
	case KindEnum:
		return "Enum"
	default:
		return "Invalid"
	}
}

// ColumnType is the detected data type of a column.
type ColumnType uint8

const (
	// TypeString is the default column type.
	TypeString ColumnType = iota
	// TypeNumber holds numeric values.
	TypeNumber
	// TypeDateTime holds point-in-time values.
	TypeDateTime
	// TypeBoolean holds boolean values.
	TypeBoolean
	// TypeEnum holds enumeration members.
	TypeEnum
)

// String returns the string representation of the ColumnType.
func (t ColumnType) String() string {
	switch t {
	case TypeString:
		return "String"
	case TypeNumber:
		return "Number"
	case TypeDateTime:
		return "DateTime"
	case TypeBoolean:
		return "Boolean"
	case TypeEnum:
		return "Enum"
	default:
		return "Unknown"
	}
}

// NoValueSentinel is the reserved display string representing the absence of
// a value. Raw inputs equal to this string normalize to the null sentinel.
const NoValueSentinel = "(blanks)"

// Value is a small typed value used for column cells, filter operands and
// cached distinct values.
//
// The representation is designed to make filtering fast and predictable:
// no reflection and no fmt-based stringification on the hot path.
//
// NOTE: This is also used for persistence; keep it stable.
type Value struct {
	Kind Kind                  `json:"k"`
	F64  float64               `json:"f,omitempty"`
	T    time.Time             `json:"t"`
	B    bool                  `json:"b,omitempty"`
	Ord  int64                 `json:"o,omitempty"`
	s    unique.Handle[string] `json:"-"` // Private interned string
}

// Null returns the null sentinel Value.
func Null() Value { return Value{Kind: KindNull} }

// Bool returns a boolean Value.
func Bool(v bool) Value { return Value{Kind: KindBool, B: v} }

// Number returns a numeric Value.
func Number(v float64) Value { return Value{Kind: KindNumber, F64: v} }

// DateTime returns a point-in-time Value.
func DateTime(v time.Time) Value { return Value{Kind: KindDateTime, T: v} }

// String returns a string Value.
func String(v string) Value { return Value{Kind: KindString, s: unique.Make(v)} }

// Enum returns an enumeration Value with a display name and ordinal.
func Enum(name string, ord int64) Value {
	return Value{Kind: KindEnum, Ord: ord, s: unique.Make(name)}
}

// IsNull reports whether the value is the null sentinel. The zero Value
// counts as null so an unset operand never takes part in a comparison.
func (v Value) IsNull() bool { return v.Kind == KindNull || v.Kind == KindInvalid }

// AsBool returns the boolean value if Kind is KindBool.
func (v Value) AsBool() (bool, bool) {
	if v.Kind != KindBool {
		return false, false
	}
	return v.B, true
}

// AsNumber returns the numeric value if Kind is KindNumber.
func (v Value) AsNumber() (float64, bool) {
	if v.Kind != KindNumber {
		return 0, false
	}
	return v.F64, true
}

// AsDateTime returns the time value if Kind is KindDateTime.
func (v Value) AsDateTime() (time.Time, bool) {
	if v.Kind != KindDateTime {
		return time.Time{}, false
	}
	return v.T, true
}

// AsString returns the string value if Kind is KindString.
func (v Value) AsString() (string, bool) {
	if v.Kind != KindString {
		return "", false
	}
	return v.s.Value(), true
}

// StringValue returns the interned string for KindString and KindEnum,
// otherwise the empty string.
func (v Value) StringValue() string {
	if v.Kind == KindString || v.Kind == KindEnum {
		return v.s.Value()
	}
	return ""
}

// Key returns a stable string representation for use in maps.
//
// It is intended for internal indexing (posting lists, dedup) and must remain
// stable across versions for persisted rule sets.
func (v Value) Key() string {
	switch v.Kind {
	case KindNull:
		return "null"
	case KindBool:
		if v.B {
			return "b:1"
		}
		return "b:0"
	case KindNumber:
		return "n:" + strconv.FormatUint(math.Float64bits(v.F64), 16)
	case KindDateTime:
		return "d:" + strconv.FormatInt(v.T.UnixNano(), 10)
	case KindString:
		return "s:" + v.s.Value()
	case KindEnum:
		return "e:" + strconv.FormatInt(v.Ord, 10) + ":" + v.s.Value()
	default:
		return "invalid"
	}
}

// Display returns a human-readable rendering for host "chips" and summaries.
func (v Value) Display() string {
	switch v.Kind {
	case KindNull:
		return NoValueSentinel
	case KindBool:
		return strconv.FormatBool(v.B)
	case KindNumber:
		return strconv.FormatFloat(v.F64, 'g', -1, 64)
	case KindDateTime:
		return v.T.Format("2006-01-02 15:04:05")
	case KindString, KindEnum:
		return v.s.Value()
	default:
		return ""
	}
}

// Equal reports semantic equality between two values.
//
// Nulls equal only nulls. Strings compare case-insensitively, matching the
// comparator used for sorting and filtering.
func (v Value) Equal(o Value) bool {
	if v.IsNull() || o.IsNull() {
		return v.IsNull() && o.IsNull()
	}
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case KindBool:
		return v.B == o.B
	case KindNumber:
		return v.F64 == o.F64
	case KindDateTime:
		return v.T.Equal(o.T)
	case KindString:
		return strings.EqualFold(v.s.Value(), o.s.Value())
	case KindEnum:
		return v.Ord == o.Ord && v.s.Value() == o.s.Value()
	default:
		return false
	}
}

// MarshalJSON implements json.Marshaler.
func (v Value) MarshalJSON() ([]byte, error) {
	type Alias Value
	aux := &struct {
		S string `json:"s,omitempty"`
		*Alias
	}{
		Alias: (*Alias)(&v),
	}
	if v.Kind == KindString || v.Kind == KindEnum {
		aux.S = v.s.Value()
	}
	return gojson.Marshal(aux)
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *Value) UnmarshalJSON(data []byte) error {
	type Alias Value
	aux := &struct {
		S string `json:"s,omitempty"`
		*Alias
	}{
		Alias: (*Alias)(v),
	}
	if err := gojson.Unmarshal(data, &aux); err != nil {
		return err
	}
	if v.Kind == KindString || v.Kind == KindEnum {
		v.s = unique.Make(aux.S)
	}
	return nil
}
