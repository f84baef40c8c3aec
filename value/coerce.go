package value

import (
	"strconv"
	"strings"
	"time"
)

// dateLayouts are the layouts attempted when parsing raw strings as dates.
// Order matters: the most specific layouts come first.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"01/02/2006 15:04:05",
	"01/02/2006",
	"2006/01/02",
}

// Convert coerces a raw value to a typed Value for the given column type.
//
// A nil, blank or sentinel raw value converts to Null. A raw value that
// cannot be parsed as the target type also converts to Null; conversion
// never fails loudly. String targets are lowercased so that downstream
// comparisons are case-insensitive.
func Convert(raw any, target ColumnType) Value {
	raw, blank := normalizeRaw(raw)
	if blank {
		return Null()
	}

	switch target {
	case TypeDateTime:
		if t, ok := parseDateTime(raw); ok {
			return DateTime(t)
		}
		return Null()
	case TypeNumber:
		if f, ok := parseNumber(raw); ok {
			return Number(f)
		}
		return Null()
	case TypeBoolean:
		// Booleans pass through only when the raw value already is one.
		switch b := raw.(type) {
		case bool:
			return Bool(b)
		case Value:
			if b.Kind == KindBool {
				return b
			}
		}
		return Null()
	case TypeEnum:
		if v, ok := raw.(Value); ok && v.Kind == KindEnum {
			return v
		}
		return Null()
	default:
		return String(strings.ToLower(rawString(raw)))
	}
}

// Infer converts a raw value without a known target type, testing candidate
// types in order DateTime, Number, Bool and defaulting to String.
func Infer(raw any) Value {
	raw, blank := normalizeRaw(raw)
	if blank {
		return Null()
	}

	if v, ok := raw.(Value); ok {
		return v
	}
	if t, ok := raw.(time.Time); ok {
		return DateTime(t)
	}
	if s, ok := raw.(string); ok {
		if t, ok := parseDateString(s); ok {
			return DateTime(t)
		}
		if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return Number(f)
		}
		return String(s)
	}
	if f, ok := parseNumber(raw); ok {
		return Number(f)
	}
	if b, ok := raw.(bool); ok {
		return Bool(b)
	}
	return String(rawString(raw))
}

// DetectType inspects a normalized value set and returns the column type.
//
// When more than one value is present the first slot is skipped, since
// hosts commonly reserve it for a null display entry; at most 100 further
// values are sampled. All sampled non-null values must agree on a kind
// for a non-string type to win.
func DetectType(values []Value) ColumnType {
	const sampleLimit = 100

	skipFirst := len(values) > 1
	sampled := 0
	detected := KindInvalid
	for i, v := range values {
		if (skipFirst && i == 0) || v.Kind == KindNull || v.Kind == KindInvalid {
			continue
		}
		if sampled >= sampleLimit {
			break
		}
		sampled++
		if detected == KindInvalid {
			detected = v.Kind
			continue
		}
		if v.Kind != detected {
			return TypeString
		}
	}

	switch detected {
	case KindDateTime:
		return TypeDateTime
	case KindBool:
		return TypeBoolean
	case KindNumber:
		return TypeNumber
	case KindEnum:
		return TypeEnum
	default:
		return TypeString
	}
}

// Normalize folds null-ish raw input into the sentinel and types everything
// else via Infer. This is the cache's load-time normalization.
func Normalize(raw any) Value {
	return Infer(raw)
}

// normalizeRaw unwraps Value nulls and recognizes blank input.
func normalizeRaw(raw any) (any, bool) {
	switch x := raw.(type) {
	case nil:
		return nil, true
	case Value:
		if x.Kind == KindNull || x.Kind == KindInvalid {
			return nil, true
		}
		if x.Kind == KindString {
			return normalizeRaw(x.s.Value())
		}
		return x, false
	case string:
		trimmed := strings.TrimSpace(x)
		if trimmed == "" || trimmed == NoValueSentinel {
			return nil, true
		}
		return x, false
	case *string:
		if x == nil {
			return nil, true
		}
		return normalizeRaw(*x)
	default:
		return raw, false
	}
}

func parseNumber(raw any) (float64, bool) {
	switch x := raw.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int8:
		return float64(x), true
	case int16:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint:
		return float64(x), true
	case uint8:
		return float64(x), true
	case uint16:
		return float64(x), true
	case uint32:
		return float64(x), true
	case uint64:
		return float64(x), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	case Value:
		if x.Kind == KindNumber {
			return x.F64, true
		}
		return 0, false
	default:
		return 0, false
	}
}

func parseDateTime(raw any) (time.Time, bool) {
	switch x := raw.(type) {
	case time.Time:
		return x, true
	case string:
		return parseDateString(x)
	case Value:
		if x.Kind == KindDateTime {
			return x.T, true
		}
		return time.Time{}, false
	default:
		return time.Time{}, false
	}
}

func parseDateString(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	// Bare numbers are numbers, not dates, even though some layouts would
	// happily parse them.
	if _, err := strconv.ParseFloat(s, 64); err == nil {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func rawString(raw any) string {
	switch x := raw.(type) {
	case string:
		return x
	case Value:
		return x.Display()
	case bool:
		return strconv.FormatBool(x)
	case time.Time:
		return x.Format("2006-01-02 15:04:05")
	default:
		if f, ok := parseNumber(raw); ok {
			return strconv.FormatFloat(f, 'g', -1, 64)
		}
		return ""
	}
}
