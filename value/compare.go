package value

import "strings"

// Compare orders two values under the comparator for the given column type.
//
// The null sentinel always sorts before any real value; values whose kind
// does not match the column type (failed conversions) sort after the
// sentinel but before properly typed values.
func Compare(a, b Value, ct ColumnType) int {
	if c, done := compareNullFirst(a, b); done {
		return c
	}

	switch ct {
	case TypeNumber:
		return compareTyped(a, b, KindNumber, func(x, y Value) int {
			switch {
			case x.F64 < y.F64:
				return -1
			case x.F64 > y.F64:
				return 1
			default:
				return 0
			}
		})
	case TypeDateTime:
		return compareTyped(a, b, KindDateTime, func(x, y Value) int {
			return x.T.Compare(y.T)
		})
	case TypeEnum:
		return compareTyped(a, b, KindEnum, func(x, y Value) int {
			switch {
			case x.Ord < y.Ord:
				return -1
			case x.Ord > y.Ord:
				return 1
			default:
				return compareFold(x.StringValue(), y.StringValue())
			}
		})
	case TypeBoolean:
		return compareTyped(a, b, KindBool, func(x, y Value) int {
			switch {
			case !x.B && y.B:
				return -1
			case x.B && !y.B:
				return 1
			default:
				return 0
			}
		})
	default:
		return compareFold(a.Display(), b.Display())
	}
}

// OrderRange returns (lo, hi) such that lo <= hi under the column type's
// comparator. Range operators rely on this whenever raw operands change.
func OrderRange(a, b Value, ct ColumnType) (Value, Value) {
	if a.Kind == KindNull || b.Kind == KindNull {
		return a, b
	}
	if Compare(a, b, ct) > 0 {
		return b, a
	}
	return a, b
}

func compareNullFirst(a, b Value) (int, bool) {
	aNull := a.Kind == KindNull || a.Kind == KindInvalid
	bNull := b.Kind == KindNull || b.Kind == KindInvalid
	switch {
	case aNull && bNull:
		return 0, true
	case aNull:
		return -1, true
	case bNull:
		return 1, true
	default:
		return 0, false
	}
}

// compareTyped orders mistyped values (failed conversions) first, then
// delegates to cmp for two properly typed values.
func compareTyped(a, b Value, want Kind, cmp func(x, y Value) int) int {
	aOK := a.Kind == want
	bOK := b.Kind == want
	switch {
	case !aOK && !bOK:
		return compareFold(a.Display(), b.Display())
	case !aOK:
		return -1
	case !bOK:
		return 1
	default:
		return cmp(a, b)
	}
}

// compareFold is an ordinal case-insensitive string compare.
func compareFold(a, b string) int {
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}
