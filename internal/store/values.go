package store

import "strconv"

// Row value coercions. The driver hands back int64, float64 or string
// depending on column affinity; the tracker repositories normalize through
// these instead of type-asserting at every call site.

// AsInt64 converts a row value to int64.
func AsInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case float64:
		return int64(n), true
	case string:
		i, err := strconv.ParseInt(n, 10, 64)
		return i, err == nil
	default:
		return 0, false
	}
}

// AsFloat64 converts a row value to float64.
func AsFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// AsString converts a row value to its string form. NULL becomes "".
func AsString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case nil:
		return ""
	case int64:
		return strconv.FormatInt(s, 10)
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	default:
		return ""
	}
}

// AsBool converts a stored 0/1 flag to bool.
func AsBool(v any) bool {
	n, ok := AsInt64(v)
	return ok && n != 0
}
