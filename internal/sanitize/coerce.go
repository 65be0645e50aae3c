package sanitize

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"focusflow/internal/model"
)

// truthy mirrors how loosely typed storage treats "present" values: nil,
// false, 0, NaN and "" are all absent.
func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case float64:
		return x != 0 && !math.IsNaN(x)
	case json.Number:
		f, err := x.Float64()
		return err == nil && f != 0
	case string:
		return x != ""
	default:
		return true
	}
}

// str coerces scalars to their string form. Absent values, objects and
// arrays become "".
func str(v any) string {
	if !truthy(v) {
		return ""
	}
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case json.Number:
		return x.String()
	case bool:
		return strconv.FormatBool(x)
	default:
		return ""
	}
}

// number reads a numeric value, accepting numeric strings.
func number(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return 0, false
		}
		return x, true
	case json.Number:
		f, err := x.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	case bool:
		if x {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}

// millis reads a Unix-millisecond timestamp. Legacy RFC 3339 strings are
// converted; anything else falls back to now.
func millis(v any, now time.Time) int64 {
	if !truthy(v) {
		return model.Millis(now)
	}
	if s, ok := v.(string); ok {
		if t, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(s)); err == nil {
			return model.Millis(t)
		}
	}
	if f, ok := number(v); ok && f > 0 {
		return int64(f)
	}
	return model.Millis(now)
}

// isoDate keeps valid YYYY-MM-DD values and trims legacy timestamps such as
// "2024-06-01T00:00:00Z" down to their date. Anything else is "".
func isoDate(v any) string {
	s := strings.TrimSpace(str(v))
	if model.IsISODate(s) {
		return s
	}
	if len(s) > 10 && (s[10] == 'T' || s[10] == ' ') && model.IsISODate(s[:10]) {
		return s[:10]
	}
	return ""
}

// clock normalizes "9:05" or "09:05:00" to "09:05"; invalid values become "".
func clock(v any) string {
	s := strings.TrimSpace(str(v))
	if s == "" || model.IsClock(s) {
		return s
	}
	for _, layout := range []string{"15:04", "15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("15:04")
		}
	}
	return ""
}

func clampInt(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}
