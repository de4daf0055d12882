// Package config holds value coercion shared by the configuration stores.
//
// TOML decodes integers as int64, YAML as int, and flags arrive as strings,
// so every getter accepts each of those shapes.
package config

import (
	"strconv"
	"strings"
	"time"
)

// String returns v when it is a string, otherwise "".
func String(v any) string {
	s, _ := v.(string)
	return s
}

// Int converts a numeric or numeric-string value. Returns 0 otherwise.
func Int(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return 0
		}
		return i
	default:
		return 0
	}
}

// Float converts a numeric or numeric-string value. Returns 0 otherwise.
func Float(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

// Bool accepts booleans and the strings "true"/"false" in any case.
func Bool(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	case string:
		return strings.EqualFold(strings.TrimSpace(b), "true")
	default:
		return false
	}
}

// Duration accepts Go duration strings ("90s") and plain numbers of seconds.
func Duration(v any) time.Duration {
	switch d := v.(type) {
	case time.Duration:
		return d
	case string:
		s := strings.TrimSpace(d)
		if parsed, err := time.ParseDuration(s); err == nil {
			return parsed
		}
		if secs, err := strconv.ParseFloat(s, 64); err == nil {
			return time.Duration(secs * float64(time.Second))
		}
		return 0
	case int, int64, float64:
		return time.Duration(Float(d) * float64(time.Second))
	default:
		return 0
	}
}
