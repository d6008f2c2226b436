package utils

import (
	"strings"
)

// Coercion rules for values decoded from untrusted JSON (e.g. model output
// unmarshalled into map[string]interface{}). Numeric fields must be true JSON
// numbers; numeric-looking strings are rejected so that a missing value and a
// mistyped value follow the same clarification path.

// CoerceNumber returns the value as float64 if it is a JSON number
func CoerceNumber(v interface{}) (float64, bool) {
	f, ok := v.(float64)
	return f, ok
}

// CoerceString returns the trimmed value if it is a non-empty JSON string
func CoerceString(v interface{}) (string, bool) {
	s, ok := v.(string)
	if !ok {
		return "", false
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	return s, true
}
