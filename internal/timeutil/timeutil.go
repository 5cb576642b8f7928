// Package timeutil parses the duration strings used throughout the
// settings layer, falling back to compiled-in defaults.
package timeutil

import (
	"strings"
	"time"
)

// ParseDurationOrDefault parses value as a time.Duration and returns
// def when value is empty or malformed.
func ParseDurationOrDefault(value string, def time.Duration) time.Duration {
	if strings.TrimSpace(value) == "" {
		return def
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return def
	}
	return parsed
}
