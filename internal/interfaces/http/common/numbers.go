package common

import (
	"fmt"
	"strconv"
	"strings"
)

// ParsePositiveInt parses positive integers with fallback.
func ParsePositiveInt(value string, fallback int) (int, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback, false
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 {
		return fallback, false
	}
	return parsed, true
}

// ParseDaysOld parses a staleness threshold query parameter. An absent value
// falls back; a non-integer or negative value is an error, never clamped.
func ParseDaysOld(value string, fallback int) (int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("daysOld must be an integer: %q", value)
	}
	if parsed < 0 {
		return 0, fmt.Errorf("daysOld must not be negative: %d", parsed)
	}
	return parsed, nil
}
