package domain

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	// SecondsPerDay bounds every time window.
	SecondsPerDay = 86400

	// Unreachable is the matrix value for pairs the provider did not report.
	// The solver contract needs finite integers, so a day stands in for infinity.
	Unreachable = SecondsPerDay
)

// ParseTimeOfDay converts "HH:MM" (00:00-23:59, one-digit hour allowed) to
// seconds since midnight.
func ParseTimeOfDay(s string) (int, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok || len(hh) == 0 || len(hh) > 2 || len(mm) != 2 || !digits(hh) || !digits(mm) {
		return 0, fmt.Errorf("invalid time %q: want HH:MM", s)
	}
	h, err := strconv.Atoi(hh)
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("invalid hour in %q", s)
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid minute in %q", s)
	}
	return h*3600 + m*60, nil
}

func digits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// FormatTimeOfDay renders seconds since midnight as HH:MM, flooring to the minute.
// Negative values clamp to 00:00.
func FormatTimeOfDay(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/3600, (seconds%3600)/60)
}
