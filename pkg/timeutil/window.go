// Package timeutil parses the day windows used by the stats views.
package timeutil

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const (
	// DefaultWindow is the fallback window used when none is provided.
	DefaultWindow = "1w"
	// MaxDays is the longest window the server keeps snapshots for.
	MaxDays = 30
)

var (
	windowPattern = regexp.MustCompile(`^\s*(\d+)\s*([a-z]+)`)
	unitMap       = map[string]int{
		"d":     1,
		"day":   1,
		"days":  1,
		"w":     7,
		"wk":    7,
		"wks":   7,
		"week":  7,
		"weeks": 7,
	}
)

// ParseWindow parses a window such as "1w", "10d" or "1w3d" into a number
// of days and a canonical label. Empty input is the default week.
func ParseWindow(input string) (int, string, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		trimmed = DefaultWindow
	}

	remaining := strings.ToLower(trimmed)
	total := 0
	for len(remaining) > 0 {
		matches := windowPattern.FindStringSubmatch(remaining)
		if len(matches) != 3 {
			return 0, "", fmt.Errorf("invalid window segment %q", strings.TrimSpace(remaining))
		}
		value, err := strconv.Atoi(matches[1])
		if err != nil {
			return 0, "", fmt.Errorf("invalid window value %q: %w", matches[1], err)
		}
		unit, ok := unitMap[matches[2]]
		if !ok {
			return 0, "", fmt.Errorf("unsupported window unit %q, use d or w", matches[2])
		}
		total += value * unit

		remaining = remaining[len(matches[0]):]
	}

	if total <= 0 {
		return 0, "", fmt.Errorf("window must be at least one day")
	}
	if total > MaxDays {
		return 0, "", fmt.Errorf("window %q is longer than %d days", trimmed, MaxDays)
	}
	return total, FormatWindow(total), nil
}

// FormatWindow renders days as weeks and days, e.g. 10 is "1w3d".
func FormatWindow(days int) string {
	if days <= 0 {
		return "0d"
	}
	var parts []string
	if w := days / 7; w > 0 {
		parts = append(parts, fmt.Sprintf("%dw", w))
	}
	if d := days % 7; d > 0 {
		parts = append(parts, fmt.Sprintf("%dd", d))
	}
	return strings.Join(parts, "")
}
