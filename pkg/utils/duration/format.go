// ABOUTME: Duration formatting utilities for log fields and user-facing text
// ABOUTME: Renders fractional video lengths as clock strings and durations as words

package duration

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// FormatSeconds converts a video length in seconds to HH:MM:SS or MM:SS format.
// Fractions are rounded; zero or negative input yields "".
func FormatSeconds(seconds float64) string {
	if seconds <= 0 || math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return ""
	}

	total := int(math.Round(seconds))
	hours := total / 3600
	minutes := (total % 3600) / 60
	secs := total % 60

	if hours > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, secs)
	}
	return fmt.Sprintf("%02d:%02d", minutes, secs)
}

// HumanReadable converts a duration to words, e.g. "1 hour 30 minutes"
func HumanReadable(d time.Duration) string {
	seconds := int(d.Seconds())
	if seconds < 60 {
		return plural(seconds, "second")
	}

	hours := seconds / 3600
	minutes := (seconds % 3600) / 60

	parts := []string{}
	if hours > 0 {
		parts = append(parts, plural(hours, "hour"))
	}
	if minutes > 0 {
		parts = append(parts, plural(minutes, "minute"))
	}

	return strings.Join(parts, " ")
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
