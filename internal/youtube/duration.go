package youtube

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/sosodev/duration"
)

const (
	day   = 24 * time.Hour
	week  = 7 * day
	year  = 365 * day
	month = year / 12
)

// ParseDuration parses the ISO 8601 durations used by the Data API, e.g. "PT1H2M3S".
// Negative durations and durations beyond the range of time.Duration are rejected.
func ParseDuration(s string) (time.Duration, error) {
	// the parser accepts a bare "P" and a trailing number without a unit
	if len(s) < 2 || !strings.ContainsRune("YMWDHS", rune(s[len(s)-1])) {
		return 0, fmt.Errorf("invalid ISO 8601 duration %q", s)
	}

	d, err := duration.Parse(s)
	if err != nil {
		return 0, fmt.Errorf("invalid ISO 8601 duration %q: %w", s, err)
	}
	if d.Negative {
		return 0, fmt.Errorf("negative ISO 8601 duration %q", s)
	}

	ns := d.Years*float64(year) +
		d.Months*float64(month) +
		d.Weeks*float64(week) +
		d.Days*float64(day) +
		d.Hours*float64(time.Hour) +
		d.Minutes*float64(time.Minute) +
		d.Seconds*float64(time.Second)
	if ns >= math.MaxInt64 {
		return 0, fmt.Errorf("ISO 8601 duration %q out of range", s)
	}
	return d.ToTimeDuration(), nil
}
