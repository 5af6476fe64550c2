// Package timespec parses user supplied points in time for CLI flags.
package timespec

import (
	"fmt"
	"time"
)

// Parse parses a time specification relative to now.
// Supports two formats:
//   - Go duration format: "30s", "5m", "1h30m"
//   - RFC3339 timestamps: "2025-10-29T13:00:00Z"
//
// Durations are measured forward from now, so "5m" means five minutes from
// now.
func Parse(spec string, now time.Time) (time.Time, error) {
	if spec == "" {
		return time.Time{}, fmt.Errorf("empty time specification")
	}

	if t, err := time.Parse(time.RFC3339, spec); err == nil {
		return t, nil
	}

	if d, err := time.ParseDuration(spec); err == nil {
		if d < 0 {
			return time.Time{}, fmt.Errorf("negative duration: %s", spec)
		}
		return now.Add(d), nil
	}

	return time.Time{}, fmt.Errorf("invalid time specification: %s (use duration like '1h30m' or RFC3339 like '2025-10-29T13:00:00Z')", spec)
}

// Deadline parses an optional --until flag. An empty spec means no deadline
// and returns the zero time. A deadline that is not after now is rejected.
func Deadline(spec string, now time.Time) (time.Time, error) {
	if spec == "" {
		return time.Time{}, nil
	}

	t, err := Parse(spec, now)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --until: %w", err)
	}
	if !t.After(now) {
		return time.Time{}, fmt.Errorf("--until must be in the future")
	}
	return t, nil
}
