package timetrack

import (
	"time"

	"prepclock/models"
)

// Elapsed is the tracked duration of entry as of now. A paused entry counts
// up to its last update, which is when it was paused.
func Elapsed(entry models.TimeEntry, now time.Time) time.Duration {
	var until time.Time
	switch {
	case entry.EndTime != nil:
		until = *entry.EndTime
	case entry.Status == models.StatusPaused:
		until = entry.UpdatedAt
	default:
		until = now
	}
	if d := until.Sub(entry.StartTime); d > 0 {
		return d
	}
	return 0
}

// TotalElapsed sums Elapsed over entries.
func TotalElapsed(entries []models.TimeEntry, now time.Time) time.Duration {
	var total time.Duration
	for _, entry := range entries {
		total += Elapsed(entry, now)
	}
	return total
}
