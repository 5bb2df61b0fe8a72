package pages

import (
	"fmt"
	"strings"
	"time"
)

// DefaultDash returns an em dash when the provided value is empty or whitespace.
func DefaultDash(value string) string {
	if strings.TrimSpace(value) == "" {
		return "—"
	}
	return value
}

// FormatDuration renders d as HH:MM:SS. Negative durations render as zero.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int64(d / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total%3600)/60, total%60)
}

// StatusLabel turns a time entry status into display text.
func StatusLabel(status string) string {
	switch strings.ToUpper(status) {
	case "ACTIVE":
		return "Running"
	case "PAUSED":
		return "Paused"
	case "COMPLETED":
		return "Done"
	default:
		return DefaultDash(status)
	}
}

func formatClock(t *time.Time, loc *time.Location) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.In(loc).Format("15:04")
}

func formatDay(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return ""
	}
	return t.In(loc).Format("Mon 02 Jan 2006")
}
