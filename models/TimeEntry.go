package models

import "time"

// TimeEntryStatus is the lifecycle state of a tracked session.
type TimeEntryStatus string

const (
	StatusActive    TimeEntryStatus = "ACTIVE"
	StatusPaused    TimeEntryStatus = "PAUSED"
	StatusCompleted TimeEntryStatus = "COMPLETED"
)

// TimeEntry is one clock-in/clock-out session. An entry with a nil EndTime is open.
type TimeEntry struct {
	Model
	UserID      string          `gorm:"type:varchar(64);not null;index" json:"user_id"`
	StartTime   time.Time       `gorm:"not null;index" json:"start_time"`
	EndTime     *time.Time      `json:"end_time"`
	Status      TimeEntryStatus `gorm:"type:varchar(16);not null;default:ACTIVE;index" json:"status"`
	Description *string         `gorm:"type:text" json:"description"`
}

// Open reports whether the entry has not been stopped yet.
func (e TimeEntry) Open() bool {
	return e.EndTime == nil && e.Status != StatusCompleted
}
