package models

import "gorm.io/datatypes"

// DailyNote holds a user's free-text note for one calendar day.
type DailyNote struct {
	Model
	UserID  string         `gorm:"type:varchar(64);not null;uniqueIndex:idx_daily_notes_user_date" json:"user_id"`
	Content string         `gorm:"type:text;not null" json:"content"`
	Date    datatypes.Date `gorm:"not null;uniqueIndex:idx_daily_notes_user_date" json:"date"`
}
