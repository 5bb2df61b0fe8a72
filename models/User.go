package models

// User represents an application account that can authenticate with the platform.
// Its ID is the owner id every meal, time entry and note is partitioned by.
type User struct {
	Model
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
	Name         string
}
