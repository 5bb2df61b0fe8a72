package models

import "time"

// Meal is a planned meal owned by a single user.
type Meal struct {
	Model
	Title       string    `gorm:"not null" json:"title"`
	Description *string   `gorm:"type:text" json:"description"`
	Date        time.Time `gorm:"not null;index" json:"date"`
	UserID      string    `gorm:"type:varchar(64);not null;index" json:"user_id"`
	Recipes     []Recipe  `gorm:"foreignKey:MealID" json:"recipes"`
}
