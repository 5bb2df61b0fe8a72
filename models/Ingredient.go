package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Ingredient is a free-text line item of a recipe. Quantity is not parsed.
type Ingredient struct {
	ID       string  `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name     string  `gorm:"not null" json:"name"`
	Quantity string  `gorm:"not null" json:"quantity"`
	RecipeID string  `gorm:"type:varchar(36);not null;index" json:"recipe_id"`
	Recipe   *Recipe `gorm:"foreignKey:RecipeID" json:"recipe,omitempty"`
}

func (i *Ingredient) BeforeCreate(*gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}
