package models

// Recipe belongs to a meal; its owner is the owner of that meal.
type Recipe struct {
	Model
	Instructions string       `gorm:"type:text;not null" json:"instructions"`
	MealID       string       `gorm:"type:varchar(36);not null;index" json:"meal_id"`
	Meal         *Meal        `gorm:"foreignKey:MealID" json:"meal,omitempty"`
	Ingredients  []Ingredient `gorm:"foreignKey:RecipeID" json:"ingredients"`
}
