package mealplan

import "prepclock/models"

// RecipeOwner follows recipe -> meal and returns the owning user id, or an
// empty string when the meal was not loaded.
func RecipeOwner(recipe models.Recipe) string {
	if recipe.Meal == nil {
		return ""
	}
	return recipe.Meal.UserID
}

// IngredientOwner follows ingredient -> recipe -> meal.
func IngredientOwner(ingredient models.Ingredient) string {
	if ingredient.Recipe == nil {
		return ""
	}
	return RecipeOwner(*ingredient.Recipe)
}

// OwnedBy reports whether candidate identifies owner. An empty owner never owns anything.
func OwnedBy(owner, candidate string) bool {
	return owner != "" && owner == candidate
}
