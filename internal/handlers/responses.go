package handlers

import (
	"time"

	"prepclock/internal/timetrack"
	"prepclock/models"
)

type ingredientResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Quantity string `json:"quantity"`
	RecipeID string `json:"recipeId"`
}

type mealSummaryResponse struct {
	ID    string    `json:"id"`
	Title string    `json:"title"`
	Date  time.Time `json:"date"`
}

type recipeResponse struct {
	ID           string               `json:"id"`
	Instructions string               `json:"instructions"`
	MealID       string               `json:"mealId"`
	CreatedAt    time.Time            `json:"createdAt"`
	UpdatedAt    time.Time            `json:"updatedAt"`
	Ingredients  []ingredientResponse `json:"ingredients"`
	Meal         *mealSummaryResponse `json:"meal,omitempty"`
}

type mealResponse struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	Description *string          `json:"description"`
	Date        time.Time        `json:"date"`
	UserID      string           `json:"userId"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
	Recipes     []recipeResponse `json:"recipes"`
}

type timeEntryResponse struct {
	ID             string     `json:"id"`
	UserID         string     `json:"user_id"`
	StartTime      time.Time  `json:"start_time"`
	EndTime        *time.Time `json:"end_time"`
	Status         string     `json:"status"`
	Description    *string    `json:"description"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	ElapsedSeconds int64      `json:"elapsed_seconds"`
}

type dailyNoteResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Content   string    `json:"content"`
	Date      string    `json:"date"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func projectIngredient(ingredient models.Ingredient) ingredientResponse {
	return ingredientResponse{
		ID:       ingredient.ID,
		Name:     ingredient.Name,
		Quantity: ingredient.Quantity,
		RecipeID: ingredient.RecipeID,
	}
}

func projectIngredients(ingredients []models.Ingredient) []ingredientResponse {
	responses := make([]ingredientResponse, 0, len(ingredients))
	for _, ingredient := range ingredients {
		responses = append(responses, projectIngredient(ingredient))
	}
	return responses
}

func projectRecipe(recipe models.Recipe) recipeResponse {
	response := recipeResponse{
		ID:           recipe.ID,
		Instructions: recipe.Instructions,
		MealID:       recipe.MealID,
		CreatedAt:    recipe.CreatedAt,
		UpdatedAt:    recipe.UpdatedAt,
		Ingredients:  projectIngredients(recipe.Ingredients),
	}
	if recipe.Meal != nil {
		response.Meal = &mealSummaryResponse{
			ID:    recipe.Meal.ID,
			Title: recipe.Meal.Title,
			Date:  recipe.Meal.Date,
		}
	}
	return response
}

func projectRecipes(recipes []models.Recipe) []recipeResponse {
	responses := make([]recipeResponse, 0, len(recipes))
	for _, recipe := range recipes {
		responses = append(responses, projectRecipe(recipe))
	}
	return responses
}

func projectMeal(meal models.Meal) mealResponse {
	return mealResponse{
		ID:          meal.ID,
		Title:       meal.Title,
		Description: meal.Description,
		Date:        meal.Date,
		UserID:      meal.UserID,
		CreatedAt:   meal.CreatedAt,
		UpdatedAt:   meal.UpdatedAt,
		Recipes:     projectRecipes(meal.Recipes),
	}
}

func projectMeals(meals []models.Meal) []mealResponse {
	responses := make([]mealResponse, 0, len(meals))
	for _, meal := range meals {
		responses = append(responses, projectMeal(meal))
	}
	return responses
}

func projectTimeEntry(entry models.TimeEntry, now time.Time) timeEntryResponse {
	return timeEntryResponse{
		ID:             entry.ID,
		UserID:         entry.UserID,
		StartTime:      entry.StartTime,
		EndTime:        entry.EndTime,
		Status:         string(entry.Status),
		Description:    entry.Description,
		CreatedAt:      entry.CreatedAt,
		UpdatedAt:      entry.UpdatedAt,
		ElapsedSeconds: int64(timetrack.Elapsed(entry, now).Seconds()),
	}
}

func projectTimeEntries(entries []models.TimeEntry, now time.Time) []timeEntryResponse {
	responses := make([]timeEntryResponse, 0, len(entries))
	for _, entry := range entries {
		responses = append(responses, projectTimeEntry(entry, now))
	}
	return responses
}

func projectDailyNote(note *models.DailyNote) *dailyNoteResponse {
	if note == nil {
		return nil
	}
	return &dailyNoteResponse{
		ID:        note.ID,
		UserID:    note.UserID,
		Content:   note.Content,
		Date:      time.Time(note.Date).UTC().Format("2006-01-02"),
		CreatedAt: note.CreatedAt,
		UpdatedAt: note.UpdatedAt,
	}
}
