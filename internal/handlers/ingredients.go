package handlers

import (
	"net/http"

	applog "prepclock/internal/log"
	"prepclock/internal/mealplan"
)

// RecipeIngredients serves the ingredients of one recipe: GET lists, POST adds
// one, PUT replaces the whole set.
func RecipeIngredients(w http.ResponseWriter, r *http.Request) {
	requireAPIUser(func(w http.ResponseWriter, r *http.Request, owner string) {
		recipeID := r.PathValue("id")
		switch r.Method {
		case http.MethodGet:
			listIngredients(w, r, recipeID, owner)
		case http.MethodPost:
			addIngredient(w, r, recipeID, owner)
		case http.MethodPut:
			replaceIngredients(w, r, recipeID, owner)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})(w, r)
}

func listIngredients(w http.ResponseWriter, r *http.Request, recipeID, owner string) {
	ingredients, err := mealService().ListIngredients(r.Context(), recipeID, owner)
	if err != nil {
		writeFault(w, r, err, "Failed to retrieve ingredients")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ingredients": projectIngredients(ingredients)})
}

func addIngredient(w http.ResponseWriter, r *http.Request, recipeID, owner string) {
	var payload ingredientPayload
	if err := decodeJSON(r, &payload); err != nil {
		applog.Debug(r.Context(), "invalid ingredient payload", "error", err)
		writeJSONError(w, http.StatusBadRequest, msgInvalidPayload)
		return
	}

	ingredient, err := mealService().AddIngredient(r.Context(), recipeID, owner, payload.input())
	if err != nil {
		writeFault(w, r, err, "Failed to create ingredient")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"message":    "Ingredient created successfully",
		"ingredient": projectIngredient(*ingredient),
	})
}

func replaceIngredients(w http.ResponseWriter, r *http.Request, recipeID, owner string) {
	var payload struct {
		Ingredients any `json:"ingredients"`
	}
	if err := decodeJSON(r, &payload); err != nil {
		applog.Debug(r.Context(), "invalid ingredients payload", "error", err)
		writeJSONError(w, http.StatusBadRequest, msgInvalidPayload)
		return
	}
	entries, ok := payload.Ingredients.([]any)
	if !ok {
		writeJSONError(w, http.StatusBadRequest, "Ingredients must be an array")
		return
	}

	inputs := make([]mealplan.IngredientInput, 0, len(entries))
	for _, entry := range entries {
		fields, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		inputs = append(inputs, ingredientPayload{Name: fields["name"], Quantity: fields["quantity"]}.input())
	}

	stored, err := mealService().ReplaceIngredients(r.Context(), recipeID, owner, inputs)
	if err != nil {
		writeFault(w, r, err, "Failed to update ingredients")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message":     "Ingredients updated successfully",
		"ingredients": projectIngredients(stored),
	})
}
