package handlers

import (
	"net/http"

	applog "prepclock/internal/log"
	"prepclock/internal/mealplan"
)

// Recipes serves the recipe collection: GET lists, POST creates.
func Recipes(w http.ResponseWriter, r *http.Request) {
	requireAPIUser(func(w http.ResponseWriter, r *http.Request, owner string) {
		switch r.Method {
		case http.MethodGet:
			listRecipes(w, r, owner)
		case http.MethodPost:
			createRecipe(w, r, owner)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})(w, r)
}

// Recipe serves a single recipe: GET, PUT and DELETE.
func Recipe(w http.ResponseWriter, r *http.Request) {
	requireAPIUser(func(w http.ResponseWriter, r *http.Request, owner string) {
		id := r.PathValue("id")
		switch r.Method {
		case http.MethodGet:
			showRecipe(w, r, id, owner)
		case http.MethodPut:
			updateRecipe(w, r, id, owner)
		case http.MethodDelete:
			deleteRecipe(w, r, id, owner)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})(w, r)
}

func listRecipes(w http.ResponseWriter, r *http.Request, owner string) {
	query := mealplan.RecipeQuery{
		Page:   queryInt(r, "page", 1),
		Limit:  queryInt(r, "limit", 10),
		Search: r.URL.Query().Get("search"),
		MealID: r.URL.Query().Get("mealId"),
	}
	recipes, pagination, err := mealService().ListRecipes(r.Context(), owner, query)
	if err != nil {
		writeFault(w, r, err, "Failed to retrieve recipes")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"recipes":    projectRecipes(recipes),
		"pagination": pagination,
	})
}

func createRecipe(w http.ResponseWriter, r *http.Request, owner string) {
	var payload recipePayload
	if err := decodeJSON(r, &payload); err != nil {
		applog.Debug(r.Context(), "invalid recipe payload", "error", err)
		writeJSONError(w, http.StatusBadRequest, msgInvalidPayload)
		return
	}
	mealID, _ := asString(payload.MealID)

	recipe, err := mealService().CreateRecipe(r.Context(), owner, mealID, payload.input())
	if err != nil {
		writeFault(w, r, err, "Failed to create recipe")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Recipe created successfully",
		"recipe":  projectRecipe(*recipe),
	})
}

func showRecipe(w http.ResponseWriter, r *http.Request, id, owner string) {
	recipe, err := mealService().GetRecipe(r.Context(), id, owner)
	if err != nil {
		writeFault(w, r, err, "Failed to retrieve recipe")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"recipe": projectRecipe(*recipe)})
}

func updateRecipe(w http.ResponseWriter, r *http.Request, id, owner string) {
	var payload recipePayload
	if err := decodeJSON(r, &payload); err != nil {
		applog.Debug(r.Context(), "invalid recipe payload", "error", err)
		writeJSONError(w, http.StatusBadRequest, msgInvalidPayload)
		return
	}
	instructions, _ := asString(payload.Instructions)
	var ingredients *[]mealplan.IngredientInput
	if payload.Ingredients != nil {
		inputs := ingredientInputs(*payload.Ingredients)
		ingredients = &inputs
	}

	recipe, err := mealService().UpdateRecipe(r.Context(), id, owner, instructions, ingredients)
	if err != nil {
		writeFault(w, r, err, "Failed to update recipe")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Recipe updated successfully",
		"recipe":  projectRecipe(*recipe),
	})
}

func deleteRecipe(w http.ResponseWriter, r *http.Request, id, owner string) {
	if err := mealService().DeleteRecipe(r.Context(), id, owner); err != nil {
		writeFault(w, r, err, "Failed to delete recipe")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "Recipe deleted successfully"})
}
