package handlers

import (
	"net/http"

	"prepclock/internal/fault"
	applog "prepclock/internal/log"
	"prepclock/internal/mealplan"
)

type ingredientPayload struct {
	Name     any `json:"name"`
	Quantity any `json:"quantity"`
}

type recipePayload struct {
	MealID       any                  `json:"mealId"`
	Instructions any                  `json:"instructions"`
	Ingredients  *[]ingredientPayload `json:"ingredients"`
}

type mealPayload struct {
	Title       any              `json:"title"`
	Description any              `json:"description"`
	Date        any              `json:"date"`
	Recipes     *[]recipePayload `json:"recipes"`
}

func (p ingredientPayload) input() mealplan.IngredientInput {
	name, _ := asString(p.Name)
	quantity, _ := asString(p.Quantity)
	return mealplan.IngredientInput{Name: name, Quantity: quantity}
}

func ingredientInputs(payloads []ingredientPayload) []mealplan.IngredientInput {
	inputs := make([]mealplan.IngredientInput, 0, len(payloads))
	for _, payload := range payloads {
		inputs = append(inputs, payload.input())
	}
	return inputs
}

func (p recipePayload) input() mealplan.RecipeInput {
	instructions, _ := asString(p.Instructions)
	input := mealplan.RecipeInput{Instructions: instructions}
	if p.Ingredients != nil {
		input.Ingredients = ingredientInputs(*p.Ingredients)
	}
	return input
}

func (p mealPayload) input() (mealplan.MealInput, error) {
	title, ok := asString(p.Title)
	if !ok {
		return mealplan.MealInput{}, fault.Validation("Title is required and must be a string")
	}
	input := mealplan.MealInput{Title: title}

	if description, ok := asString(p.Description); ok {
		input.Description = &description
	}

	if p.Date != nil {
		raw, ok := asString(p.Date)
		if !ok {
			return mealplan.MealInput{}, fault.Validation("Date must be a valid date")
		}
		if raw != "" {
			date, err := parseTimestamp(raw)
			if err != nil {
				return mealplan.MealInput{}, fault.Validation("Date must be a valid date")
			}
			input.Date = &date
		}
	}

	if p.Recipes != nil {
		recipes := make([]mealplan.RecipeInput, 0, len(*p.Recipes))
		for _, recipe := range *p.Recipes {
			recipes = append(recipes, recipe.input())
		}
		input.Recipes = &recipes
	}
	return input, nil
}

// Meals serves the meal collection: GET lists, POST creates.
func Meals(w http.ResponseWriter, r *http.Request) {
	requireAPIUser(func(w http.ResponseWriter, r *http.Request, owner string) {
		switch r.Method {
		case http.MethodGet:
			listMeals(w, r, owner)
		case http.MethodPost:
			createMeal(w, r, owner)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})(w, r)
}

// Meal serves a single meal: GET, PUT and DELETE.
func Meal(w http.ResponseWriter, r *http.Request) {
	requireAPIUser(func(w http.ResponseWriter, r *http.Request, owner string) {
		id := r.PathValue("id")
		switch r.Method {
		case http.MethodGet:
			showMeal(w, r, id, owner)
		case http.MethodPut:
			updateMeal(w, r, id, owner)
		case http.MethodDelete:
			deleteMeal(w, r, id, owner)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})(w, r)
}

func listMeals(w http.ResponseWriter, r *http.Request, owner string) {
	query := mealplan.MealQuery{
		Page:   queryInt(r, "page", 1),
		Limit:  queryInt(r, "limit", 10),
		Search: r.URL.Query().Get("search"),
	}
	meals, pagination, err := mealService().ListMeals(r.Context(), owner, query)
	if err != nil {
		writeFault(w, r, err, "Failed to retrieve meals")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"meals":      projectMeals(meals),
		"pagination": pagination,
	})
}

func createMeal(w http.ResponseWriter, r *http.Request, owner string) {
	var payload mealPayload
	if err := decodeJSON(r, &payload); err != nil {
		applog.Debug(r.Context(), "invalid meal payload", "error", err)
		writeJSONError(w, http.StatusBadRequest, msgInvalidPayload)
		return
	}
	input, err := payload.input()
	if err != nil {
		writeFault(w, r, err, "Failed to create meal")
		return
	}

	meal, err := mealService().CreateMeal(r.Context(), owner, input)
	if err != nil {
		writeFault(w, r, err, "Failed to create meal")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Meal created successfully",
		"meal":    projectMeal(*meal),
	})
}

func showMeal(w http.ResponseWriter, r *http.Request, id, owner string) {
	meal, err := mealService().GetMeal(r.Context(), id, owner)
	if err != nil {
		writeFault(w, r, err, "Failed to retrieve meal")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"meal": projectMeal(*meal)})
}

func updateMeal(w http.ResponseWriter, r *http.Request, id, owner string) {
	var payload mealPayload
	if err := decodeJSON(r, &payload); err != nil {
		applog.Debug(r.Context(), "invalid meal payload", "error", err)
		writeJSONError(w, http.StatusBadRequest, msgInvalidPayload)
		return
	}
	input, err := payload.input()
	if err != nil {
		writeFault(w, r, err, "Failed to update meal")
		return
	}

	meal, err := mealService().UpdateMeal(r.Context(), id, owner, input)
	if err != nil {
		writeFault(w, r, err, "Failed to update meal")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Meal updated successfully",
		"meal":    projectMeal(*meal),
	})
}

func deleteMeal(w http.ResponseWriter, r *http.Request, id, owner string) {
	if err := mealService().DeleteMeal(r.Context(), id, owner); err != nil {
		writeFault(w, r, err, "Failed to delete meal")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "Meal deleted successfully"})
}
