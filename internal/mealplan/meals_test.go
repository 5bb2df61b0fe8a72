package mealplan

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"prepclock/internal/fault"
	"prepclock/models"
)

func TestCreateMealThenGetReturnsNestedGraph(t *testing.T) {
	t.Parallel()

	service, _ := newTestService(t)
	ctx := context.Background()
	date := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	created, err := service.CreateMeal(ctx, "user-1", MealInput{
		Title:       "  Sunday Prep  ",
		Description: strPtr("   "),
		Date:        &date,
		Recipes: &[]RecipeInput{{
			Instructions: "Roast at 200C",
			Ingredients: []IngredientInput{
				{Name: "Chicken", Quantity: "2 lbs"},
				{Name: "Rice", Quantity: "3 cups"},
			},
		}},
	})
	require.NoError(t, err)
	require.Equal(t, "Sunday Prep", created.Title)
	require.Nil(t, created.Description)
	require.Equal(t, "user-1", created.UserID)
	require.True(t, created.Date.Equal(date))

	fetched, err := service.GetMeal(ctx, created.ID, "user-1")
	require.NoError(t, err)
	require.Equal(t, created.ID, fetched.ID)
	require.Len(t, fetched.Recipes, 1)
	require.Equal(t, "Roast at 200C", fetched.Recipes[0].Instructions)
	require.Len(t, fetched.Recipes[0].Ingredients, 2)
	require.Equal(t, "Chicken", fetched.Recipes[0].Ingredients[0].Name)
	require.Equal(t, "2 lbs", fetched.Recipes[0].Ingredients[0].Quantity)
	require.Equal(t, "Rice", fetched.Recipes[0].Ingredients[1].Name)
}

func TestCreateMealValidation(t *testing.T) {
	t.Parallel()

	service, database := newTestService(t)
	ctx := context.Background()

	_, err := service.CreateMeal(ctx, "user-1", MealInput{Title: "   "})
	require.True(t, fault.Is(err, fault.KindValidation))
	require.Equal(t, msgTitleRequired, fault.Message(err, ""))

	_, err = service.CreateMeal(ctx, "user-1", MealInput{
		Title:   "Dinner",
		Recipes: &[]RecipeInput{{Instructions: "Boil", Ingredients: []IngredientInput{{Name: "Pasta"}}}},
	})
	require.True(t, fault.Is(err, fault.KindValidation))

	_, err = service.CreateMeal(ctx, "user-1", MealInput{
		Title:   "Dinner",
		Recipes: &[]RecipeInput{{Instructions: " "}},
	})
	require.True(t, fault.Is(err, fault.KindValidation))

	var count int64
	require.NoError(t, database.Model(&models.Meal{}).Count(&count).Error)
	require.Zero(t, count, "rejected input must not write anything")
}

func TestGetMealHidesOtherOwners(t *testing.T) {
	t.Parallel()

	service, _ := newTestService(t)
	ctx := context.Background()

	meal, err := service.CreateMeal(ctx, "user-1", MealInput{Title: "Private"})
	require.NoError(t, err)

	_, err = service.GetMeal(ctx, meal.ID, "user-2")
	require.True(t, fault.Is(err, fault.KindNotFound))
	require.Equal(t, msgMealNotFound, fault.Message(err, ""))

	_, err = service.UpdateMeal(ctx, meal.ID, "user-2", MealInput{Title: "Hijacked"})
	require.True(t, fault.Is(err, fault.KindNotFound))

	require.True(t, fault.Is(service.DeleteMeal(ctx, meal.ID, "user-2"), fault.KindNotFound))

	meals, pagination, err := service.ListMeals(ctx, "user-2", MealQuery{})
	require.NoError(t, err)
	require.Empty(t, meals)
	require.Zero(t, pagination.Total)

	unchanged, err := service.GetMeal(ctx, meal.ID, "user-1")
	require.NoError(t, err)
	require.Equal(t, "Private", unchanged.Title)
}

func TestUpdateMealKeepsRecipesWhenOmitted(t *testing.T) {
	t.Parallel()

	service, _ := newTestService(t)
	ctx := context.Background()
	date := time.Date(2024, 1, 5, 9, 0, 0, 0, time.UTC)

	meal, err := service.CreateMeal(ctx, "user-1", MealInput{
		Title:   "Breakfast",
		Date:    &date,
		Recipes: &[]RecipeInput{{Instructions: "Whisk eggs", Ingredients: []IngredientInput{{Name: "Eggs", Quantity: "3"}}}},
	})
	require.NoError(t, err)

	updated, err := service.UpdateMeal(ctx, meal.ID, "user-1", MealInput{
		Title:       "Brunch",
		Description: strPtr(" weekend "),
	})
	require.NoError(t, err)
	require.Equal(t, "Brunch", updated.Title)
	require.NotNil(t, updated.Description)
	require.Equal(t, "weekend", *updated.Description)
	require.True(t, updated.Date.Equal(date), "date must be kept when omitted")
	require.Len(t, updated.Recipes, 1)
	require.Len(t, updated.Recipes[0].Ingredients, 1)
}

func TestUpdateMealReplacesRecipes(t *testing.T) {
	t.Parallel()

	service, database := newTestService(t)
	ctx := context.Background()

	meal, err := service.CreateMeal(ctx, "user-1", MealInput{
		Title: "Batch cook",
		Recipes: &[]RecipeInput{
			{Instructions: "Old one", Ingredients: []IngredientInput{{Name: "Beans", Quantity: "1 can"}}},
			{Instructions: "Old two", Ingredients: []IngredientInput{{Name: "Corn", Quantity: "1 can"}}},
		},
	})
	require.NoError(t, err)

	updated, err := service.UpdateMeal(ctx, meal.ID, "user-1", MealInput{
		Title:   "Batch cook",
		Recipes: &[]RecipeInput{{Instructions: "New", Ingredients: []IngredientInput{{Name: "Lentils", Quantity: "500g"}}}},
	})
	require.NoError(t, err)
	require.Len(t, updated.Recipes, 1)
	require.Equal(t, "New", updated.Recipes[0].Instructions)
	require.Len(t, updated.Recipes[0].Ingredients, 1)
	require.Equal(t, "Lentils", updated.Recipes[0].Ingredients[0].Name)

	var recipes, ingredients int64
	require.NoError(t, database.Model(&models.Recipe{}).Count(&recipes).Error)
	require.NoError(t, database.Model(&models.Ingredient{}).Count(&ingredients).Error)
	require.EqualValues(t, 1, recipes)
	require.EqualValues(t, 1, ingredients)

	cleared, err := service.UpdateMeal(ctx, meal.ID, "user-1", MealInput{Title: "Batch cook", Recipes: &[]RecipeInput{}})
	require.NoError(t, err)
	require.Empty(t, cleared.Recipes)
}

func TestUpdateMealRejectsInvalidRecipesWithoutChanges(t *testing.T) {
	t.Parallel()

	service, _ := newTestService(t)
	ctx := context.Background()

	meal, err := service.CreateMeal(ctx, "user-1", MealInput{
		Title:   "Stew",
		Recipes: &[]RecipeInput{{Instructions: "Simmer"}},
	})
	require.NoError(t, err)

	_, err = service.UpdateMeal(ctx, meal.ID, "user-1", MealInput{
		Title:   "Renamed",
		Recipes: &[]RecipeInput{{Instructions: ""}},
	})
	require.True(t, fault.Is(err, fault.KindValidation))

	unchanged, err := service.GetMeal(ctx, meal.ID, "user-1")
	require.NoError(t, err)
	require.Equal(t, "Stew", unchanged.Title)
	require.Len(t, unchanged.Recipes, 1)
}

func TestDeleteMealCascades(t *testing.T) {
	t.Parallel()

	service, database := newTestService(t)
	ctx := context.Background()

	meal, err := service.CreateMeal(ctx, "user-1", MealInput{
		Title: "Sunday Prep",
		Recipes: &[]RecipeInput{{
			Instructions: "Grill",
			Ingredients:  []IngredientInput{{Name: "Chicken", Quantity: "2 lbs"}, {Name: "Rice", Quantity: "3 cups"}},
		}},
	})
	require.NoError(t, err)

	other, err := service.CreateMeal(ctx, "user-1", MealInput{
		Title:   "Keep me",
		Recipes: &[]RecipeInput{{Instructions: "Chop", Ingredients: []IngredientInput{{Name: "Onion", Quantity: "1"}}}},
	})
	require.NoError(t, err)

	require.NoError(t, service.DeleteMeal(ctx, meal.ID, "user-1"))

	_, err = service.GetMeal(ctx, meal.ID, "user-1")
	require.True(t, fault.Is(err, fault.KindNotFound))
	require.True(t, fault.Is(service.DeleteMeal(ctx, meal.ID, "user-1"), fault.KindNotFound))

	var recipes, ingredients int64
	require.NoError(t, database.Model(&models.Recipe{}).Where("meal_id = ?", meal.ID).Count(&recipes).Error)
	require.Zero(t, recipes)
	require.NoError(t, database.Model(&models.Ingredient{}).Count(&ingredients).Error)
	require.EqualValues(t, 1, ingredients, "only the other meal's ingredient should remain")

	kept, err := service.GetMeal(ctx, other.ID, "user-1")
	require.NoError(t, err)
	require.Len(t, kept.Recipes, 1)
}

func TestListMealsPaginatesByDateDesc(t *testing.T) {
	t.Parallel()

	service, _ := newTestService(t)
	ctx := context.Background()
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 15; i++ {
		date := base.AddDate(0, 0, i)
		_, err := service.CreateMeal(ctx, "user-1", MealInput{Title: fmt.Sprintf("Meal %02d", i), Date: &date})
		require.NoError(t, err)
	}

	meals, pagination, err := service.ListMeals(ctx, "user-1", MealQuery{Page: 2, Limit: 10})
	require.NoError(t, err)
	require.Len(t, meals, 5)
	require.Equal(t, Pagination{Page: 2, Limit: 10, Total: 15, Pages: 2}, pagination)
	require.Equal(t, "Meal 04", meals[0].Title)
	require.Equal(t, "Meal 00", meals[4].Title)

	first, _, err := service.ListMeals(ctx, "user-1", MealQuery{})
	require.NoError(t, err)
	require.Len(t, first, 10)
	require.Equal(t, "Meal 14", first[0].Title)
}

func TestListMealsSearchMatchesTitleOrDescription(t *testing.T) {
	t.Parallel()

	service, _ := newTestService(t)
	ctx := context.Background()

	_, err := service.CreateMeal(ctx, "user-1", MealInput{Title: "Chicken Curry"})
	require.NoError(t, err)
	_, err = service.CreateMeal(ctx, "user-1", MealInput{Title: "Salad", Description: strPtr("with grilled CHICKEN strips")})
	require.NoError(t, err)
	_, err = service.CreateMeal(ctx, "user-1", MealInput{Title: "Pancakes"})
	require.NoError(t, err)
	_, err = service.CreateMeal(ctx, "user-1", MealInput{Title: "100% juice"})
	require.NoError(t, err)

	meals, pagination, err := service.ListMeals(ctx, "user-1", MealQuery{Search: "chicken"})
	require.NoError(t, err)
	require.Len(t, meals, 2)
	require.EqualValues(t, 2, pagination.Total)

	meals, _, err = service.ListMeals(ctx, "user-1", MealQuery{Search: "%"})
	require.NoError(t, err)
	require.Len(t, meals, 1)
	require.Equal(t, "100% juice", meals[0].Title)
}
