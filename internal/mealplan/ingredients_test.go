package mealplan

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"prepclock/internal/fault"
)

func createRecipeFixture(t *testing.T, service *Service, owner string) string {
	t.Helper()

	meal, err := service.CreateMeal(context.Background(), owner, MealInput{
		Title:   "Fixture",
		Recipes: &[]RecipeInput{{Instructions: "Mix", Ingredients: []IngredientInput{{Name: "Flour", Quantity: "2 cups"}}}},
	})
	require.NoError(t, err)
	require.Len(t, meal.Recipes, 1)
	return meal.Recipes[0].ID
}

func TestAddAndListIngredients(t *testing.T) {
	t.Parallel()

	service, _ := newTestService(t)
	ctx := context.Background()
	recipeID := createRecipeFixture(t, service, "user-1")

	added, err := service.AddIngredient(ctx, recipeID, "user-1", IngredientInput{Name: " Butter ", Quantity: " 100g "})
	require.NoError(t, err)
	require.NotEmpty(t, added.ID)
	require.Equal(t, "Butter", added.Name)
	require.Equal(t, "100g", added.Quantity)
	require.Equal(t, recipeID, added.RecipeID)

	ingredients, err := service.ListIngredients(ctx, recipeID, "user-1")
	require.NoError(t, err)
	require.Len(t, ingredients, 2)
	require.Equal(t, "Butter", ingredients[0].Name)
	require.Equal(t, "Flour", ingredients[1].Name)

	_, err = service.AddIngredient(ctx, recipeID, "user-1", IngredientInput{Name: "Sugar"})
	require.True(t, fault.Is(err, fault.KindValidation))
	require.Equal(t, msgNameAndQuantity, fault.Message(err, ""))
}

func TestIngredientsHiddenFromOtherOwners(t *testing.T) {
	t.Parallel()

	service, _ := newTestService(t)
	ctx := context.Background()
	recipeID := createRecipeFixture(t, service, "user-1")

	_, err := service.ListIngredients(ctx, recipeID, "user-2")
	require.True(t, fault.Is(err, fault.KindNotFound))

	_, err = service.AddIngredient(ctx, recipeID, "user-2", IngredientInput{Name: "Salt", Quantity: "pinch"})
	require.True(t, fault.Is(err, fault.KindNotFound))

	_, err = service.ReplaceIngredients(ctx, recipeID, "user-2", nil)
	require.True(t, fault.Is(err, fault.KindNotFound))

	ingredients, err := service.ListIngredients(ctx, recipeID, "user-1")
	require.NoError(t, err)
	require.Len(t, ingredients, 1)
}

func TestReplaceIngredientsSkipsMalformedEntries(t *testing.T) {
	t.Parallel()

	service, _ := newTestService(t)
	ctx := context.Background()
	recipeID := createRecipeFixture(t, service, "user-1")

	stored, err := service.ReplaceIngredients(ctx, recipeID, "user-1", []IngredientInput{
		{Name: "Yeast", Quantity: "7g"},
		{Name: "", Quantity: "1 cup"},
		{Name: "Water", Quantity: "  "},
		{Name: "Bread flour", Quantity: "500g"},
	})
	require.NoError(t, err)
	require.Len(t, stored, 2)
	require.Equal(t, "Bread flour", stored[0].Name)
	require.Equal(t, "Yeast", stored[1].Name)

	emptied, err := service.ReplaceIngredients(ctx, recipeID, "user-1", []IngredientInput{})
	require.NoError(t, err)
	require.Empty(t, emptied)
}
