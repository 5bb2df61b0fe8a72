package mealplan

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"prepclock/internal/fault"
	applog "prepclock/internal/log"
	"prepclock/models"
)

const msgNameAndQuantity = "Name and quantity are required and must be strings"

func sanitizeIngredient(input IngredientInput) (models.Ingredient, bool) {
	name := strings.TrimSpace(input.Name)
	quantity := strings.TrimSpace(input.Quantity)
	if name == "" || quantity == "" {
		return models.Ingredient{}, false
	}
	return models.Ingredient{Name: name, Quantity: quantity}, true
}

func createIngredients(tx *gorm.DB, recipeID string, ingredients []models.Ingredient) error {
	if len(ingredients) == 0 {
		return nil
	}
	for i := range ingredients {
		ingredients[i].ID = ""
		ingredients[i].RecipeID = recipeID
		ingredients[i].Recipe = nil
	}
	return tx.Create(&ingredients).Error
}

func listIngredients(tx *gorm.DB, recipeID string) ([]models.Ingredient, error) {
	var ingredients []models.Ingredient
	err := tx.Where("recipe_id = ?", recipeID).Order("name asc, id asc").Find(&ingredients).Error
	return ingredients, err
}

// ListIngredients returns the ingredients of one of the owner's recipes, by name.
func (s *Service) ListIngredients(ctx context.Context, recipeID, owner string) ([]models.Ingredient, error) {
	if err := requireOwner(owner); err != nil {
		return nil, err
	}
	db := s.db.WithContext(ctx)
	if _, err := ownedRecipe(db, recipeID, owner); err != nil {
		return nil, err
	}
	ingredients, err := listIngredients(db, recipeID)
	if err != nil {
		return nil, fault.Internal("list ingredients", err)
	}
	return ingredients, nil
}

// AddIngredient appends one ingredient to a recipe.
func (s *Service) AddIngredient(ctx context.Context, recipeID, owner string, input IngredientInput) (*models.Ingredient, error) {
	if err := requireOwner(owner); err != nil {
		return nil, err
	}
	ingredient, ok := sanitizeIngredient(input)
	if !ok {
		return nil, fault.Validation(msgNameAndQuantity)
	}

	db := s.db.WithContext(ctx)
	if _, err := ownedRecipe(db, recipeID, owner); err != nil {
		return nil, err
	}
	ingredient.RecipeID = recipeID
	if err := db.Create(&ingredient).Error; err != nil {
		return nil, fault.Internal("create ingredient", err)
	}

	applog.Debug(ctx, "ingredient added", "owner", owner, "recipeID", recipeID, "ingredientID", ingredient.ID)
	return &ingredient, nil
}

// ReplaceIngredients swaps the whole ingredient set of a recipe. Entries
// missing a name or quantity are dropped rather than rejected.
func (s *Service) ReplaceIngredients(ctx context.Context, recipeID, owner string, inputs []IngredientInput) ([]models.Ingredient, error) {
	if err := requireOwner(owner); err != nil {
		return nil, err
	}

	replacement := make([]models.Ingredient, 0, len(inputs))
	for _, input := range inputs {
		if ingredient, ok := sanitizeIngredient(input); ok {
			replacement = append(replacement, ingredient)
		}
	}

	var stored []models.Ingredient
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := ownedRecipe(tx, recipeID, owner); err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipeID).Delete(&models.Ingredient{}).Error; err != nil {
			return err
		}
		if err := createIngredients(tx, recipeID, replacement); err != nil {
			return err
		}
		var err error
		stored, err = listIngredients(tx, recipeID)
		return err
	})
	if err != nil {
		return nil, classify(err, "replace ingredients")
	}

	applog.Debug(ctx, "ingredients replaced", "owner", owner, "recipeID", recipeID, "kept", len(replacement), "submitted", len(inputs))
	return stored, nil
}
