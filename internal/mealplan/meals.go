package mealplan

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"prepclock/internal/fault"
	applog "prepclock/internal/log"
	"prepclock/models"
)

const (
	msgTitleRequired        = "Title is required and must be a string"
	msgMealNotFound         = "Meal not found"
	msgInstructionsRequired = "Recipe instructions are required"
	msgIngredientRequired   = "Ingredient name and quantity are required"
)

// MealQuery selects a page of meals. Search matches title or description,
// case-insensitively.
type MealQuery struct {
	Page   int
	Limit  int
	Search string
}

// MealInput carries the writable fields of a meal. A nil Date means "now" on
// create and "unchanged" on update. A nil Recipes leaves recipes untouched on
// update; a non-nil (possibly empty) slice replaces them all.
type MealInput struct {
	Title       string
	Description *string
	Date        *time.Time
	Recipes     *[]RecipeInput
}

func preloadMealGraph(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Recipes", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("recipes.created_at asc, recipes.id asc")
		}).
		Preload("Recipes.Ingredients", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("ingredients.name asc, ingredients.id asc")
		})
}

// ListMeals returns one page of the owner's meals, newest date first, each with
// its recipes and ingredients.
func (s *Service) ListMeals(ctx context.Context, owner string, query MealQuery) ([]models.Meal, Pagination, error) {
	if err := requireOwner(owner); err != nil {
		return nil, Pagination{}, err
	}
	page, limit := normalizePage(query.Page, query.Limit)

	filter := func(db *gorm.DB) *gorm.DB {
		db = db.Where("meals.user_id = ?", owner)
		if query.Search != "" {
			pattern := likePattern(query.Search)
			db = db.Where(
				"(LOWER(meals.title) LIKE ? ESCAPE '\\' OR LOWER(COALESCE(meals.description, '')) LIKE ? ESCAPE '\\')",
				pattern, pattern,
			)
		}
		return db
	}

	var total int64
	if err := s.db.WithContext(ctx).Model(&models.Meal{}).Scopes(filter).Count(&total).Error; err != nil {
		return nil, Pagination{}, fault.Internal("count meals", err)
	}

	var meals []models.Meal
	if err := preloadMealGraph(s.db.WithContext(ctx)).
		Scopes(filter).
		Order("meals.date desc, meals.id desc").
		Offset(offset(page, limit)).
		Limit(limit).
		Find(&meals).Error; err != nil {
		return nil, Pagination{}, fault.Internal("list meals", err)
	}

	applog.Debug(ctx, "meals listed", "owner", owner, "page", page, "count", len(meals), "total", total)
	return meals, NewPagination(page, limit, total), nil
}

// GetMeal loads one of the owner's meals with its recipes and ingredients.
func (s *Service) GetMeal(ctx context.Context, id, owner string) (*models.Meal, error) {
	if err := requireOwner(owner); err != nil {
		return nil, err
	}
	return s.loadMeal(s.db.WithContext(ctx), id, owner)
}

func (s *Service) loadMeal(db *gorm.DB, id, owner string) (*models.Meal, error) {
	var meal models.Meal
	if err := preloadMealGraph(db).Where("meals.id = ? AND meals.user_id = ?", id, owner).First(&meal).Error; err != nil {
		return nil, notFoundOr(err, msgMealNotFound, "load meal")
	}
	return &meal, nil
}

// CreateMeal stores a meal and any nested recipes and ingredients in one transaction.
func (s *Service) CreateMeal(ctx context.Context, owner string, input MealInput) (*models.Meal, error) {
	if err := requireOwner(owner); err != nil {
		return nil, err
	}
	title, err := requireTitle(input.Title)
	if err != nil {
		return nil, err
	}
	var recipes []models.Recipe
	if input.Recipes != nil {
		if recipes, err = buildRecipes(*input.Recipes); err != nil {
			return nil, err
		}
	}

	date := s.now()
	if input.Date != nil {
		date = *input.Date
	}

	meal := models.Meal{
		Title:       title,
		Description: optionalText(input.Description),
		Date:        date.UTC(),
		UserID:      owner,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(&meal).Error; err != nil {
			return err
		}
		return createRecipes(tx, meal.ID, recipes)
	})
	if err != nil {
		return nil, classify(err, "create meal")
	}

	applog.Debug(ctx, "meal created", "owner", owner, "mealID", meal.ID, "recipes", len(recipes))
	return s.GetMeal(ctx, meal.ID, owner)
}

// UpdateMeal overwrites title, description and (when given) date. When recipes
// are supplied the existing recipes and their ingredients are deleted and the
// new list is created, all inside the same transaction.
func (s *Service) UpdateMeal(ctx context.Context, id, owner string, input MealInput) (*models.Meal, error) {
	if err := requireOwner(owner); err != nil {
		return nil, err
	}
	title, err := requireTitle(input.Title)
	if err != nil {
		return nil, err
	}
	var recipes []models.Recipe
	if input.Recipes != nil {
		if recipes, err = buildRecipes(*input.Recipes); err != nil {
			return nil, err
		}
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Meal
		if err := tx.Where("id = ? AND user_id = ?", id, owner).First(&existing).Error; err != nil {
			return notFoundOr(err, msgMealNotFound, "load meal for update")
		}

		date := existing.Date
		if input.Date != nil {
			date = input.Date.UTC()
		}

		updates := map[string]any{
			"title":       title,
			"description": optionalText(input.Description),
			"date":        date,
		}
		if err := tx.Model(&existing).Updates(updates).Error; err != nil {
			return err
		}

		if input.Recipes == nil {
			return nil
		}
		if err := deleteRecipesOfMeal(tx, existing.ID); err != nil {
			return err
		}
		return createRecipes(tx, existing.ID, recipes)
	})
	if err != nil {
		return nil, classify(err, "update meal")
	}

	applog.Debug(ctx, "meal updated", "owner", owner, "mealID", id, "recipesReplaced", input.Recipes != nil)
	return s.GetMeal(ctx, id, owner)
}

// DeleteMeal removes a meal together with its recipes and their ingredients.
func (s *Service) DeleteMeal(ctx context.Context, id, owner string) error {
	if err := requireOwner(owner); err != nil {
		return err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Meal
		if err := tx.Where("id = ? AND user_id = ?", id, owner).First(&existing).Error; err != nil {
			return notFoundOr(err, msgMealNotFound, "load meal for delete")
		}
		if err := deleteRecipesOfMeal(tx, existing.ID); err != nil {
			return err
		}
		return tx.Delete(&existing).Error
	})
	if err != nil {
		return classify(err, "delete meal")
	}

	applog.Debug(ctx, "meal deleted", "owner", owner, "mealID", id)
	return nil
}

func requireTitle(title string) (string, error) {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return "", fault.Validation(msgTitleRequired)
	}
	return trimmed, nil
}

// buildRecipes validates nested recipe input strictly: every recipe needs
// instructions and every ingredient needs both a name and a quantity.
func buildRecipes(inputs []RecipeInput) ([]models.Recipe, error) {
	recipes := make([]models.Recipe, 0, len(inputs))
	for _, input := range inputs {
		instructions := strings.TrimSpace(input.Instructions)
		if instructions == "" {
			return nil, fault.Validation(msgInstructionsRequired)
		}
		ingredients, err := buildIngredients(input.Ingredients)
		if err != nil {
			return nil, err
		}
		recipes = append(recipes, models.Recipe{Instructions: instructions, Ingredients: ingredients})
	}
	return recipes, nil
}

func buildIngredients(inputs []IngredientInput) ([]models.Ingredient, error) {
	ingredients := make([]models.Ingredient, 0, len(inputs))
	for _, input := range inputs {
		ingredient, ok := sanitizeIngredient(input)
		if !ok {
			return nil, fault.Validation(msgIngredientRequired)
		}
		ingredients = append(ingredients, ingredient)
	}
	return ingredients, nil
}

func createRecipes(tx *gorm.DB, mealID string, recipes []models.Recipe) error {
	for i := range recipes {
		recipe := recipes[i]
		recipe.MealID = mealID
		ingredients := recipe.Ingredients
		recipe.Ingredients = nil
		if err := tx.Omit(clause.Associations).Create(&recipe).Error; err != nil {
			return err
		}
		if err := createIngredients(tx, recipe.ID, ingredients); err != nil {
			return err
		}
	}
	return nil
}

func deleteRecipesOfMeal(tx *gorm.DB, mealID string) error {
	recipeIDs := tx.Model(&models.Recipe{}).Select("id").Where("meal_id = ?", mealID)
	if err := tx.Where("recipe_id IN (?)", recipeIDs).Delete(&models.Ingredient{}).Error; err != nil {
		return err
	}
	return tx.Where("meal_id = ?", mealID).Delete(&models.Recipe{}).Error
}
