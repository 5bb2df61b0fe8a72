package mealplan

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"prepclock/internal/fault"
	applog "prepclock/internal/log"
	"prepclock/models"
)

const (
	msgRecipeNotFound        = "Recipe not found"
	msgMealAndInstructions   = "Meal ID and instructions are required"
	msgInstructionsMalformed = "Instructions are required and must be a string"
)

// RecipeQuery selects a page of recipes. MealID restricts the listing to one
// meal; Search matches instructions case-insensitively.
type RecipeQuery struct {
	Page   int
	Limit  int
	Search string
	MealID string
}

func preloadRecipeGraph(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Meal").
		Preload("Ingredients", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("ingredients.name asc, ingredients.id asc")
		})
}

func ownedRecipes(owner string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.
			Joins("JOIN meals ON meals.id = recipes.meal_id").
			Where("meals.user_id = ?", owner)
	}
}

// ListRecipes returns one page of recipes belonging to the owner's meals,
// newest first.
func (s *Service) ListRecipes(ctx context.Context, owner string, query RecipeQuery) ([]models.Recipe, Pagination, error) {
	if err := requireOwner(owner); err != nil {
		return nil, Pagination{}, err
	}
	page, limit := normalizePage(query.Page, query.Limit)

	filter := func(db *gorm.DB) *gorm.DB {
		db = ownedRecipes(owner)(db)
		if query.MealID != "" {
			db = db.Where("recipes.meal_id = ?", query.MealID)
		}
		if query.Search != "" {
			db = db.Where("LOWER(recipes.instructions) LIKE ? ESCAPE '\\'", likePattern(query.Search))
		}
		return db
	}

	var total int64
	if err := s.db.WithContext(ctx).Model(&models.Recipe{}).Scopes(filter).Count(&total).Error; err != nil {
		return nil, Pagination{}, fault.Internal("count recipes", err)
	}

	var recipes []models.Recipe
	if err := preloadRecipeGraph(s.db.WithContext(ctx)).
		Scopes(filter).
		Order("recipes.created_at desc, recipes.id desc").
		Offset(offset(page, limit)).
		Limit(limit).
		Find(&recipes).Error; err != nil {
		return nil, Pagination{}, fault.Internal("list recipes", err)
	}

	return recipes, NewPagination(page, limit, total), nil
}

// GetRecipe loads a recipe with its ingredients and meal summary.
func (s *Service) GetRecipe(ctx context.Context, id, owner string) (*models.Recipe, error) {
	if err := requireOwner(owner); err != nil {
		return nil, err
	}
	return s.loadRecipe(s.db.WithContext(ctx), id, owner)
}

func (s *Service) loadRecipe(db *gorm.DB, id, owner string) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := preloadRecipeGraph(db).
		Scopes(ownedRecipes(owner)).
		Where("recipes.id = ?", id).
		First(&recipe).Error; err != nil {
		return nil, notFoundOr(err, msgRecipeNotFound, "load recipe")
	}
	if !OwnedBy(RecipeOwner(recipe), owner) {
		return nil, fault.NotFound(msgRecipeNotFound)
	}
	return &recipe, nil
}

// ownedRecipe loads the bare recipe row inside tx, checking ownership through
// its meal.
func ownedRecipe(tx *gorm.DB, id, owner string) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := tx.Preload("Meal").
		Scopes(ownedRecipes(owner)).
		Where("recipes.id = ?", id).
		First(&recipe).Error; err != nil {
		return nil, notFoundOr(err, msgRecipeNotFound, "load recipe")
	}
	if !OwnedBy(RecipeOwner(recipe), owner) {
		return nil, fault.NotFound(msgRecipeNotFound)
	}
	return &recipe, nil
}

// CreateRecipe adds a recipe, with optional ingredients, to one of the owner's meals.
func (s *Service) CreateRecipe(ctx context.Context, owner, mealID string, input RecipeInput) (*models.Recipe, error) {
	if err := requireOwner(owner); err != nil {
		return nil, err
	}
	mealID = strings.TrimSpace(mealID)
	instructions := strings.TrimSpace(input.Instructions)
	if mealID == "" || instructions == "" {
		return nil, fault.Validation(msgMealAndInstructions)
	}
	ingredients, err := buildIngredients(input.Ingredients)
	if err != nil {
		return nil, err
	}

	recipe := models.Recipe{Instructions: instructions, MealID: mealID}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var meal models.Meal
		if err := tx.Select("id").Where("id = ? AND user_id = ?", mealID, owner).First(&meal).Error; err != nil {
			return notFoundOr(err, msgMealNotFound, "load meal for recipe")
		}
		if err := tx.Omit(clause.Associations).Create(&recipe).Error; err != nil {
			return err
		}
		return createIngredients(tx, recipe.ID, ingredients)
	})
	if err != nil {
		return nil, classify(err, "create recipe")
	}

	applog.Debug(ctx, "recipe created", "owner", owner, "mealID", mealID, "recipeID", recipe.ID)
	return s.GetRecipe(ctx, recipe.ID, owner)
}

// UpdateRecipe overwrites the instructions. A nil ingredients pointer keeps the
// current set; otherwise the set is replaced in the same transaction.
func (s *Service) UpdateRecipe(ctx context.Context, id, owner, instructions string, ingredients *[]IngredientInput) (*models.Recipe, error) {
	if err := requireOwner(owner); err != nil {
		return nil, err
	}
	instructions = strings.TrimSpace(instructions)
	if instructions == "" {
		return nil, fault.Validation(msgInstructionsMalformed)
	}
	var replacement []models.Ingredient
	if ingredients != nil {
		var err error
		if replacement, err = buildIngredients(*ingredients); err != nil {
			return nil, err
		}
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		recipe, err := ownedRecipe(tx, id, owner)
		if err != nil {
			return err
		}
		if err := tx.Model(&models.Recipe{}).Where("id = ?", recipe.ID).Update("instructions", instructions).Error; err != nil {
			return err
		}
		if ingredients == nil {
			return nil
		}
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.Ingredient{}).Error; err != nil {
			return err
		}
		return createIngredients(tx, recipe.ID, replacement)
	})
	if err != nil {
		return nil, classify(err, "update recipe")
	}

	applog.Debug(ctx, "recipe updated", "owner", owner, "recipeID", id, "ingredientsReplaced", ingredients != nil)
	return s.GetRecipe(ctx, id, owner)
}

// DeleteRecipe removes a recipe and its ingredients.
func (s *Service) DeleteRecipe(ctx context.Context, id, owner string) error {
	if err := requireOwner(owner); err != nil {
		return err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		recipe, err := ownedRecipe(tx, id, owner)
		if err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.Ingredient{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", recipe.ID).Delete(&models.Recipe{}).Error
	})
	if err != nil {
		return classify(err, "delete recipe")
	}

	applog.Debug(ctx, "recipe deleted", "owner", owner, "recipeID", id)
	return nil
}
