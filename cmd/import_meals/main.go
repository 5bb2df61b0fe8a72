package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gorm.io/gorm"

	"prepclock/internal/config"
	"prepclock/internal/db"
	applog "prepclock/internal/log"
	"prepclock/internal/mealplan"
	"prepclock/models"
)

// Columns understood by the importer. Each row contributes at most one
// ingredient; rows sharing a meal title and date form one meal, and rows of a
// meal sharing instructions form one recipe.
const (
	colTitle        = "meal_title"
	colDate         = "meal_date"
	colDescription  = "meal_description"
	colInstructions = "recipe_instructions"
	colIngredient   = "ingredient_name"
	colQuantity     = "ingredient_quantity"
)

func main() {
	csvPath := "meals.csv"
	if len(os.Args) > 1 {
		csvPath = os.Args[1]
	}

	if err := run(context.Background(), csvPath); err != nil {
		fmt.Fprintf(os.Stderr, "import failed: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, csvPath string) error {
	if strings.TrimSpace(csvPath) == "" {
		return fmt.Errorf("csv path must not be empty")
	}

	file, err := os.Open(csvPath)
	if err != nil {
		return fmt.Errorf("open csv: %w", err)
	}
	defer file.Close()

	records, err := readCSV(file)
	if err != nil {
		return fmt.Errorf("read csv: %w", err)
	}
	meals, err := groupMeals(records)
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := applog.SetLevel(cfg.Logging.Level); err != nil {
		return fmt.Errorf("set log level: %w", err)
	}
	database, err := db.Configure(cfg.Database)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}

	owner, err := resolveImportOwner(ctx, database, os.Getenv("PREPCLOCK_IMPORT_OWNER_EMAIL"))
	if err != nil {
		return fmt.Errorf("resolve owner: %w", err)
	}

	created, skipped, err := importMeals(ctx, mealplan.New(database), database, owner, meals)
	if err != nil {
		return err
	}
	fmt.Printf("imported %d meals (%d already present) for %s\n", created, skipped, owner)
	return nil
}

func resolveImportOwner(ctx context.Context, database *gorm.DB, email string) (string, error) {
	if database == nil {
		return "", fmt.Errorf("database handle is nil")
	}

	var user models.User
	email = strings.ToLower(strings.TrimSpace(email))
	if email != "" {
		if err := database.WithContext(ctx).Where("lower(email) = ?", email).First(&user).Error; err != nil {
			return "", fmt.Errorf("find owner by email %q: %w", email, err)
		}
		return user.ID, nil
	}

	if err := database.WithContext(ctx).Order("created_at asc").First(&user).Error; err != nil {
		return "", fmt.Errorf("find default owner: %w", err)
	}
	return user.ID, nil
}

func readCSV(r io.Reader) ([]map[string]string, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, errors.New("csv is empty")
	}

	header := make([]string, len(rows[0]))
	for idx, key := range rows[0] {
		header[idx] = strings.ToLower(strings.TrimSpace(key))
	}

	records := make([]map[string]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		record := make(map[string]string, len(header))
		for idx, key := range header {
			if idx < len(row) {
				record[key] = strings.TrimSpace(row[idx])
			}
		}
		records = append(records, record)
	}
	return records, nil
}

type mealKey struct {
	title string
	date  string
}

// groupMeals folds CSV rows into meal inputs, keeping first-seen order for
// meals, recipes and ingredients.
func groupMeals(records []map[string]string) ([]mealplan.MealInput, error) {
	var (
		meals   []mealplan.MealInput
		byMeal  = map[mealKey]int{}
		recipes = map[mealKey]map[string]int{}
	)

	for idx, record := range records {
		line := idx + 2
		title := record[colTitle]
		if title == "" {
			if strings.Join(mapValues(record), "") == "" {
				continue
			}
			return nil, fmt.Errorf("line %d: %s is required", line, colTitle)
		}

		key := mealKey{title: title, date: record[colDate]}
		mealIdx, ok := byMeal[key]
		if !ok {
			input := mealplan.MealInput{Title: title, Recipes: &[]mealplan.RecipeInput{}}
			if key.date != "" {
				date, err := time.Parse("2006-01-02", key.date)
				if err != nil {
					return nil, fmt.Errorf("line %d: %s must be YYYY-MM-DD: %w", line, colDate, err)
				}
				input.Date = &date
			}
			if description := record[colDescription]; description != "" {
				input.Description = &description
			}
			meals = append(meals, input)
			mealIdx = len(meals) - 1
			byMeal[key] = mealIdx
			recipes[key] = map[string]int{}
		}

		instructions := record[colInstructions]
		if instructions == "" {
			continue
		}
		meal := &meals[mealIdx]
		recipeIdx, ok := recipes[key][instructions]
		if !ok {
			*meal.Recipes = append(*meal.Recipes, mealplan.RecipeInput{Instructions: instructions})
			recipeIdx = len(*meal.Recipes) - 1
			recipes[key][instructions] = recipeIdx
		}

		name, quantity := record[colIngredient], record[colQuantity]
		if name == "" && quantity == "" {
			continue
		}
		if name == "" || quantity == "" {
			return nil, fmt.Errorf("line %d: %s and %s must both be set", line, colIngredient, colQuantity)
		}
		recipe := &(*meal.Recipes)[recipeIdx]
		recipe.Ingredients = append(recipe.Ingredients, mealplan.IngredientInput{Name: name, Quantity: quantity})
	}

	return meals, nil
}

func mapValues(record map[string]string) []string {
	values := make([]string, 0, len(record))
	for _, v := range record {
		values = append(values, v)
	}
	return values
}

// importMeals creates each meal unless the owner already has one with the same
// title on the same day.
func importMeals(ctx context.Context, service *mealplan.Service, database *gorm.DB, owner string, meals []mealplan.MealInput) (created, skipped int, err error) {
	for _, input := range meals {
		exists, err := mealExists(ctx, database, owner, input)
		if err != nil {
			return created, skipped, fmt.Errorf("check meal %q: %w", input.Title, err)
		}
		if exists {
			skipped++
			continue
		}
		if _, err := service.CreateMeal(ctx, owner, input); err != nil {
			return created, skipped, fmt.Errorf("create meal %q: %w", input.Title, err)
		}
		created++
	}
	return created, skipped, nil
}

func mealExists(ctx context.Context, database *gorm.DB, owner string, input mealplan.MealInput) (bool, error) {
	if input.Date == nil {
		return false, nil
	}
	var count int64
	err := database.WithContext(ctx).Model(&models.Meal{}).
		Where("user_id = ? AND title = ? AND date >= ? AND date < ?", owner, input.Title, *input.Date, input.Date.AddDate(0, 0, 1)).
		Count(&count).Error
	return count > 0, err
}
