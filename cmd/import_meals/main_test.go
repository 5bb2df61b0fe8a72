package main

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"

	"prepclock/internal/db"
	"prepclock/internal/mealplan"
	"prepclock/models"
)

const sampleCSV = `meal_title,meal_date,meal_description,recipe_instructions,ingredient_name,ingredient_quantity
Sunday Prep,2024-03-10,Batch cook,Grill and portion,Chicken,2 lbs
Sunday Prep,2024-03-10,,Grill and portion,Rice,3 cups
Sunday Prep,2024-03-10,,Roast vegetables,Broccoli,2 heads
,,,,,
Soup Night,2024-03-11,,Simmer,,
`

func TestGroupMeals(t *testing.T) {
	records, err := readCSV(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("readCSV: %v", err)
	}
	meals, err := groupMeals(records)
	if err != nil {
		t.Fatalf("groupMeals: %v", err)
	}

	if len(meals) != 2 {
		t.Fatalf("expected 2 meals, got %d", len(meals))
	}
	sunday := meals[0]
	if sunday.Title != "Sunday Prep" || sunday.Description == nil || *sunday.Description != "Batch cook" {
		t.Fatalf("unexpected first meal: %+v", sunday)
	}
	if sunday.Date == nil || sunday.Date.Format("2006-01-02") != "2024-03-10" {
		t.Fatalf("unexpected meal date: %v", sunday.Date)
	}
	recipes := *sunday.Recipes
	if len(recipes) != 2 || len(recipes[0].Ingredients) != 2 || len(recipes[1].Ingredients) != 1 {
		t.Fatalf("unexpected recipe grouping: %+v", recipes)
	}
	if soup := *meals[1].Recipes; len(soup) != 1 || len(soup[0].Ingredients) != 0 {
		t.Fatalf("expected a recipe without ingredients, got %+v", soup)
	}
}

func TestGroupMealsRejectsBadRows(t *testing.T) {
	tests := []struct {
		name string
		csv  string
	}{
		{name: "missing title", csv: "meal_title,meal_date,recipe_instructions\n,2024-03-10,Cook\n"},
		{name: "bad date", csv: "meal_title,meal_date\nLunch,March 10\n"},
		{name: "half ingredient", csv: "meal_title,recipe_instructions,ingredient_name\nLunch,Cook,Salt\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, err := readCSV(strings.NewReader(tt.csv))
			if err != nil {
				t.Fatalf("readCSV: %v", err)
			}
			if _, err := groupMeals(records); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}

func TestImportMealsSkipsExisting(t *testing.T) {
	ctx := context.Background()
	conn, err := db.OpenSQLite(fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(conn); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	user := models.User{Email: "cook@example.com", Name: "Cook", PasswordHash: "x"}
	if err := conn.Create(&user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}

	owner, err := resolveImportOwner(ctx, conn, "COOK@example.com")
	if err != nil || owner != user.ID {
		t.Fatalf("resolveImportOwner = %q, %v", owner, err)
	}

	records, err := readCSV(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("readCSV: %v", err)
	}
	meals, err := groupMeals(records)
	if err != nil {
		t.Fatalf("groupMeals: %v", err)
	}

	service := mealplan.New(conn)
	created, skipped, err := importMeals(ctx, service, conn, owner, meals)
	if err != nil || created != 2 || skipped != 0 {
		t.Fatalf("first import = %d created, %d skipped, %v", created, skipped, err)
	}
	created, skipped, err = importMeals(ctx, service, conn, owner, meals)
	if err != nil || created != 0 || skipped != 2 {
		t.Fatalf("second import = %d created, %d skipped, %v", created, skipped, err)
	}

	var ingredients int64
	if err := conn.Model(&models.Ingredient{}).Count(&ingredients).Error; err != nil {
		t.Fatalf("count ingredients: %v", err)
	}
	if ingredients != 3 {
		t.Fatalf("expected 3 ingredients, got %d", ingredients)
	}
}
