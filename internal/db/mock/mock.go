package mock

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"prepclock/internal/db"
	applog "prepclock/internal/log"
	"prepclock/internal/mealplan"
	"prepclock/internal/timetrack"
	"prepclock/models"
)

const (
	DemoEmail    = "demo@prepclock.app"
	DemoPassword = "prepclock"
)

// New returns an in-memory sqlite database seeded with a demo account and a
// week of meal-prep plans.
func New(ctx context.Context) (*gorm.DB, error) {
	applog.Debug(ctx, "initialising mock database")

	conn, err := db.OpenSQLite(fmt.Sprintf("file:prepclock-mock-%s?mode=memory&cache=shared", uuid.NewString()))
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(conn); err != nil {
		return nil, err
	}
	if err := seed(ctx, conn, time.Now); err != nil {
		return nil, err
	}

	applog.Debug(ctx, "mock database ready")
	return conn, nil
}

func seed(ctx context.Context, conn *gorm.DB, now func() time.Time) error {
	password, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user := &models.User{Name: "Demo Cook", Email: DemoEmail, PasswordHash: string(password)}
	if err := conn.WithContext(ctx).Create(user).Error; err != nil {
		return err
	}
	ctx = applog.WithAttrs(ctx, "owner", user.ID)

	meals := mealplan.New(conn)
	for _, sample := range sampleMeals {
		if _, err := meals.CreateMeal(ctx, user.ID, sample.input()); err != nil {
			return fmt.Errorf("seed meal %q: %w", sample.title, err)
		}
	}

	// A finished ninety minute session earlier today.
	clock := now().Add(-2 * time.Hour)
	tracking := timetrack.New(conn, timetrack.WithClock(func() time.Time { return clock }))
	if _, err := tracking.Start(ctx, user.ID); err != nil {
		return err
	}
	clock = clock.Add(90 * time.Minute)
	if _, err := tracking.Stop(ctx, user.ID); err != nil {
		return err
	}
	if _, err := tracking.SaveNote(ctx, user.ID, "Chicken and quinoa portioned for the week.", tracking.TodayDate()); err != nil {
		return err
	}

	applog.Debug(ctx, "mock database seeded", "meals", len(sampleMeals))
	return nil
}

type sampleMeal struct {
	title        string
	description  string
	date         string
	instructions []string
	ingredients  [][2]string
}

func (s sampleMeal) input() mealplan.MealInput {
	date, _ := time.Parse("2006-01-02", s.date)
	description := s.description
	ingredients := make([]mealplan.IngredientInput, 0, len(s.ingredients))
	for _, pair := range s.ingredients {
		ingredients = append(ingredients, mealplan.IngredientInput{Name: pair[0], Quantity: pair[1]})
	}
	steps := make([]string, len(s.instructions))
	for i, step := range s.instructions {
		steps[i] = fmt.Sprintf("%d. %s", i+1, step)
	}
	return mealplan.MealInput{
		Title:       s.title,
		Description: &description,
		Date:        &date,
		Recipes: &[]mealplan.RecipeInput{{
			Instructions: strings.Join(steps, "\n"),
			Ingredients:  ingredients,
		}},
	}
}

var sampleMeals = []sampleMeal{
	{
		title:       "Weekly Meal Prep - Chicken & Vegetables",
		description: "Healthy meal prep with grilled chicken, roasted vegetables, and quinoa for the entire week",
		date:        "2024-01-15",
		instructions: []string{
			"Preheat oven to 400°F (200°C)",
			"Season chicken breasts with olive oil, garlic powder, paprika, salt, and pepper",
			"Cut vegetables into bite-sized pieces and toss with olive oil and seasonings",
			"Arrange chicken and vegetables on baking sheets",
			"Bake for 25-30 minutes until chicken is cooked through and vegetables are tender",
			"Cook quinoa according to package directions",
			"Portion into meal prep containers with quinoa, chicken, and vegetables",
			"Store in refrigerator for up to 4 days",
		},
		ingredients: [][2]string{
			{"Chicken breasts", "4 lbs"}, {"Broccoli", "2 heads"}, {"Bell peppers", "3 pieces"},
			{"Red onion", "1 large"}, {"Zucchini", "2 medium"}, {"Olive oil", "1/4 cup"},
			{"Garlic powder", "2 tsp"}, {"Paprika", "1 tsp"}, {"Salt", "1 tsp"},
			{"Black pepper", "1/2 tsp"}, {"Quinoa", "2 cups dry"},
		},
	},
	{
		title:       "Sunday Comfort Food - Beef Stew",
		description: "Hearty beef stew perfect for meal prep and freezing",
		date:        "2024-01-14",
		instructions: []string{
			"Cut beef into 1-inch cubes and season with salt and pepper",
			"Heat oil in large pot and brown beef on all sides, then remove and set aside",
			"Sauté onions, carrots, and celery until softened",
			"Add garlic and cook for 1 minute",
			"Add tomato paste and cook for 2 minutes",
			"Return beef to pot and add beef broth, red wine, and herbs",
			"Bring to simmer, then reduce heat and cover",
			"Cook for 2-3 hours until beef is tender",
			"Add potatoes and carrots and cook for additional 30 minutes",
			"Season to taste and let cool before portioning",
		},
		ingredients: [][2]string{
			{"Beef chuck", "3 lbs"}, {"Onions", "2 large"}, {"Carrots", "4 medium"},
			{"Celery", "3 stalks"}, {"Potatoes", "4 medium"}, {"Beef broth", "6 cups"},
			{"Red wine", "1 cup"}, {"Tomato paste", "2 tbsp"}, {"Garlic", "4 cloves"},
			{"Thyme", "2 tsp"}, {"Bay leaves", "2 leaves"}, {"Olive oil", "2 tbsp"},
		},
	},
	{
		title:       "Mediterranean Bowl Prep",
		description: "Fresh and colorful Mediterranean grain bowls with falafel and tahini dressing",
		date:        "2024-01-13",
		instructions: []string{
			"Cook quinoa according to package directions and let cool",
			"Roast chickpeas with olive oil and spices at 400°F for 20 minutes",
			"Prepare homemade or store-bought falafel according to instructions",
			"Chop cucumber, tomatoes, red onion, and parsley for salad",
			"Make tahini dressing by whisking tahini, lemon juice, garlic, and water",
			"Assemble bowls with quinoa base, topped with falafel, roasted chickpeas, and fresh vegetables",
			"Drizzle with tahini dressing and store components separately",
		},
		ingredients: [][2]string{
			{"Quinoa", "2 cups dry"}, {"Chickpeas", "2 cans"}, {"Falafel", "12 pieces"},
			{"Cucumber", "2 medium"}, {"Tomatoes", "3 medium"}, {"Red onion", "1 medium"},
			{"Fresh parsley", "1 bunch"}, {"Tahini", "1/2 cup"}, {"Lemon juice", "1/4 cup"},
			{"Garlic", "2 cloves"}, {"Olive oil", "2 tbsp"}, {"Cumin", "1 tsp"},
		},
	},
	{
		title:       "Asian Stir-Fry Meal Prep",
		description: "Quick and healthy vegetable stir-fry with tofu and sesame ginger sauce",
		date:        "2024-01-12",
		instructions: []string{
			"Press tofu to remove excess water and cut into cubes",
			"Prepare brown rice according to package directions",
			"Mix soy sauce, sesame oil, ginger, garlic, and honey for sauce",
			"Heat wok or large pan over high heat with oil",
			"Stir-fry tofu until golden brown, then remove",
			"Stir-fry vegetables in batches until crisp-tender",
			"Return tofu to pan and add sauce",
			"Toss everything together and garnish with sesame seeds and green onions",
			"Portion with rice for complete meals",
		},
		ingredients: [][2]string{
			{"Firm tofu", "2 blocks"}, {"Brown rice", "2 cups dry"}, {"Broccoli", "1 head"},
			{"Bell peppers", "2 pieces"}, {"Snap peas", "1 cup"}, {"Carrots", "2 medium"},
			{"Soy sauce", "1/4 cup"}, {"Sesame oil", "2 tbsp"}, {"Fresh ginger", "1 tbsp"},
			{"Garlic", "3 cloves"}, {"Honey", "1 tbsp"}, {"Sesame seeds", "2 tbsp"},
		},
	},
	{
		title:       "Mexican Fiesta Burrito Bowls",
		description: "Flavorful burrito bowls with seasoned ground beef, beans, and fresh toppings",
		date:        "2024-01-11",
		instructions: []string{
			"Cook rice according to package directions",
			"Brown ground beef with taco seasoning",
			"Heat black beans and corn",
			"Make pico de gallo with diced tomatoes, onions, cilantro, and lime juice",
			"Prepare guacamole with avocados, lime juice, and seasonings",
			"Assemble bowls with rice base, topped with beef, beans, corn, and fresh toppings",
			"Add cheese, sour cream, and tortilla chips if desired",
			"Store components separately for best freshness",
		},
		ingredients: [][2]string{
			{"Ground beef", "2 lbs"}, {"Rice", "2 cups dry"}, {"Black beans", "2 cans"},
			{"Corn", "1 can"}, {"Tomatoes", "4 medium"}, {"Onions", "2 medium"},
			{"Cilantro", "1 bunch"}, {"Limes", "4 pieces"}, {"Avocados", "4 pieces"},
			{"Cheddar cheese", "2 cups shredded"}, {"Sour cream", "1 cup"}, {"Taco seasoning", "3 tbsp"},
		},
	},
	{
		title:       "Italian Pasta Primavera",
		description: "Fresh pasta with seasonal vegetables and homemade marinara sauce",
		date:        "2024-01-10",
		instructions: []string{
			"Cook pasta according to package directions",
			"Make marinara sauce by sautéing garlic and onions, adding crushed tomatoes, and simmering",
			"Roast vegetables with olive oil and Italian herbs at 425°F for 20 minutes",
			"Combine cooked pasta with marinara sauce and roasted vegetables",
			"Top with fresh basil and parmesan cheese",
			"Let cool before portioning into containers",
			"Refrigerate for up to 3 days or freeze for longer storage",
		},
		ingredients: [][2]string{
			{"Penne pasta", "2 lbs"}, {"Crushed tomatoes", "2 cans"}, {"Zucchini", "3 medium"},
			{"Cherry tomatoes", "2 pints"}, {"Red bell peppers", "2 pieces"}, {"Onions", "2 medium"},
			{"Garlic", "6 cloves"}, {"Fresh basil", "1 bunch"}, {"Parmesan cheese", "1 cup grated"},
			{"Olive oil", "1/4 cup"}, {"Italian seasoning", "2 tsp"}, {"Red pepper flakes", "1/2 tsp"},
		},
	},
}
