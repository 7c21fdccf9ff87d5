// Package testutils provides test data factories for consistent test data generation
package testutils

import (
	"time"

	"github.com/alchemorsel/pantry/internal/domain/recipe"
	"github.com/alchemorsel/pantry/internal/ports/inbound"
	"github.com/brianvoe/gofakeit/v6"
)

var units = []string{"g", "kg", "ml", "l", "cup", "tbsp", "tsp", ""}

// RecipeFactory provides methods to create test recipes
type RecipeFactory struct {
	faker *gofakeit.Faker
}

// NewRecipeFactory creates a new recipe factory with seeded faker
func NewRecipeFactory(seed int64) *RecipeFactory {
	return &RecipeFactory{
		faker: gofakeit.New(seed),
	}
}

// Ingredient returns a random valid ingredient
func (f *RecipeFactory) Ingredient() recipe.Ingredient {
	return recipe.Ingredient{
		Name:     f.faker.Noun(),
		Quantity: float64(f.faker.Number(1, 500)),
		Unit:     f.faker.RandomString(units),
	}
}

// Draft returns a valid recipe draft with n ingredients
func (f *RecipeFactory) Draft(n int) recipe.Draft {
	servings := f.faker.Number(1, 8)
	ingredients := make([]recipe.Ingredient, n)
	for i := range ingredients {
		ingredients[i] = f.Ingredient()
	}

	return recipe.Draft{
		Title:       f.faker.Sentence(3),
		Description: f.faker.Sentence(12),
		Servings:    &servings,
		Ingredients: ingredients,
		Steps:       []string{f.faker.Sentence(6), f.faker.Sentence(6)},
		Tags:        []string{f.faker.Word()},
	}
}

// Recipe returns a new valid recipe with pending events drained
func (f *RecipeFactory) Recipe() *recipe.Recipe {
	r, err := recipe.NewRecipe(f.Draft(f.faker.Number(1, 5)))
	if err != nil {
		panic(err)
	}
	r.Events()
	return r
}

// CreateCommand returns a valid create command
func (f *RecipeFactory) CreateCommand() inbound.CreateRecipeCommand {
	d := f.Draft(3)
	ingredients := make([]inbound.IngredientCommand, len(d.Ingredients))
	for i, ing := range d.Ingredients {
		ingredients[i] = inbound.IngredientCommand{
			Name:     ing.Name,
			Quantity: recipe.Quantity(ing.Quantity),
			Unit:     ing.Unit,
		}
	}

	servings := inbound.Servings(*d.Servings)

	return inbound.CreateRecipeCommand{
		Title:       d.Title,
		Description: d.Description,
		Servings:    &servings,
		Ingredients: ingredients,
		Steps:       d.Steps,
		Tags:        d.Tags,
	}
}

// RecipeBuilder provides a fluent interface for building test recipes
type RecipeBuilder struct {
	snapshot recipe.Snapshot
}

// NewRecipeBuilder creates a new recipe builder with default values
func NewRecipeBuilder() *RecipeBuilder {
	faker := gofakeit.New(time.Now().UnixNano())
	now := time.Now().UTC()

	return &RecipeBuilder{
		snapshot: recipe.Snapshot{
			ID:        faker.UUID(),
			Title:     faker.Sentence(3),
			Servings:  recipe.DefaultServings,
			Steps:     []string{},
			Tags:      []string{},
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
}

// WithID sets the recipe id
func (rb *RecipeBuilder) WithID(id string) *RecipeBuilder {
	rb.snapshot.ID = id
	return rb
}

// WithTitle sets the recipe title
func (rb *RecipeBuilder) WithTitle(title string) *RecipeBuilder {
	rb.snapshot.Title = title
	return rb
}

// WithServings sets the number of servings
func (rb *RecipeBuilder) WithServings(servings int) *RecipeBuilder {
	rb.snapshot.Servings = servings
	return rb
}

// WithIngredient appends an ingredient
func (rb *RecipeBuilder) WithIngredient(name string, quantity float64, unit string) *RecipeBuilder {
	rb.snapshot.Ingredients = append(rb.snapshot.Ingredients, recipe.Ingredient{
		Name:     name,
		Quantity: quantity,
		Unit:     unit,
	})
	return rb
}

// CreatedAt sets both timestamps
func (rb *RecipeBuilder) CreatedAt(t time.Time) *RecipeBuilder {
	rb.snapshot.CreatedAt = t.UTC()
	rb.snapshot.UpdatedAt = t.UTC()
	return rb
}

// Build returns the recipe
func (rb *RecipeBuilder) Build() *recipe.Recipe {
	return recipe.Reconstitute(rb.snapshot)
}
