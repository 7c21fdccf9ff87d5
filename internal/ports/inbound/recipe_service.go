// Package inbound defines the interfaces for inbound ports (primary/driving adapters)
// These are the interfaces that the application exposes to the outside world
package inbound

import (
	"context"
	"time"

	"github.com/alchemorsel/pantry/internal/domain/recipe"
)

// RecipeService defines the use cases for recipe management
type RecipeService interface {
	// Commands - operations that modify state
	CreateRecipe(ctx context.Context, cmd CreateRecipeCommand) (*RecipeDTO, error)
	UpdateRecipe(ctx context.Context, cmd UpdateRecipeCommand) (*RecipeDTO, error)
	DeleteRecipe(ctx context.Context, recipeID string) error

	// Queries - operations that read state
	GetRecipeByID(ctx context.Context, recipeID string) (*RecipeDTO, error)
	ListRecipes(ctx context.Context) ([]*RecipeDTO, error)
}

// CreateRecipeCommand contains data for creating a new recipe
type CreateRecipeCommand struct {
	Title       string              `json:"title" validate:"notblank,max=200"`
	Description string              `json:"description"`
	Servings    *Servings           `json:"servings" validate:"omitempty,servings"`
	Ingredients []IngredientCommand `json:"ingredients" validate:"dive"`
	Steps       []string            `json:"steps"`
	Tags        []string            `json:"tags"`
}

// UpdateRecipeCommand contains the fields to merge into an existing recipe.
// Nil fields are left unchanged.
type UpdateRecipeCommand struct {
	RecipeID    string               `json:"-" validate:"required"`
	Title       *string              `json:"title" validate:"omitempty,notblank,max=200"`
	Description *string              `json:"description"`
	Servings    *Servings            `json:"servings" validate:"omitempty,servings"`
	Ingredients *[]IngredientCommand `json:"ingredients" validate:"omitempty,dive"`
	Steps       *[]string            `json:"steps"`
	Tags        *[]string            `json:"tags"`
}

// Servings is a servings count as sent by the caller. Numbers and numeric
// strings are accepted; whether the value is a whole number of at least 1
// is left to the "servings" validation rule.
type Servings float64

// UnmarshalJSON implements json.Unmarshaler
func (s *Servings) UnmarshalJSON(data []byte) error {
	*s = Servings(recipe.CoerceNumberJSON(data))
	return nil
}

// Int returns the validated count, or nil when s is nil
func (s *Servings) Int() *int {
	if s == nil {
		return nil
	}
	n := int(*s)
	return &n
}

// IngredientCommand for adding ingredients
type IngredientCommand struct {
	Name     string          `json:"name" validate:"notblank"`
	Quantity recipe.Quantity `json:"quantity"`
	Unit     string          `json:"unit"`
}

// Response DTOs

// RecipeDTO is the data transfer object for recipes
type RecipeDTO struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Servings    int             `json:"servings"`
	Ingredients []IngredientDTO `json:"ingredients"`
	Steps       []string        `json:"steps"`
	Tags        []string        `json:"tags"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// IngredientDTO for ingredient data
type IngredientDTO struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
}

// DeleteResult is returned after a successful delete
type DeleteResult struct {
	Success bool `json:"success"`
}
