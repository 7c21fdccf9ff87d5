// Package gorm provides mapping between domain entities and GORM models
package gorm

import "github.com/alchemorsel/pantry/internal/domain/recipe"

// RecipeToModel converts a domain recipe to a GORM model
func RecipeToModel(r *recipe.Recipe) *RecipeModel {
	s := r.Snapshot()

	ingredients := make(IngredientList, len(s.Ingredients))
	for i, ing := range s.Ingredients {
		ingredients[i] = IngredientModel{
			Name:     ing.Name,
			Quantity: ing.Quantity,
			Unit:     ing.Unit,
		}
	}

	return &RecipeModel{
		ID:          s.ID,
		Title:       s.Title,
		Description: s.Description,
		Servings:    s.Servings,
		Ingredients: ingredients,
		Steps:       StringSlice(s.Steps),
		Tags:        StringSlice(s.Tags),
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

// ModelToRecipe converts a GORM model to a domain recipe
func ModelToRecipe(m *RecipeModel) *recipe.Recipe {
	ingredients := make([]recipe.Ingredient, len(m.Ingredients))
	for i, ing := range m.Ingredients {
		ingredients[i] = recipe.Ingredient{
			Name:     ing.Name,
			Quantity: ing.Quantity,
			Unit:     ing.Unit,
		}
	}

	return recipe.Reconstitute(recipe.Snapshot{
		ID:          m.ID,
		Title:       m.Title,
		Description: m.Description,
		Servings:    m.Servings,
		Ingredients: ingredients,
		Steps:       []string(m.Steps),
		Tags:        []string(m.Tags),
		CreatedAt:   m.CreatedAt.UTC(),
		UpdatedAt:   m.UpdatedAt.UTC(),
	})
}
