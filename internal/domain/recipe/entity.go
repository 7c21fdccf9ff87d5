// Package recipe contains the core domain logic for recipe management.
// This follows Domain-Driven Design principles with rich domain models.
package recipe

import (
	"fmt"
	"strings"
	"time"

	"github.com/alchemorsel/pantry/internal/domain/shared"
	"github.com/google/uuid"
)

// DefaultServings is used when a recipe is created without a servings count
const DefaultServings = 1

const maxTitleLength = 200

// now is replaced in tests that need deterministic timestamps
var now = time.Now

// Recipe represents the core recipe entity in our domain.
type Recipe struct {
	shared.AggregateRoot

	id          string
	title       string
	description string
	servings    int
	ingredients []Ingredient
	steps       []string
	tags        []string
	createdAt   time.Time
	updatedAt   time.Time
}

// Draft carries the caller-supplied fields of a new recipe. A nil Servings
// means "not provided".
type Draft struct {
	Title       string
	Description string
	Servings    *int
	Ingredients []Ingredient
	Steps       []string
	Tags        []string
}

// Patch lists the fields an update replaces; nil fields keep their value.
type Patch struct {
	Title       *string
	Description *string
	Servings    *int
	Ingredients *[]Ingredient
	Steps       *[]string
	Tags        *[]string
}

// Snapshot is the plain persisted form of a Recipe
type Snapshot struct {
	ID          string
	Title       string
	Description string
	Servings    int
	Ingredients []Ingredient
	Steps       []string
	Tags        []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewRecipe creates a new Recipe with validation
func NewRecipe(d Draft) (*Recipe, error) {
	if err := validateTitle(d.Title); err != nil {
		return nil, err
	}

	servings := DefaultServings
	if d.Servings != nil {
		if err := validateServings(*d.Servings); err != nil {
			return nil, err
		}
		servings = *d.Servings
	}

	if err := validateIngredients(d.Ingredients); err != nil {
		return nil, err
	}

	created := now().UTC()
	r := &Recipe{
		id:          uuid.NewString(),
		title:       d.Title,
		description: d.Description,
		servings:    servings,
		ingredients: copyIngredients(d.Ingredients),
		steps:       copyStrings(d.Steps),
		tags:        copyStrings(d.Tags),
		createdAt:   created,
		updatedAt:   created,
	}

	r.AddEvent(RecipeCreatedEvent{
		RecipeID:        r.id,
		Title:           r.title,
		IngredientCount: len(r.ingredients),
		CreatedAt:       created,
	})

	return r, nil
}

// Reconstitute rebuilds a recipe loaded from a store. No validation or
// events happen here.
func Reconstitute(s Snapshot) *Recipe {
	return &Recipe{
		id:          s.ID,
		title:       s.Title,
		description: s.Description,
		servings:    s.Servings,
		ingredients: copyIngredients(s.Ingredients),
		steps:       copyStrings(s.Steps),
		tags:        copyStrings(s.Tags),
		createdAt:   s.CreatedAt,
		updatedAt:   s.UpdatedAt,
	}
}

// Snapshot returns a deep copy of the recipe's state
func (r *Recipe) Snapshot() Snapshot {
	return Snapshot{
		ID:          r.id,
		Title:       r.title,
		Description: r.description,
		Servings:    r.servings,
		Ingredients: copyIngredients(r.ingredients),
		Steps:       copyStrings(r.steps),
		Tags:        copyStrings(r.tags),
		CreatedAt:   r.createdAt,
		UpdatedAt:   r.updatedAt,
	}
}

// ID returns the recipe's unique identifier
func (r *Recipe) ID() string {
	return r.id
}

// Title returns the recipe's title
func (r *Recipe) Title() string {
	return r.title
}

// Description returns the recipe's description
func (r *Recipe) Description() string {
	return r.description
}

// Servings returns the number of servings
func (r *Recipe) Servings() int {
	return r.servings
}

// Ingredients returns a copy of the recipe's ingredients
func (r *Recipe) Ingredients() []Ingredient {
	return copyIngredients(r.ingredients)
}

// Steps returns a copy of the preparation steps
func (r *Recipe) Steps() []string {
	return copyStrings(r.steps)
}

// Tags returns a copy of the recipe's tags
func (r *Recipe) Tags() []string {
	return copyStrings(r.tags)
}

// CreatedAt returns when the recipe was created
func (r *Recipe) CreatedAt() time.Time {
	return r.createdAt
}

// UpdatedAt returns when the recipe was last updated
func (r *Recipe) UpdatedAt() time.Time {
	return r.updatedAt
}

// Apply merges the provided fields of p over the recipe. Identity and
// creation time never change. Nothing is modified when validation fails.
func (r *Recipe) Apply(p Patch) error {
	if p.Title != nil {
		if err := validateTitle(*p.Title); err != nil {
			return err
		}
	}
	if p.Servings != nil {
		if err := validateServings(*p.Servings); err != nil {
			return err
		}
	}
	if p.Ingredients != nil {
		if err := validateIngredients(*p.Ingredients); err != nil {
			return err
		}
	}

	var fields []string
	if p.Title != nil {
		r.title = *p.Title
		fields = append(fields, "title")
	}
	if p.Description != nil {
		r.description = *p.Description
		fields = append(fields, "description")
	}
	if p.Servings != nil {
		r.servings = *p.Servings
		fields = append(fields, "servings")
	}
	if p.Ingredients != nil {
		r.ingredients = copyIngredients(*p.Ingredients)
		fields = append(fields, "ingredients")
	}
	if p.Steps != nil {
		r.steps = copyStrings(*p.Steps)
		fields = append(fields, "steps")
	}
	if p.Tags != nil {
		r.tags = copyStrings(*p.Tags)
		fields = append(fields, "tags")
	}

	r.updatedAt = now().UTC()
	r.AddEvent(RecipeUpdatedEvent{
		RecipeID:  r.id,
		Fields:    fields,
		UpdatedAt: r.updatedAt,
	})

	return nil
}

// MarkDeleted records the deletion of the recipe
func (r *Recipe) MarkDeleted() {
	r.AddEvent(RecipeDeletedEvent{
		RecipeID:  r.id,
		DeletedAt: now().UTC(),
	})
}

func validateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return ErrTitleRequired
	}
	if len(title) > maxTitleLength {
		return ErrTitleTooLong
	}
	return nil
}

func validateServings(servings int) error {
	if servings < 1 {
		return ErrInvalidServings
	}
	return nil
}

func validateIngredients(ingredients []Ingredient) error {
	for i, ingredient := range ingredients {
		if err := ingredient.Validate(); err != nil {
			return fmt.Errorf("ingredient %d: %w", i, err)
		}
	}
	return nil
}

func copyIngredients(in []Ingredient) []Ingredient {
	out := make([]Ingredient, len(in))
	copy(out, in)
	return out
}

func copyStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}
