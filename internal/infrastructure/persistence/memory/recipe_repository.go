package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/alchemorsel/pantry/internal/domain/recipe"
	"github.com/alchemorsel/pantry/internal/ports/outbound"
)

type storedRecipe struct {
	snapshot recipe.Snapshot
	seq      uint64
}

// RecipeRepository keeps recipes for the lifetime of the process. Recipes are
// stored as snapshots so callers never share state with the store.
type RecipeRepository struct {
	mutex   sync.RWMutex
	recipes map[string]storedRecipe
	seq     uint64
}

var _ outbound.RecipeRepository = (*RecipeRepository)(nil)

// NewRecipeRepository creates an empty in-memory recipe store
func NewRecipeRepository() *RecipeRepository {
	return &RecipeRepository{
		recipes: make(map[string]storedRecipe),
	}
}

// Create stores a new recipe
func (r *RecipeRepository) Create(ctx context.Context, rec *recipe.Recipe) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.seq++
	r.recipes[rec.ID()] = storedRecipe{snapshot: rec.Snapshot(), seq: r.seq}
	return nil
}

// Update replaces an existing recipe
func (r *RecipeRepository) Update(ctx context.Context, rec *recipe.Recipe) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	existing, ok := r.recipes[rec.ID()]
	if !ok {
		return recipe.ErrRecipeNotFound
	}

	snapshot := rec.Snapshot()
	snapshot.CreatedAt = existing.snapshot.CreatedAt
	r.recipes[rec.ID()] = storedRecipe{snapshot: snapshot, seq: existing.seq}
	return nil
}

// Delete removes a recipe
func (r *RecipeRepository) Delete(ctx context.Context, id string) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, ok := r.recipes[id]; !ok {
		return recipe.ErrRecipeNotFound
	}
	delete(r.recipes, id)
	return nil
}

// FindByID returns the recipe with the given id
func (r *RecipeRepository) FindByID(ctx context.Context, id string) (*recipe.Recipe, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	stored, ok := r.recipes[id]
	if !ok {
		return nil, recipe.ErrRecipeNotFound
	}
	return recipe.Reconstitute(stored.snapshot), nil
}

// List returns all recipes, newest first. Recipes created within the same
// clock tick keep reverse insertion order.
func (r *RecipeRepository) List(ctx context.Context) ([]*recipe.Recipe, error) {
	r.mutex.RLock()
	stored := make([]storedRecipe, 0, len(r.recipes))
	for _, s := range r.recipes {
		stored = append(stored, s)
	}
	r.mutex.RUnlock()

	sort.Slice(stored, func(i, j int) bool {
		a, b := stored[i].snapshot.CreatedAt, stored[j].snapshot.CreatedAt
		if !a.Equal(b) {
			return a.After(b)
		}
		return stored[i].seq > stored[j].seq
	})

	recipes := make([]*recipe.Recipe, len(stored))
	for i, s := range stored {
		recipes[i] = recipe.Reconstitute(s.snapshot)
	}
	return recipes, nil
}

// Ping always succeeds for the in-memory store
func (r *RecipeRepository) Ping(ctx context.Context) error {
	return nil
}

// Len returns the number of stored recipes
func (r *RecipeRepository) Len() int {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	return len(r.recipes)
}
