// Package cached decorates a recipe repository with a read-through cache
package cached

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/alchemorsel/pantry/internal/domain/recipe"
	"github.com/alchemorsel/pantry/internal/ports/outbound"
	"go.uber.org/zap"
)

// Observer is told about every cache lookup
type Observer interface {
	CacheLookup(hit bool)
}

type nopObserver struct{}

func (nopObserver) CacheLookup(bool) {}

// RecipeRepository serves FindByID from the cache when possible. Writes go
// to the underlying store first and then invalidate the cached entry.
// Cache failures are logged and never surface to callers.
type RecipeRepository struct {
	next     outbound.RecipeRepository
	cache    outbound.CacheRepository
	ttl      time.Duration
	prefix   string
	observer Observer
	logger   *zap.Logger
}

var _ outbound.RecipeRepository = (*RecipeRepository)(nil)

// Option configures the decorator
type Option func(*RecipeRepository)

// WithObserver reports hits and misses to o
func WithObserver(o Observer) Option {
	return func(r *RecipeRepository) {
		if o != nil {
			r.observer = o
		}
	}
}

// WithKeyPrefix overrides the cache key prefix
func WithKeyPrefix(prefix string) Option {
	return func(r *RecipeRepository) {
		r.prefix = prefix
	}
}

// NewRecipeRepository wraps next with cache
func NewRecipeRepository(next outbound.RecipeRepository, cache outbound.CacheRepository, ttl time.Duration, logger *zap.Logger, opts ...Option) *RecipeRepository {
	r := &RecipeRepository{
		next:     next,
		cache:    cache,
		ttl:      ttl,
		prefix:   "recipe:",
		observer: nopObserver{},
		logger:   logger.Named("recipe-cache"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

type cachedIngredient struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
}

type cachedRecipe struct {
	ID          string             `json:"id"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Servings    int                `json:"servings"`
	Ingredients []cachedIngredient `json:"ingredients"`
	Steps       []string           `json:"steps"`
	Tags        []string           `json:"tags"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

func encode(r *recipe.Recipe) ([]byte, error) {
	s := r.Snapshot()
	c := cachedRecipe{
		ID:          s.ID,
		Title:       s.Title,
		Description: s.Description,
		Servings:    s.Servings,
		Ingredients: make([]cachedIngredient, len(s.Ingredients)),
		Steps:       s.Steps,
		Tags:        s.Tags,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
	for i, ing := range s.Ingredients {
		c.Ingredients[i] = cachedIngredient(ing)
	}
	return json.Marshal(c)
}

func decode(data []byte) (*recipe.Recipe, error) {
	var c cachedRecipe
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, err
	}
	ingredients := make([]recipe.Ingredient, len(c.Ingredients))
	for i, ing := range c.Ingredients {
		ingredients[i] = recipe.Ingredient(ing)
	}
	return recipe.Reconstitute(recipe.Snapshot{
		ID:          c.ID,
		Title:       c.Title,
		Description: c.Description,
		Servings:    c.Servings,
		Ingredients: ingredients,
		Steps:       c.Steps,
		Tags:        c.Tags,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}), nil
}

func (r *RecipeRepository) key(id string) string {
	return r.prefix + id
}

// FindByID returns the cached recipe or loads and caches it
func (r *RecipeRepository) FindByID(ctx context.Context, id string) (*recipe.Recipe, error) {
	data, err := r.cache.Get(ctx, r.key(id))
	if err == nil {
		rec, decodeErr := decode(data)
		if decodeErr == nil {
			r.observer.CacheLookup(true)
			return rec, nil
		}
		r.logger.Warn("Discarding undecodable cache entry", zap.String("recipe_id", id), zap.Error(decodeErr))
	} else if !errors.Is(err, outbound.ErrCacheMiss) {
		r.logger.Warn("Cache lookup failed", zap.String("recipe_id", id), zap.Error(err))
	}
	r.observer.CacheLookup(false)

	rec, err := r.next.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	r.store(ctx, rec)
	return rec, nil
}

// Create stores the recipe without touching the cache
func (r *RecipeRepository) Create(ctx context.Context, rec *recipe.Recipe) error {
	return r.next.Create(ctx, rec)
}

// Update writes through and drops the stale entry
func (r *RecipeRepository) Update(ctx context.Context, rec *recipe.Recipe) error {
	if err := r.next.Update(ctx, rec); err != nil {
		return err
	}
	r.invalidate(ctx, rec.ID())
	return nil
}

// Delete removes the recipe and its cache entry
func (r *RecipeRepository) Delete(ctx context.Context, id string) error {
	if err := r.next.Delete(ctx, id); err != nil {
		return err
	}
	r.invalidate(ctx, id)
	return nil
}

// List always reads from the store
func (r *RecipeRepository) List(ctx context.Context) ([]*recipe.Recipe, error) {
	return r.next.List(ctx)
}

// Ping checks the store; the cache is optional
func (r *RecipeRepository) Ping(ctx context.Context) error {
	return r.next.Ping(ctx)
}

func (r *RecipeRepository) store(ctx context.Context, rec *recipe.Recipe) {
	data, err := encode(rec)
	if err != nil {
		r.logger.Warn("Failed to encode recipe for cache", zap.String("recipe_id", rec.ID()), zap.Error(err))
		return
	}
	if err := r.cache.Set(ctx, r.key(rec.ID()), data, r.ttl); err != nil {
		r.logger.Warn("Failed to cache recipe", zap.String("recipe_id", rec.ID()), zap.Error(err))
	}
}

func (r *RecipeRepository) invalidate(ctx context.Context, id string) {
	if err := r.cache.Delete(ctx, r.key(id)); err != nil {
		r.logger.Warn("Failed to invalidate cached recipe", zap.String("recipe_id", id), zap.Error(err))
	}
}
