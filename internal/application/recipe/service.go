// Package recipe provides the application layer for recipe management
// This implements the use cases defined in the inbound ports
package recipe

import (
	"context"
	stderrors "errors"

	"github.com/alchemorsel/pantry/internal/application/validation"
	"github.com/alchemorsel/pantry/internal/domain/recipe"
	"github.com/alchemorsel/pantry/internal/domain/shared"
	"github.com/alchemorsel/pantry/internal/ports/inbound"
	"github.com/alchemorsel/pantry/internal/ports/outbound"
	"github.com/alchemorsel/pantry/pkg/errors"
	"go.uber.org/zap"
)

// RecipeService implements the recipe use cases
type RecipeService struct {
	recipeRepo outbound.RecipeRepository
	events     shared.EventDispatcher
	validator  *validation.Validator
	logger     *zap.Logger
}

var _ inbound.RecipeService = (*RecipeService)(nil)

// NewRecipeService creates a new recipe service. events may be nil.
func NewRecipeService(
	recipeRepo outbound.RecipeRepository,
	events shared.EventDispatcher,
	logger *zap.Logger,
) *RecipeService {
	return &RecipeService{
		recipeRepo: recipeRepo,
		events:     events,
		validator:  validation.New(),
		logger:     logger.Named("recipe-service"),
	}
}

// CreateRecipe creates a new recipe
func (s *RecipeService) CreateRecipe(ctx context.Context, cmd inbound.CreateRecipeCommand) (*inbound.RecipeDTO, error) {
	s.logger.Debug("Creating new recipe",
		zap.String("title", cmd.Title),
		zap.Int("ingredients", len(cmd.Ingredients)),
	)

	if err := s.validator.Struct(cmd); err != nil {
		return nil, err
	}

	recipeEntity, err := recipe.NewRecipe(recipe.Draft{
		Title:       cmd.Title,
		Description: cmd.Description,
		Servings:    cmd.Servings.Int(),
		Ingredients: toIngredients(cmd.Ingredients),
		Steps:       cmd.Steps,
		Tags:        cmd.Tags,
	})
	if err != nil {
		return nil, s.mapError("create recipe", "", err)
	}

	if err := s.recipeRepo.Create(ctx, recipeEntity); err != nil {
		return nil, s.mapError("create recipe", recipeEntity.ID(), err)
	}

	s.publishEvents(recipeEntity.Events())

	dto := entityToDTO(recipeEntity)

	s.logger.Info("Recipe created successfully",
		zap.String("recipe_id", dto.ID),
		zap.String("title", dto.Title),
	)

	return dto, nil
}

// UpdateRecipe merges the provided fields into an existing recipe
func (s *RecipeService) UpdateRecipe(ctx context.Context, cmd inbound.UpdateRecipeCommand) (*inbound.RecipeDTO, error) {
	s.logger.Debug("Updating recipe", zap.String("recipe_id", cmd.RecipeID))

	if err := s.validator.Struct(cmd); err != nil {
		return nil, err
	}

	recipeEntity, err := s.recipeRepo.FindByID(ctx, cmd.RecipeID)
	if err != nil {
		return nil, s.mapError("find recipe", cmd.RecipeID, err)
	}

	patch := recipe.Patch{
		Title:       cmd.Title,
		Description: cmd.Description,
		Servings:    cmd.Servings.Int(),
		Steps:       cmd.Steps,
		Tags:        cmd.Tags,
	}
	if cmd.Ingredients != nil {
		ingredients := toIngredients(*cmd.Ingredients)
		patch.Ingredients = &ingredients
	}

	if err := recipeEntity.Apply(patch); err != nil {
		return nil, s.mapError("update recipe", cmd.RecipeID, err)
	}

	if err := s.recipeRepo.Update(ctx, recipeEntity); err != nil {
		return nil, s.mapError("update recipe", cmd.RecipeID, err)
	}

	s.publishEvents(recipeEntity.Events())

	s.logger.Info("Recipe updated successfully", zap.String("recipe_id", cmd.RecipeID))

	return entityToDTO(recipeEntity), nil
}

// DeleteRecipe removes a recipe
func (s *RecipeService) DeleteRecipe(ctx context.Context, recipeID string) error {
	recipeEntity, err := s.recipeRepo.FindByID(ctx, recipeID)
	if err != nil {
		return s.mapError("find recipe", recipeID, err)
	}

	if err := s.recipeRepo.Delete(ctx, recipeID); err != nil {
		return s.mapError("delete recipe", recipeID, err)
	}

	recipeEntity.MarkDeleted()
	s.publishEvents(recipeEntity.Events())

	s.logger.Info("Recipe deleted successfully", zap.String("recipe_id", recipeID))

	return nil
}

// GetRecipeByID retrieves a recipe by ID
func (s *RecipeService) GetRecipeByID(ctx context.Context, recipeID string) (*inbound.RecipeDTO, error) {
	recipeEntity, err := s.recipeRepo.FindByID(ctx, recipeID)
	if err != nil {
		return nil, s.mapError("find recipe", recipeID, err)
	}

	return entityToDTO(recipeEntity), nil
}

// ListRecipes returns every recipe, newest first
func (s *RecipeService) ListRecipes(ctx context.Context) ([]*inbound.RecipeDTO, error) {
	recipes, err := s.recipeRepo.List(ctx)
	if err != nil {
		return nil, s.mapError("list recipes", "", err)
	}

	dtos := make([]*inbound.RecipeDTO, len(recipes))
	for i, r := range recipes {
		dtos[i] = entityToDTO(r)
	}

	return dtos, nil
}

// mapError translates domain and store failures into AppErrors
func (s *RecipeService) mapError(operation, recipeID string, err error) error {
	switch {
	case stderrors.Is(err, recipe.ErrRecipeNotFound):
		return errors.NewRecipeNotFoundError(recipeID)
	case recipe.IsValidationError(err):
		return errors.NewValidationError(err.Error())
	default:
		s.logger.Error("Recipe store failure",
			zap.String("operation", operation),
			zap.String("recipe_id", recipeID),
			zap.Error(err),
		)
		return errors.NewDatabaseError(operation, err)
	}
}

func (s *RecipeService) publishEvents(events []shared.DomainEvent) {
	if s.events == nil {
		return
	}
	for _, event := range events {
		if err := s.events.Dispatch(event); err != nil {
			s.logger.Error("Failed to publish event",
				zap.String("event", event.EventName()),
				zap.Error(err),
			)
		}
	}
}

func toIngredients(cmds []inbound.IngredientCommand) []recipe.Ingredient {
	if cmds == nil {
		return nil
	}
	ingredients := make([]recipe.Ingredient, len(cmds))
	for i, c := range cmds {
		ingredients[i] = recipe.Ingredient{
			Name:     c.Name,
			Quantity: c.Quantity.Float64(),
			Unit:     c.Unit,
		}
	}
	return ingredients
}

func entityToDTO(r *recipe.Recipe) *inbound.RecipeDTO {
	ingredients := make([]inbound.IngredientDTO, 0, len(r.Ingredients()))
	for _, ing := range r.Ingredients() {
		ingredients = append(ingredients, inbound.IngredientDTO{
			Name:     ing.Name,
			Quantity: ing.Quantity,
			Unit:     ing.Unit,
		})
	}

	return &inbound.RecipeDTO{
		ID:          r.ID(),
		Title:       r.Title(),
		Description: r.Description(),
		Servings:    r.Servings(),
		Ingredients: ingredients,
		Steps:       nonNil(r.Steps()),
		Tags:        nonNil(r.Tags()),
		CreatedAt:   r.CreatedAt(),
		UpdatedAt:   r.UpdatedAt(),
	}
}

// nonNil keeps empty lists encoding as [] rather than null
func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
