package handlers

import (
	"net/http"

	"github.com/alchemorsel/pantry/internal/infrastructure/http/response"
	"github.com/alchemorsel/pantry/internal/ports/inbound"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// RecipeHandlers serves the recipe CRUD endpoints
type RecipeHandlers struct {
	recipeService inbound.RecipeService
	maxBodyBytes  int64
	logger        *zap.Logger
}

// NewRecipeHandlers creates the recipe handlers
func NewRecipeHandlers(recipeService inbound.RecipeService, maxBodyBytes int64, logger *zap.Logger) *RecipeHandlers {
	return &RecipeHandlers{
		recipeService: recipeService,
		maxBodyBytes:  maxBodyBytes,
		logger:        logger.Named("recipe-handlers"),
	}
}

// Routes mounts the handlers on r
func (h *RecipeHandlers) Routes(r chi.Router) {
	r.Get("/", h.ListRecipes)
	r.Post("/", h.CreateRecipe)
	r.Get("/{id}", h.GetRecipe)
	r.Put("/{id}", h.UpdateRecipe)
	r.Delete("/{id}", h.DeleteRecipe)
}

// ListRecipes handles GET /recipes
func (h *RecipeHandlers) ListRecipes(w http.ResponseWriter, r *http.Request) {
	recipes, err := h.recipeService.ListRecipes(r.Context())
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, recipes)
}

// CreateRecipe handles POST /recipes
func (h *RecipeHandlers) CreateRecipe(w http.ResponseWriter, r *http.Request) {
	var cmd inbound.CreateRecipeCommand
	if err := decodeJSON(w, r, h.maxBodyBytes, &cmd); err != nil {
		response.Error(w, r, err)
		return
	}

	recipe, err := h.recipeService.CreateRecipe(r.Context(), cmd)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.JSON(w, http.StatusCreated, recipe)
}

// GetRecipe handles GET /recipes/{id}
func (h *RecipeHandlers) GetRecipe(w http.ResponseWriter, r *http.Request) {
	recipe, err := h.recipeService.GetRecipeByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, recipe)
}

// UpdateRecipe handles PUT /recipes/{id}. Only the fields present in the
// body are changed.
func (h *RecipeHandlers) UpdateRecipe(w http.ResponseWriter, r *http.Request) {
	var cmd inbound.UpdateRecipeCommand
	if err := decodeJSON(w, r, h.maxBodyBytes, &cmd); err != nil {
		response.Error(w, r, err)
		return
	}
	cmd.RecipeID = chi.URLParam(r, "id")

	recipe, err := h.recipeService.UpdateRecipe(r.Context(), cmd)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, recipe)
}

// DeleteRecipe handles DELETE /recipes/{id}
func (h *RecipeHandlers) DeleteRecipe(w http.ResponseWriter, r *http.Request) {
	if err := h.recipeService.DeleteRecipe(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.Error(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, inbound.DeleteResult{Success: true})
}
