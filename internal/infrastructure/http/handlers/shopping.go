package handlers

import (
	"net/http"

	"github.com/alchemorsel/pantry/internal/infrastructure/http/response"
	"github.com/alchemorsel/pantry/internal/ports/inbound"
	"go.uber.org/zap"
)

// ShoppingListHandler serves POST /shopping-list
type ShoppingListHandler struct {
	service      inbound.ShoppingListService
	maxBodyBytes int64
	logger       *zap.Logger
}

// NewShoppingListHandler creates the shopping-list handler
func NewShoppingListHandler(service inbound.ShoppingListService, maxBodyBytes int64, logger *zap.Logger) *ShoppingListHandler {
	return &ShoppingListHandler{
		service:      service,
		maxBodyBytes: maxBodyBytes,
		logger:       logger.Named("shopping-handler"),
	}
}

// GenerateShoppingList consolidates the ingredients of the posted recipes
func (h *ShoppingListHandler) GenerateShoppingList(w http.ResponseWriter, r *http.Request) {
	var cmd inbound.GenerateShoppingListCommand
	if err := decodeJSON(w, r, h.maxBodyBytes, &cmd); err != nil {
		response.Error(w, r, err)
		return
	}

	list, err := h.service.GenerateShoppingList(r.Context(), cmd)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, list)
}
