package inbound

import (
	"context"
	"encoding/json"
	"math"
)

// ShoppingListService builds consolidated shopping lists from recipe selections
type ShoppingListService interface {
	GenerateShoppingList(ctx context.Context, cmd GenerateShoppingListCommand) (*ShoppingListDTO, error)
}

// GenerateShoppingListCommand carries the raw recipe selection. Each element
// may be a recipe id, a reference object or an inline recipe, so elements are
// kept undecoded until resolution.
type GenerateShoppingListCommand struct {
	Recipes json.RawMessage `json:"recipes"`
}

// ShoppingListDTO is the generated shopping list
type ShoppingListDTO struct {
	Items []ShoppingItemDTO `json:"items"`
}

// ShoppingItemDTO is one consolidated ingredient line
type ShoppingItemDTO struct {
	Name     string `json:"name"`
	Unit     string `json:"unit"`
	Quantity Amount `json:"quantity"`
}

// Amount is a quantity that encodes NaN and ±Inf as JSON null
type Amount float64

// MarshalJSON implements json.Marshaler
func (a Amount) MarshalJSON() ([]byte, error) {
	f := float64(a)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return []byte("null"), nil
	}
	return json.Marshal(f)
}
