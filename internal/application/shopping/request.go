// Package shopping implements the shopping-list use case: parsing the
// heterogeneous recipe selection, resolving stored recipes and aggregating
// their ingredients.
package shopping

import (
	"bytes"
	"encoding/json"

	"github.com/alchemorsel/pantry/internal/domain/recipe"
	"github.com/alchemorsel/pantry/internal/domain/shopping"
	"github.com/alchemorsel/pantry/pkg/errors"
)

const invalidSelectionMessage = "Provide an array of recipes or recipe ids"

// Reference is one usable element of a shopping-list request. Exactly one
// of ID and Inline is set.
type Reference struct {
	ID               string
	Inline           *shopping.Entry
	Scale            float64
	ServingsOverride float64
}

// ParseReferences decodes the raw recipes value of a request. The value must
// be a non-empty JSON array. Elements of no known shape are dropped and
// counted in skipped.
func ParseReferences(raw json.RawMessage) (refs []Reference, skipped int, err error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '[' {
		return nil, 0, errors.NewValidationError(invalidSelectionMessage)
	}

	var elements []json.RawMessage
	if err := json.Unmarshal(raw, &elements); err != nil {
		return nil, 0, errors.NewBadRequestError("Malformed recipes array").WithCause(err)
	}
	if len(elements) == 0 {
		return nil, 0, errors.NewValidationError(invalidSelectionMessage)
	}

	refs = make([]Reference, 0, len(elements))
	for _, element := range elements {
		ref, ok := parseReference(element)
		if !ok {
			skipped++
			continue
		}
		refs = append(refs, ref)
	}

	return refs, skipped, nil
}

func parseReference(element json.RawMessage) (Reference, bool) {
	element = bytes.TrimSpace(element)
	if len(element) == 0 {
		return Reference{}, false
	}

	switch element[0] {
	case '"':
		var id string
		if err := json.Unmarshal(element, &id); err != nil || id == "" {
			return Reference{}, false
		}
		return Reference{ID: id}, true
	case '{':
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(element, &fields); err != nil {
			return Reference{}, false
		}
		return parseObject(fields)
	default:
		return Reference{}, false
	}
}

// parseObject reads an id reference or an inline recipe. Multipliers are
// coerced whole, so a corrupt value such as "2x" becomes NaN and poisons the
// lines it scales instead of being read as 2.
func parseObject(fields map[string]json.RawMessage) (Reference, bool) {
	ref := Reference{
		Scale:            recipe.CoerceNumberJSON(fields["scale"]),
		ServingsOverride: recipe.CoerceNumberJSON(fields["servingsOverride"]),
	}

	ref.ID = stringField(fields, "id")
	if ref.ID == "" {
		ref.ID = stringField(fields, "_id")
	}
	if ref.ID != "" {
		return ref, true
	}

	title := stringField(fields, "title")
	ingredients, ok := ingredientList(fields["ingredients"])
	if title == "" || !ok {
		return Reference{}, false
	}

	ref.Inline = &shopping.Entry{
		Title:            title,
		Servings:         recipe.CoerceNumberJSON(fields["servings"]),
		Ingredients:      ingredients,
		Scale:            ref.Scale,
		ServingsOverride: ref.ServingsOverride,
	}
	return ref, true
}

// stringField returns fields[key] when it is a JSON string, otherwise ""
func stringField(fields map[string]json.RawMessage, key string) string {
	raw, ok := fields[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

// ingredientList decodes an inline ingredient array. Non-object elements
// are ignored; a non-string name or unit reads as "".
func ingredientList(raw json.RawMessage) ([]recipe.Ingredient, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '[' {
		return nil, false
	}

	var elements []json.RawMessage
	if err := json.Unmarshal(raw, &elements); err != nil {
		return nil, false
	}

	ingredients := make([]recipe.Ingredient, 0, len(elements))
	for _, element := range elements {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(element, &fields); err != nil || fields == nil {
			continue
		}
		ingredients = append(ingredients, recipe.Ingredient{
			Name:     stringField(fields, "name"),
			Quantity: recipe.ParseQuantityJSON(fields["quantity"]),
			Unit:     stringField(fields, "unit"),
		})
	}
	return ingredients, true
}
