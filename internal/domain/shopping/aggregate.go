// Package shopping turns a set of scaled recipes into a consolidated
// shopping list. Everything here is pure: no I/O and no shared state.
package shopping

import (
	"math"
	"strings"

	"github.com/alchemorsel/pantry/internal/domain/recipe"
)

// keySeparator joins the normalized name and unit of an aggregation key
const keySeparator = "||"

// Entry is one resolved recipe together with how it should be scaled.
// Servings may be 0 for inline recipes that do not declare it.
type Entry struct {
	Title            string
	Servings         float64
	Ingredients      []recipe.Ingredient
	Scale            float64
	ServingsOverride float64
}

// Line is one consolidated ingredient of the shopping list
type Line struct {
	Name     string
	Unit     string
	Quantity float64
}

// EffectiveScale returns the multiplier applied to every ingredient of e.
// A servings override wins over Scale only when both it and the recipe's
// servings are non-zero; a zero Scale means 1. NaN multipliers are returned
// as they are.
func (e Entry) EffectiveScale() float64 {
	if e.ServingsOverride != 0 && e.Servings != 0 {
		return e.ServingsOverride / e.Servings
	}
	if e.Scale == 0 {
		return 1
	}
	return e.Scale
}

// Key returns the aggregation identity of an ingredient
func Key(name, unit string) string {
	return normalize(name) + keySeparator + normalize(unit)
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Aggregate sums the scaled quantities of every ingredient across entries,
// merging ingredients whose normalized name and unit match. Lines keep the
// spelling of the first occurrence and appear in first-seen order.
func Aggregate(entries []Entry) []Line {
	index := make(map[string]int)
	lines := make([]Line, 0)

	for _, entry := range entries {
		scale := entry.EffectiveScale()
		for _, ingredient := range entry.Ingredients {
			key := Key(ingredient.Name, ingredient.Unit)
			pos, ok := index[key]
			if !ok {
				pos = len(lines)
				index[key] = pos
				lines = append(lines, Line{Name: ingredient.Name, Unit: ingredient.Unit})
			}
			lines[pos].Quantity += ingredient.Quantity * scale
		}
	}

	for i := range lines {
		lines[i].Quantity = Round(lines[i].Quantity)
	}

	return lines
}

// Round rounds q to two decimals, halves toward positive infinity.
// Non-finite values are returned unchanged.
func Round(q float64) float64 {
	if math.IsNaN(q) || math.IsInf(q, 0) {
		return q
	}
	x := q * 100
	f := math.Floor(x)
	if x-f >= 0.5 {
		f++
	}
	return f / 100
}
