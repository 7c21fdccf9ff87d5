package validation

import (
	"math"
	"testing"

	"github.com/alchemorsel/pantry/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Title    string       `json:"title" validate:"notblank,max=5"`
	Servings *int         `json:"servings" validate:"omitempty,min=1"`
	Yield    *float64     `json:"yield" validate:"omitempty,servings"`
	Items    []sampleItem `json:"items" validate:"dive"`
}

type sampleItem struct {
	Name string `json:"name" validate:"notblank"`
}

func TestValidator_Struct(t *testing.T) {
	v := New()
	zero := 0
	half := 2.5
	nan := math.NaN()

	tests := []struct {
		name      string
		input     sample
		wantField string
		wantTag   string
	}{
		{"blank title", sample{Title: "   "}, "title", "notblank"},
		{"long title", sample{Title: "toolong"}, "title", "max"},
		{"zero servings", sample{Title: "ok", Servings: &zero}, "servings", "min"},
		{"fractional yield", sample{Title: "ok", Yield: &half}, "yield", "servings"},
		{"NaN yield", sample{Title: "ok", Yield: &nan}, "yield", "servings"},
		{"nested blank name", sample{Title: "ok", Items: []sampleItem{{Name: ""}}}, "items[0].name", "notblank"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(tt.input)
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.CodeValidationFailed))

			var appErr *errors.AppError
			require.ErrorAs(t, err, &appErr)
			fields, ok := appErr.Metadata["validation_errors"].(errors.ValidationErrors)
			require.True(t, ok)
			require.Len(t, fields, 1)
			assert.Equal(t, tt.wantField, fields[0].Field)
			assert.Equal(t, tt.wantTag, fields[0].Tag)
		})
	}
}

func TestValidator_StructValid(t *testing.T) {
	one := 1
	four := 4.0
	assert.NoError(t, New().Struct(sample{Title: "Soup", Servings: &one, Yield: &four, Items: []sampleItem{{Name: "salt"}}}))
}
