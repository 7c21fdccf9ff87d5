// Package validation checks inbound commands against their struct tags
package validation

import (
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/alchemorsel/pantry/pkg/errors"
	"github.com/go-playground/validator/v10"
)

// Validator wraps validator.Validate with the project's custom rules
type Validator struct {
	validate *validator.Validate
}

// New creates a validator that reports fields by their JSON names
func New() *Validator {
	validate := validator.New()

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	// registration only fails for an empty tag or a nil func
	_ = validate.RegisterValidation("notblank", validateNotBlank)
	_ = validate.RegisterValidation("servings", validateServings)

	return &Validator{validate: validate}
}

// validateNotBlank rejects strings that are empty after trimming whitespace
func validateNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// validateServings accepts whole numbers from 1 up to math.MaxInt32. NaN
// fails every comparison and is rejected with the rest.
func validateServings(fl validator.FieldLevel) bool {
	field := fl.Field()
	var v float64
	switch field.Kind() {
	case reflect.Float32, reflect.Float64:
		v = field.Float()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		v = float64(field.Int())
	default:
		return false
	}
	return v >= 1 && v <= math.MaxInt32 && v == math.Trunc(v)
}

// Struct validates s and returns a VALIDATION_FAILED AppError listing every
// failed field, or nil.
func (v *Validator) Struct(s interface{}) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return errors.NewValidationError(err.Error())
	}

	out := make([]errors.ValidationError, 0, len(fieldErrs))
	for _, e := range fieldErrs {
		out = append(out, errors.ValidationError{
			Field:   fieldPath(e.Namespace()),
			Tag:     e.Tag(),
			Message: message(e),
		})
	}
	return errors.NewValidationErrors(out)
}

// fieldPath drops the struct name from a namespace such as
// "CreateRecipeCommand.ingredients[0].name"
func fieldPath(namespace string) string {
	if i := strings.IndexByte(namespace, '.'); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}

func message(e validator.FieldError) string {
	field := fieldPath(e.Namespace())

	switch e.Tag() {
	case "required", "notblank":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, e.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, e.Param())
	case "servings":
		return fmt.Sprintf("%s must be a whole number of at least 1", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
