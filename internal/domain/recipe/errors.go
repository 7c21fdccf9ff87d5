package recipe

import "errors"

// Domain errors for recipe operations

var (
	// Entity validation errors
	ErrTitleRequired          = errors.New("recipe title is required")
	ErrTitleTooLong           = errors.New("recipe title must not exceed 200 characters")
	ErrInvalidServings        = errors.New("servings must be a positive integer")
	ErrIngredientNameRequired = errors.New("ingredient name is required")
	ErrInvalidQuantity        = errors.New("ingredient quantity must be a finite number")

	// Lookup errors
	ErrRecipeNotFound = errors.New("recipe not found")
)

// IsValidationError reports whether err is one of the entity validation errors.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrTitleRequired) ||
		errors.Is(err, ErrTitleTooLong) ||
		errors.Is(err, ErrInvalidServings) ||
		errors.Is(err, ErrIngredientNameRequired) ||
		errors.Is(err, ErrInvalidQuantity)
}
