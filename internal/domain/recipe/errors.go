package recipe

import "errors"

var (
	ErrNameRequired         = errors.New("recipe name is required")
	ErrNameTooLong          = errors.New("recipe name must be at most 200 characters")
	ErrInstructionsRequired = errors.New("recipe instructions are required")
	ErrInvalidServings      = errors.New("servings must be at least 1")
	ErrInvalidDifficulty    = errors.New("unknown difficulty level")
	ErrInvalidCuisine       = errors.New("unknown cuisine type")
	ErrInvalidQuantity      = errors.New("ingredient quantity must be positive")
)
