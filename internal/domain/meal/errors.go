package meal

import "errors"

var (
	ErrNameOrRecipeRequired = errors.New("meal needs a name or a recipe")
	ErrNameTooLong          = errors.New("meal name must be at most 200 characters")
	ErrInvalidType          = errors.New("unknown meal type")
	ErrInvalidStatus        = errors.New("unknown meal status")
	ErrInvalidTransition    = errors.New("invalid meal status transition")
	ErrInvalidServings      = errors.New("servings must be at least 1")
	ErrDateRequired         = errors.New("meal date is required")
	ErrNotAssignee          = errors.New("meal is assigned to another user")
)
