package grocery

import "errors"

var (
	ErrNameRequired     = errors.New("grocery list name is required")
	ErrNameTooLong      = errors.New("grocery list name must be at most 200 characters")
	ErrInvalidStatus    = errors.New("unknown grocery list status")
	ErrInvalidDateRange = errors.New("end date must not be before start date")
	ErrItemNameRequired = errors.New("grocery item name is required")
	ErrInvalidQuantity  = errors.New("grocery item quantity must be positive")
	ErrNoMealsInRange   = errors.New("no planned meals with recipes in the given date range")
)
