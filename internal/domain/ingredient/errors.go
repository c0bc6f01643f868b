package ingredient

import "errors"

var (
	ErrNameRequired    = errors.New("ingredient name is required")
	ErrNameTooLong     = errors.New("ingredient name must be at most 200 characters")
	ErrInvalidCategory = errors.New("unknown ingredient category")
	ErrInvalidUnit     = errors.New("unknown unit of measurement")
)
