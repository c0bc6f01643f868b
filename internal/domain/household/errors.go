package household

import "errors"

var (
	ErrNameRequired       = errors.New("household name is required")
	ErrNameTooLong        = errors.New("household name must be at most 100 characters")
	ErrDescriptionTooLong = errors.New("household description must be at most 500 characters")
	ErrOwnerCannotLeave   = errors.New("the household owner cannot leave; delete the household instead")
	ErrAlreadyMember      = errors.New("user is already a member of this household")
	ErrNotMember          = errors.New("user is not a member of this household")
)
