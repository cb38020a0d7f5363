package patient

import "errors"

var (
	ErrLastNameRequired  = errors.New("patient last name is required")
	ErrFirstNameRequired = errors.New("patient first name is required")
	ErrInvalidInsurance  = errors.New("invalid insurance type")
)
