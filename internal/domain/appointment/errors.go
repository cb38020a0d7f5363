package appointment

import "errors"

var (
	ErrPatientRequired = errors.New("appointment requires a patient reference")
	ErrInvalidDuration = errors.New("appointment duration must be positive")
	ErrInvalidStatus   = errors.New("invalid appointment status")
)
