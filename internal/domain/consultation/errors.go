package consultation

import "errors"

var (
	ErrPatientRequired   = errors.New("consultation requires a patient reference")
	ErrDiagnosisRequired = errors.New("consultation diagnosis is required")
)
