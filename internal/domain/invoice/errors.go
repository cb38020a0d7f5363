package invoice

import "errors"

var (
	ErrAmountRequired = errors.New("invoice amount or line items are required")
	ErrInvalidStatus  = errors.New("invalid invoice status")
	ErrInvalidMethod  = errors.New("invalid payment method")
)
