package expense

import "errors"

var (
	ErrInvalidAmount   = errors.New("expense amount must be positive")
	ErrInvalidCategory = errors.New("invalid expense category")
)
