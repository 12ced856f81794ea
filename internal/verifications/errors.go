package verifications

import "errors"

var (
	ErrNotFound     = errors.New("verification not found")
	ErrInvalidInput = errors.New("invalid input")
)
