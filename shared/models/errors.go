package models

import "errors"

// Error categories. Package-level sentinel errors wrap one of these so
// callers can branch with errors.Is without knowing every sentinel.
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
)
