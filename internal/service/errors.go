package service

import "errors"

var (
	ErrValidation         = errors.New("validation")
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("conflict")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// ValidationError carries the message shown to the client.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func invalid(field, msg string) error {
	return &ValidationError{Field: field, Message: msg}
}
