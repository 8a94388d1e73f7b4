package service

import "errors"

var (
	ErrNonConforming   = errors.New("data non-conforming")
	ErrEmailTaken      = errors.New("email already exists")
	ErrInvalidEmail    = errors.New("invalid email")
	ErrInvalidPassword = errors.New("invalid password")
)

// ValidationError rejects a record before it reaches the store. Its message
// is safe to show to clients.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
