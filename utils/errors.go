package utils

import (
	"errors"
	"fmt"
)

// ValidationError reports malformed or missing input. The message is safe to show to callers.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func NewValidationError(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// NotFoundError reports that a referenced entity does not exist.
type NotFoundError struct {
	Entity string
}

func (e *NotFoundError) Error() string { return e.Entity + " not found" }

// AuthenticationError covers bad credentials and bad tokens alike.
type AuthenticationError struct {
	Message string
}

func (e *AuthenticationError) Error() string { return e.Message }

// DependencyError wraps a database or mail relay failure.
type DependencyError struct {
	Op  string
	Err error
}

func (e *DependencyError) Error() string { return e.Op + ": " + e.Err.Error() }

func (e *DependencyError) Unwrap() error { return e.Err }

func Dependency(op string, err error) error {
	return &DependencyError{Op: op, Err: err}
}

var ErrRateLimited = errors.New("too many attempts")

func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

func IsAuthentication(err error) bool {
	var target *AuthenticationError
	return errors.As(err, &target)
}
