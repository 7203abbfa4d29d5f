package service

import (
	"errors"
	"fmt"
)

// Service-level sentinel errors.
var (
	// ErrInvalidCredentials is returned by Login when the username is
	// unknown or the password does not match. Callers cannot tell which.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrPasswordEmpty is returned by Register when no password is supplied.
	ErrPasswordEmpty = errors.New("password cannot be empty")
)

// ServiceError wraps an unexpected failure with the operation that caused
// it. Known sentinel errors (store not-found, domain validation) are
// returned directly and never wrapped in a ServiceError.
type ServiceError struct {
	Operation string
	Err       error
}

// Error implements the error interface.
func (e *ServiceError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Operation, e.Err)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}
