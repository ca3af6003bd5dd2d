// Package apperr defines the domain error kinds shared by services and
// controllers. Controllers map each kind to exactly one HTTP status.
package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation covers malformed payloads and broken domain rules,
	// e.g. the question-count ceiling.
	ErrValidation = errors.New("validation failed")
	// ErrForbidden means the acting user is not allowed to perform the
	// operation (non-administrator on a privileged action).
	ErrForbidden = errors.New("forbidden")
	// ErrNotFound means a referenced entity does not resolve.
	ErrNotFound = errors.New("not found")
)

func Validationf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func Forbiddenf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrForbidden, fmt.Sprintf(format, args...))
}

func NotFoundf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}
