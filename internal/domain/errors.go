package domain

import "errors"

// ErrNotFound is returned when a referenced user, listing, review or
// bookmark does not exist.
var ErrNotFound = errors.New("not found")

// ValidationError reports the first offending field of a request.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func Invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// ConflictError reports a uniqueness violation (duplicate review, bookmark,
// email, or near-identical listing).
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

func Conflict(message string) error { return &ConflictError{Message: message} }

// PermissionError reports an ownership or role mismatch.
type PermissionError struct {
	Message string
}

func (e *PermissionError) Error() string { return e.Message }

func Forbidden(message string) error { return &PermissionError{Message: message} }

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}

func IsPermission(err error) bool {
	var pe *PermissionError
	return errors.As(err, &pe)
}
