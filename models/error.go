package models

import "github.com/pkg/errors"

// Error is the JSON body of every failed response.
type Error struct {
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

type JWT struct {
	Token string `json:"token"`
}

var (
	ErrNotFound  = errors.New("not found")
	ErrForbidden = errors.New("forbidden")
	// ErrConflict means a row changed underneath the operation; reload and retry.
	ErrConflict = errors.New("concurrent modification, reload and retry")
	// ErrDuplicate is a unique constraint violation reported by the store.
	ErrDuplicate = errors.New("duplicate value")
)

// ValidationError is a rule failure whose reason is shown to the caller verbatim.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

func Invalid(reason string) error {
	return &ValidationError{Reason: reason}
}

// FieldError is malformed input attributed to one request field.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string { return e.Field + ": " + e.Message }
