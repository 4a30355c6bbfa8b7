package entity

import (
	"errors"
	"strings"
)

var (
	// ErrValidation matches every *ValidationError.
	ErrValidation = errors.New("validation failed")

	// ErrUnknownRecord means an ID is not in the current list.
	ErrUnknownRecord = errors.New("unknown record")

	// ErrUnknownField means a form key does not belong to the entity.
	ErrUnknownField = errors.New("unknown field")

	// ErrNoSearch means the entity has no search endpoint.
	ErrNoSearch = errors.New("search not supported")
)

// ValidationError is a client-side check that failed before any network call.
type ValidationError struct {
	Message string
	Fields  []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + e.Message + " (" + strings.Join(e.Fields, ", ") + ")"
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
