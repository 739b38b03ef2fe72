package service

import (
	"errors"
	"fmt"
)

// ErrNotFound is the sentinel matched by errors.Is for every NotFoundError.
var ErrNotFound = errors.New("not found")

// NotFoundError reports that a requested transaction or customer identifier
// does not exist in the dataset.
type NotFoundError struct {
	Resource string
	ID       int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Resource, e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// ValidationError reports caller-supplied parameters that violate the
// operation contract. It carries enough detail to correct the call.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func notFound(resource string, id int64) error {
	return &NotFoundError{Resource: resource, ID: id}
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}
