package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrShape indicates a content item is missing an attribute the
	// pipeline depends on (a native link list, a rendition format).
	ErrShape = errors.New("unexpected item shape")

	// ErrFieldCollision indicates a field name collides with a reserved
	// record attribute when fields are moved to the top level.
	ErrFieldCollision = errors.New("field collision")

	// ErrUnsupportedBackend indicates an unknown cache or registry backend.
	ErrUnsupportedBackend = errors.New("unsupported backend")

	// ErrRateLimited indicates the content server asked us to slow down.
	ErrRateLimited = errors.New("rate limited")

	// Authentication Errors.

	// ErrAuthInvalid indicates the authentication credentials are invalid.
	ErrAuthInvalid = errors.New("authentication invalid")

	// ErrTokenRequestFailed indicates the client-credentials exchange failed.
	ErrTokenRequestFailed = errors.New("token request failed")
)

// ShapeError reports an attribute missing from a specific record.
type ShapeError struct {
	RecordID string
	Path     string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("record %s: missing or malformed %s", e.RecordID, e.Path)
}

// Unwrap lets errors.Is match ErrShape.
func (e *ShapeError) Unwrap() error {
	return ErrShape
}

// FieldCollisionError reports a field that overwrote a reserved attribute.
type FieldCollisionError struct {
	RecordID string
	Field    string
}

func (e *FieldCollisionError) Error() string {
	return fmt.Sprintf("record %s: field %q overwrites a reserved attribute", e.RecordID, e.Field)
}

// Unwrap lets errors.Is match ErrFieldCollision.
func (e *FieldCollisionError) Unwrap() error {
	return ErrFieldCollision
}
