package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestErrors_Existence tests that all error variables exist and are not nil
func TestErrors_Existence(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrNotFound", ErrNotFound},
		{"ErrInvalidInput", ErrInvalidInput},
		{"ErrShape", ErrShape},
		{"ErrFieldCollision", ErrFieldCollision},
		{"ErrUnsupportedBackend", ErrUnsupportedBackend},
		{"ErrRateLimited", ErrRateLimited},
		{"ErrAuthInvalid", ErrAuthInvalid},
		{"ErrTokenRequestFailed", ErrTokenRequestFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotNil(t, tt.err)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

func TestShapeError(t *testing.T) {
	err := fmt.Errorf("normalise: %w", &ShapeError{RecordID: "CONT123", Path: "fields.native.links"})

	assert.True(t, errors.Is(err, ErrShape))
	assert.False(t, errors.Is(err, ErrFieldCollision))

	var shapeErr *ShapeError
	assert.True(t, errors.As(err, &shapeErr))
	assert.Equal(t, "CONT123", shapeErr.RecordID)
	assert.Contains(t, err.Error(), "fields.native.links")
}

func TestFieldCollisionError(t *testing.T) {
	err := &FieldCollisionError{RecordID: "CONT1", Field: "name"}

	assert.True(t, errors.Is(err, ErrFieldCollision))
	assert.Equal(t, `record CONT1: field "name" overwrites a reserved attribute`, err.Error())
}
