package model

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when a player, match or tournament id does not resolve.
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput covers negative goal counts, malformed ids and missing fields.
	ErrInvalidInput = errors.New("invalid input")
	// ErrDuplicate is returned when a unique name or slug is already taken.
	ErrDuplicate = errors.New("already exists")
	// ErrInconsistentState marks a stored reference that no longer resolves.
	ErrInconsistentState = errors.New("inconsistent state")
)

// NewID returns a fresh entity id.
func NewID() string {
	return uuid.New().String()
}

// ValidateID rejects ids that were not produced by NewID.
func ValidateID(kind, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: malformed %s id %q", ErrInvalidInput, kind, id)
	}
	return nil
}
