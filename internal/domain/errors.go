package domain

import "errors"

// Common domain errors
var (
	ErrNotFound = errors.New("resource not found")
	// ErrOwnerNotFound is returned when a write references a user that no longer exists.
	ErrOwnerNotFound = errors.New("owner not found")
)
