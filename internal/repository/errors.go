package repository

import "errors"

var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("entity not found")

	// ErrVersionConflict is returned when a version-checked update lost the
	// race against a concurrent transition on the same ride.
	ErrVersionConflict = errors.New("ride was modified concurrently")
)
