// Package version provides domain types for mobile app versioning.
package version

import "errors"

// Domain errors for version operations.
var (
	// ErrInvalidVersion indicates an invalid version string.
	ErrInvalidVersion = errors.New("invalid app version")

	// ErrInvalidBumpType indicates an invalid bump type.
	ErrInvalidBumpType = errors.New("invalid bump type")

	// ErrVersionNotFound indicates a version was not found.
	ErrVersionNotFound = errors.New("version not found")
)
