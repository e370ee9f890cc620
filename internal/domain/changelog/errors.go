// Package changelog provides domain types for synthesizing changelog
// entries from commit history.
package changelog

import "errors"

// Domain errors for changelog operations.
var (
	// ErrNoInsertionPoint indicates the document has no top-level heading
	// to insert an entry after.
	ErrNoInsertionPoint = errors.New("changelog has no top-level heading")
)
