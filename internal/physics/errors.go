package physics

import "errors"

// Domain errors for engine operations.
var (
	// ErrBodyNotFound indicates the requested body id is not in the
	// active collection.
	ErrBodyNotFound = errors.New("physics: body not found")

	// ErrInvalidBody indicates body parameters that violate the entity
	// invariants (non-positive mass or radius, non-finite vectors).
	ErrInvalidBody = errors.New("physics: invalid body parameters")
)
