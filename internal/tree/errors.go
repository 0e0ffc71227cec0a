package tree

import "errors"

var (
	// ErrParentNotFound is returned when a node would be created under a
	// path or node that does not exist.
	ErrParentNotFound = errors.New("parent not found")

	// ErrUnordered is returned when an ordered mutation references a node
	// that has no position.
	ErrUnordered = errors.New("node is not ordered")
)
