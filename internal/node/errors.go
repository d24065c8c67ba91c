package node

import "fmt"

// ShapeError reports a node of the wrong kind where a specific kind was
// required: an override suffix on a scalar, an unrecognized definition key,
// a non-collection value for a collection field.
type ShapeError struct {
	// Key is the mapping key or field name the error is attached to, when
	// one exists.
	Key     string
	Message string
}

// Error implements the error interface.
func (e *ShapeError) Error() string {
	return e.Message
}

// Shapef builds a ShapeError attached to key with a formatted message.
func Shapef(key, format string, args ...any) *ShapeError {
	return &ShapeError{Key: key, Message: fmt.Sprintf(format, args...)}
}
