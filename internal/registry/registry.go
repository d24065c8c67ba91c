package registry

import (
	"fmt"

	"github.com/vk/diconfig/internal/definition"
	"github.com/vk/diconfig/internal/node"
)

// Registry is the external container registry the orchestrator registers
// definitions into. Callers must serialize access for the duration of a
// load; the core assumes exclusive ownership and takes no locks.
type Registry interface {
	definition.TypeChecker

	// HasDefinition reports whether a definition exists under name.
	HasDefinition(name string) bool

	// GetDefinition returns the definition under name.
	GetDefinition(name string) (*definition.Definition, error)

	// AddDefinition creates and returns a fresh definition under name.
	AddDefinition(name string) (*definition.Definition, error)

	// RemoveDefinition drops the definition under name, if any.
	RemoveDefinition(name string)

	// GetByType returns the name of the unique definition whose declared
	// type is typeName. With required set, absence is an error; ambiguity
	// always is.
	GetByType(typeName string, required bool) (string, error)

	// Definitions lists all definitions in registration order.
	Definitions() []*definition.Definition

	// Literal wraps an expression so parameter expansion passes it
	// through untouched.
	Literal(expr string) node.Node

	// Parameters exposes the container parameters, read-only, for
	// expansion.
	Parameters() map[string]node.Node
}

// ReferenceError reports a name that could not be resolved against the
// registry: an alteration of a definition that does not exist, or an
// absent or ambiguous by-type lookup.
type ReferenceError struct {
	Name    string
	Message string
}

// Error implements the error interface.
func (e *ReferenceError) Error() string {
	return e.Message
}

// Referencef builds a ReferenceError about name with a formatted message.
func Referencef(name, format string, args ...any) *ReferenceError {
	return &ReferenceError{Name: name, Message: fmt.Sprintf(format, args...)}
}
