package inmemoryregistry

import (
	"github.com/vk/diconfig/internal/definition"
	"github.com/vk/diconfig/internal/node"
	"github.com/vk/diconfig/internal/registry"
)

// Registry is an in-memory registry.Registry. Definitions keep their
// registration order, which the orchestrator relies on for auto-naming
// ordinals.
type Registry struct {
	defs       map[string]*definition.Definition
	order      []string
	interfaces map[string]struct{}
	parameters map[string]node.Node
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		defs:       make(map[string]*definition.Definition),
		interfaces: make(map[string]struct{}),
		parameters: make(map[string]node.Node),
	}
}

// RegisterInterface declares name as a known interface type for the
// normalizer's implement-shortcut rules.
func (r *Registry) RegisterInterface(name string) {
	r.interfaces[name] = struct{}{}
}

// IsInterface implements definition.TypeChecker.
func (r *Registry) IsInterface(name string) bool {
	_, ok := r.interfaces[name]
	return ok
}

// SetParameter stores a container parameter.
func (r *Registry) SetParameter(name string, value node.Node) {
	r.parameters[name] = value
}

// Parameters implements registry.Registry.
func (r *Registry) Parameters() map[string]node.Node {
	return r.parameters
}

// Literal implements registry.Registry.
func (r *Registry) Literal(expr string) node.Node {
	return &node.Literal{Expr: expr}
}

// HasDefinition implements registry.Registry.
func (r *Registry) HasDefinition(name string) bool {
	_, ok := r.defs[name]
	return ok
}

// GetDefinition implements registry.Registry.
func (r *Registry) GetDefinition(name string) (*definition.Definition, error) {
	def, ok := r.defs[name]
	if !ok {
		return nil, registry.Referencef(name, "service '%s' not found", name)
	}
	return def, nil
}

// AddDefinition implements registry.Registry.
func (r *Registry) AddDefinition(name string) (*definition.Definition, error) {
	if name == "" {
		return nil, registry.Referencef(name, "service name must not be empty")
	}
	if _, ok := r.defs[name]; ok {
		return nil, registry.Referencef(name, "service '%s' is already defined", name)
	}
	def := &definition.Definition{Name: name, Autowired: node.Bool(true)}
	r.defs[name] = def
	r.order = append(r.order, name)
	return def, nil
}

// RemoveDefinition implements registry.Registry.
func (r *Registry) RemoveDefinition(name string) {
	if _, ok := r.defs[name]; !ok {
		return
	}
	delete(r.defs, name)
	for i, n := range r.order {
		if n == name {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// GetByType implements registry.Registry.
func (r *Registry) GetByType(typeName string, required bool) (string, error) {
	var found []string
	for _, name := range r.order {
		if r.defs[name].Type == typeName {
			found = append(found, name)
		}
	}
	switch {
	case len(found) == 1:
		return found[0], nil
	case len(found) > 1:
		return "", registry.Referencef(typeName, "multiple services of type '%s' found: %v", typeName, found)
	case required:
		return "", registry.Referencef(typeName, "no service of type '%s' found", typeName)
	default:
		return "", nil
	}
}

// Definitions implements registry.Registry.
func (r *Registry) Definitions() []*definition.Definition {
	out := make([]*definition.Definition, len(r.order))
	for i, name := range r.order {
		out[i] = r.defs[name]
	}
	return out
}
