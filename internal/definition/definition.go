package definition

import (
	"fmt"

	"github.com/vk/diconfig/internal/node"
)

// InjectTag is the tag attached to a definition when its 'inject' flag is
// set.
const InjectTag = "inject"

// Definition is the canonical, normalized description of one service. It is
// mutated field by field as configuration fragments are applied; fields a
// fragment does not mention keep their prior state.
type Definition struct {
	Name string

	// Type is the declared class/type of the service. Deprecated as a
	// configuration key in favor of Factory, but still tracked for
	// by-type lookups.
	Type string

	// Factory is the call that produces the service instance.
	Factory *node.Statement

	// Arguments are the factory/constructor arguments, keyed positionally
	// or by parameter name.
	Arguments *node.Mapping

	// Setup is the ordered list of calls applied to the instance after
	// construction.
	Setup []*node.Statement

	// Parameters are definition-local parameters.
	Parameters *node.Mapping

	// Implement names the interface this definition generates an
	// implementation for.
	Implement string

	// Autowired is bool, string or list of types; nil means the registry
	// default.
	Autowired node.Node

	// External marks a service supplied from outside the container; no
	// factory invocation is expected.
	External bool

	// Inject enables property/method injection for the service.
	Inject bool

	// Tags maps tag names to their attributes.
	Tags *node.Mapping
}

// AddTag attaches a tag, replacing any previous attributes under the same
// name.
func (d *Definition) AddTag(name string, attrs node.Node) {
	if d.Tags == nil {
		d.Tags = &node.Mapping{}
	}
	d.Tags.Set(name, attrs)
}

// TypeChecker reports whether a name refers to a known interface type. The
// container owns type knowledge; the normalizer only asks.
type TypeChecker interface {
	IsInterface(name string) bool
}

// ConflictError reports a raw definition carrying both a legacy alias and
// its canonical key.
type ConflictError struct {
	Key   string
	Alias string
}

// Error implements the error interface.
func (e *ConflictError) Error() string {
	return fmt.Sprintf("both '%s' and '%s' are specified in one definition; keep '%s' only", e.Alias, e.Key, e.Key)
}
