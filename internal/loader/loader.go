package loader

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/vk/diconfig/internal/ctxlog"
	"github.com/vk/diconfig/internal/definition"
	"github.com/vk/diconfig/internal/node"
	"github.com/vk/diconfig/internal/registry"
)

// ExpandFunc is the external parameter-expansion collaborator. It receives
// a subtree and the parameter map in effect for it and returns the expanded
// subtree. Literal nodes must pass through untouched.
type ExpandFunc func(n node.Node, params map[string]node.Node) (node.Node, error)

// Loader registers service entries into a registry.
type Loader struct {
	Registry registry.Registry

	// Namespace, when set, prefixes every explicit and auto-assigned
	// service name ("<namespace>.<name>"). By-type lookups resolve to
	// already-registered names and are not prefixed.
	Namespace string

	// Expand, when set, performs parameter expansion on each entry before
	// it is applied. Expansion semantics are owned by the caller.
	Expand ExpandFunc
}

var nonWord = regexp.MustCompile(`\W+`)

// LoadDefinitions iterates the entries of a services section in order and
// registers each into the registry. entries is a mapping of name to raw
// definition, or a sequence of anonymous definitions.
//
// Any failure aborts the batch with the offending entry's name attached;
// previously registered entries remain.
func (l *Loader) LoadDefinitions(ctx context.Context, entries node.Node) error {
	logger := ctxlog.FromContext(ctx)

	list, ok := node.MappingOf(entries)
	if !ok {
		return node.Shapef("services", "the services section must be a map or a list")
	}

	for _, e := range list.Entries {
		if err := l.loadEntry(ctx, e); err != nil {
			return err
		}
	}
	logger.Debug("Service definitions loaded.", "total", len(l.Registry.Definitions()))
	return nil
}

func (l *Loader) loadEntry(ctx context.Context, e node.Entry) error {
	cfg, err := definition.NormalizeStructure(e.Value, l.Registry)
	if err != nil {
		return fmt.Errorf("service '%s': %w", e.Key, err)
	}

	name, err := l.entryName(e.Key, cfg)
	if err != nil {
		return fmt.Errorf("service '%s': %w", e.Key, err)
	}

	if isRemoval(e.Value) {
		l.Registry.RemoveDefinition(name)
		ctxlog.FromContext(ctx).Debug("Service definition removed.", "service", name)
		return nil
	}

	alteration := false
	if v, ok := cfg.Get("alteration"); ok {
		alteration, _ = node.BoolValue(v)
	}

	def, err := l.targetDefinition(name, alteration)
	if err != nil {
		return fmt.Errorf("service '%s': %w", name, err)
	}

	if cfg, err = l.expandEntry(cfg); err != nil {
		return fmt.Errorf("service '%s': %w", name, err)
	}

	if err := definition.Update(ctx, def, cfg, name); err != nil {
		return fmt.Errorf("service '%s': %w", name, err)
	}
	return nil
}

// entryName resolves the registry name for one entry key: integer keys are
// auto-named from the registration ordinal plus the factory's callable name
// when it is a literal; '@Type' keys resolve to the unique definition of
// that type; everything else is taken verbatim. The namespace prefix
// applies to all but by-type lookups.
func (l *Loader) entryName(key string, cfg *node.Mapping) (string, error) {
	if strings.HasPrefix(key, "@") {
		return l.Registry.GetByType(key[1:], true)
	}

	name := key
	if node.IsIndex(key) {
		name = fmt.Sprintf("%d", len(l.Registry.Definitions())+1)
		if suffix := factoryName(cfg); suffix != "" {
			name += "_" + nonWord.ReplaceAllString(suffix, "_")
		}
	}
	if l.Namespace != "" {
		name = l.Namespace + "." + name
	}
	return name, nil
}

// factoryName extracts the literal callable name of the entry's factory,
// when there is one to derive an auto-name suffix from.
func factoryName(cfg *node.Mapping) string {
	v, ok := cfg.Get("factory")
	if !ok {
		return ""
	}
	if s, ok := node.StringValue(v); ok {
		return s
	}
	if st, ok := v.(*node.Statement); ok {
		if s, ok := node.StringValue(st.Entity); ok {
			return s
		}
	}
	return ""
}

// targetDefinition picks the definition an entry applies to. An alteration
// requires a pre-existing definition and updates it in place; a plain entry
// replaces any previous definition under the same name.
func (l *Loader) targetDefinition(name string, alteration bool) (*definition.Definition, error) {
	exists := l.Registry.HasDefinition(name)
	switch {
	case alteration && !exists:
		return nil, registry.Referencef(name, "the definition marked as alteration does not exist")
	case alteration:
		return l.Registry.GetDefinition(name)
	case exists:
		l.Registry.RemoveDefinition(name)
	}
	return l.Registry.AddDefinition(name)
}

// expandEntry folds fragment-local parameters into literal placeholders and
// hands the entry to the external expansion collaborator.
func (l *Loader) expandEntry(cfg *node.Mapping) (*node.Mapping, error) {
	if l.Expand == nil {
		return cfg, nil
	}

	params := make(map[string]node.Node, len(l.Registry.Parameters()))
	for k, v := range l.Registry.Parameters() {
		params[k] = v
	}
	if local, ok := cfg.Get("parameters"); ok {
		if m, isMap := node.MappingOf(local); isMap {
			for _, p := range m.Entries {
				decl := p.Key
				if node.IsIndex(p.Key) {
					decl, _ = node.StringValue(p.Value)
				}
				// A declared parameter may carry a type prefix; the bare
				// name is the last word.
				parts := strings.Fields(decl)
				if len(parts) == 0 {
					continue
				}
				bare := parts[len(parts)-1]
				params[bare] = l.Registry.Literal("$" + bare)
			}
		}
	}

	expanded, err := l.Expand(cfg, params)
	if err != nil {
		return nil, err
	}
	m, ok := expanded.(*node.Mapping)
	if !ok {
		return nil, node.Shapef("", "parameter expansion changed the definition shape")
	}
	return m, nil
}

// isRemoval reports whether a raw entry value requests removal of the
// definition instead of configuring one: the scalar false, or the
// single-element list [false].
func isRemoval(raw node.Node) bool {
	if node.IsFalse(raw) {
		return true
	}
	if m, ok := node.MappingOf(raw); ok && raw != nil {
		if m.Len() == 1 {
			if v, has := m.Get("0"); has {
				return node.IsFalse(v)
			}
		}
	}
	return false
}
