package definition

import (
	"github.com/vk/diconfig/internal/node"
)

// recognizedKeys is the exact accepted field set of a normalized service
// definition mapping. "alteration" is consumed by the orchestrator.
var recognizedKeys = []string{
	"type", "factory", "arguments", "setup", "parameters",
	"implement", "autowired", "external", "inject", "tags", "alteration",
}

// keyAliases maps legacy keys to their canonical names.
var keyAliases = map[string]string{
	"class":   "type",
	"dynamic": "external",
}

// NormalizeStructure coerces a raw per-service configuration value into the
// canonical mapping shape, applying, in priority order:
//
//  1. null or false: an empty structure (no definition; removal is decided
//     upstream);
//  2. a bare string naming a known interface: {implement: name};
//  3. a statement whose entity names a known interface:
//     {implement: entity, factory: first argument} — arguments past the
//     first are dropped, a long-standing quirk kept for compatibility;
//  4. any non-mapping, or a mapping that looks positional: {factory: raw};
//  5. a genuine mapping: passed through after alias folding.
func NormalizeStructure(raw node.Node, types TypeChecker) (*node.Mapping, error) {
	if node.IsNull(raw) || node.IsFalse(raw) {
		return &node.Mapping{}, nil
	}

	if s, ok := node.StringValue(raw); ok && types != nil && types.IsInterface(s) {
		return node.NewMapping(node.Entry{Key: "implement", Value: raw}), nil
	}

	if st, ok := raw.(*node.Statement); ok {
		if entity, ok := node.StringValue(st.Entity); ok && types != nil && types.IsInterface(entity) {
			out := node.NewMapping(node.Entry{Key: "implement", Value: node.String(entity)})
			if st.Arguments != nil && st.Arguments.Len() > 0 {
				out.Set("factory", st.Arguments.Entries[0].Value)
			}
			return out, nil
		}
	}

	m, ok := raw.(*node.Mapping)
	if !ok || (m.Has("0") && m.Has("1")) {
		return node.NewMapping(node.Entry{Key: "factory", Value: raw}), nil
	}

	return foldAliases(m)
}

// foldAliases rewrites legacy keys to their canonical names in place of the
// original entry, preserving order. A definition carrying both spellings is
// rejected.
func foldAliases(m *node.Mapping) (*node.Mapping, error) {
	out := &node.Mapping{Overwrite: m.Overwrite}
	for _, e := range m.Entries {
		key := e.Key
		if canonical, ok := keyAliases[key]; ok {
			if m.Has(canonical) {
				return nil, &ConflictError{Key: canonical, Alias: key}
			}
			key = canonical
		}
		out.Entries = append(out.Entries, node.Entry{Key: key, Value: e.Value})
	}
	return out, nil
}
