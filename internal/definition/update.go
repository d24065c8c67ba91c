package definition

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/vk/diconfig/internal/ctxlog"
	"github.com/vk/diconfig/internal/node"
)

// Update applies one canonical configuration mapping to a definition.
// Only fields present in config are touched; everything else keeps its
// prior state. Validation failure leaves the error to abort the whole
// entry — the caller attaches the service name for context.
func Update(ctx context.Context, def *Definition, config *node.Mapping, name string) error {
	if err := validateKeys(config); err != nil {
		return err
	}
	logger := ctxlog.FromContext(ctx)

	// The presence of either key fully replaces any previously configured
	// creation recipe; a later fragment never merges into an old factory.
	if config.Has("type") || config.Has("factory") {
		def.Type = ""
		def.Factory = nil
	}

	if v, ok := config.Get("type"); ok {
		s, isStr := node.StringValue(v)
		if !isStr {
			return node.Shapef("type", "field 'type' expects a string")
		}
		logger.Warn("The 'type' key is deprecated, use 'factory' instead.", "service", name)
		def.Type = s
	}

	if v, ok := config.Get("factory"); ok && !node.IsNull(v) {
		st, err := toStatement(v)
		if err != nil {
			return err
		}
		def.Factory = st
		// A plain class-name entity also declares the service type; method
		// calls and references leave type resolution to the container.
		if s, ok := node.StringValue(st.Entity); ok && def.Type == "" && !strings.ContainsAny(s, "@:") {
			def.Type = s
		}
	}

	if v, ok := config.Get("arguments"); ok {
		args, ok := node.MappingOf(v)
		if !ok {
			return node.Shapef("arguments", "field 'arguments' expects a list or a map")
		}
		if !args.Overwrite && !args.IsList() && def.Factory != nil && def.Factory.Arguments != nil {
			args = unionArguments(args, def.Factory.Arguments)
		}
		args = args.Copy()
		args.Overwrite = false
		def.Arguments = args
		if def.Factory != nil {
			def.Factory.Arguments = args
		}
	}

	if v, ok := config.Get("setup"); ok {
		items, ok := node.MappingOf(v)
		if !ok {
			return node.Shapef("setup", "field 'setup' expects a list")
		}
		if items.Overwrite {
			def.Setup = nil
		}
		for _, e := range items.Entries {
			st, err := toSetupStatement(e.Value)
			if err != nil {
				return err
			}
			def.Setup = append(def.Setup, st)
		}
	}

	if v, ok := config.Get("parameters"); ok {
		params, ok := node.MappingOf(v)
		if !ok {
			return node.Shapef("parameters", "field 'parameters' expects a map")
		}
		params = params.Copy()
		params.Overwrite = false
		def.Parameters = params
	}

	if v, ok := config.Get("implement"); ok {
		s, isStr := node.StringValue(v)
		if !isStr {
			return node.Shapef("implement", "field 'implement' expects an interface name")
		}
		def.Implement = s
		def.Autowired = node.Bool(true)
	}

	if v, ok := config.Get("autowired"); ok {
		switch v.(type) {
		case *node.Scalar, *node.Sequence:
			def.Autowired = v
		default:
			return node.Shapef("autowired", "field 'autowired' expects bool, string or a list of types")
		}
	}

	if v, ok := config.Get("external"); ok {
		b, isBool := node.BoolValue(v)
		if !isBool {
			return node.Shapef("external", "field 'external' expects bool")
		}
		def.External = b
	}

	if v, ok := config.Get("inject"); ok {
		b, isBool := node.BoolValue(v)
		if !isBool {
			return node.Shapef("inject", "field 'inject' expects bool")
		}
		def.Inject = b
		if b {
			def.AddTag(InjectTag, node.Bool(true))
		}
	}

	if v, ok := config.Get("tags"); ok {
		tags, ok := node.MappingOf(v)
		if !ok {
			return node.Shapef("tags", "field 'tags' expects a map")
		}
		if tags.Overwrite {
			def.Tags = nil
		}
		for _, e := range tags.Entries {
			if flag, isStr := node.StringValue(e.Value); node.IsIndex(e.Key) && isStr {
				// Positional shorthand: a bare string is a flag-only tag.
				def.AddTag(flag, node.Bool(true))
			} else {
				def.AddTag(e.Key, e.Value)
			}
		}
	}

	return nil
}

func validateKeys(config *node.Mapping) error {
	for _, e := range config.Entries {
		key := e.Key
		if slices.Contains(recognizedKeys, key) {
			continue
		}
		msg := fmt.Sprintf("unknown key '%s' in service definition", key)
		if hint := Suggest(recognizedKeys, key); hint != "" {
			msg = fmt.Sprintf("%s, did you mean '%s'?", msg, hint)
		}
		return node.Shapef(key, "%s", msg)
	}
	return nil
}

// toStatement coerces a factory value into a Statement: a resolved call
// passes through, a string becomes an argument-less call, and a
// two-element [target, method] pair becomes a composed entity.
func toStatement(v node.Node) (*node.Statement, error) {
	switch f := v.(type) {
	case *node.Statement:
		return f, nil
	case *node.Scalar:
		if _, ok := node.StringValue(f); ok {
			return &node.Statement{Entity: f, Arguments: &node.Mapping{}}, nil
		}
	case *node.Sequence:
		if len(f.Items) == 2 {
			return &node.Statement{Entity: f, Arguments: &node.Mapping{}}, nil
		}
	case *node.Mapping:
		if f.Len() == 2 && f.Has("0") && f.Has("1") {
			a, _ := f.Get("0")
			b, _ := f.Get("1")
			entity := &node.Sequence{Items: []node.Node{a, b}}
			return &node.Statement{Entity: entity, Arguments: &node.Mapping{}}, nil
		}
	}
	return nil, node.Shapef("factory", "field 'factory' expects a callable")
}

// toSetupStatement coerces one setup item: a call, a bare method name, or
// the single-key map shorthand {method: arguments}.
func toSetupStatement(v node.Node) (*node.Statement, error) {
	switch s := v.(type) {
	case *node.Statement:
		return s, nil
	case *node.Scalar:
		if _, ok := node.StringValue(s); ok {
			return &node.Statement{Entity: s, Arguments: &node.Mapping{}}, nil
		}
	case *node.Mapping:
		if s.Len() == 1 {
			e := s.Entries[0]
			args, ok := node.MappingOf(e.Value)
			if !ok {
				args = node.NewMapping(node.Entry{Key: "0", Value: e.Value})
			}
			return &node.Statement{Entity: node.String(e.Key), Arguments: args}, nil
		}
	}
	return nil, node.Shapef("setup", "each setup item must be a call, a method name, or a {method: arguments} pair")
}

// unionArguments overlays override onto the factory's existing arguments:
// override entries win, prior entries fill the keys override does not
// mention, appended in their original order.
func unionArguments(override, prior *node.Mapping) *node.Mapping {
	out := override.Copy()
	for _, e := range prior.Entries {
		if !out.Has(e.Key) {
			out.Entries = append(out.Entries, e)
		}
	}
	return out
}
