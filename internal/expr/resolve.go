package expr

import (
	"context"
	"strings"

	"github.com/vk/diconfig/internal/ctxlog"
	"github.com/vk/diconfig/internal/node"
)

// OverrideSuffix is the trailing marker on a mapping key requesting that
// the value replace, rather than merge with, the base fragment's value.
const OverrideSuffix = "!"

// Resolve converts every Call node in the tree into a Statement, resolving
// chain calls into nested Statements and rewriting override-suffixed keys.
// All non-call structure is preserved. Children are resolved before their
// parents, so call attributes may themselves contain calls.
func Resolve(ctx context.Context, n node.Node) (node.Node, error) {
	switch v := n.(type) {
	case nil, *node.Scalar, *node.Literal, *node.Statement:
		return n, nil

	case *node.Sequence:
		out := &node.Sequence{Items: make([]node.Node, len(v.Items)), Overwrite: v.Overwrite}
		for i, item := range v.Items {
			r, err := Resolve(ctx, item)
			if err != nil {
				return nil, err
			}
			out.Items[i] = r
		}
		return out, nil

	case *node.Mapping:
		out := &node.Mapping{Overwrite: v.Overwrite}
		for _, e := range v.Entries {
			key, overwrite := e.Key, false
			if strings.HasSuffix(key, OverrideSuffix) {
				if !replaceable(e.Value) {
					return nil, node.Shapef(e.Key, "replacing operator is available only for arrays, item '%s' is not an array", e.Key)
				}
				key = strings.TrimSuffix(key, OverrideSuffix)
				overwrite = true
			}
			val, err := Resolve(ctx, e.Value)
			if err != nil {
				return nil, err
			}
			if overwrite {
				val = markOverwrite(val)
			}
			out.Set(key, val)
		}
		return out, nil

	case *node.Call:
		return resolveCall(ctx, v)

	default:
		return n, nil
	}
}

func resolveCall(ctx context.Context, c *node.Call) (node.Node, error) {
	if s, ok := node.StringValue(c.Target); ok && s == node.Chain {
		return resolveChain(ctx, c)
	}

	target, err := Resolve(ctx, c.Target)
	if err != nil {
		return nil, err
	}
	if s, ok := node.StringValue(target); ok && strings.Contains(s, "?") {
		ctxlog.FromContext(ctx).Warn("The '?' operator in call targets is deprecated.", "target", s)
	}
	args, err := resolveAttributes(ctx, c.Attributes)
	if err != nil {
		return nil, err
	}
	return &node.Statement{Entity: target, Arguments: args}, nil
}

// resolveChain folds a chain call's segments left to right: each segment
// after the first becomes a Statement whose entity is [previous, method],
// with leading colons stripped from the method token.
func resolveChain(ctx context.Context, c *node.Call) (node.Node, error) {
	segments, err := resolveAttributes(ctx, c.Attributes)
	if err != nil {
		return nil, err
	}

	var folded *node.Statement
	for _, e := range segments.Entries {
		st, err := asStatement(e.Value)
		if err != nil {
			return nil, err
		}
		if folded == nil {
			folded = &node.Statement{Entity: st.Entity, Arguments: st.Arguments}
			continue
		}
		method, err := methodName(st.Entity)
		if err != nil {
			return nil, err
		}
		folded = &node.Statement{
			Entity:    &node.Sequence{Items: []node.Node{folded, node.String(method)}},
			Arguments: st.Arguments,
		}
	}
	if folded == nil {
		return node.Null(), nil
	}
	return folded, nil
}

// resolveAttributes resolves a call's attributes, preserving list versus map
// shape during recursion, and returns them in mapping form: a positional
// list becomes a mapping with integer keys.
func resolveAttributes(ctx context.Context, attrs node.Node) (*node.Mapping, error) {
	if attrs == nil {
		return &node.Mapping{}, nil
	}
	resolved, err := Resolve(ctx, attrs)
	if err != nil {
		return nil, err
	}
	m, ok := node.MappingOf(resolved)
	if !ok {
		return nil, node.Shapef("", "call attributes must be a list or a map")
	}
	return m, nil
}

func asStatement(n node.Node) (*node.Statement, error) {
	switch v := n.(type) {
	case *node.Statement:
		return v, nil
	case *node.Scalar:
		if _, ok := node.StringValue(v); ok {
			return &node.Statement{Entity: v, Arguments: &node.Mapping{}}, nil
		}
	}
	return nil, node.Shapef("", "each chained call segment must be a call or a method name")
}

// methodName extracts the method token from a chain segment's entity and
// strips its leading colons. A composed [target, method] entity flattens
// with the '::' separator first.
func methodName(entity node.Node) (string, error) {
	switch v := entity.(type) {
	case *node.Scalar:
		if s, ok := node.StringValue(v); ok {
			return strings.TrimLeft(s, ":"), nil
		}
	case *node.Sequence:
		parts := make([]string, 0, len(v.Items))
		for _, item := range v.Items {
			s, ok := node.StringValue(item)
			if !ok {
				return "", node.Shapef("", "chained call method must be a string")
			}
			parts = append(parts, s)
		}
		return strings.TrimLeft(strings.Join(parts, "::"), ":"), nil
	}
	return "", node.Shapef("", "chained call method must be a string")
}

// replaceable reports whether a raw value may legally carry the override
// suffix: collections and null only.
func replaceable(n node.Node) bool {
	switch n.(type) {
	case *node.Mapping, *node.Sequence:
		return true
	}
	return node.IsNull(n)
}

func markOverwrite(n node.Node) node.Node {
	switch v := n.(type) {
	case *node.Mapping:
		out := v.Copy()
		out.Overwrite = true
		return out
	case *node.Sequence:
		return &node.Sequence{Items: v.Items, Overwrite: true}
	default:
		// Null value: the override degenerates to an empty, replacing map.
		return &node.Mapping{Overwrite: true}
	}
}
