package node

import (
	"github.com/zclconf/go-cty/cty"
)

// Chain is the sentinel entity value marking a Call whose attributes are a
// sequence of fluent calls rather than the arguments of a single call. The
// leading NUL keeps it out of the namespace of real entity names; document
// adapters own its surface syntax.
const Chain = "\x00chain"

// Node is a single vertex of a configuration tree.
type Node interface {
	node()
}

// Scalar is a leaf value: string, number, bool or null.
type Scalar struct {
	Value cty.Value
}

// Sequence is an ordered list of nodes.
type Sequence struct {
	Items []Node

	// Overwrite marks the subtree as replace-on-merge: the merge engine
	// discards the base value entirely instead of appending. Set by the
	// expr package when a mapping key carries the override suffix.
	Overwrite bool
}

// Entry is one key/value pair of a Mapping.
type Entry struct {
	Key   string
	Value Node
}

// Mapping is an ordered map with unique string keys. Positional entries are
// represented with decimal integer keys ("0", "1", ...), mirroring how the
// source formats index unlabeled attributes.
type Mapping struct {
	Entries []Entry

	// Overwrite marks the subtree as replace-on-merge, see Sequence.
	Overwrite bool
}

// Call is a raw, unresolved call expression as produced by a document
// adapter: a target entity plus its attributes. Attributes is a *Mapping or
// a *Sequence (positional form), or nil for an argument-less call.
type Call struct {
	Target     Node
	Attributes Node
}

// Statement is the canonical resolved call: invoke Entity with Arguments.
//
// Entity is one of:
//   - *Scalar holding a string (a callable, class or parameter reference),
//   - *Sequence of two elements [target, methodName] where target is a
//     *Scalar or a nested *Statement (a chained call),
//   - *Statement (a composed target).
//
// Arguments preserves the attribute order of the originating Call; named
// arguments keep their keys, positional ones carry integer keys.
type Statement struct {
	Entity    Node
	Arguments *Mapping
}

// Literal wraps an expression that must pass through parameter expansion
// untouched. Produced by the registry's Literal helper.
type Literal struct {
	Expr string
}

func (*Scalar) node()    {}
func (*Sequence) node()  {}
func (*Mapping) node()   {}
func (*Call) node()      {}
func (*Statement) node() {}
func (*Literal) node()   {}

// String returns a string Scalar.
func String(s string) *Scalar {
	return &Scalar{Value: cty.StringVal(s)}
}

// Bool returns a bool Scalar.
func Bool(b bool) *Scalar {
	return &Scalar{Value: cty.BoolVal(b)}
}

// Int returns a number Scalar.
func Int(i int64) *Scalar {
	return &Scalar{Value: cty.NumberIntVal(i)}
}

// Float returns a number Scalar.
func Float(f float64) *Scalar {
	return &Scalar{Value: cty.NumberFloatVal(f)}
}

// Null returns a null Scalar.
func Null() *Scalar {
	return &Scalar{Value: cty.NullVal(cty.DynamicPseudoType)}
}

// IsNull reports whether n is a null Scalar or a nil Node.
func IsNull(n Node) bool {
	if n == nil {
		return true
	}
	s, ok := n.(*Scalar)
	return ok && s.Value.IsNull()
}

// IsFalse reports whether n is the boolean Scalar false.
func IsFalse(n Node) bool {
	s, ok := n.(*Scalar)
	return ok && !s.Value.IsNull() && s.Value.Type() == cty.Bool && s.Value.False()
}

// StringValue extracts the payload of a string Scalar. The second return is
// false for any other node kind.
func StringValue(n Node) (string, bool) {
	s, ok := n.(*Scalar)
	if !ok || s.Value.IsNull() || s.Value.Type() != cty.String {
		return "", false
	}
	return s.Value.AsString(), true
}

// BoolValue extracts the payload of a bool Scalar.
func BoolValue(n Node) (bool, bool) {
	s, ok := n.(*Scalar)
	if !ok || s.Value.IsNull() || s.Value.Type() != cty.Bool {
		return false, false
	}
	return s.Value.True(), true
}
