package expr

import (
	"github.com/vk/diconfig/internal/node"
)

// Serialize converts a resolved tree back into document form: Statements
// become Call nodes, chained entities become chain-sentinel calls, and
// replace-on-merge markers reappear as override-suffixed keys. It is the
// left inverse of Resolve up to sentinel representation.
func Serialize(n node.Node) node.Node {
	switch v := n.(type) {
	case nil, *node.Scalar, *node.Literal:
		return n

	case *node.Sequence:
		out := &node.Sequence{Items: make([]node.Node, len(v.Items))}
		for i, item := range v.Items {
			out.Items[i] = Serialize(item)
		}
		return out

	case *node.Mapping:
		out := &node.Mapping{}
		for _, e := range v.Entries {
			key := e.Key
			if marked(e.Value) {
				key += OverrideSuffix
			}
			out.Set(key, Serialize(unmark(e.Value)))
		}
		return out

	case *node.Call:
		return &node.Call{Target: Serialize(v.Target), Attributes: Serialize(v.Attributes)}

	case *node.Statement:
		return statementToCall(v)

	default:
		return n
	}
}

func statementToCall(st *node.Statement) *node.Call {
	args := serializeArguments(st.Arguments)

	if seq, ok := st.Entity.(*node.Sequence); ok && len(seq.Items) == 2 {
		if inner, ok := seq.Items[0].(*node.Statement); ok {
			// A chained call: re-emit the chain sentinel with the inner
			// call followed by the '::method' segment.
			method, _ := node.StringValue(seq.Items[1])
			return &node.Call{
				Target: node.String(node.Chain),
				Attributes: &node.Sequence{Items: []node.Node{
					statementToCall(inner),
					&node.Call{Target: node.String("::" + method), Attributes: args},
				}},
			}
		}
		if t0, ok0 := node.StringValue(seq.Items[0]); ok0 {
			if t1, ok1 := node.StringValue(seq.Items[1]); ok1 {
				return &node.Call{Target: node.String(t0 + "::" + t1), Attributes: args}
			}
		}
	}

	return &node.Call{Target: Serialize(st.Entity), Attributes: args}
}

// serializeArguments restores the surface shape of an argument mapping: a
// purely positional mapping dumps as a list.
func serializeArguments(args *node.Mapping) node.Node {
	if args == nil {
		return &node.Sequence{}
	}
	if args.IsList() {
		out := &node.Sequence{Items: make([]node.Node, len(args.Entries))}
		for i, e := range args.Entries {
			out.Items[i] = Serialize(e.Value)
		}
		return out
	}
	return Serialize(&node.Mapping{Entries: args.Entries})
}

func marked(n node.Node) bool {
	switch v := n.(type) {
	case *node.Mapping:
		return v.Overwrite
	case *node.Sequence:
		return v.Overwrite
	}
	return false
}

func unmark(n node.Node) node.Node {
	switch v := n.(type) {
	case *node.Mapping:
		if v.Overwrite {
			out := v.Copy()
			out.Overwrite = false
			return out
		}
	case *node.Sequence:
		if v.Overwrite {
			return &node.Sequence{Items: v.Items}
		}
	}
	return n
}
