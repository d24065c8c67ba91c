package document

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/zclconf/go-cty/cty"
	"gopkg.in/yaml.v3"

	"github.com/vk/diconfig/internal/node"
)

// chainTag is the surface syntax for the chain sentinel: a `!chain` tagged
// sequence of calls.
const chainTag = "!chain"

// YAML decodes and encodes configuration documents carried as YAML. Any
// other local tag on a node denotes a call expression whose target is the
// tag name: `!Logger [...]` decodes to a Call with target "Logger".
type YAML struct{}

// NewYAML returns the YAML format adapter.
func NewYAML() *YAML {
	return &YAML{}
}

// Extensions implements Adapter.
func (y *YAML) Extensions() []string {
	return []string{".yaml", ".yml"}
}

// Decode implements Adapter.
func (y *YAML) Decode(data []byte) (node.Node, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	if root.Kind == 0 || len(root.Content) == 0 {
		return node.Null(), nil
	}
	return decodeNode(root.Content[0])
}

func decodeNode(n *yaml.Node) (node.Node, error) {
	if n.Kind == yaml.AliasNode {
		return decodeNode(n.Alias)
	}

	if target, ok := callTag(n.Tag); ok {
		var attrs node.Node
		if n.Kind == yaml.ScalarNode {
			// A tagged scalar is shorthand for a single positional
			// attribute; a tagged null is an argument-less call. The tag
			// overrides the scalar's resolved type, so null is detected
			// textually here.
			switch n.Value {
			case "", "~", "null":
				attrs = &node.Sequence{}
			default:
				attrs = &node.Sequence{Items: []node.Node{node.String(n.Value)}}
			}
		} else {
			var err error
			if attrs, err = decodeUntagged(n); err != nil {
				return nil, err
			}
		}
		return &node.Call{Target: node.String(target), Attributes: attrs}, nil
	}
	return decodeUntagged(n)
}

// decodeUntagged decodes a node's content ignoring any call tag it carries.
func decodeUntagged(n *yaml.Node) (node.Node, error) {
	switch n.Kind {
	case yaml.ScalarNode:
		return decodeScalar(n)

	case yaml.SequenceNode:
		out := &node.Sequence{Items: make([]node.Node, len(n.Content))}
		for i, c := range n.Content {
			item, err := decodeNode(c)
			if err != nil {
				return nil, err
			}
			out.Items[i] = item
		}
		return out, nil

	case yaml.MappingNode:
		out := &node.Mapping{}
		for i := 0; i+1 < len(n.Content); i += 2 {
			keyNode, valNode := n.Content[i], n.Content[i+1]
			if keyNode.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("line %d: mapping keys must be scalars", keyNode.Line)
			}
			if out.Has(keyNode.Value) {
				return nil, fmt.Errorf("line %d: duplicated key '%s'", keyNode.Line, keyNode.Value)
			}
			val, err := decodeNode(valNode)
			if err != nil {
				return nil, err
			}
			out.Entries = append(out.Entries, node.Entry{Key: keyNode.Value, Value: val})
		}
		return out, nil

	default:
		return nil, fmt.Errorf("line %d: unsupported document node", n.Line)
	}
}

func decodeScalar(n *yaml.Node) (node.Node, error) {
	switch n.Tag {
	case "!!null", "":
		return node.Null(), nil
	case "!!bool":
		switch strings.ToLower(n.Value) {
		case "true", "yes", "on":
			return node.Bool(true), nil
		default:
			return node.Bool(false), nil
		}
	case "!!int":
		i, err := strconv.ParseInt(n.Value, 0, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid integer '%s'", n.Line, n.Value)
		}
		return node.Int(i), nil
	case "!!float":
		f, err := strconv.ParseFloat(n.Value, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid float '%s'", n.Line, n.Value)
		}
		return node.Float(f), nil
	default:
		// Everything else, timestamps included, passes through as text.
		return node.String(n.Value), nil
	}
}

// callTag maps a node tag to a call-expression target. Standard `!!` tags
// and untagged nodes are not calls.
func callTag(tag string) (string, bool) {
	if !strings.HasPrefix(tag, "!") || strings.HasPrefix(tag, "!!") {
		return "", false
	}
	if tag == chainTag {
		return node.Chain, true
	}
	return strings.TrimPrefix(tag, "!"), true
}

// Encode implements Adapter.
func (y *YAML) Encode(n node.Node) ([]byte, error) {
	yn, err := encodeNode(n)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(yn); err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return buf.Bytes(), nil
}

func encodeNode(n node.Node) (*yaml.Node, error) {
	switch v := n.(type) {
	case nil:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}, nil

	case *node.Scalar:
		return encodeScalar(v)

	case *node.Literal:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v.Expr}, nil

	case *node.Sequence:
		out := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range v.Items {
			c, err := encodeNode(item)
			if err != nil {
				return nil, err
			}
			out.Content = append(out.Content, c)
		}
		return out, nil

	case *node.Mapping:
		out := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, e := range v.Entries {
			val, err := encodeNode(e.Value)
			if err != nil {
				return nil, err
			}
			out.Content = append(out.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: e.Key},
				val,
			)
		}
		return out, nil

	case *node.Call:
		target, ok := node.StringValue(v.Target)
		if !ok {
			return nil, fmt.Errorf("cannot encode a call with a non-literal target")
		}
		attrs := v.Attributes
		if attrs == nil {
			attrs = &node.Sequence{}
		}
		out, err := encodeNode(attrs)
		if err != nil {
			return nil, err
		}
		if target == node.Chain {
			out.Tag = chainTag
		} else {
			out.Tag = "!" + target
		}
		return out, nil

	case *node.Statement:
		return nil, fmt.Errorf("cannot encode an unserialized statement; run the expr serializer first")

	default:
		return nil, fmt.Errorf("unsupported node kind %T", n)
	}
}

func encodeScalar(s *node.Scalar) (*yaml.Node, error) {
	val := s.Value
	if val.IsNull() {
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}, nil
	}
	switch val.Type() {
	case cty.String:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: val.AsString()}, nil
	case cty.Bool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(val.True())}, nil
	case cty.Number:
		bf := val.AsBigFloat()
		if bf.IsInt() {
			i, _ := bf.Int64()
			return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.FormatInt(i, 10)}, nil
		}
		f, _ := bf.Float64()
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: strconv.FormatFloat(f, 'g', -1, 64)}, nil
	default:
		return nil, fmt.Errorf("unsupported scalar type %s", val.Type().FriendlyName())
	}
}
