package document

import "github.com/vk/diconfig/internal/node"

// Adapter is a format handler for configuration documents.
type Adapter interface {
	// Extensions lists the file name suffixes this adapter handles.
	Extensions() []string

	// Decode parses a document into a raw configuration tree. Call
	// expressions come out as node.Call; nothing is resolved or merged.
	Decode(data []byte) (node.Node, error)

	// Encode serializes a tree into document text in block style.
	Encode(n node.Node) ([]byte, error)
}
