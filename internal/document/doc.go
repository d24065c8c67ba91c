// Package document is the boundary to the text document parser.
//
// An Adapter is a pure format handler: it decodes bytes into a raw
// configuration tree (including call-expression nodes, which it recognizes
// natively) and encodes a tree back into block-style text. It performs no
// semantic normalization, no file I/O, and holds no state.
package document
