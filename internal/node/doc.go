// Package node defines the configuration tree that every stage of the
// normalization pipeline consumes and produces.
//
// The tree is a closed variant: Scalar, Sequence, Mapping, Call, Statement
// and Literal are the only kinds, and every transformation site switches
// exhaustively over them. Call nodes exist only in freshly parsed documents;
// the expr package rewrites them into Statements before any other stage
// sees the tree.
package node
