// Package expr rewrites raw call-expression nodes into canonical Statements
// and back.
//
// Resolve walks a freshly parsed tree depth-first, folds chain calls into
// nested Statements, rewrites override-suffixed mapping keys into
// replace-on-merge markers, and flags the deprecated '?' entity operator.
// Serialize is its inverse on the dump path.
package expr
