// Package merge deep-merges two configuration trees, honoring the
// replace-on-merge markers the expr package attaches when a mapping key
// carries the override suffix.
package merge
