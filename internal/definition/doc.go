// Package definition holds the canonical service definition record and the
// normalizer that maps raw, loosely-shaped configuration onto it.
//
// Normalization is a two-step contract: NormalizeStructure coerces the many
// accepted surface shapes (bare strings, call statements, positional lists,
// genuine maps) into one canonical mapping, and Update applies that mapping
// to a definition field by field. Keys absent from the mapping leave the
// definition untouched, which is what allows a later fragment to alter a
// previously registered definition incrementally.
package definition
