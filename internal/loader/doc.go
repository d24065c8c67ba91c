// Package loader drives service entries through normalization and into the
// registry: it assigns names (explicit, numeric auto-names, by-type
// lookups), applies namespace prefixes, special-cases removals and
// alterations, and wraps every per-entry failure with the service name.
//
// Loading is deliberately non-atomic: entries registered before a failing
// one stay registered.
package loader
