// Package registry declares the container-side collaborator the
// registration orchestrator drives. The normalization core never owns the
// container; it receives a Registry and mutates it through this interface
// only. The inmemoryregistry package provides the reference implementation.
package registry
