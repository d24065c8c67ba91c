// Package inmemoryregistry provides an in-memory implementation of the
// registry.Registry interface. It is suitable for tests, tooling, and any
// host that does not bring its own container registry. The pipeline is
// single-threaded by contract, so the implementation takes no locks.
package inmemoryregistry
