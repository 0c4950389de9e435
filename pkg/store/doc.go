// Package store holds the in-memory key-value mapping and the contract with
// the host's settings-persistence collaborator.
//
// The store never touches a filesystem itself: loading and saving the
// persisted text is delegated to a Collaborator, which owns the durable
// settings document {lazyPersistence, persistedData}. MemoryCollaborator is
// a test and example double; FileCollaborator persists the document as an
// indented JSON file for embedders that have no host to lean on.
//
// When a flush is triggered is not this package's concern; the root package
// resolves the eager/lazy policy and calls Flush.
package store
