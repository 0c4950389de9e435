// Package pkvs is a persistent key-value store for scripts embedded in a
// host application. Values are arbitrary script-flavoured graphs (functions,
// dates, regular expressions, maps, sets, sparse arrays, undefined, big
// integers, URLs) that round-trip through a JSON-superset text format; the
// text itself is persisted by a host-owned settings collaborator.
//
// The KV facade wraps the underlying store with the eager/lazy persistence
// policy: by default every mutation is flushed to the collaborator, the
// host's lazyPersistence setting defers flushing to explicit Persist calls,
// and SetLazyOverride/SetEagerOverride/ClearOverride force either behaviour
// regardless of the setting.
//
// A small query layer evaluates boolean expressions over the stored entries
// using pluggable engines (expr by default, CEL and goja available), and
// stored function values can be invoked through goja.
package pkvs
