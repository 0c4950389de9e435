// Package value models the script-host value graph that the store holds and
// the codec round-trips: JSON scalars plus the kinds JSON cannot represent
// (undefined, dates, regular expressions, keyed maps, sets, sparse arrays,
// arbitrary-precision integers, URLs, and functions carried as source text).
//
// Composite values (Object, Array, Map, Set) preserve insertion order.
// Property keys are a sum over string keys and opaque symbolic keys; symbolic
// keys are issued by an internal registry, one token per name, so two
// SymbolFor("x") calls address the same property.
//
// The graph is deliberately dumb data. Behaviour lives elsewhere: pkg/codec
// serialises it, the root package decides when it is persisted.
package value
