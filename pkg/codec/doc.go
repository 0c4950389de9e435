// Package codec serialises value graphs to a JSON-superset text and back.
//
// Encode renders a JSON-shaped skeleton in which every value JSON cannot
// represent is temporarily stood in for by a tagged placeholder token of the
// form @__<TAG>-<SESSION>-<INDEX>__@. After the skeleton is escaped, each
// placeholder is substituted with a JavaScript expression that reconstructs
// the original value (new Date(...), new Map(...), a function's source text,
// and so on). The session identifier is random per process so a literal
// placeholder inside user string content cannot collide with a real one.
//
// The resulting text is not JSON whenever placeholders were substituted; it
// is a JavaScript expression. Decode therefore never feeds it to a JSON
// parser and never executes it either: the text is parsed with the goja
// JavaScript parser and lowered by a tagged-variant decoder that accepts
// only the grammar Encode emits.
package codec
