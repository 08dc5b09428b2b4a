// Package engine compiles and executes formulae.
//
// A formula is compiled once into a Plan: its statements are split into
// patterns, which are matched against a store, and operators, which are
// builtins promoted by predicate. log:implies is compiled here into an
// operator that owns two sub-plans.
//
// Execution is a two-pass affair:
//
//  1. Execute (query pass): match the patterns, joining with any incoming
//     solutions, then run the operators greedily in rank order. Existential
//     bindings are projected away and the result is cached on the plan.
//  2. Each (materialization pass): replay the cached solutions, emitting
//     statements. Rules emit their instantiated consequents, tagged inferred.
//
// Blank nodes inside a quoted formula become existential variables scoped to
// that formula. The scope is derived from the formula's content, and blank
// nodes synthesized for unbound existentials are content-addressed from the
// producing solution, so re-deriving a conclusion yields the same statement.
//
// Everything here is single-threaded. A Plan caches state between the two
// passes and must not be shared across goroutines.
package engine
