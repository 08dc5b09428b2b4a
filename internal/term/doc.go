// Package term provides the Notation3 term model shared by every other package.
//
// This package contains value types and pure functions only. The store, builtin,
// engine and reasoner packages import term; term imports nothing internal.
//
// Key design constraints:
//   - Terms are immutable values. Operations that "modify" a List return a new List.
//   - Equality is structural and defined by Key(): two independently built Lists or
//     Formulae with the same contents are the same term.
//   - Existential variables carry a "$" name prefix and are scoped to one formula;
//     they never appear in solutions handed back to a caller.
//   - The empty list and rdf:nil are the same term.
package term
