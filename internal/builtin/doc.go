// Package builtin implements the engine-defined relations of the N3 core.
//
// A statement whose predicate names a registered builtin is promoted to an
// Operator when its formula is compiled. Operators come in two capabilities:
//
//   - Executable: Execute(env, solutions) may generate new bindings, for example
//     list:member with an unbound object yields one solution per member.
//   - Evaluatable: Apply(left, right) is a pure test over resolved values, for
//     example math:lessThan. The engine substitutes, resolves lists and filters.
//
// Concrete builtins are values of a handful of shapes (Function, Inverse,
// Relation, Test) parameterized by plain functions, and the Registry is a flat
// map from predicate IRI to constructor.
//
// Structural problems in an operand (wrong type, malformed literal, improper
// list) exclude that candidate solution only. They never abort a pass.
package builtin
