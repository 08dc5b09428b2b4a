// Package analysis inspects rule sets before they run.
//
// AnalyzeCycles builds a rule dependency graph, where rule A points at
// rule B when a statement A concludes could match one of B's antecedent
// patterns, and reports its strongly connected components. Recursion is
// normal in N3 (transitive closure is the usual example), so cycles are
// findings, not errors. A cycle through a rule that invents nodes is a
// warning: such rules can keep growing the store until the round limit.
package analysis
