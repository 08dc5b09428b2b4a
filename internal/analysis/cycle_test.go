package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/n3reason/internal/term"
)

const ex = "http://example.org/#"

func iri(local string) term.IRI { return term.IRI(ex + local) }

func v(name string) term.Variable { return term.NewUniversal(name) }

func rule(ante []term.Statement, cons ...term.Statement) term.Statement {
	return term.Triple(term.MustFormula(nil, ante...), term.LogImplies, term.MustFormula(nil, cons...))
}

func analyze(stmts ...term.Statement) []CycleWarning {
	return AnalyzeCycles(Rules(stmts))
}

// TestAnalyzeCycles_Empty tests that empty input produces no warnings.
func TestAnalyzeCycles_Empty(t *testing.T) {
	assert.Empty(t, AnalyzeCycles(nil))
	assert.Empty(t, analyze(term.Triple(iri("a"), iri("b"), iri("c"))), "facts are not rules")
}

func TestRules_NumbersInOrder(t *testing.T) {
	rules := Rules([]term.Statement{
		term.Triple(iri("a"), iri("b"), iri("c")),
		rule([]term.Statement{term.Triple(v("x"), iri("p"), v("y"))}, term.Triple(v("x"), iri("q"), v("y"))),
		// not a rule: subject is not a formula
		term.Triple(iri("a"), term.LogImplies, term.MustFormula(nil)),
		rule([]term.Statement{term.Triple(v("x"), iri("q"), v("y"))}, term.Triple(v("x"), iri("r"), v("y"))),
	})
	require.Len(t, rules, 2)
	assert.Equal(t, "rule-1", rules[0].ID)
	assert.Equal(t, "rule-2", rules[1].ID)
}

// TestAnalyzeCycles_DAG tests that a pipeline of rules produces no warnings.
func TestAnalyzeCycles_DAG(t *testing.T) {
	warnings := analyze(
		rule([]term.Statement{term.Triple(v("x"), iri("livesIn"), v("c"))}, term.Triple(v("x"), iri("resident"), v("c"))),
		rule([]term.Statement{term.Triple(v("x"), iri("resident"), v("c"))}, term.Triple(v("x"), iri("voter"), v("c"))),
	)
	assert.Empty(t, warnings)
}

// TestAnalyzeCycles_TransitiveClosure is recursion that terminates.
func TestAnalyzeCycles_TransitiveClosure(t *testing.T) {
	warnings := analyze(
		rule([]term.Statement{term.Triple(v("x"), iri("parent"), v("y"))}, term.Triple(v("x"), iri("ancestor"), v("y"))),
		rule([]term.Statement{
			term.Triple(v("x"), iri("parent"), v("y")),
			term.Triple(v("y"), iri("ancestor"), v("z")),
		}, term.Triple(v("x"), iri("ancestor"), v("z"))),
	)
	require.Len(t, warnings, 1)
	assert.Equal(t, []string{"rule-2", "rule-2"}, warnings[0].Path)
	assert.Equal(t, LevelInfo, warnings[0].Level)
	assert.Equal(t, "Recursive rule: rule-2 → rule-2", warnings[0].Message)
}

// TestAnalyzeCycles_InventingSelfLoop is the classic runaway rule.
func TestAnalyzeCycles_InventingSelfLoop(t *testing.T) {
	warnings := analyze(
		rule([]term.Statement{term.Triple(v("a"), iri("next"), v("b"))},
			term.Triple(v("b"), iri("next"), term.BlankNode{ID: "fresh"})),
	)
	require.Len(t, warnings, 1)
	assert.Equal(t, LevelWarning, warnings[0].Level)
	assert.Contains(t, warnings[0].Message, "rule-1 invent new nodes")
}

func TestAnalyzeCycles_ExistentialVariableInvents(t *testing.T) {
	warnings := analyze(
		rule([]term.Statement{term.Triple(v("p"), iri("a"), iri("Person"))},
			term.Triple(v("p"), iri("mother"), term.NewExistential("r", "m")),
			term.Triple(term.NewExistential("r", "m"), iri("a"), iri("Person"))),
	)
	require.Len(t, warnings, 1)
	assert.Equal(t, LevelWarning, warnings[0].Level)
}

// TestAnalyzeCycles_MutualRecursion tests a two-rule cycle and its path.
func TestAnalyzeCycles_MutualRecursion(t *testing.T) {
	warnings := analyze(
		rule([]term.Statement{term.Triple(v("x"), iri("even"), v("n"))}, term.Triple(v("x"), iri("odd"), v("n"))),
		rule([]term.Statement{term.Triple(v("x"), iri("unrelated"), v("n"))}, term.Triple(v("x"), iri("other"), v("n"))),
		rule([]term.Statement{term.Triple(v("x"), iri("odd"), v("n"))}, term.Triple(v("x"), iri("even"), v("n"))),
	)
	require.Len(t, warnings, 1)
	assert.Equal(t, []string{"rule-1", "rule-3", "rule-1"}, warnings[0].Path)
	assert.Equal(t, "Mutually recursive rules: rule-1 → rule-3 → rule-1", warnings[0].Message)
	assert.Equal(t, LevelInfo, warnings[0].Level)
}

func TestAnalyzeCycles_ConstantsMustAgree(t *testing.T) {
	// concludes about :bob, matches only :alice
	warnings := analyze(
		rule([]term.Statement{term.Triple(iri("alice"), iri("knows"), v("y"))}, term.Triple(iri("bob"), iri("knows"), v("y"))),
	)
	assert.Empty(t, warnings)
}

func TestAnalyzeCycles_VariablePredicate(t *testing.T) {
	warnings := analyze(
		rule([]term.Statement{term.Triple(v("s"), v("p"), v("o"))}, term.Triple(v("o"), iri("seen"), v("s"))),
	)
	require.Len(t, warnings, 1)
	assert.Equal(t, []string{"rule-1", "rule-1"}, warnings[0].Path)
}

func TestCompatibleLists(t *testing.T) {
	a := term.NewList(iri("a"), v("x"))
	assert.True(t, compatible(a, term.NewList(iri("a"), iri("b"))))
	assert.False(t, compatible(a, term.NewList(iri("z"), iri("b"))))
	assert.False(t, compatible(a, term.NewList(iri("a"))))
	assert.True(t, compatible(a, v("whole")))
}

func TestAnalyzeCycles_Deterministic(t *testing.T) {
	stmts := []term.Statement{
		rule([]term.Statement{term.Triple(v("x"), iri("p"), v("y"))}, term.Triple(v("x"), iri("q"), v("y"))),
		rule([]term.Statement{term.Triple(v("x"), iri("q"), v("y"))}, term.Triple(v("x"), iri("p"), v("y"))),
		rule([]term.Statement{term.Triple(v("x"), iri("r"), v("y"))}, term.Triple(v("x"), iri("r"), term.BlankNode{ID: "n"})),
	}
	first := analyze(stmts...)
	for range 20 {
		assert.Equal(t, first, analyze(stmts...))
	}
	require.Len(t, first, 2)
	assert.Equal(t, "rule-1", first[0].Path[0])
	assert.Equal(t, "rule-3", first[1].Path[0])
}
