package builtin

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/n3reason/internal/store"
	"github.com/roach88/n3reason/internal/term"
)

const ex = "http://example.org/#"

func triple(s, p, o string) term.Statement {
	return term.Triple(term.IRI(ex+s), term.IRI(ex+p), term.IRI(ex+o))
}

// stubEngine answers every query with a fixed binding when the store is
// non-empty. Like the real engine it projects existentials away.
type stubEngine struct {
	seen *store.Store
}

func (e *stubEngine) Query(_ *term.Formula, st *store.Store, sols term.Solutions) term.Solutions {
	e.seen = st
	if st.Count() == 0 {
		return nil
	}
	var out term.Solutions
	for _, sol := range sols {
		out = append(out, sol.With("found", term.NewBool(true)).Project())
	}
	return out
}

type stubLoader struct {
	doc *term.Formula
	err error
}

func (l stubLoader) Semantics(term.IRI) (*term.Formula, error)       { return l.doc, l.err }
func (l stubLoader) ParseN3(string, term.IRI) (*term.Formula, error) { return l.doc, l.err }

type stubConcluder struct{}

func (stubConcluder) Conclude(f *term.Formula) (*term.Formula, error) {
	return term.Merge(nil, f, term.MustFormula(nil, triple("derived", "from", "rules")))
}

func TestLogConjunction_UnionsFormulae(t *testing.T) {
	f1 := term.MustFormula(nil, triple("a", "p", "b"), triple("shared", "p", "c"))
	f2 := term.MustFormula(nil, triple("c", "p", "d"), triple("shared", "p", "c"))

	got := eval(t, testEnv(), term.NewList(f1, f2), LogConjunction, x)
	require.Len(t, got, 1)
	f, ok := got[0]["x"].(*term.Formula)
	require.True(t, ok)
	assert.Equal(t, 3, f.Len())
	for _, st := range append(f1.Statements(), f2.Statements()...) {
		assert.True(t, f.Contains(st), "missing %s", st)
	}
	assert.Nil(t, f.Graph())

	env := testEnv()
	env.NewBlank = func() term.BlankNode { return term.BlankNode{ID: "c1"} }
	got = eval(t, env, term.NewList(f1, f2), LogConjunction, x)
	require.Len(t, got, 1)
	assert.Equal(t, term.Term(term.BlankNode{ID: "c1"}), got[0]["x"].(*term.Formula).Graph())
}

func TestLogIncludes_QueriesSubjectFormula(t *testing.T) {
	engine := &stubEngine{}
	env := testEnv()
	env.Engine = engine

	within := term.MustFormula(nil, triple("a", "p", "b"))
	pattern := term.MustFormula(nil, term.Triple(x, term.IRI(ex+"p"), y))

	got := eval(t, env, within, LogIncludes, pattern)
	require.Len(t, got, 1)
	assert.True(t, engine.seen.Has(triple("a", "p", "b")))

	assert.Empty(t, eval(t, env, within, LogNotIncludes, pattern))
	assert.Len(t, eval(t, env, term.MustFormula(nil), LogNotIncludes, pattern), 1)
}

func TestLogIncludes_KeepsCallerExistentials(t *testing.T) {
	env := testEnv()
	env.Engine = &stubEngine{}
	within := term.MustFormula(nil, triple("a", "p", "b"))
	op, ok := DefaultRegistry().Promote(term.Triple(within, LogIncludes, within))
	require.True(t, ok)

	l := term.NewExistential("outer", "l")
	got := op.(Executable).Execute(env, term.Solutions{{l.Name: ints(1, 2), "m": str("kept")}})
	require.Len(t, got, 1)
	assert.Equal(t, ints(1, 2).Key(), got[0][l.Name].Key())
	assert.Equal(t, str("kept").Key(), got[0]["m"].Key())
	assert.Equal(t, term.NewBool(true).Key(), got[0]["found"].Key())
}

func TestLogIncludes_WithoutEngineDrops(t *testing.T) {
	f := term.MustFormula(nil, triple("a", "p", "b"))
	assert.Empty(t, eval(t, testEnv(), f, LogIncludes, f))
}

func TestLogEqualTo(t *testing.T) {
	got := eval(t, testEnv(), term.IRI(ex+"a"), LogEqualTo, x)
	require.Len(t, got, 1)
	assert.Equal(t, term.IRI(ex+"a"), got[0]["x"])

	assert.Len(t, eval(t, testEnv(), ints(1, 2), LogEqualTo, ints(1, 2)), 1)
	assert.Empty(t, eval(t, testEnv(), ints(1, 2), LogEqualTo, ints(2, 1)))

	assert.Empty(t, eval(t, testEnv(), str("a"), LogNotEqualTo, str("a")))
	assert.Len(t, eval(t, testEnv(), str("a"), LogNotEqualTo, str("b")), 1)
}

func TestLogConclusion_UsesConcluder(t *testing.T) {
	env := testEnv()
	f := term.MustFormula(nil, triple("a", "p", "b"))
	assert.Empty(t, eval(t, env, f, LogConclusion, x), "no concluder, no binding")

	env.Concluder = stubConcluder{}
	got := eval(t, env, f, LogConclusion, x)
	require.Len(t, got, 1)
	assert.True(t, got[0]["x"].(*term.Formula).Contains(triple("derived", "from", "rules")))
}

func TestLogSemantics_FailsSoftly(t *testing.T) {
	env := testEnv()
	env.Loader = stubLoader{err: errors.New("connection refused")}
	assert.Empty(t, eval(t, env, term.IRI("http://example.org/doc.n3"), LogSemantics, x))
	assert.Empty(t, eval(t, env, str(":a :b :c ."), LogParsedAsN3, x))

	doc := term.MustFormula(nil, triple("a", "p", "b"))
	env.Loader = stubLoader{doc: doc}
	got := eval(t, env, term.IRI("http://example.org/doc.n3"), LogSemantics, x)
	require.Len(t, got, 1)
	assert.Equal(t, doc.Key(), got[0]["x"].Key())
}

func TestLogRawType(t *testing.T) {
	tests := []struct {
		subj term.Term
		want term.IRI
	}{
		{term.MustFormula(nil), LogFormula},
		{str("a"), LogLiteral},
		{ints(1), LogList},
		{term.IRI(ex + "a"), LogOther},
	}
	for _, tc := range tests {
		got := eval(t, testEnv(), tc.subj, LogRawType, x)
		require.Len(t, got, 1)
		assert.Equal(t, tc.want, got[0]["x"])
	}
}

func TestLogN3String(t *testing.T) {
	got := eval(t, testEnv(), term.MustFormula(nil, triple("a", "p", "b")), LogN3String, x)
	require.Len(t, got, 1)
	assert.Contains(t, got[0]["x"].(term.Literal).Value, "<"+ex+"a>")
}

func TestLogOutputString_MatchesStoredStrings(t *testing.T) {
	env := testEnv()
	s, err := env.Store.Insert(term.Triple(term.IRI(ex+"k1"), LogOutputString, str("hello\n")), store.Meta{})
	require.NoError(t, err)
	env.Store = s

	got := eval(t, env, x, LogOutputString, y)
	require.Len(t, got, 1)
	assert.Equal(t, str("hello\n").Key(), got[0]["y"].Key())
}
