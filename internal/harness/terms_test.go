package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/roach88/n3reason/internal/term"
)

// parseTerm parses a single YAML value as a term.
func parseTerm(t *testing.T, src string, prefixes map[string]string) (term.Term, error) {
	t.Helper()
	var doc yaml.Node
	require.NoError(t, yaml.Unmarshal([]byte(src), &doc))
	return newTermParser(prefixes).term(doc.Content[0])
}

func TestTermParser_Tokens(t *testing.T) {
	ex := "http://example.org/#"
	tests := []struct {
		src  string
		want term.Term
	}{
		{`?x`, term.NewUniversal("x")},
		{`_:b1`, term.BlankNode{ID: "b1"}},
		{`<http://other.org/x>`, term.IRI("http://other.org/x")},
		{`:alice`, term.IRI(ex + "alice")},
		{`math:sum`, term.IRI(term.MathNamespace + "sum")},
		{`a`, term.RDFType},
		{`=>`, term.LogImplies},
		{`'"hello world"'`, term.NewString("hello world")},
		{`":quoted"`, term.IRI(ex + "quoted")},
		{`'"chat"@fr'`, term.NewLangString("chat", "fr")},
		{`'"7"^^xsd:int'`, term.NewTyped("7", term.IRI(term.XSDNamespace+"int"))},
		{`'"a\"b"'`, term.NewString(`a"b`)},
		{`34`, term.NewInteger(34)},
		{`1_000`, term.NewInteger(1000)},
		{`1.5`, term.NewTyped("1.5", term.XSDDecimal)},
		{`2e3`, term.NewDouble(2000)},
		{`-.inf`, term.NewTyped("-INF", term.XSDDouble)},
		{`true`, term.NewBool(true)},
	}
	for _, tc := range tests {
		t.Run(tc.src, func(t *testing.T) {
			got, err := parseTerm(t, tc.src, nil)
			require.NoError(t, err)
			assert.Equal(t, tc.want.Key(), got.Key())
		})
	}
}

func TestTermParser_Structures(t *testing.T) {
	got, err := parseTerm(t, `[1, [":a"], []]`, nil)
	require.NoError(t, err)
	want := term.NewList(term.NewInteger(1), term.NewList(term.IRI("http://example.org/#a")), term.NewList())
	assert.True(t, term.Equal(want, got))

	got, err = parseTerm(t, `{graph: [["?x", ":p", ":o"], [":a", ":p", [1]]]}`, nil)
	require.NoError(t, err)
	f, ok := got.(*term.Formula)
	require.True(t, ok)
	assert.Equal(t, 2, f.Len())
	assert.True(t, term.HasVariable(f))
}

func TestTermParser_Prefixes(t *testing.T) {
	got, err := parseTerm(t, `foaf:name`, map[string]string{"foaf": "http://xmlns.com/foaf/0.1/"})
	require.NoError(t, err)
	assert.Equal(t, term.Term(term.IRI("http://xmlns.com/foaf/0.1/name")), got)

	got, err = parseTerm(t, `:x`, map[string]string{"": "urn:test:"})
	require.NoError(t, err)
	assert.Equal(t, term.Term(term.IRI("urn:test:x")), got, "scenarios may override the default prefix")
}

func TestTermParser_Errors(t *testing.T) {
	for _, src := range []string{
		`plain`,
		`"hello"`,
		`nope:x`,
		`"?"`,
		`"_:"`,
		`<http://unterminated`,
		`'"open'`,
		`'"x"@'`,
		`'"x"^^?v'`,
		`'"x"junk'`,
		`~`,
		`{other: []}`,
		`{graph: [[":a", ":b"]]}`,
	} {
		t.Run(src, func(t *testing.T) {
			_, err := parseTerm(t, src, nil)
			require.Error(t, err)
			var terr *TermError
			assert.ErrorAs(t, err, &terr)
		})
	}
}
