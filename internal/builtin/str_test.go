package builtin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/n3reason/internal/term"
)

func TestStringStartsWith_KeepsOrDropsSolution(t *testing.T) {
	got := eval(t, testEnv(), str("abc"), StringStartsWith, str("a"))
	require.Len(t, got, 1)
	assert.Empty(t, got[0], "the original solution passes through unchanged")

	assert.Empty(t, eval(t, testEnv(), str("abc"), StringStartsWith, str("x")))
}

func TestStringTests(t *testing.T) {
	tests := []struct {
		pred        term.IRI
		left, right string
		holds       bool
	}{
		{StringContains, "haystack", "st", true},
		{StringContains, "haystack", "ST", false},
		{StringContainsIgnoringCase, "haystack", "ST", true},
		{StringEndsWith, "haystack", "ack", true},
		{StringEqualIgnoringCase, "Straße", "STRASSE", true},
		{StringNotEqualIgnoringCase, "abc", "ABC", false},
		{StringGreaterThan, "b", "a", true},
		{StringLessThan, "b", "a", false},
		{StringNotGreaterThan, "a", "a", true},
		{StringNotLessThan, "a", "b", false},
		{StringMatches, "2024-03-09", `^\d{4}-\d{2}-\d{2}$`, true},
		{StringNotMatches, "2024-03-09", `^\d+$`, true},
		{StringMatches, "abc", `(?<=a)b`, true},
	}
	for _, tc := range tests {
		t.Run(string(tc.pred)+" "+tc.left, func(t *testing.T) {
			got := eval(t, testEnv(), str(tc.left), tc.pred, str(tc.right))
			if tc.holds {
				assert.Len(t, got, 1)
			} else {
				assert.Empty(t, got)
			}
		})
	}
}

func TestStringMatches_InvalidPatternDrops(t *testing.T) {
	assert.Empty(t, eval(t, testEnv(), str("abc"), StringMatches, str("(")))
	assert.Empty(t, eval(t, testEnv(), str("abc"), StringNotMatches, str("(")))
}

func TestStringFunctions(t *testing.T) {
	tests := []struct {
		name string
		pred term.IRI
		args []term.Term
		want string
	}{
		{"concatenation", StringConcatenation, []term.Term{str("foo"), str("bar")}, "foobar"},
		{"concat with IRI and number", StringConcat, []term.Term{term.IRI("urn:x"), term.NewInteger(7)}, "urn:x7"},
		{"replace", StringReplace, []term.Term{str("a-b-c"), str("-"), str("+")}, "a+b+c"},
		{"replace with group", StringReplace, []term.Term{str("John Smith"), str(`(\w+) (\w+)`), str("$2, $1")}, "Smith, John"},
		{"scrape", StringScrape, []term.Term{str("id=42;"), str(`id=(\d+)`)}, "42"},
		{"format", StringFormat, []term.Term{str("%s is %s%%"), str("x"), str("50")}, "x is 50%"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := eval(t, testEnv(), term.NewList(tc.args...), tc.pred, x)
			require.Len(t, got, 1)
			assert.Equal(t, str(tc.want).Key(), got[0]["x"].Key())
		})
	}
}

func TestStringScrape_NoMatch(t *testing.T) {
	assert.Empty(t, eval(t, testEnv(), term.NewList(str("abc"), str(`(\d+)`)), StringScrape, x))
}

func TestStringFormat_MissingArgument(t *testing.T) {
	assert.Empty(t, eval(t, testEnv(), term.NewList(str("%s and %s"), str("one")), StringFormat, x))
}
