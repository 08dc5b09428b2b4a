package reasoner

import (
	"slices"
	"strings"

	"github.com/roach88/n3reason/internal/builtin"
	"github.com/roach88/n3reason/internal/store"
	"github.com/roach88/n3reason/internal/term"
)

// Result is the outcome of a run.
type Result struct {
	Store  *store.Store
	Rounds int
	Added  int

	nativeLists bool
}

// Data returns the asserted statements: those not tagged inferred.
func (r *Result) Data() []term.Statement {
	inferred := map[string]bool{}
	for _, st := range r.Store.Inferred() {
		inferred[st.Key()] = true
	}
	var out []term.Statement
	for _, st := range r.Store.All() {
		if !inferred[st.Key()] {
			out = append(out, st)
		}
	}
	return r.view(out)
}

// Inferred returns the statements derived by rules.
func (r *Result) Inferred() []term.Statement {
	return r.view(r.Store.Inferred())
}

// Conclusions returns the whole closure without log:chaff statements.
func (r *Result) Conclusions() []term.Statement {
	var out []term.Statement
	for _, st := range r.Store.All() {
		if p, ok := st.Predicate.(term.IRI); ok && p == builtin.LogChaff {
			continue
		}
		out = append(out, st)
	}
	return r.view(out)
}

// view flattens lists into chains unless native lists were requested.
func (r *Result) view(stmts []term.Statement) []term.Statement {
	if r.nativeLists {
		return stmts
	}
	st, _, err := store.New().Merge(stmts, store.Meta{})
	if err != nil {
		// stmts came out of a store, so they are ground
		return stmts
	}
	return st.Expanded()
}

// Strings collates log:outputString values, ordered by their subject keys.
func (r *Result) Strings() string {
	type entry struct{ key, value string }
	var entries []entry
	for _, st := range r.Store.Query(term.Triple(term.NewUniversal("k"), builtin.LogOutputString, term.NewUniversal("v"))) {
		var value string
		switch v := st.Object.(type) {
		case term.Literal:
			value = v.Value
		default:
			value = v.String()
		}
		entries = append(entries, entry{key: st.Subject.Key(), value: value})
	}
	slices.SortFunc(entries, func(a, b entry) int {
		if c := strings.Compare(a.key, b.key); c != 0 {
			return c
		}
		return strings.Compare(a.value, b.value)
	})
	var b strings.Builder
	for _, e := range entries {
		b.WriteString(e.value)
	}
	return b.String()
}
