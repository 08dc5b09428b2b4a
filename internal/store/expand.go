package store

import (
	"fmt"

	"github.com/roach88/n3reason/internal/term"
)

// Expanded returns every stored quad with native List terms flattened into
// first/rest chains, ordered by canonical key. A list reconstructed from a
// chain keeps its original root; other lists get a root derived from their
// content so repeated expansion is stable.
func (s *Store) Expanded() []term.Statement {
	var out []term.Statement
	seen := map[string]bool{}
	emit := func(st term.Statement) {
		if k := st.Key(); !seen[k] {
			seen[k] = true
			out = append(out, st)
		}
	}
	for _, st := range s.All() {
		subj, chain := expandTerm(st.Subject)
		for _, c := range chain {
			emit(c.InGraph(st.Graph))
		}
		obj, chain := expandTerm(st.Object)
		for _, c := range chain {
			emit(c.InGraph(st.Graph))
		}
		emit(term.Statement{Subject: subj, Predicate: st.Predicate, Object: obj, Graph: st.Graph})
	}
	return out
}

func expandTerm(t term.Term) (term.Term, []term.Statement) {
	l, ok := t.(term.List)
	if !ok {
		return t, nil
	}
	if l.Len() == 0 {
		return term.RDFNil, nil
	}
	root, ok := l.Root()
	if !ok {
		root = term.BlankNode{ID: "l_" + term.StatementID(term.Triple(l, term.RDFFirst, term.RDFNil))[:12]}
	}
	n := 0
	next := func() term.BlankNode {
		n++
		return term.BlankNode{ID: fmt.Sprintf("%s_%d", root.ID, n)}
	}
	return l.Chain(root, next)
}
