package store

import (
	"slices"
	"sync"

	"github.com/roach88/n3reason/internal/term"
)

// defaultGraphKey cannot collide with a term key: those start with '<', '"', '_', '?', '(' or '{'.
const defaultGraphKey = "\x00default"

// Meta is per-statement metadata.
type Meta struct {
	Inferred bool
}

func (m Meta) merge(o Meta) Meta {
	return Meta{Inferred: m.Inferred || o.Inferred}
}

type objectEntry struct {
	term term.Term
	meta Meta
}

type predicateEntry struct {
	term    term.Term
	objects hamt[objectEntry]
}

type subjectEntry struct {
	term       term.Term
	predicates hamt[predicateEntry]
}

type graphEntry struct {
	term     term.Term // nil for the default graph
	subjects hamt[subjectEntry]
	count    int
}

// Store is an immutable snapshot of a quad set. The zero value is not usable;
// call New.
type Store struct {
	graphs hamt[graphEntry]
	count  int

	lists *sync.Map // chain-root key → materialized term.List, per snapshot
}

// New returns an empty store.
func New() *Store {
	return &Store{lists: &sync.Map{}}
}

func graphKey(g term.Term) string {
	if g == nil {
		return defaultGraphKey
	}
	return g.Key()
}

// Count returns the number of statements across all graphs.
func (s *Store) Count() int { return s.count }

// Insert returns a store containing st. Inserting an existing quad merges meta
// and returns s unchanged when nothing changed.
func (s *Store) Insert(st term.Statement, meta Meta) (*Store, error) {
	if !st.Complete() {
		return nil, &StatementError{Code: ErrCodeIncomplete, Statement: st, Message: "missing subject, predicate or object"}
	}
	if !st.Ground() {
		return nil, &StatementError{Code: ErrCodeIncomplete, Statement: st, Message: "statement contains unbound variables"}
	}

	gk := graphKey(st.Graph)
	sk, pk, objKey := st.Subject.Key(), st.Predicate.Key(), st.Object.Key()

	g, _ := s.graphs.Get(gk)
	sub, _ := g.subjects.Get(sk)
	pred, _ := sub.predicates.Get(pk)
	obj, exists := pred.objects.Get(objKey)

	merged := meta
	if exists {
		merged = obj.meta.merge(meta)
		if merged == obj.meta {
			return s, nil
		}
	}

	pred.term = st.Predicate
	pred.objects = pred.objects.Put(objKey, objectEntry{term: st.Object, meta: merged})
	sub.term = st.Subject
	sub.predicates = sub.predicates.Put(pk, pred)
	g.term = st.Graph
	g.subjects = g.subjects.Put(sk, sub)

	out := &Store{count: s.count, lists: s.lists}
	if !exists {
		g.count++
		out.count++
		// chains may have changed shape
		out.lists = &sync.Map{}
	}
	out.graphs = s.graphs.Put(gk, g)
	return out, nil
}

// Delete returns a store without st. Emptied levels are removed.
func (s *Store) Delete(st term.Statement) *Store {
	if !st.Complete() {
		return s
	}
	gk := graphKey(st.Graph)
	sk, pk, objKey := st.Subject.Key(), st.Predicate.Key(), st.Object.Key()

	g, found := s.graphs.Get(gk)
	if !found {
		return s
	}
	sub, found := g.subjects.Get(sk)
	if !found {
		return s
	}
	pred, found := sub.predicates.Get(pk)
	if !found {
		return s
	}
	objects, found := pred.objects.Delete(objKey)
	if !found {
		return s
	}

	pred.objects = objects
	if pred.objects.Len() == 0 {
		sub.predicates, _ = sub.predicates.Delete(pk)
	} else {
		sub.predicates = sub.predicates.Put(pk, pred)
	}
	if sub.predicates.Len() == 0 {
		g.subjects, _ = g.subjects.Delete(sk)
	} else {
		g.subjects = g.subjects.Put(sk, sub)
	}
	g.count--

	out := &Store{count: s.count - 1, lists: &sync.Map{}}
	if g.subjects.Len() == 0 {
		out.graphs, _ = s.graphs.Delete(gk)
	} else {
		out.graphs = s.graphs.Put(gk, g)
	}
	return out
}

// Merge inserts every statement with meta and reports how many were new.
func (s *Store) Merge(stmts []term.Statement, meta Meta) (*Store, int, error) {
	out := s
	before := s.count
	for _, st := range stmts {
		next, err := out.Insert(st, meta)
		if err != nil {
			return s, 0, err
		}
		out = next
	}
	return out, out.count - before, nil
}

// Has reports whether the exact quad is present.
func (s *Store) Has(st term.Statement) bool {
	_, ok := s.Meta(st)
	return ok
}

// Meta returns the metadata of a stored quad.
func (s *Store) Meta(st term.Statement) (Meta, bool) {
	if !st.Complete() {
		return Meta{}, false
	}
	g, ok := s.graphs.Get(graphKey(st.Graph))
	if !ok {
		return Meta{}, false
	}
	sub, ok := g.subjects.Get(st.Subject.Key())
	if !ok {
		return Meta{}, false
	}
	pred, ok := sub.predicates.Get(st.Predicate.Key())
	if !ok {
		return Meta{}, false
	}
	obj, ok := pred.objects.Get(st.Object.Key())
	return obj.meta, ok
}

// HasGraph reports whether any statement is stored in graph g (nil = default).
func (s *Store) HasGraph(g term.Term) bool {
	_, ok := s.graphs.Get(graphKey(g))
	return ok
}

// GraphCount returns the number of statements in graph g.
func (s *Store) GraphCount(g term.Term) int {
	e, _ := s.graphs.Get(graphKey(g))
	return e.count
}

// each visits stored quads until fn returns false.
func (s *Store) each(fn func(term.Statement, Meta) bool) {
	s.graphs.Range(func(_ string, g graphEntry) bool {
		return eachInGraph(g, fn)
	})
}

func eachInGraph(g graphEntry, fn func(term.Statement, Meta) bool) bool {
	cont := true
	g.subjects.Range(func(_ string, sub subjectEntry) bool {
		sub.predicates.Range(func(_ string, pred predicateEntry) bool {
			pred.objects.Range(func(_ string, obj objectEntry) bool {
				st := term.Statement{Subject: sub.term, Predicate: pred.term, Object: obj.term, Graph: g.term}
				cont = fn(st, obj.meta)
				return cont
			})
			return cont
		})
		return cont
	})
	return cont
}

// All returns every stored quad ordered by canonical key.
func (s *Store) All() []term.Statement {
	return s.collect(func(term.Statement, Meta) bool { return true })
}

// Inferred returns the quads tagged as inferred, ordered by canonical key.
func (s *Store) Inferred() []term.Statement {
	return s.collect(func(_ term.Statement, m Meta) bool { return m.Inferred })
}

func (s *Store) collect(keep func(term.Statement, Meta) bool) []term.Statement {
	out := make([]term.Statement, 0, s.count)
	s.each(func(st term.Statement, m Meta) bool {
		if keep(st, m) {
			out = append(out, st)
		}
		return true
	})
	slices.SortFunc(out, func(a, b term.Statement) int {
		ak, bk := a.Key(), b.Key()
		switch {
		case ak < bk:
			return -1
		case ak > bk:
			return 1
		}
		return 0
	})
	return out
}

// FromFormula builds a store holding f's statements in the default graph.
func FromFormula(f *term.Formula) (*Store, error) {
	stmts := f.Statements()
	for i := range stmts {
		stmts[i].Graph = nil
	}
	s, _, err := New().Merge(stmts, Meta{})
	return s, err
}

// Formula returns the default graph as a formula named graph.
func (s *Store) Formula(graph term.Term) *term.Formula {
	f := term.MustFormula(graph)
	g, _ := s.graphs.Get(defaultGraphKey)
	var stmts []term.Statement
	eachInGraph(g, func(st term.Statement, _ Meta) bool {
		stmts = append(stmts, st)
		return true
	})
	slices.SortFunc(stmts, func(a, b term.Statement) int {
		switch ak, bk := a.TripleKey(), b.TripleKey(); {
		case ak < bk:
			return -1
		case ak > bk:
			return 1
		}
		return 0
	})
	for _, st := range stmts {
		// stored terms never contain f itself
		_ = f.Add(st)
	}
	return f
}
