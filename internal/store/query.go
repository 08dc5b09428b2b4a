package store

import (
	"github.com/roach88/n3reason/internal/term"
)

// maxListDepth bounds nested list materialization.
const maxListDepth = 64

// Match is one query hit: the stored statement and the extended solution.
type Match struct {
	Statement term.Statement
	Solution  term.Solution
}

// Query returns the stored statements matching pattern. Each position may be a
// Variable (wildcard, repeated names must agree), a concrete term, or a
// structural pattern. A nil pattern graph means the default graph; a Variable
// graph ranges over all graphs.
func (s *Store) Query(pattern term.Statement) []term.Statement {
	matches := s.Match(pattern, term.Solution{})
	out := make([]term.Statement, len(matches))
	for i, m := range matches {
		out[i] = m.Statement
	}
	return out
}

// Match unifies pattern (after applying sol) against the store.
func (s *Store) Match(pattern term.Statement, sol term.Solution) []Match {
	p := term.SubstituteStatement(pattern, sol)
	var out []Match

	visitGraph := func(g graphEntry) {
		gsol := sol
		if v, ok := p.Graph.(term.Variable); ok {
			if g.term == nil {
				return
			}
			gsol = gsol.With(v.Name, g.term)
		}
		s.matchGraph(g, p, gsol, func(st term.Statement, next term.Solution) {
			out = append(out, Match{Statement: st, Solution: next})
		})
	}

	if _, ok := p.Graph.(term.Variable); ok {
		s.graphs.Range(func(_ string, g graphEntry) bool {
			visitGraph(g)
			return true
		})
		return out
	}
	if g, ok := s.graphs.Get(graphKey(p.Graph)); ok {
		visitGraph(g)
	}
	return out
}

// indexable reports whether a position can be looked up by key directly.
func indexable(t term.Term) bool {
	switch t.Kind() {
	case term.KindIRI, term.KindLiteral, term.KindBlankNode:
		return true
	}
	return false
}

func (s *Store) matchGraph(g graphEntry, p term.Statement, sol term.Solution, emit func(term.Statement, term.Solution)) {
	visitSubject := func(sub subjectEntry) {
		cur, ok := term.Unify(p.Subject, sub.term, sol, s)
		if !ok {
			return
		}
		visitPredicate := func(pred predicateEntry) {
			cur, ok := term.Unify(p.Predicate, pred.term, cur, s)
			if !ok {
				return
			}
			visitObject := func(obj objectEntry) {
				next, ok := term.Unify(p.Object, obj.term, cur, s)
				if !ok {
					return
				}
				emit(term.Statement{Subject: sub.term, Predicate: pred.term, Object: obj.term, Graph: g.term}, next)
			}
			if indexable(p.Object) {
				if obj, ok := pred.objects.Get(p.Object.Key()); ok {
					visitObject(obj)
				}
				return
			}
			pred.objects.Range(func(_ string, obj objectEntry) bool {
				visitObject(obj)
				return true
			})
		}
		if indexable(p.Predicate) {
			if pred, ok := sub.predicates.Get(p.Predicate.Key()); ok {
				visitPredicate(pred)
			}
			return
		}
		sub.predicates.Range(func(_ string, pred predicateEntry) bool {
			visitPredicate(pred)
			return true
		})
	}

	if indexable(p.Subject) {
		if sub, ok := g.subjects.Get(p.Subject.Key()); ok {
			visitSubject(sub)
		}
		return
	}
	g.subjects.Range(func(_ string, sub subjectEntry) bool {
		visitSubject(sub)
		return true
	})
}

// objects returns the objects of (subject, predicate) in the default graph.
func (s *Store) objects(subject, predicate term.Term) []term.Term {
	g, ok := s.graphs.Get(defaultGraphKey)
	if !ok {
		return nil
	}
	sub, ok := g.subjects.Get(subject.Key())
	if !ok {
		return nil
	}
	pred, ok := sub.predicates.Get(predicate.Key())
	if !ok {
		return nil
	}
	var out []term.Term
	pred.objects.Range(func(_ string, obj objectEntry) bool {
		out = append(out, obj.term)
		return true
	})
	return out
}

// TryList materializes t as a List when it is rdf:nil, already a List, or the
// root of a well-formed first/rest chain in the default graph. Members that are
// themselves chain roots are materialized recursively. Anything else is
// returned unchanged.
func (s *Store) TryList(t term.Term) term.Term {
	return s.tryList(t, 0)
}

func (s *Store) tryList(t term.Term, depth int) term.Term {
	switch v := t.(type) {
	case term.List:
		return v
	case term.IRI:
		if v == term.RDFNil {
			return term.NewList()
		}
		return v
	case term.BlankNode:
		if depth > maxListDepth {
			return v
		}
		if cached, ok := s.lists.Load(v.ID); ok {
			return cached.(term.Term)
		}
		l, ok := s.walkChain(v, depth)
		if !ok {
			s.lists.Store(v.ID, term.Term(v))
			return v
		}
		s.lists.Store(v.ID, term.Term(l))
		return l
	default:
		return t
	}
}

func (s *Store) walkChain(root term.BlankNode, depth int) (term.List, bool) {
	var members []term.Term
	seen := map[string]bool{}
	var cell term.Term = root
	for {
		if cell.Kind() == term.KindIRI && cell.(term.IRI) == term.RDFNil {
			return term.ListWithRoot(root, members...), true
		}
		b, ok := cell.(term.BlankNode)
		if !ok || seen[b.ID] {
			return term.List{}, false
		}
		seen[b.ID] = true
		firsts := s.objects(b, term.RDFFirst)
		rests := s.objects(b, term.RDFRest)
		if len(firsts) != 1 || len(rests) != 1 {
			return term.List{}, false
		}
		members = append(members, s.tryMember(firsts[0], depth+1))
		cell = rests[0]
	}
}

// tryMember materializes nested chains but leaves non-list blank nodes alone.
func (s *Store) tryMember(t term.Term, depth int) term.Term {
	if b, ok := t.(term.BlankNode); ok {
		return s.tryList(b, depth)
	}
	if i, ok := t.(term.IRI); ok && i == term.RDFNil {
		return term.NewList()
	}
	return t
}

// IsListNode reports whether t is a chain cell (has an rdf:first).
func (s *Store) IsListNode(t term.Term) bool {
	if _, ok := t.(term.BlankNode); !ok {
		return false
	}
	return len(s.objects(t, term.RDFFirst)) > 0
}
