package term

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync/atomic"
)

// MaxFormulaDepth bounds quoted-formula nesting.
const MaxFormulaDepth = 256

var (
	// ErrFormulaCycle is returned when a formula would contain itself.
	ErrFormulaCycle = errors.New("formula contains itself")

	// ErrFormulaTooDeep is returned when nesting exceeds MaxFormulaDepth.
	ErrFormulaTooDeep = errors.New("formula nesting too deep")
)

// Formula is a quoted, nestable graph that is itself a term.
//
// Formula equality is structural and order-insensitive: the key is built from the
// sorted triple keys of its statements. The graph name does not participate.
type Formula struct {
	stmts []Statement
	graph Term
	seen  map[string]struct{}   // triple keys
	key   atomic.Pointer[string] // memoized; reset by Add
}

func (*Formula) termNode() {}

func (*Formula) Kind() Kind { return KindFormula }

// NewFormula creates a formula named graph (may be nil) holding stmts.
func NewFormula(graph Term, stmts ...Statement) (*Formula, error) {
	f := &Formula{graph: graph}
	for _, st := range stmts {
		if err := f.Add(st); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// MustFormula is like NewFormula but panics on error.
// Use only in tests or when inputs are known to be acyclic.
func MustFormula(graph Term, stmts ...Statement) *Formula {
	f, err := NewFormula(graph, stmts...)
	if err != nil {
		panic(err)
	}
	return f
}

// Add appends a statement. Duplicate triples are ignored.
// Returns ErrFormulaCycle if st references f at any depth.
func (f *Formula) Add(st Statement) error {
	if !st.Complete() {
		return fmt.Errorf("add to formula: incomplete statement")
	}
	for _, t := range []Term{st.Subject, st.Predicate, st.Object} {
		if err := checkContains(t, f, 0); err != nil {
			return err
		}
	}
	f.append(st)
	return nil
}

// append adds st without the cycle check. Duplicate triples are ignored.
func (f *Formula) append(st Statement) {
	key := st.TripleKey()
	if f.seen == nil {
		f.seen = make(map[string]struct{})
	}
	if _, dup := f.seen[key]; dup {
		return
	}
	f.seen[key] = struct{}{}
	st.Graph = f.graph
	f.stmts = append(f.stmts, st)
	f.key.Store(nil)
}

// Contains reports whether the formula holds a triple equal to st.
func (f *Formula) Contains(st Statement) bool {
	_, ok := f.seen[st.TripleKey()]
	return ok
}

func checkContains(t Term, f *Formula, depth int) error {
	if depth > MaxFormulaDepth {
		return ErrFormulaTooDeep
	}
	switch v := t.(type) {
	case *Formula:
		if v == f {
			return ErrFormulaCycle
		}
		for _, st := range v.stmts {
			for _, c := range []Term{st.Subject, st.Predicate, st.Object} {
				if err := checkContains(c, f, depth+1); err != nil {
					return err
				}
			}
		}
	case List:
		for _, m := range v.members {
			if err := checkContains(m, f, depth+1); err != nil {
				return err
			}
		}
	}
	return nil
}

// Graph returns the formula's graph name, or nil.
func (f *Formula) Graph() Term { return f.graph }

// Len returns the number of statements.
func (f *Formula) Len() int { return len(f.stmts) }

// Statements returns a copy of the statements in insertion order.
func (f *Formula) Statements() []Statement {
	cp := make([]Statement, len(f.stmts))
	copy(cp, f.stmts)
	return cp
}

// Key returns "{k1 . k2 ...}" with triple keys sorted.
func (f *Formula) Key() string {
	if k := f.key.Load(); k != nil {
		return *k
	}
	keys := make([]string, len(f.stmts))
	for i, st := range f.stmts {
		keys[i] = st.TripleKey()
	}
	slices.Sort(keys)
	k := "{" + strings.Join(keys, " . ") + "}"
	f.key.Store(&k)
	return k
}

func (f *Formula) String() string {
	if len(f.stmts) == 0 {
		return "{}"
	}
	parts := make([]string, len(f.stmts))
	for i, st := range f.stmts {
		parts[i] = st.Subject.String() + " " + st.Predicate.String() + " " + st.Object.String()
	}
	return "{ " + strings.Join(parts, " . ") + " }"
}

// Merge returns a new formula named graph holding the union of the given formulae.
func Merge(graph Term, formulae ...*Formula) (*Formula, error) {
	out := &Formula{graph: graph}
	for _, f := range formulae {
		for _, st := range f.stmts {
			if err := out.Add(st); err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}
