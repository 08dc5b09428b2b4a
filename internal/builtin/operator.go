package builtin

import (
	"log/slog"
	"time"

	"github.com/roach88/n3reason/internal/store"
	"github.com/roach88/n3reason/internal/term"
)

// Operator is a builtin instance holding its two operand terms.
type Operator interface {
	Name() term.IRI
	Subject() term.Term
	Object() term.Term

	// Rank returns the number of still-unbound variables among the operator's
	// input operands under sols. Lower ranks run first.
	Rank(sols term.Solutions) int
}

// Executable operators may generate bindings.
type Executable interface {
	Operator
	Execute(env *Env, sols term.Solutions) term.Solutions
}

// Evaluatable operators test already-resolved operand values.
type Evaluatable interface {
	Operator
	Apply(left, right term.Term) bool
}

// FormulaEngine runs a quoted formula as a query against a store.
type FormulaEngine interface {
	Query(f *term.Formula, st *store.Store, sols term.Solutions) term.Solutions
}

// Concluder computes the deductive closure of a formula (log:conclusion).
type Concluder interface {
	Conclude(f *term.Formula) (*term.Formula, error)
}

// Loader resolves external content for log:semantics and log:parsedAsN3.
// Any error it returns becomes "no binding".
type Loader interface {
	Semantics(doc term.IRI) (*term.Formula, error)
	ParseN3(source string, base term.IRI) (*term.Formula, error)
}

// Env is the execution environment handed to Executable operators.
type Env struct {
	Store     *store.Store
	Engine    FormulaEngine
	Concluder Concluder // optional
	Loader    Loader    // optional
	Now       func() time.Time
	Logger    *slog.Logger
	NewBlank  func() term.BlankNode
}

func (e *Env) now() time.Time {
	if e.Now == nil {
		return time.Now()
	}
	return e.Now()
}

// graphName mints a name for a formula built by a builtin, or nil when the
// environment has no generator.
func (e *Env) graphName() term.Term {
	if e.NewBlank == nil {
		return nil
	}
	return e.NewBlank()
}

func (e *Env) logger() *slog.Logger {
	if e.Logger == nil {
		return slog.Default()
	}
	return e.Logger
}

// Resolve substitutes sol into t and materializes list-shaped results.
func (e *Env) Resolve(t term.Term, sol term.Solution) term.Term {
	t = term.Substitute(t, sol)
	if e.Store == nil {
		return t
	}
	return e.Store.TryList(t)
}

// skip logs a soft failure of one candidate solution.
func (e *Env) skip(op Operator, err error) {
	e.logger().Debug("builtin candidate dropped",
		"builtin", string(op.Name()),
		"error", err,
	)
}

// unify binds or checks pattern against value within sol.
func (e *Env) unify(pattern, value term.Term, sol term.Solution) (term.Solution, bool) {
	var r term.ListResolver
	if e.Store != nil {
		r = e.Store
	}
	return term.Unify(pattern, value, sol, r)
}

// call holds the operator identity and operands shared by every shape.
type call struct {
	name    term.IRI
	subject term.Term
	object  term.Term
}

func (c call) Name() term.IRI     { return c.name }
func (c call) Subject() term.Term { return c.subject }
func (c call) Object() term.Term  { return c.object }

// unbound counts distinct variables left in t after applying the first
// solution. Solutions in one set bind the same names, so the first is representative.
func unbound(t term.Term, sols term.Solutions) int {
	if len(sols) > 0 {
		t = term.Substitute(t, sols[0])
	}
	return len(term.Variables(t))
}
