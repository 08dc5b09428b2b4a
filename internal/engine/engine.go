package engine

import (
	"log/slog"
	"time"

	"github.com/roach88/n3reason/internal/builtin"
	"github.com/roach88/n3reason/internal/store"
	"github.com/roach88/n3reason/internal/term"
)

// Engine compiles formulae into plans and runs them against stores.
//
// An Engine is configuration only: the builtin registry, collaborators and
// generators. It holds no per-run state, so one Engine may compile any
// number of plans. Plans themselves are single-threaded.
type Engine struct {
	registry  *builtin.Registry
	logger    *slog.Logger
	loader    builtin.Loader
	concluder builtin.Concluder
	now       func() time.Time
	ids       IDGenerator
}

// Option configures an Engine.
type Option func(*Engine)

// WithRegistry replaces the default builtin registry.
func WithRegistry(r *builtin.Registry) Option {
	return func(e *Engine) {
		e.registry = r
	}
}

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// WithLoader sets the collaborator behind log:semantics and log:parsedAsN3.
// Without one, both builtins produce no binding.
func WithLoader(l builtin.Loader) Option {
	return func(e *Engine) {
		e.loader = l
	}
}

// WithNow sets the clock used by the time builtins.
func WithNow(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// WithIDGenerator sets the source of fresh blank node IDs.
// Default: UUIDv7Generator. Use FixedGenerator in tests.
func WithIDGenerator(g IDGenerator) Option {
	return func(e *Engine) {
		e.ids = g
	}
}

// New creates an Engine with the default registry.
func New(opts ...Option) *Engine {
	e := &Engine{
		registry: builtin.DefaultRegistry(),
		logger:   slog.Default(),
		now:      time.Now,
		ids:      UUIDv7Generator{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SetConcluder installs the closure computation behind log:conclusion.
// The reasoner registers itself here.
func (e *Engine) SetConcluder(c builtin.Concluder) {
	e.concluder = c
}

// Logger returns the engine's logger.
func (e *Engine) Logger() *slog.Logger {
	return e.logger
}

// NewBlank returns a fresh blank node.
func (e *Engine) NewBlank() term.BlankNode {
	return term.BlankNode{ID: e.ids.Generate()}
}

// Env returns the builtin environment for running against st.
func (e *Engine) Env(st *store.Store) *builtin.Env {
	return &builtin.Env{
		Store:     st,
		Engine:    e,
		Concluder: e.concluder,
		Loader:    e.loader,
		Now:       e.now,
		Logger:    e.logger,
		NewBlank:  e.NewBlank,
	}
}

// Query compiles f as a quoted formula and executes it against st. A nil
// sols starts from the unit solution. Implements builtin.FormulaEngine.
func (e *Engine) Query(f *term.Formula, st *store.Store, sols term.Solutions) term.Solutions {
	if sols == nil {
		sols = term.Unit()
	}
	return e.Compile(f).Execute(st, sols)
}

// Compile builds a plan for a quoted formula. Its blank nodes become
// existential variables scoped to f.
func (e *Engine) Compile(f *term.Formula) *Plan {
	return e.compile(f, term.FormulaScope(f))
}

// CompileAsserted builds a plan for an asserted graph, such as the whole
// store. Blank nodes stay ground: they name existing nodes of the store.
func (e *Engine) CompileAsserted(f *term.Formula) *Plan {
	return e.compile(f, "")
}

func (e *Engine) compile(f *term.Formula, scope string) *Plan {
	p := &Plan{engine: e, formula: f, scope: scope}
	for _, st := range f.Statements() {
		st.Graph = nil
		if scope != "" {
			st.Subject = term.ToExistential(st.Subject, scope)
			st.Predicate = term.ToExistential(st.Predicate, scope)
			st.Object = term.ToExistential(st.Object, scope)
		}
		p.stmts = append(p.stmts, st)

		if op, ok := e.promote(st); ok {
			p.ops = append(p.ops, op)
			continue
		}
		p.patterns = append(p.patterns, st)
	}
	return p
}

// promote turns rules into Implies operators and builtin statements into
// registry operators.
func (e *Engine) promote(st term.Statement) (builtin.Operator, bool) {
	if pred, ok := st.Predicate.(term.IRI); ok && pred == term.LogImplies {
		antecedent, ok1 := st.Subject.(*term.Formula)
		consequent, ok2 := st.Object.(*term.Formula)
		if !ok1 || !ok2 {
			// rules over variables are queried like data
			return nil, false
		}
		return newImplies(e, antecedent, consequent), true
	}
	return e.registry.Promote(st)
}
