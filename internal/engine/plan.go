package engine

import (
	"slices"

	"github.com/roach88/n3reason/internal/builtin"
	"github.com/roach88/n3reason/internal/store"
	"github.com/roach88/n3reason/internal/term"
)

// State is the evaluation state of a plan.
type State int

const (
	// Unevaluated plans have no cached solutions.
	Unevaluated State = iota
	// Evaluated plans hold the solutions of their last Execute.
	Evaluated
)

func (s State) String() string {
	if s == Evaluated {
		return "evaluated"
	}
	return "unevaluated"
}

// Sink receives materialized statements.
type Sink func(st term.Statement, meta store.Meta)

// Plan is a compiled formula.
type Plan struct {
	engine   *Engine
	formula  *term.Formula
	scope    string // "" for asserted graphs
	stmts    []term.Statement
	patterns []term.Statement
	ops      []builtin.Operator

	state     State
	solutions term.Solutions
}

// Formula returns the compiled formula.
func (p *Plan) Formula() *term.Formula { return p.formula }

// Scope returns the existential scope, empty for asserted graphs.
func (p *Plan) Scope() string { return p.scope }

// Patterns returns the statements matched against the store.
func (p *Plan) Patterns() []term.Statement { return slices.Clone(p.patterns) }

// Operators returns the promoted builtins and rules.
func (p *Plan) Operators() []builtin.Operator { return slices.Clone(p.ops) }

// State reports whether the plan holds solutions.
func (p *Plan) State() State { return p.state }

// Solutions returns the cached solutions, or nil when unevaluated.
func (p *Plan) Solutions() term.Solutions {
	if p.state != Evaluated {
		return nil
	}
	return p.solutions
}

// Invalidate drops cached solutions here and in nested rules.
func (p *Plan) Invalidate() {
	p.state, p.solutions = Unevaluated, nil
	for _, op := range p.ops {
		if r, ok := op.(*Implies); ok {
			r.invalidate()
		}
	}
}

// Execute runs the query pass against st starting from sols, caches the
// result and returns it. Existential bindings are projected away.
func (p *Plan) Execute(st *store.Store, sols term.Solutions) term.Solutions {
	p.Invalidate()
	env := p.engine.Env(st)

	cur := p.match(st, sols)
	cur = consistent(cur)
	cur = p.run(env, cur)
	cur = cur.Project()

	p.state, p.solutions = Evaluated, cur
	return cur
}

// match joins the patterns with sols, in order of fewest variables. A ground
// pattern stored verbatim is a membership check; otherwise it is matched
// structurally, which also finds lists stored as chains.
func (p *Plan) match(st *store.Store, sols term.Solutions) term.Solutions {
	patterns := slices.Clone(p.patterns)
	slices.SortStableFunc(patterns, func(a, b term.Statement) int {
		return variableCount(a) - variableCount(b)
	})
	cur := sols
	for _, pat := range patterns {
		if len(cur) == 0 {
			return nil
		}
		if pat.Ground() && st.Has(pat) {
			continue
		}
		var next []term.Solution
		for _, sol := range cur {
			for _, m := range st.Match(pat, sol) {
				next = append(next, m.Solution)
			}
		}
		cur = term.NewSolutions(next...)
	}
	return cur
}

func variableCount(st term.Statement) int {
	return len(term.Variables(st.Subject)) + len(term.Variables(st.Predicate)) + len(term.Variables(st.Object))
}

// consistent drops solutions that bind a name to a value still holding variables.
func consistent(sols term.Solutions) term.Solutions {
	out := sols[:0:0]
	for _, sol := range sols {
		if !sol.Unbound() {
			out = append(out, sol)
		}
	}
	return out
}

// run executes the operators greedily: the lowest-ranked runnable operator
// whose result is non-empty is adopted and removed, then the rest are
// re-ranked. When no remaining operator yields anything the result is empty.
func (p *Plan) run(env *builtin.Env, cur term.Solutions) term.Solutions {
	pending := slices.Clone(p.ops)
	log := p.engine.logger
	for len(pending) > 0 && len(cur) > 0 {
		slices.SortStableFunc(pending, func(a, b builtin.Operator) int {
			return a.Rank(cur) - b.Rank(cur)
		})
		adopted := -1
		for i, op := range pending {
			got := apply(env, op, cur)
			log.Debug("operator evaluated",
				"builtin", string(op.Name()),
				"rank", op.Rank(cur),
				"in", len(cur),
				"out", len(got),
			)
			if len(got) > 0 {
				cur, adopted = got, i
				break
			}
		}
		if adopted < 0 {
			return nil
		}
		pending = slices.Delete(pending, adopted, adopted+1)
	}
	return cur
}

// apply dispatches on the operator's capability. Evaluatable operators see
// substituted, list-resolved operands and filter the solutions.
func apply(env *builtin.Env, op builtin.Operator, sols term.Solutions) term.Solutions {
	switch o := op.(type) {
	case builtin.Executable:
		return o.Execute(env, sols)
	case builtin.Evaluatable:
		var out []term.Solution
		for _, sol := range sols {
			left := env.Resolve(o.Subject(), sol)
			right := env.Resolve(o.Object(), sol)
			if !term.IsGround(left) || !term.IsGround(right) {
				continue
			}
			if o.Apply(left, right) {
				out = append(out, sol)
			}
		}
		return term.NewSolutions(out...)
	default:
		panic(&builtin.UnimplementedError{Builtin: op.Name()})
	}
}

// Each replays the cached solutions: patterns and builtin statements are
// re-emitted as asserted, and rules emit their consequents as inferred.
func (p *Plan) Each(sink Sink) {
	for _, sol := range p.Solutions() {
		for _, pat := range p.patterns {
			p.emit(pat, sol, store.Meta{}, sink)
		}
		for _, op := range p.ops {
			if _, ok := op.(*Implies); ok {
				continue
			}
			p.emit(term.Triple(op.Subject(), op.Name(), op.Object()), sol, store.Meta{}, sink)
		}
	}
	for _, op := range p.ops {
		if r, ok := op.(*Implies); ok {
			r.Each(sink)
		}
	}
}

// instantiate asserts every statement of the formula, including nested rules,
// under sol.
func (p *Plan) instantiate(sol term.Solution, meta store.Meta, sink Sink) {
	for _, st := range p.stmts {
		p.emit(st, sol, meta, sink)
	}
}

// emit substitutes sol, replaces unbound existentials by skolem blank nodes
// and hands ground statements to sink.
func (p *Plan) emit(st term.Statement, sol term.Solution, meta store.Meta, sink Sink) {
	out := term.SubstituteStatement(st, sol)
	if p.scope != "" {
		out = term.SubstituteStatement(out, p.skolems(out, sol))
	}
	out.Graph = nil
	if !out.Ground() {
		err := &RuntimeError{
			Code:        ErrCodeUnboundVariable,
			Message:     "statement not ground after instantiation",
			Statement:   &out,
			BindingHash: term.BindingHash(sol),
		}
		p.engine.logger.Warn("statement skipped", "error", err)
		return
	}
	sink(out, meta)
}

// skolems binds each existential of this scope left in st to a blank node
// derived from the scope, the variable and sol.
func (p *Plan) skolems(st term.Statement, sol term.Solution) term.Solution {
	out := term.Solution{}
	for _, t := range []term.Term{st.Subject, st.Predicate, st.Object} {
		for _, v := range term.Variables(t) {
			if v.Existential {
				out[v.Name] = term.BlankNode{ID: term.SkolemID(p.scope, v.Name, sol)}
			}
		}
	}
	return out
}
