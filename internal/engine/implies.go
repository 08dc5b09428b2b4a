package engine

import (
	"github.com/roach88/n3reason/internal/builtin"
	"github.com/roach88/n3reason/internal/store"
	"github.com/roach88/n3reason/internal/term"
)

// Implies is the log:implies operator: a rule from an antecedent formula to
// a consequent formula.
//
// Execute queries the antecedent against the outer store. Solutions that
// leave any antecedent universal unbound are discarded so rules never fire
// half-instantiated. If any survive the rule fires and the incoming
// solutions pass through unchanged; Each then materializes the consequent
// once per surviving solution.
type Implies struct {
	antecedent *term.Formula
	consequent *term.Formula
	when       *Plan
	then       *Plan
	universals []string

	state State
	fired term.Solutions
}

func newImplies(e *Engine, antecedent, consequent *term.Formula) *Implies {
	r := &Implies{
		antecedent: antecedent,
		consequent: consequent,
		when:       e.Compile(antecedent),
		then:       e.Compile(consequent),
	}
	for _, v := range term.Variables(antecedent) {
		if !v.Existential {
			r.universals = append(r.universals, v.Name)
		}
	}
	return r
}

func (r *Implies) Name() term.IRI     { return term.LogImplies }
func (r *Implies) Subject() term.Term { return r.antecedent }
func (r *Implies) Object() term.Term  { return r.consequent }

// Rank is zero: a rule needs no bound inputs.
func (r *Implies) Rank(term.Solutions) int { return 0 }

// State reports whether the rule holds solutions from its last execution.
func (r *Implies) State() State { return r.state }

// Fired returns the antecedent solutions of the last execution.
func (r *Implies) Fired() term.Solutions {
	if r.state != Evaluated {
		return nil
	}
	return r.fired
}

func (r *Implies) invalidate() {
	r.state, r.fired = Unevaluated, nil
	r.when.Invalidate()
	r.then.Invalidate()
}

func (r *Implies) Execute(env *builtin.Env, sols term.Solutions) term.Solutions {
	got := r.when.Execute(env.Store, sols)
	var kept []term.Solution
	for _, sol := range got {
		if r.binds(sol) {
			kept = append(kept, sol)
		}
	}
	r.state, r.fired = Evaluated, term.NewSolutions(kept...)
	env.Logger.Debug("rule evaluated",
		"antecedent", r.antecedent,
		"solutions", len(got),
		"fired", len(r.fired),
	)
	if len(r.fired) == 0 {
		return nil
	}
	return sols
}

func (r *Implies) binds(sol term.Solution) bool {
	for _, name := range r.universals {
		if _, ok := sol[name]; !ok {
			return false
		}
	}
	return true
}

// Each materializes the consequent under every fired solution, tagged inferred.
func (r *Implies) Each(sink Sink) {
	for _, sol := range r.Fired() {
		r.then.instantiate(sol, store.Meta{Inferred: true}, sink)
	}
}

var _ builtin.Executable = (*Implies)(nil)
