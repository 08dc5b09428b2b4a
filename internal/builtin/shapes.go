package builtin

import (
	"github.com/roach88/n3reason/internal/term"
)

// Function is the forward shape shared by list and literal operators: the
// subject is the input (lists materialized via TryList) and the object is
// checked against, or bound to, fn(subject).
type Function struct {
	call
	fn func(env *Env, subject term.Term) (term.Term, error)
}

// NewFunction returns a constructor for a forward function builtin.
func NewFunction(name term.IRI, fn func(env *Env, subject term.Term) (term.Term, error)) Constructor {
	return func(s, o term.Term) Operator {
		return &Function{call: call{name: name, subject: s, object: o}, fn: fn}
	}
}

func (f *Function) Rank(sols term.Solutions) int { return unbound(f.subject, sols) }

func (f *Function) Execute(env *Env, sols term.Solutions) term.Solutions {
	var out []term.Solution
	for _, sol := range sols {
		in := env.Resolve(f.subject, sol)
		if !term.IsGround(in) {
			continue
		}
		result, err := f.fn(env, in)
		if err != nil {
			env.skip(f, err)
			continue
		}
		if next, ok := env.bind(term.Substitute(f.object, sol), result, sol); ok {
			out = append(out, next)
		}
	}
	return term.NewSolutions(out...)
}

// Inverse is the bidirectional shape of resource and literal operators: the
// subject is the input when bound, otherwise the object is, and the other
// side is computed. backward may be nil for one-way builtins that still
// accept a bound object as a check.
type Inverse struct {
	call
	forward  func(env *Env, subject term.Term) (term.Term, error)
	backward func(env *Env, object term.Term) (term.Term, error)
}

// NewInverse returns a constructor for a bidirectional builtin.
func NewInverse(name term.IRI, forward, backward func(*Env, term.Term) (term.Term, error)) Constructor {
	return func(s, o term.Term) Operator {
		return &Inverse{call: call{name: name, subject: s, object: o}, forward: forward, backward: backward}
	}
}

func (f *Inverse) Rank(sols term.Solutions) int {
	s, o := unbound(f.subject, sols), unbound(f.object, sols)
	if f.backward != nil && o < s {
		return o
	}
	return s
}

func (f *Inverse) Execute(env *Env, sols term.Solutions) term.Solutions {
	var out []term.Solution
	for _, sol := range sols {
		subj := env.Resolve(f.subject, sol)
		obj := env.Resolve(f.object, sol)

		var (
			pattern term.Term
			result  term.Term
			err     error
		)
		switch {
		case term.IsGround(subj):
			pattern = obj
			result, err = f.forward(env, subj)
		case f.backward != nil && term.IsGround(obj):
			pattern = subj
			result, err = f.backward(env, obj)
		default:
			continue
		}
		if err != nil {
			env.skip(f, err)
			continue
		}
		if next, ok := env.bind(pattern, result, sol); ok {
			out = append(out, next)
		}
	}
	return term.NewSolutions(out...)
}

// bind unifies a computed result with its pattern. A bound numeric operand
// also accepts an equal value of another numeric type: 3.0 checks against 3.
func (e *Env) bind(pattern, result term.Term, sol term.Solution) (term.Solution, bool) {
	if next, ok := e.unify(pattern, result, sol); ok {
		return next, true
	}
	if sameNumber(e.Resolve(pattern, sol), result) {
		return sol, true
	}
	return nil, false
}

// Relation is the general generator shape: exec may return any number of
// extended solutions for one input solution. inputs selects which operands
// count toward the rank.
type Relation struct {
	call
	inputs Inputs
	exec   func(env *Env, subject, object term.Term, sol term.Solution) ([]term.Solution, error)
}

// Inputs selects the operands a Relation needs bound.
type Inputs int

const (
	InputSubject Inputs = iota
	InputObject
	InputBoth
	InputEither
)

// NewRelation returns a constructor for a generator builtin. exec receives
// the resolved operands.
func NewRelation(name term.IRI, inputs Inputs, exec func(env *Env, subject, object term.Term, sol term.Solution) ([]term.Solution, error)) Constructor {
	return func(s, o term.Term) Operator {
		return &Relation{call: call{name: name, subject: s, object: o}, inputs: inputs, exec: exec}
	}
}

func (r *Relation) Rank(sols term.Solutions) int {
	s, o := unbound(r.subject, sols), unbound(r.object, sols)
	switch r.inputs {
	case InputSubject:
		return s
	case InputObject:
		return o
	case InputEither:
		return min(s, o)
	default:
		return s + o
	}
}

func (r *Relation) Execute(env *Env, sols term.Solutions) term.Solutions {
	var out []term.Solution
	for _, sol := range sols {
		subj := env.Resolve(r.subject, sol)
		obj := env.Resolve(r.object, sol)
		got, err := r.exec(env, subj, obj, sol)
		if err != nil {
			env.skip(r, err)
			continue
		}
		out = append(out, got...)
	}
	return term.NewSolutions(out...)
}

// Test is the Evaluatable shape: a pure predicate over two ground values.
type Test struct {
	call
	pred func(left, right term.Term) (bool, error)
}

// NewTest returns a constructor for an evaluatable builtin.
func NewTest(name term.IRI, pred func(left, right term.Term) (bool, error)) Constructor {
	return func(s, o term.Term) Operator {
		return &Test{call: call{name: name, subject: s, object: o}, pred: pred}
	}
}

func (t *Test) Rank(sols term.Solutions) int {
	return unbound(t.subject, sols) + unbound(t.object, sols)
}

// Apply reports whether the relation holds. Type problems count as "does not hold".
func (t *Test) Apply(left, right term.Term) bool {
	ok, err := t.pred(left, right)
	return err == nil && ok
}
