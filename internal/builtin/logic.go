package builtin

import (
	"errors"

	"github.com/roach88/n3reason/internal/store"
	"github.com/roach88/n3reason/internal/term"
)

// Log relation identifiers. log:implies is compiled by the formula engine.
const (
	LogIncludes     = term.IRI(term.LogNamespace + "includes")
	LogNotIncludes  = term.IRI(term.LogNamespace + "notIncludes")
	LogConjunction  = term.IRI(term.LogNamespace + "conjunction")
	LogConclusion   = term.IRI(term.LogNamespace + "conclusion")
	LogEqualTo      = term.IRI(term.LogNamespace + "equalTo")
	LogNotEqualTo   = term.IRI(term.LogNamespace + "notEqualTo")
	LogOutputString = term.IRI(term.LogNamespace + "outputString")
	LogSemantics    = term.IRI(term.LogNamespace + "semantics")
	LogParsedAsN3   = term.IRI(term.LogNamespace + "parsedAsN3")
	LogN3String     = term.IRI(term.LogNamespace + "n3String")
	LogRawType      = term.IRI(term.LogNamespace + "rawType")
	LogChaff        = term.IRI(term.LogNamespace + "chaff")
)

// Values of log:rawType.
const (
	LogFormula = term.IRI(term.LogNamespace + "Formula")
	LogLiteral = term.IRI(term.LogNamespace + "Literal")
	LogList    = term.IRI(term.LogNamespace + "List")
	LogOther   = term.IRI(term.LogNamespace + "Other")
)

var (
	errNoEngine    = errors.New("no formula engine configured")
	errNoConcluder = errors.New("no concluder configured")
	errNoLoader    = errors.New("no loader configured")
)

func registerLog(r *Registry) {
	r.Register(LogIncludes, NewRelation(LogIncludes, InputSubject, includes(false)))
	r.Register(LogNotIncludes, NewRelation(LogNotIncludes, InputSubject, includes(true)))
	r.Register(LogConjunction, NewFunction(LogConjunction, conjunction))
	r.Register(LogConclusion, NewFunction(LogConclusion, conclusion))
	r.Register(LogEqualTo, NewRelation(LogEqualTo, InputEither, equalTo))
	r.Register(LogNotEqualTo, NewTest(LogNotEqualTo, func(left, right term.Term) (bool, error) {
		return !term.Equal(left, right), nil
	}))
	r.Register(LogOutputString, NewRelation(LogOutputString, InputBoth, outputString))
	r.Register(LogSemantics, NewFunction(LogSemantics, semantics))
	r.Register(LogParsedAsN3, NewFunction(LogParsedAsN3, parsedAsN3))
	r.Register(LogN3String, NewFunction(LogN3String, n3String))
	r.Register(LogRawType, NewFunction(LogRawType, rawType))
	r.Register(LogChaff, NewTest(LogChaff, func(_, _ term.Term) (bool, error) { return true, nil }))
}

// includes queries the object formula against the subject formula. negate
// turns it into log:notIncludes, which succeeds only when there is no match.
func includes(negate bool) func(*Env, term.Term, term.Term, term.Solution) ([]term.Solution, error) {
	name := LogIncludes
	if negate {
		name = LogNotIncludes
	}
	return func(env *Env, subject, object term.Term, sol term.Solution) ([]term.Solution, error) {
		if _, ok := subject.(term.Variable); ok {
			return nil, nil
		}
		if env.Engine == nil {
			return nil, errNoEngine
		}
		within, err := asFormula(name, subject)
		if err != nil {
			return nil, err
		}
		pattern, err := asFormula(name, object)
		if err != nil {
			return nil, err
		}
		st, err := store.FromFormula(within)
		if err != nil {
			return nil, &TypeError{Builtin: name, Operand: subject, Want: "a ground formula", Err: err}
		}
		got := env.Engine.Query(pattern, st, term.Solutions{sol})
		if !negate {
			// The query projects away every existential, including the
			// caller's; restore them from sol.
			out := make([]term.Solution, len(got))
			for i, g := range got {
				out[i] = sol.Merge(g)
			}
			return out, nil
		}
		if len(got) > 0 {
			return nil, nil
		}
		return []term.Solution{sol}, nil
	}
}

// conjunction merges the subject formulae into one named by a fresh blank node.
func conjunction(env *Env, subject term.Term) (term.Term, error) {
	l, err := asList(LogConjunction, subject)
	if err != nil {
		return nil, err
	}
	parts := make([]*term.Formula, l.Len())
	for i := range l.Len() {
		if parts[i], err = asFormula(LogConjunction, l.At(i)); err != nil {
			return nil, err
		}
	}
	f, err := term.Merge(env.graphName(), parts...)
	if err != nil {
		return nil, err
	}
	return f, nil
}

func conclusion(env *Env, subject term.Term) (term.Term, error) {
	if env.Concluder == nil {
		return nil, errNoConcluder
	}
	f, err := asFormula(LogConclusion, subject)
	if err != nil {
		return nil, err
	}
	out, err := env.Concluder.Conclude(f)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func equalTo(env *Env, subject, object term.Term, sol term.Solution) ([]term.Solution, error) {
	if next, ok := env.unify(subject, object, sol); ok {
		return []term.Solution{next}, nil
	}
	if next, ok := env.unify(object, subject, sol); ok {
		return []term.Solution{next}, nil
	}
	return nil, nil
}

// outputString matches collated output strings already in the store.
func outputString(env *Env, subject, object term.Term, sol term.Solution) ([]term.Solution, error) {
	if env.Store == nil {
		return nil, nil
	}
	var out []term.Solution
	for _, m := range env.Store.Match(term.Triple(subject, LogOutputString, object), sol) {
		out = append(out, m.Solution)
	}
	return out, nil
}

func semantics(env *Env, subject term.Term) (term.Term, error) {
	if env.Loader == nil {
		return nil, errNoLoader
	}
	doc, ok := subject.(term.IRI)
	if !ok {
		return nil, &TypeError{Builtin: LogSemantics, Operand: subject, Want: "an IRI"}
	}
	f, err := env.Loader.Semantics(doc)
	if err != nil {
		env.logger().Warn("log:semantics load failed", "document", string(doc), "error", err)
		return nil, ErrNoBinding
	}
	return f, nil
}

func parsedAsN3(env *Env, subject term.Term) (term.Term, error) {
	if env.Loader == nil {
		return nil, errNoLoader
	}
	src, err := asString(LogParsedAsN3, subject)
	if err != nil {
		return nil, err
	}
	f, err := env.Loader.ParseN3(src, "")
	if err != nil {
		env.logger().Warn("log:parsedAsN3 parse failed", "error", err)
		return nil, ErrNoBinding
	}
	return f, nil
}

func n3String(_ *Env, subject term.Term) (term.Term, error) {
	f, err := asFormula(LogN3String, subject)
	if err != nil {
		return nil, err
	}
	return term.NewString(f.String()), nil
}

func rawType(_ *Env, subject term.Term) (term.Term, error) {
	switch subject.(type) {
	case *term.Formula:
		return LogFormula, nil
	case term.Literal:
		return LogLiteral, nil
	case term.List:
		return LogList, nil
	}
	return LogOther, nil
}
