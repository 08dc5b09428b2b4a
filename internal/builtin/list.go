package builtin

import (
	"github.com/roach88/n3reason/internal/term"
)

// List relation identifiers.
const (
	ListAppend  = term.IRI(term.ListNamespace + "append")
	ListIn      = term.IRI(term.ListNamespace + "in")
	ListFirst   = term.IRI(term.ListNamespace + "first")
	ListLast    = term.IRI(term.ListNamespace + "last")
	ListMember  = term.IRI(term.ListNamespace + "member")
	ListLength  = term.IRI(term.ListNamespace + "length")
	ListIterate = term.IRI(term.ListNamespace + "iterate")
)

func registerList(r *Registry) {
	r.Register(ListAppend, NewFunction(ListAppend, listAppend))
	r.Register(ListFirst, NewFunction(ListFirst, listFirst))
	r.Register(ListLast, NewFunction(ListLast, listLast))
	r.Register(ListLength, NewFunction(ListLength, listLength))
	r.Register(ListMember, NewRelation(ListMember, InputSubject, listMember))
	r.Register(ListIn, NewRelation(ListIn, InputObject, listIn))
	r.Register(ListIterate, NewRelation(ListIterate, InputSubject, listIterate))
}

// listAppend concatenates a list of lists.
func listAppend(_ *Env, subject term.Term) (term.Term, error) {
	outer, err := asList(ListAppend, subject)
	if err != nil {
		return nil, err
	}
	parts := make([]term.List, outer.Len())
	for i := range outer.Len() {
		if parts[i], err = asList(ListAppend, outer.At(i)); err != nil {
			return nil, err
		}
	}
	return term.Concat(parts...), nil
}

func listFirst(_ *Env, subject term.Term) (term.Term, error) {
	l, err := asList(ListFirst, subject)
	if err != nil {
		return nil, err
	}
	if l.Len() == 0 {
		return nil, ErrNoBinding
	}
	return l.At(0), nil
}

func listLast(_ *Env, subject term.Term) (term.Term, error) {
	l, err := asList(ListLast, subject)
	if err != nil {
		return nil, err
	}
	if l.Len() == 0 {
		return nil, ErrNoBinding
	}
	return l.At(l.Len() - 1), nil
}

func listLength(_ *Env, subject term.Term) (term.Term, error) {
	l, err := asList(ListLength, subject)
	if err != nil {
		return nil, err
	}
	return term.NewInteger(int64(l.Len())), nil
}

// listMember enumerates each member of the subject list that unifies with the object.
func listMember(env *Env, subject, object term.Term, sol term.Solution) ([]term.Solution, error) {
	if _, ok := subject.(term.Variable); ok {
		return nil, nil
	}
	l, err := asList(ListMember, subject)
	if err != nil {
		return nil, err
	}
	return members(env, l, object, sol), nil
}

// listIn is list:member with the operands swapped.
func listIn(env *Env, subject, object term.Term, sol term.Solution) ([]term.Solution, error) {
	if _, ok := object.(term.Variable); ok {
		return nil, nil
	}
	l, err := asList(ListIn, object)
	if err != nil {
		return nil, err
	}
	return members(env, l, subject, sol), nil
}

func members(env *Env, l term.List, pattern term.Term, sol term.Solution) []term.Solution {
	var out []term.Solution
	for _, m := range l.Members() {
		if next, ok := env.unify(pattern, m, sol); ok {
			out = append(out, next)
		}
	}
	return out
}

// listIterate binds the object to (index member) pairs, zero-based.
func listIterate(env *Env, subject, object term.Term, sol term.Solution) ([]term.Solution, error) {
	if _, ok := subject.(term.Variable); ok {
		return nil, nil
	}
	l, err := asList(ListIterate, subject)
	if err != nil {
		return nil, err
	}
	var out []term.Solution
	for i, m := range l.Members() {
		pair := term.NewList(term.NewInteger(int64(i)), m)
		if next, ok := env.unify(object, pair, sol); ok {
			out = append(out, next)
		}
	}
	return out, nil
}
