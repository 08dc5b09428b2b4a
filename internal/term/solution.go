package term

import (
	"maps"
	"slices"
)

// Solution maps variable names to bound terms. Treat it as immutable:
// With and Merge return copies.
type Solution map[string]Term

// Get returns the binding for name.
func (s Solution) Get(name string) (Term, bool) {
	t, ok := s[name]
	return t, ok
}

// With returns a copy of s with name bound to t.
func (s Solution) With(name string, t Term) Solution {
	out := make(Solution, len(s)+1)
	maps.Copy(out, s)
	out[name] = t
	return out
}

// Names returns the bound names in sorted order.
func (s Solution) Names() []string {
	names := slices.Collect(maps.Keys(s))
	slices.Sort(names)
	return names
}

// Compatible reports whether s and o agree on every shared name.
func (s Solution) Compatible(o Solution) bool {
	for name, t := range s {
		if u, ok := o[name]; ok && !Equal(t, u) {
			return false
		}
	}
	return true
}

// Merge returns the union of s and o. Callers check Compatible first.
func (s Solution) Merge(o Solution) Solution {
	out := make(Solution, len(s)+len(o))
	maps.Copy(out, s)
	maps.Copy(out, o)
	return out
}

// Project returns a copy without existential ("$"-prefixed) names.
func (s Solution) Project() Solution {
	out := make(Solution, len(s))
	for name, t := range s {
		if !IsExistentialName(name) {
			out[name] = t
		}
	}
	return out
}

// Unbound reports whether any bound value is itself a variable.
func (s Solution) Unbound() bool {
	for _, t := range s {
		if !IsGround(t) {
			return true
		}
	}
	return false
}

// Solutions is a deduplicated, ordered set of solutions.
type Solutions []Solution

// Unit returns the set holding one empty solution, the identity for Join.
func Unit() Solutions {
	return Solutions{Solution{}}
}

// NewSolutions builds a deduplicated set preserving first-seen order.
func NewSolutions(sols ...Solution) Solutions {
	out := make(Solutions, 0, len(sols))
	seen := make(map[string]struct{}, len(sols))
	for _, s := range sols {
		h := BindingHash(s)
		if _, dup := seen[h]; dup {
			continue
		}
		seen[h] = struct{}{}
		out = append(out, s)
	}
	return out
}

// Join is the relational join of a and b on shared variable names.
func Join(a, b Solutions) Solutions {
	var out []Solution
	for _, x := range a {
		for _, y := range b {
			if x.Compatible(y) {
				out = append(out, x.Merge(y))
			}
		}
	}
	return NewSolutions(out...)
}

// Project drops existential names from every solution.
func (ss Solutions) Project() Solutions {
	out := make([]Solution, len(ss))
	for i, s := range ss {
		out[i] = s.Project()
	}
	return NewSolutions(out...)
}

// Values returns the distinct bindings of name across the set.
func (ss Solutions) Values(name string) []Term {
	var out []Term
	seen := map[string]bool{}
	for _, s := range ss {
		if t, ok := s[name]; ok && !seen[t.Key()] {
			seen[t.Key()] = true
			out = append(out, t)
		}
	}
	return out
}
