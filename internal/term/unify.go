package term

// ListResolver materializes list-shaped terms (first/rest chain roots, rdf:nil)
// into List values. Implemented by the store.
type ListResolver interface {
	TryList(t Term) Term
}

// Substitute replaces bound variables in t, recursing into lists and formulae
// at any depth.
func Substitute(t Term, sol Solution) Term {
	if len(sol) == 0 {
		return t
	}
	switch v := t.(type) {
	case Variable:
		if bound, ok := sol[v.Name]; ok {
			return bound
		}
		return v
	case List:
		if len(Variables(v)) == 0 {
			return v
		}
		members := make([]Term, len(v.members))
		for i, m := range v.members {
			members[i] = Substitute(m, sol)
		}
		return NewList(members...)
	case *Formula:
		if len(Variables(v)) == 0 {
			return v
		}
		out := &Formula{graph: v.graph}
		for _, st := range v.stmts {
			out.append(SubstituteStatement(st, sol))
		}
		return out
	default:
		return t
	}
}

// SubstituteStatement applies Substitute to each position.
func SubstituteStatement(st Statement, sol Solution) Statement {
	out := Statement{
		Subject:   Substitute(st.Subject, sol),
		Predicate: Substitute(st.Predicate, sol),
		Object:    Substitute(st.Object, sol),
		Graph:     st.Graph,
	}
	return out
}

// ToExistential replaces BlankNode descendants of t with existential variables
// local to scope. Quoted formulae are left alone: their blank nodes belong to
// their own scope and are converted when that formula is compiled.
func ToExistential(t Term, scope string) Term {
	switch v := t.(type) {
	case BlankNode:
		return NewExistential(scope, v.ID)
	case List:
		if !hasBlank(v) {
			return v
		}
		members := make([]Term, len(v.members))
		for i, m := range v.members {
			members[i] = ToExistential(m, scope)
		}
		return NewList(members...)
	default:
		return t
	}
}

func hasBlank(l List) bool {
	for _, m := range l.members {
		switch v := m.(type) {
		case BlankNode:
			return true
		case List:
			if hasBlank(v) {
				return true
			}
		}
	}
	return false
}

// Unify matches pattern against value, extending sol. Variables in pattern bind;
// everything else compares structurally. Chain roots in value are materialized
// through r when pattern expects a list. r may be nil.
func Unify(pattern, value Term, sol Solution, r ListResolver) (Solution, bool) {
	switch p := pattern.(type) {
	case Variable:
		if bound, ok := sol[p.Name]; ok {
			return Unify(bound, value, sol, r)
		}
		if r != nil {
			value = r.TryList(value)
		}
		return sol.With(p.Name, value), true

	case List:
		l, ok := asList(value, r)
		if !ok || l.Len() != p.Len() {
			return nil, false
		}
		cur := sol
		for i, m := range p.members {
			next, ok := Unify(m, l.members[i], cur, r)
			if !ok {
				return nil, false
			}
			cur = next
		}
		return cur, true

	case *Formula:
		f, ok := value.(*Formula)
		if !ok {
			return nil, false
		}
		if !HasVariable(p) {
			return sol, p.Key() == f.Key()
		}
		if p.Len() != f.Len() {
			return nil, false
		}
		return unifyStatements(p.stmts, f.stmts, make([]bool, len(f.stmts)), sol, r)

	default:
		if l, ok := value.(List); ok && pattern.Kind() == KindIRI {
			return sol, Equal(pattern, l)
		}
		if Equal(pattern, value) {
			return sol, true
		}
		if r != nil && pattern.Kind() == KindBlankNode {
			// a chain root in the pattern matches the same list stored natively
			if l, ok := r.TryList(pattern).(List); ok {
				return Unify(l, value, sol, r)
			}
		}
		return nil, false
	}
}

// UnifyStatement unifies the three triple positions of pattern with value.
func UnifyStatement(pattern, value Statement, sol Solution, r ListResolver) (Solution, bool) {
	cur, ok := Unify(pattern.Subject, value.Subject, sol, r)
	if !ok {
		return nil, false
	}
	if cur, ok = Unify(pattern.Predicate, value.Predicate, cur, r); !ok {
		return nil, false
	}
	return Unify(pattern.Object, value.Object, cur, r)
}

// unifyStatements assigns each pattern statement to a distinct value statement,
// backtracking over choices. Returns the first consistent assignment.
func unifyStatements(patterns, values []Statement, used []bool, sol Solution, r ListResolver) (Solution, bool) {
	if len(patterns) == 0 {
		return sol, true
	}
	for i, v := range values {
		if used[i] {
			continue
		}
		next, ok := UnifyStatement(patterns[0], v, sol, r)
		if !ok {
			continue
		}
		used[i] = true
		if out, ok := unifyStatements(patterns[1:], values, used, next, r); ok {
			return out, true
		}
		used[i] = false
	}
	return nil, false
}

func asList(t Term, r ListResolver) (List, bool) {
	if r != nil {
		t = r.TryList(t)
	}
	switch v := t.(type) {
	case List:
		return v, true
	case IRI:
		if v == RDFNil {
			return NewList(), true
		}
	}
	return List{}, false
}

// AsList returns t as a List when it is one (or rdf:nil), without store access.
func AsList(t Term) (List, bool) {
	return asList(t, nil)
}
