package term

// Statement is a quad. Any term variant may appear in any position;
// literals and formulae are permitted as subjects.
type Statement struct {
	Subject   Term
	Predicate Term
	Object    Term
	Graph     Term // nil for the default graph
}

// Triple creates a statement in the default graph.
func Triple(s, p, o Term) Statement {
	return Statement{Subject: s, Predicate: p, Object: o}
}

// Complete reports whether all three triple positions are set.
func (st Statement) Complete() bool {
	return st.Subject != nil && st.Predicate != nil && st.Object != nil
}

// Ground reports whether no position is or contains a free Variable.
// Variables inside quoted formulae do not count.
func (st Statement) Ground() bool {
	if !st.Complete() {
		return false
	}
	return IsGround(st.Subject) && IsGround(st.Predicate) && IsGround(st.Object) &&
		(st.Graph == nil || IsGround(st.Graph))
}

// TripleKey is the canonical key of the triple, ignoring the graph name.
func (st Statement) TripleKey() string {
	return st.Subject.Key() + " " + st.Predicate.Key() + " " + st.Object.Key()
}

// Key is the canonical key of the quad.
func (st Statement) Key() string {
	if st.Graph == nil {
		return st.TripleKey()
	}
	return st.TripleKey() + " " + st.Graph.Key()
}

func (st Statement) String() string {
	return st.Subject.String() + " " + st.Predicate.String() + " " + st.Object.String() + " ."
}

// InGraph returns a copy of the statement placed in graph g.
func (st Statement) InGraph(g Term) Statement {
	st.Graph = g
	return st
}
