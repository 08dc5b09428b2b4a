package term

import (
	"strings"
)

// List is an ordered, immutable sequence of terms.
//
// A List reconstructed from a first/rest chain remembers the chain root so the
// writer can round-trip the original blank node. Every derived list (Set, Push,
// Pop, Slice, Concat) drops that identity.
type List struct {
	members []Term
	root    *BlankNode
}

func (List) termNode() {}

func (List) Kind() Kind { return KindList }

// NewList creates a List from members. Nested members are kept as given.
func NewList(members ...Term) List {
	cp := make([]Term, len(members))
	copy(cp, members)
	return List{members: cp}
}

// ListWithRoot creates a List that remembers the blank node heading its chain.
func ListWithRoot(root BlankNode, members ...Term) List {
	l := NewList(members...)
	l.root = &root
	return l
}

// Key returns "(k1 k2 ...)" or the rdf:nil key for the empty list.
func (l List) Key() string {
	if len(l.members) == 0 {
		return RDFNil.Key()
	}
	var b strings.Builder
	b.WriteByte('(')
	for i, m := range l.members {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(m.Key())
	}
	b.WriteByte(')')
	return b.String()
}

func (l List) String() string {
	if len(l.members) == 0 {
		return "()"
	}
	parts := make([]string, len(l.members))
	for i, m := range l.members {
		parts[i] = m.String()
	}
	return "(" + strings.Join(parts, " ") + ")"
}

// Len returns the number of members.
func (l List) Len() int { return len(l.members) }

// At returns the i-th member.
func (l List) At(i int) Term { return l.members[i] }

// Members returns a copy of the members.
func (l List) Members() []Term {
	cp := make([]Term, len(l.members))
	copy(cp, l.members)
	return cp
}

// Root returns the chain root this list was materialized from, if any.
func (l List) Root() (BlankNode, bool) {
	if l.root == nil {
		return BlankNode{}, false
	}
	return *l.root, true
}

// Set returns a copy with member i replaced.
func (l List) Set(i int, t Term) List {
	out := NewList(l.members...)
	out.members[i] = t
	return out
}

// Push returns a copy with t appended.
func (l List) Push(t Term) List {
	out := NewList(l.members...)
	out.members = append(out.members, t)
	return out
}

// Pop returns a copy without the last member, and that member.
// Popping an empty list returns the empty list and nil.
func (l List) Pop() (List, Term) {
	if len(l.members) == 0 {
		return NewList(), nil
	}
	n := len(l.members) - 1
	return NewList(l.members[:n]...), l.members[n]
}

// Slice returns the members in [from, to) as a new list.
func (l List) Slice(from, to int) List {
	return NewList(l.members[from:to]...)
}

// Concat returns the concatenation of lists.
func Concat(lists ...List) List {
	var members []Term
	for _, l := range lists {
		members = append(members, l.members...)
	}
	return NewList(members...)
}

// Chain expands the list into first/rest statements headed by root.
// Nested lists are expanded too; blank nodes for the tail cells come from next.
// The empty list yields no statements; its head is rdf:nil.
func (l List) Chain(root BlankNode, next func() BlankNode) (Term, []Statement) {
	if len(l.members) == 0 {
		return RDFNil, nil
	}
	var out []Statement
	cell := root
	for i, m := range l.members {
		obj := m
		if nested, ok := m.(List); ok {
			head, stmts := nested.Chain(next(), next)
			obj = head
			out = append(out, stmts...)
		}
		out = append(out, Statement{Subject: cell, Predicate: RDFFirst, Object: obj})
		if i == len(l.members)-1 {
			out = append(out, Statement{Subject: cell, Predicate: RDFRest, Object: RDFNil})
			break
		}
		rest := next()
		out = append(out, Statement{Subject: cell, Predicate: RDFRest, Object: rest})
		cell = rest
	}
	return root, out
}
