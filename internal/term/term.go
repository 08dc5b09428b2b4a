package term

import (
	"strconv"
	"strings"
)

// Kind identifies the variant of a Term.
type Kind int

const (
	KindIRI Kind = iota
	KindLiteral
	KindBlankNode
	KindVariable
	KindList
	KindFormula
)

// String returns the variant name.
func (k Kind) String() string {
	switch k {
	case KindIRI:
		return "iri"
	case KindLiteral:
		return "literal"
	case KindBlankNode:
		return "blank"
	case KindVariable:
		return "variable"
	case KindList:
		return "list"
	case KindFormula:
		return "formula"
	default:
		return "unknown"
	}
}

// Term is a sealed interface over the N3 term variants.
// Only IRI, Literal, BlankNode, Variable, List and *Formula implement it.
type Term interface {
	termNode() // Sealed

	// Kind reports the variant.
	Kind() Kind

	// Key is the canonical structural key. Two terms are equal iff their keys are equal.
	Key() string

	// String renders the term in N3-like syntax for logs and output.
	String() string
}

// IRI is an absolute resource identifier.
type IRI string

func (IRI) termNode() {}

func (IRI) Kind() Kind { return KindIRI }

func (i IRI) Key() string {
	return "<" + string(i) + ">"
}

func (i IRI) String() string { return i.Key() }

// Literal is a lexical value with an optional datatype or language tag.
// A zero Datatype means xsd:string (or rdf:langString when Lang is set).
type Literal struct {
	Value    string
	Datatype IRI
	Lang     string
}

func (Literal) termNode() {}

func (Literal) Kind() Kind { return KindLiteral }

func (l Literal) Key() string {
	q := strconv.Quote(l.Value)
	if l.Lang != "" {
		return q + "@" + strings.ToLower(l.Lang)
	}
	if l.Datatype != "" && l.Datatype != XSDString {
		return q + "^^" + l.Datatype.Key()
	}
	return q
}

func (l Literal) String() string {
	switch l.Datatype {
	case XSDInteger, XSDDecimal, XSDBoolean:
		return l.Value
	}
	return l.Key()
}

// NewString creates a plain string literal.
func NewString(s string) Literal {
	return Literal{Value: s}
}

// NewLangString creates a language-tagged string literal.
func NewLangString(s, lang string) Literal {
	return Literal{Value: s, Lang: lang}
}

// NewTyped creates a literal with an explicit datatype.
func NewTyped(s string, datatype IRI) Literal {
	return Literal{Value: s, Datatype: datatype}
}

// NewBool creates an xsd:boolean literal.
func NewBool(b bool) Literal {
	return Literal{Value: strconv.FormatBool(b), Datatype: XSDBoolean}
}

// BlankNode is an anonymous resource identified by an opaque ID.
type BlankNode struct {
	ID string
}

func (BlankNode) termNode() {}

func (BlankNode) Kind() Kind { return KindBlankNode }

func (b BlankNode) Key() string { return "_:" + b.ID }

func (b BlankNode) String() string { return b.Key() }

// ExistentialPrefix marks formula-scoped existential variable names.
const ExistentialPrefix = "$"

// Variable is a placeholder bound during matching.
//
// Universal variables range over the whole reasoning process. Existential variables
// originate from blank nodes inside a formula and are scoped to it.
type Variable struct {
	Name          string
	Existential   bool
	Distinguished bool
}

func (Variable) termNode() {}

func (Variable) Kind() Kind { return KindVariable }

func (v Variable) Key() string { return "?" + v.Name }

func (v Variable) String() string { return v.Key() }

// NewUniversal creates a distinguished universal variable.
func NewUniversal(name string) Variable {
	return Variable{Name: name, Distinguished: true}
}

// NewExistential creates a non-distinguished existential variable local to scope.
func NewExistential(scope, label string) Variable {
	return Variable{Name: ExistentialPrefix + scope + "_" + label, Existential: true}
}

// IsExistentialName reports whether a binding name belongs to an existential variable.
func IsExistentialName(name string) bool {
	return strings.HasPrefix(name, ExistentialPrefix)
}

// Equal reports structural equality.
func Equal(a, b Term) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Key() == b.Key()
}

// HasVariable reports whether t is or contains a Variable at any depth.
func HasVariable(t Term) bool {
	switch v := t.(type) {
	case Variable:
		return true
	case List:
		for _, m := range v.members {
			if HasVariable(m) {
				return true
			}
		}
	case *Formula:
		for _, st := range v.stmts {
			if !st.Ground() {
				return true
			}
		}
	}
	return false
}

// IsGround reports whether t holds no free variable. Lists are searched;
// quoted formulae are opaque, since their variables are quantified inside.
func IsGround(t Term) bool {
	switch v := t.(type) {
	case Variable:
		return false
	case List:
		for _, m := range v.members {
			if !IsGround(m) {
				return false
			}
		}
	}
	return true
}

// Variables returns the distinct variables appearing in t, in first-seen order.
func Variables(t Term) []Variable {
	var out []Variable
	seen := map[string]bool{}
	var walk func(Term)
	walk = func(t Term) {
		switch v := t.(type) {
		case Variable:
			if !seen[v.Name] {
				seen[v.Name] = true
				out = append(out, v)
			}
		case List:
			for _, m := range v.members {
				walk(m)
			}
		case *Formula:
			for _, st := range v.stmts {
				walk(st.Subject)
				walk(st.Predicate)
				walk(st.Object)
			}
		}
	}
	walk(t)
	return out
}
