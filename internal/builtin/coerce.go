package builtin

import (
	"github.com/roach88/n3reason/internal/term"
)

func asList(name term.IRI, t term.Term) (term.List, error) {
	if l, ok := term.AsList(t); ok {
		return l, nil
	}
	return term.List{}, &TypeError{Builtin: name, Operand: t, Want: "a list"}
}

func asNumber(name term.IRI, t term.Term) (term.Number, error) {
	l, ok := t.(term.Literal)
	if !ok {
		return term.Number{}, &TypeError{Builtin: name, Operand: t, Want: "a numeric literal"}
	}
	n, err := l.Number()
	if err != nil {
		return term.Number{}, &TypeError{Builtin: name, Operand: t, Want: "a numeric literal", Err: err}
	}
	return n, nil
}

// sameNumber reports whether a and b are both typed numeric literals of
// equal value. Plain strings never qualify.
func sameNumber(a, b term.Term) bool {
	x, ok := typedNumber(a)
	if !ok {
		return false
	}
	y, ok := typedNumber(b)
	return ok && compareNumbers(x, y) == 0
}

func typedNumber(t term.Term) (term.Number, bool) {
	l, ok := t.(term.Literal)
	if !ok || l.Datatype == "" || l.Datatype == term.XSDString {
		return term.Number{}, false
	}
	n, err := l.Number()
	return n, err == nil
}

func asNumbers(name term.IRI, t term.Term) ([]term.Number, error) {
	l, err := asList(name, t)
	if err != nil {
		return nil, err
	}
	out := make([]term.Number, l.Len())
	for i := range l.Len() {
		n, err := asNumber(name, l.At(i))
		if err != nil {
			return nil, err
		}
		out[i] = n
	}
	return out, nil
}

// asString accepts literals and IRIs; the IRI's string is its lexical form.
func asString(name term.IRI, t term.Term) (string, error) {
	switch v := t.(type) {
	case term.Literal:
		return v.Value, nil
	case term.IRI:
		return string(v), nil
	}
	return "", &TypeError{Builtin: name, Operand: t, Want: "a string"}
}

func asStrings(name term.IRI, t term.Term) ([]string, error) {
	l, err := asList(name, t)
	if err != nil {
		return nil, err
	}
	out := make([]string, l.Len())
	for i := range l.Len() {
		s, err := asString(name, l.At(i))
		if err != nil {
			return nil, err
		}
		out[i] = s
	}
	return out, nil
}

func asFormula(name term.IRI, t term.Term) (*term.Formula, error) {
	if f, ok := t.(*term.Formula); ok {
		return f, nil
	}
	return nil, &TypeError{Builtin: name, Operand: t, Want: "a formula"}
}
