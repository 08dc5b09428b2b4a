package harness

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/n3reason/internal/term"
)

// DefaultPrefixes are always in scope. A scenario may override any of them.
var DefaultPrefixes = map[string]string{
	"":       "http://example.org/#",
	"rdf":    term.RDFNamespace,
	"rdfs":   term.RDFSNamespace,
	"xsd":    term.XSDNamespace,
	"log":    term.LogNamespace,
	"math":   term.MathNamespace,
	"string": term.StringNamespace,
	"list":   term.ListNamespace,
	"time":   term.TimeNamespace,
}

// TermError reports a token that does not parse, with its YAML position.
type TermError struct {
	Line    int
	Column  int
	Token   string
	Message string
}

func (e *TermError) Error() string {
	return fmt.Sprintf("line %d:%d: %q: %s", e.Line, e.Column, e.Token, e.Message)
}

// termParser turns YAML nodes into terms. YAML quoting only protects the
// token; a string literal carries its own double quotes.
//
//	?x                universal variable
//	_:b               blank node
//	<http://...>      IRI
//	prefix:local      prefixed name ("a" is rdf:type)
//	'"text"'          plain string literal
//	'"text"@en'       literal with language tag
//	'"1"^^xsd:int'    typed literal
//	34, 1.5, 1e3      integer, decimal, double
//	true              boolean
//	[a, b]            list
//	{graph: [...]}    formula
type termParser struct {
	prefixes map[string]string
}

func newTermParser(prefixes map[string]string) *termParser {
	p := &termParser{prefixes: make(map[string]string, len(DefaultPrefixes)+len(prefixes))}
	for k, v := range DefaultPrefixes {
		p.prefixes[k] = v
	}
	for k, v := range prefixes {
		p.prefixes[k] = v
	}
	return p
}

func nodeError(n *yaml.Node, msg string, args ...any) *TermError {
	return &TermError{Line: n.Line, Column: n.Column, Token: n.Value, Message: fmt.Sprintf(msg, args...)}
}

func (p *termParser) term(n *yaml.Node) (term.Term, error) {
	switch n.Kind {
	case yaml.ScalarNode:
		return p.scalar(n)
	case yaml.SequenceNode:
		members := make([]term.Term, len(n.Content))
		for i, c := range n.Content {
			m, err := p.term(c)
			if err != nil {
				return nil, err
			}
			members[i] = m
		}
		return term.NewList(members...), nil
	case yaml.MappingNode:
		if len(n.Content) != 2 || n.Content[0].Value != "graph" {
			return nil, nodeError(n, "a mapping term must be {graph: [...]}")
		}
		return p.formula(n.Content[1])
	case yaml.AliasNode:
		return p.term(n.Alias)
	}
	return nil, nodeError(n, "unsupported YAML node")
}

func (p *termParser) formula(n *yaml.Node) (*term.Formula, error) {
	if n.Kind != yaml.SequenceNode {
		return nil, nodeError(n, "graph must be a list of triples")
	}
	stmts := make([]term.Statement, 0, len(n.Content))
	for _, c := range n.Content {
		st, err := p.statement(c)
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, st)
	}
	return term.NewFormula(nil, stmts...)
}

func (p *termParser) statement(n *yaml.Node) (term.Statement, error) {
	if n.Kind != yaml.SequenceNode || len(n.Content) != 3 {
		return term.Statement{}, nodeError(n, "a triple is a sequence of three terms")
	}
	var parts [3]term.Term
	for i, c := range n.Content {
		t, err := p.term(c)
		if err != nil {
			return term.Statement{}, err
		}
		parts[i] = t
	}
	return term.Triple(parts[0], parts[1], parts[2]), nil
}

func (p *termParser) scalar(n *yaml.Node) (term.Term, error) {
	switch n.ShortTag() {
	case "!!int":
		lit := term.NewTyped(strings.ReplaceAll(n.Value, "_", ""), term.XSDInteger)
		num, err := lit.Number()
		if err != nil {
			return nil, nodeError(n, "bad integer")
		}
		return num.Literal(), nil
	case "!!float":
		return p.float(n)
	case "!!bool":
		b, err := strconv.ParseBool(n.Value)
		if err != nil {
			// YAML 1.1 spellings such as "yes" are left alone by ParseBool
			return nil, nodeError(n, "bad boolean")
		}
		return term.NewBool(b), nil
	case "!!null":
		return nil, nodeError(n, "empty term")
	}
	return p.token(n, n.Value)
}

func (p *termParser) float(n *yaml.Node) (term.Term, error) {
	lex := n.Value
	switch strings.ToLower(lex) {
	case ".inf", "+.inf":
		return term.NewTyped("INF", term.XSDDouble), nil
	case "-.inf":
		return term.NewTyped("-INF", term.XSDDouble), nil
	case ".nan":
		return term.NewTyped("NaN", term.XSDDouble), nil
	}
	dt := term.XSDDecimal
	if strings.ContainsAny(lex, "eE") {
		dt = term.XSDDouble
	}
	num, err := term.NewTyped(lex, dt).Number()
	if err != nil {
		return nil, nodeError(n, "bad number")
	}
	return num.Literal(), nil
}

func (p *termParser) token(n *yaml.Node, tok string) (term.Term, error) {
	switch {
	case tok == "":
		return nil, nodeError(n, "empty term")
	case tok == "a":
		return term.RDFType, nil
	case tok == "=>":
		return term.LogImplies, nil
	case strings.HasPrefix(tok, "?"):
		if len(tok) == 1 {
			return nil, nodeError(n, "variable needs a name")
		}
		return term.NewUniversal(tok[1:]), nil
	case strings.HasPrefix(tok, "_:"):
		if len(tok) == 2 {
			return nil, nodeError(n, "blank node needs a label")
		}
		return term.BlankNode{ID: tok[2:]}, nil
	case strings.HasPrefix(tok, "<"):
		if !strings.HasSuffix(tok, ">") {
			return nil, nodeError(n, "unterminated IRI")
		}
		return term.IRI(tok[1 : len(tok)-1]), nil
	case strings.HasPrefix(tok, `"`):
		return p.literal(n, tok)
	}

	prefix, local, ok := strings.Cut(tok, ":")
	if !ok {
		return nil, nodeError(n, "not a term; write string literals as '\"text\"'")
	}
	ns, known := p.prefixes[prefix]
	if !known {
		return nil, nodeError(n, "unknown prefix %q", prefix)
	}
	return term.IRI(ns + local), nil
}

func (p *termParser) literal(n *yaml.Node, tok string) (term.Term, error) {
	end := strings.LastIndex(tok, `"`)
	if end == 0 {
		return nil, nodeError(n, "unterminated literal")
	}
	value, err := strconv.Unquote(tok[:end+1])
	if err != nil {
		return nil, nodeError(n, "bad literal escape")
	}
	rest := tok[end+1:]
	switch {
	case rest == "":
		return term.NewString(value), nil
	case strings.HasPrefix(rest, "@") && len(rest) > 1:
		return term.NewLangString(value, rest[1:]), nil
	case strings.HasPrefix(rest, "^^"):
		dt, err := p.token(n, rest[2:])
		if err != nil {
			return nil, err
		}
		iri, ok := dt.(term.IRI)
		if !ok {
			return nil, nodeError(n, "datatype must be an IRI")
		}
		return term.NewTyped(value, iri), nil
	}
	return nil, nodeError(n, "unexpected %q after literal", rest)
}
