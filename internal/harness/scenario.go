package harness

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/roach88/n3reason/internal/term"
)

// Scenario defines a reasoning test: facts and rules in, expected
// conclusions out.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Prefixes adds to or overrides DefaultPrefixes.
	Prefixes map[string]string `yaml:"prefixes,omitempty"`

	// Now is the RFC 3339 instant time builtins read. Empty means testutil.Epoch.
	Now string `yaml:"now,omitempty"`

	// Options tune the reasoner.
	Options Options `yaml:"options,omitempty"`

	// Facts are asserted triples. Rules may also be written here as
	// [{graph: ...}, "=>", {graph: ...}].
	Facts []Triple `yaml:"facts"`

	// Rules are written as if/then pattern lists.
	Rules []Rule `yaml:"rules,omitempty"`

	// Documents back log:semantics: IRI → triples.
	Documents map[string][]Triple `yaml:"documents,omitempty"`

	// Expect lists patterns that must match the conclusions. Variables and
	// blank nodes match anything.
	Expect []Triple `yaml:"expect,omitempty"`

	// Absent lists patterns that must not match the conclusions.
	Absent []Triple `yaml:"absent,omitempty"`

	// Output is the expected log:outputString collation, if set.
	Output *string `yaml:"output,omitempty"`

	// Error is the expected run failure: "rounds_exceeded".
	Error string `yaml:"error,omitempty"`
}

// Options mirror the reasoner options.
type Options struct {
	Think       *bool `yaml:"think,omitempty"` // default true
	MaxRounds   int   `yaml:"max_rounds,omitempty"`
	NativeLists bool  `yaml:"native_lists,omitempty"`
}

// Rule is an if/then pair, asserted as {if} log:implies {then}.
type Rule struct {
	If   []Triple `yaml:"if"`
	Then []Triple `yaml:"then"`
}

// Triple holds three YAML term nodes. They are parsed once prefixes are known.
type Triple struct {
	node *yaml.Node
}

// UnmarshalYAML keeps the raw node.
func (t *Triple) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.SequenceNode || len(n.Content) != 3 {
		return fmt.Errorf("line %d: a triple is a sequence of three terms", n.Line)
	}
	t.node = n
	return nil
}

// Expected error values.
const (
	ErrorRoundsExceeded = "rounds_exceeded"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	// Strict field validation catches typos like "expects:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks that required fields are present and that every
// term parses.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(s.Facts) == 0 && len(s.Rules) == 0 {
		return fmt.Errorf("facts or rules are required")
	}
	if len(s.Expect) == 0 && len(s.Absent) == 0 && s.Output == nil && s.Error == "" {
		return fmt.Errorf("at least one of expect, absent, output or error is required")
	}
	if s.Options.MaxRounds < 0 {
		return fmt.Errorf("options.max_rounds must be non-negative")
	}
	switch s.Error {
	case "", ErrorRoundsExceeded:
	default:
		return fmt.Errorf("unknown error %q", s.Error)
	}
	if _, err := s.now(); err != nil {
		return err
	}
	for i, r := range s.Rules {
		if len(r.Then) == 0 {
			return fmt.Errorf("rules[%d]: then is required", i)
		}
	}
	if _, err := s.Input(); err != nil {
		return err
	}
	p := newTermParser(s.Prefixes)
	for name, list := range map[string][]Triple{"expect": s.Expect, "absent": s.Absent} {
		for i, tr := range list {
			if _, err := p.statement(tr.node); err != nil {
				return fmt.Errorf("%s[%d]: %w", name, i, err)
			}
		}
	}
	return nil
}

func (s *Scenario) now() (time.Time, error) {
	if s.Now == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, s.Now)
	if err != nil {
		return time.Time{}, fmt.Errorf("now: %w", err)
	}
	return t, nil
}

// Input returns the facts and rules as statements.
func (s *Scenario) Input() ([]term.Statement, error) {
	p := newTermParser(s.Prefixes)
	var out []term.Statement
	for i, tr := range s.Facts {
		st, err := p.statement(tr.node)
		if err != nil {
			return nil, fmt.Errorf("facts[%d]: %w", i, err)
		}
		out = append(out, st)
	}
	for i, r := range s.Rules {
		antecedent, err := p.triples(r.If)
		if err != nil {
			return nil, fmt.Errorf("rules[%d].if: %w", i, err)
		}
		consequent, err := p.triples(r.Then)
		if err != nil {
			return nil, fmt.Errorf("rules[%d].then: %w", i, err)
		}
		out = append(out, term.Triple(antecedent, term.LogImplies, consequent))
	}
	return out, nil
}

// document returns the formula behind a log:semantics IRI.
func (s *Scenario) document(iri term.IRI) (*term.Formula, bool, error) {
	for name, triples := range s.Documents {
		p := newTermParser(s.Prefixes)
		doc, err := p.token(&yaml.Node{Value: name}, name)
		if err != nil {
			return nil, false, err
		}
		if d, ok := doc.(term.IRI); !ok || d != iri {
			continue
		}
		f, err := p.triples(triples)
		return f, true, err
	}
	return nil, false, nil
}

func (p *termParser) triples(list []Triple) (*term.Formula, error) {
	stmts := make([]term.Statement, 0, len(list))
	for _, tr := range list {
		st, err := p.statement(tr.node)
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, st)
	}
	return term.NewFormula(nil, stmts...)
}
