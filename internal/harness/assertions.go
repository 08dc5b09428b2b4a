package harness

import (
	"fmt"
	"strings"

	"github.com/roach88/n3reason/internal/reasoner"
	"github.com/roach88/n3reason/internal/store"
	"github.com/roach88/n3reason/internal/term"
)

// Assertion types.
const (
	AssertExpect = "expect"
	AssertAbsent = "absent"
	AssertOutput = "output"
	AssertError  = "error"
)

// AssertionError is returned when an expectation fails.
// It includes the conclusions to help debug the failure.
type AssertionError struct {
	Type        string   // Assertion type for categorization
	Expected    string   // Human-readable expected outcome
	Actual      string   // Human-readable actual outcome
	Conclusions []string // Closure for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Conclusions) > 0 {
		fmt.Fprintf(&buf, "\nConclusions:\n")
		for i, c := range e.Conclusions {
			fmt.Fprintf(&buf, "  [%d] %s\n", i+1, c)
		}
	}
	return buf.String()
}

// evaluate checks expect, absent and output against the run.
func (h *Harness) evaluate(res *reasoner.Result) []error {
	var errs []error
	conclusions := res.Conclusions()
	st, _, err := store.New().Merge(conclusions, store.Meta{})
	if err != nil {
		return []error{fmt.Errorf("conclusions: %w", err)}
	}
	rendered := render(conclusions)
	p := newTermParser(h.scenario.Prefixes)

	for _, tr := range h.scenario.Expect {
		// validated at load time
		pattern, _ := p.statement(tr.node)
		if len(st.Query(wildcards(pattern))) == 0 {
			errs = append(errs, &AssertionError{
				Type:        AssertExpect,
				Expected:    pattern.String(),
				Actual:      "no matching conclusion",
				Conclusions: rendered,
			})
		}
	}

	for _, tr := range h.scenario.Absent {
		pattern, _ := p.statement(tr.node)
		if hits := st.Query(wildcards(pattern)); len(hits) > 0 {
			errs = append(errs, &AssertionError{
				Type:     AssertAbsent,
				Expected: "no match for " + pattern.String(),
				Actual:   fmt.Sprintf("%d matching conclusions, first %s", len(hits), hits[0]),
			})
		}
	}

	if want := h.scenario.Output; want != nil {
		if got := res.Strings(); got != *want {
			errs = append(errs, &AssertionError{
				Type:     AssertOutput,
				Expected: fmt.Sprintf("%q", *want),
				Actual:   fmt.Sprintf("%q", got),
			})
		}
	}
	return errs
}

// wildcards turns blank nodes in a pattern into variables, so expectations
// can name derived nodes without knowing their IDs.
func wildcards(st term.Statement) term.Statement {
	const scope = "expect"
	return term.Statement{
		Subject:   term.ToExistential(st.Subject, scope),
		Predicate: term.ToExistential(st.Predicate, scope),
		Object:    term.ToExistential(st.Object, scope),
	}
}

func render(stmts []term.Statement) []string {
	out := make([]string, len(stmts))
	for i, st := range stmts {
		out[i] = st.String()
	}
	return out
}
