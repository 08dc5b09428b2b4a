package eventlog

import (
	"context"
	"fmt"
)

// RunDiff lists the derivations two runs do not share, by statement ID.
type RunDiff struct {
	Base      string       `json:"base"`
	Other     string       `json:"other"`
	OnlyBase  []Derivation `json:"only_base"`
	OnlyOther []Derivation `json:"only_other"`
}

// Same reports whether both runs derived the same statements.
func (d RunDiff) Same() bool {
	return len(d.OnlyBase) == 0 && len(d.OnlyOther) == 0
}

// CompareRuns diffs what two runs derived. Rounds are ignored: a statement
// derived by both runs matches even if it appeared in different rounds.
//
// Runs made with sequential blank node IDs are comparable statement for
// statement; runs with random IDs differ wherever a rule invents nodes.
func (l *Log) CompareRuns(ctx context.Context, base, other string) (RunDiff, error) {
	diff := RunDiff{Base: base, Other: other, OnlyBase: []Derivation{}, OnlyOther: []Derivation{}}

	for _, id := range []string{base, other} {
		if _, err := l.ReadRun(ctx, id); err != nil {
			return diff, fmt.Errorf("compare runs: %w", err)
		}
	}

	a, err := l.ReadDerivations(ctx, base)
	if err != nil {
		return diff, fmt.Errorf("compare runs: %w", err)
	}
	b, err := l.ReadDerivations(ctx, other)
	if err != nil {
		return diff, fmt.Errorf("compare runs: %w", err)
	}

	diff.OnlyBase = missing(a, b)
	diff.OnlyOther = missing(b, a)
	return diff, nil
}

// missing returns the entries of from whose statement is absent in in,
// keeping from's order.
func missing(from, in []Derivation) []Derivation {
	seen := make(map[string]bool, len(in))
	for _, d := range in {
		seen[d.StatementID] = true
	}
	out := []Derivation{}
	for _, d := range from {
		if !seen[d.StatementID] {
			out = append(out, d)
		}
	}
	return out
}
