package harness

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// Snapshot renders a result for golden comparison: a header with the run
// counters, then the conclusions one per line in key order.
func Snapshot(result *Result) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n", result.Scenario)
	fmt.Fprintf(&b, "rounds: %d\n", result.Rounds)
	fmt.Fprintf(&b, "added: %d\n", result.Added)
	if result.Output != "" {
		fmt.Fprintf(&b, "output: %q\n", result.Output)
	}
	b.WriteString("\n")
	for _, c := range result.Conclusions {
		b.WriteString(c)
		b.WriteString("\n")
	}
	return []byte(b.String())
}

// RunWithGolden executes a scenario and compares its conclusions against a
// golden file stored in testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns an error if the scenario could not run. Expectation failures and
// golden mismatches fail t.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(context.Background(), scenario)
	if err != nil {
		return nil, err
	}
	for _, e := range result.Errors {
		t.Error(e)
	}
	AssertGolden(t, scenario.Name, result)
	return result, nil
}

// AssertGolden compares an existing result against its golden file without
// re-running the scenario.
func AssertGolden(t *testing.T, name string, result *Result) {
	t.Helper()

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, Snapshot(result))
}
