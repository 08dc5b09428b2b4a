package harness

import (
	"github.com/roach88/n3reason/internal/reasoner"
)

// Result is the outcome of a scenario run.
type Result struct {
	// Scenario names the scenario that produced this result.
	Scenario string `json:"scenario"`

	// Pass is true when every expectation held.
	Pass bool `json:"pass"`

	// Rounds and Added come from the reasoner.
	Rounds int `json:"rounds"`
	Added  int `json:"added"`

	// Conclusions renders the closure, one statement per entry, ordered by key.
	Conclusions []string `json:"conclusions"`

	// Output is the log:outputString collation.
	Output string `json:"output,omitempty"`

	// Errors holds failed expectations. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a passing result from a reasoner run.
func NewResult(name string, res *reasoner.Result) *Result {
	return &Result{
		Scenario:    name,
		Pass:        true,
		Rounds:      res.Rounds,
		Added:       res.Added,
		Conclusions: render(res.Conclusions()),
		Output:      res.Strings(),
		Errors:      []string{},
	}
}

// AddError records a failed expectation and marks the result as failed.
func (r *Result) AddError(err error) {
	r.Errors = append(r.Errors, err.Error())
	r.Pass = false
}
