package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/n3reason/internal/analysis"
	"github.com/roach88/n3reason/internal/config"
	"github.com/roach88/n3reason/internal/harness"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid    bool              `json:"valid"`
	Files    int               `json:"files"`
	Errors   []ValidationError `json:"errors,omitempty"`
	Findings []RuleFinding     `json:"findings,omitempty"`
}

// RuleFinding is a recursion report for one scenario's rules.
type RuleFinding struct {
	Path    string   `json:"path"`
	Rules   []string `json:"rules"` // cycle: ["rule-1", "rule-2", "rule-1"]
	Level   string   `json:"level"`
	Message string   `json:"message"`
}

// ValidationError is one file that failed to load.
type ValidationError struct {
	Path    string `json:"path"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// String renders the text form.
func (r ValidationResult) String() string {
	var b strings.Builder
	if r.Valid {
		fmt.Fprintf(&b, "✓ %d file(s) valid", r.Files)
	} else {
		fmt.Fprintf(&b, "✗ %d of %d file(s) invalid", len(r.Errors), r.Files)
	}
	for _, e := range r.Errors {
		fmt.Fprintf(&b, "\n  [%s] %s: %s", e.Code, e.Path, e.Message)
	}
	for _, f := range r.Findings {
		fmt.Fprintf(&b, "\n  %s %s: %s", f.Level, f.Path, f.Message)
	}
	return b.String()
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <scenarios>",
		Short: "Validate scenarios and config without reasoning",
		Long: `Parse scenario files and the --config file without running the reasoner.

Checks YAML structure, unknown fields, term syntax and prefixes, and
CUE schema conformance. Recursive rules are reported as findings: "info"
for recursion that only relates existing nodes, "warning" when a rule in
the cycle invents nodes and may never reach a fixpoint. Findings do not
fail validation.

Example:
  n3reason validate ./scenarios
  n3reason validate --config ./n3reason.cue ./scenarios/ancestors.yaml`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	paths, err := harness.FindScenarios(path)
	if err != nil {
		var nf *harness.ScenarioNotFoundError
		if errors.As(err, &nf) {
			_ = formatter.Error(ErrCodeNotFound, err.Error(), nil)
			return WrapExitError(ExitCommandError, "scenario path not found", err)
		}
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to find scenarios", err)
	}

	result := ValidationResult{Valid: true}
	fail := func(p, code string, err error) {
		result.Valid = false
		result.Errors = append(result.Errors, ValidationError{Path: p, Code: code, Message: err.Error()})
	}

	if opts.Config != "" {
		result.Files++
		formatter.VerboseLog("Validating config: %s", opts.Config)
		if _, err := config.Load(opts.Config); err != nil {
			fail(opts.Config, ErrCodeInvalidConfig, err)
		}
	}
	for _, p := range paths {
		result.Files++
		formatter.VerboseLog("Validating scenario: %s", p)
		findings, err := validateScenario(p)
		if err != nil {
			fail(p, ErrCodeInvalidScenario, err)
			continue
		}
		for _, f := range findings {
			result.Findings = append(result.Findings, RuleFinding{
				Path:    p,
				Rules:   f.Path,
				Level:   f.Level,
				Message: f.Message,
			})
		}
	}

	if err := formatter.Success(result); err != nil {
		return err
	}
	if !result.Valid {
		return NewExitError(ExitFailure, "validation failed")
	}
	return nil
}

// validateScenario loads a scenario, parses its terms and analyzes its
// rules for recursion.
func validateScenario(path string) ([]analysis.CycleWarning, error) {
	s, err := harness.LoadScenario(path)
	if err != nil {
		return nil, err
	}
	input, err := s.Input()
	if err != nil {
		return nil, err
	}
	return analysis.AnalyzeCycles(analysis.Rules(input)), nil
}
