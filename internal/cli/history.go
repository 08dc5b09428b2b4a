package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/n3reason/internal/eventlog"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Database string
}

// RunList is the text/JSON view of every recorded run.
type RunList struct {
	Runs []eventlog.Run `json:"runs"`
}

func (l RunList) String() string {
	if len(l.Runs) == 0 {
		return "No runs recorded."
	}
	var b strings.Builder
	for i, r := range l.Runs {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%s  %-9s  %s  rounds=%d added=%d", r.ID, r.Status, r.Scenario, r.Rounds, r.Added)
	}
	return b.String()
}

// RunTrace is one run with its derivations.
type RunTrace struct {
	Run         eventlog.Run          `json:"run"`
	Derivations []eventlog.Derivation `json:"derivations"`
}

func (t RunTrace) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Run %s (%s)\n", t.Run.ID, t.Run.Scenario)
	fmt.Fprintf(&b, "  status: %s  rounds: %d  added: %d\n", t.Run.Status, t.Run.Rounds, t.Run.Added)
	if t.Run.Error != "" {
		fmt.Fprintf(&b, "  error: %s\n", t.Run.Error)
	}
	round := 0
	for _, d := range t.Derivations {
		if d.Round != round {
			round = d.Round
			fmt.Fprintf(&b, "Round %d:\n", round)
		}
		fmt.Fprintf(&b, "  %s\n", d.Statement)
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// diffView renders a run comparison.
type diffView struct {
	eventlog.RunDiff
	Identical bool `json:"same"`
}

func (d diffView) String() string {
	if d.Identical {
		return fmt.Sprintf("✓ runs %s and %s derived the same statements", d.Base, d.Other)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "✗ runs %s and %s differ", d.Base, d.Other)
	for _, x := range d.OnlyBase {
		fmt.Fprintf(&b, "\n  - %s", x.Statement)
	}
	for _, x := range d.OnlyOther {
		fmt.Fprintf(&b, "\n  + %s", x.Statement)
	}
	return b.String()
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history [run-id [other-run-id]]",
		Short: "Inspect runs recorded with reason --db",
		Long: `Read the run log written by "n3reason reason --db".

With no arguments, lists every run. With one run ID, shows what each
round of that run derived. With two, compares what the runs derived.

Exit codes:
  0 - Success (two runs: they derived the same statements)
  1 - Two runs differ
  2 - Command error (missing database, unknown run, etc.)

Examples:
  n3reason history --db ./runs.db
  n3reason history --db ./runs.db 0190a6f2-...
  n3reason history --db ./runs.db --format json <run-a> <run-b>`,
		Args:          cobra.MaximumNArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runHistory(opts *HistoryOptions, args []string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	// Opening would create an empty database
	if _, err := os.Stat(opts.Database); err != nil {
		_ = formatter.Error(ErrCodeNotFound, fmt.Sprintf("database not found: %s", opts.Database), nil)
		return WrapExitError(ExitCommandError, "database not found", err)
	}
	runLog, err := eventlog.Open(opts.Database)
	if err != nil {
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer runLog.Close()

	ctx := cmd.Context()
	fail := func(err error) error {
		code := ErrCodeGeneric
		if errors.Is(err, eventlog.ErrRunNotFound) {
			code = ErrCodeNotFound
		}
		_ = formatter.Error(code, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to read history", err)
	}

	switch len(args) {
	case 0:
		runs, err := runLog.ListRuns(ctx)
		if err != nil {
			return fail(err)
		}
		return formatter.Success(RunList{Runs: runs})

	case 1:
		run, err := runLog.ReadRun(ctx, args[0])
		if err != nil {
			return fail(err)
		}
		ds, err := runLog.ReadDerivations(ctx, run.ID)
		if err != nil {
			return fail(err)
		}
		formatter.VerboseLog("Run %s: %d derivation(s)", run.ID, len(ds))
		return formatter.Success(RunTrace{Run: run, Derivations: ds})

	default:
		diff, err := runLog.CompareRuns(ctx, args[0], args[1])
		if err != nil {
			return fail(err)
		}
		view := diffView{RunDiff: diff, Identical: diff.Same()}
		if err := formatter.Success(view); err != nil {
			return err
		}
		if !view.Identical {
			return NewExitError(ExitFailure, "runs differ")
		}
		return nil
	}
}
