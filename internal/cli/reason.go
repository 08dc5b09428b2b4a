package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/n3reason/internal/config"
	"github.com/roach88/n3reason/internal/engine"
	"github.com/roach88/n3reason/internal/eventlog"
	"github.com/roach88/n3reason/internal/harness"
	"github.com/roach88/n3reason/internal/reasoner"
	"github.com/roach88/n3reason/internal/store"
	"github.com/roach88/n3reason/internal/term"
)

// ReasonOptions holds flags for the reason command.
type ReasonOptions struct {
	*RootOptions
	Inferred bool   // print only derived statements
	Database string // optional SQLite run log

	// IDGenerator overrides blank node naming (for testing).
	// If nil, defaults to engine.UUIDv7Generator.
	IDGenerator engine.IDGenerator

	// Now overrides the clock (for testing). If nil, defaults to time.Now.
	Now func() time.Time
}

// ReasonOutput is the payload of a successful run.
type ReasonOutput struct {
	Run         string   `json:"run,omitempty"`
	Rounds      int      `json:"rounds"`
	Added       int      `json:"added"`
	Conclusions []string `json:"conclusions"`
	Output      string   `json:"output,omitempty"`
}

// String renders the text form: one statement per line, then any output.
func (o ReasonOutput) String() string {
	var b strings.Builder
	for _, c := range o.Conclusions {
		b.WriteString(c)
		b.WriteByte('\n')
	}
	if o.Output != "" {
		b.WriteString(o.Output)
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// NewReasonCommand creates the reason command.
func NewReasonCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReasonOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "reason <scenario.yaml>",
		Short: "Reason over a scenario's facts and rules",
		Long: `Load facts and rules from a scenario file and print the closure.

Reasoner settings come from --config and are overridden by the
scenario's own options. Expectations in the file are ignored; use
"n3reason test" to check them.

Example:
  n3reason reason ./scenarios/home_region.yaml
  n3reason reason --inferred --format json ./scenarios/ancestors.yaml
  n3reason reason --config ./n3reason.cue ./scenarios/builtins.yaml
  n3reason reason --db ./runs.db ./scenarios/runaway.yaml`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReason(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Inferred, "inferred", false, "print only inferred statements")
	cmd.Flags().StringVar(&opts.Database, "db", "", "record the run in this SQLite database")

	return cmd
}

func runReason(opts *ReasonOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	cfg, err := opts.loadConfig()
	if err != nil {
		_ = formatter.Error(ErrCodeInvalidConfig, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to load config", err)
	}
	logger := opts.logger(cmd.ErrOrStderr(), cfg)
	logger.Debug("config loaded", "config", cfg.String())

	scenario, err := harness.LoadScenario(path)
	if err != nil {
		code := ErrCodeInvalidScenario
		if errors.Is(err, os.ErrNotExist) {
			code = ErrCodeNotFound
		}
		_ = formatter.Error(code, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to load scenario", err)
	}
	input, err := scenario.Input()
	if err != nil {
		_ = formatter.Error(ErrCodeInvalidScenario, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to parse scenario", err)
	}
	st, _, err := store.New().Merge(input, store.Meta{})
	if err != nil {
		_ = formatter.Error(ErrCodeInvalidScenario, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to load facts", err)
	}
	logger.Info("scenario loaded", "scenario", scenario.Name, "statements", st.Count())

	ids := opts.IDGenerator
	if ids == nil {
		ids = engine.UUIDv7Generator{}
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	eng := engine.New(
		engine.WithLogger(logger),
		engine.WithNow(now),
		engine.WithIDGenerator(ids),
		engine.WithLoader(scenario.Loader()),
	)
	settings := effectiveSettings(cfg.Reasoner, scenario.Options)
	ropts := append(settings.Options(), reasoner.WithLogger(logger))

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		runLog *eventlog.Log
		runID  string
	)
	if opts.Database != "" {
		runID = engine.UUIDv7Generator{}.Generate()
		runLog, err = eventlog.Open(opts.Database)
		if err != nil {
			_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
			return WrapExitError(ExitCommandError, "failed to open database", err)
		}
		defer func() {
			if closeErr := runLog.Close(); closeErr != nil {
				logger.Error("error closing database", "error", closeErr)
			}
		}()
		err = runLog.BeginRun(ctx, runID, scenario.Name, eventlog.Options{
			Think:       settings.Think,
			MaxRounds:   settings.MaxRounds,
			NativeLists: settings.NativeLists,
		})
		if err != nil {
			_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
			return WrapExitError(ExitCommandError, "failed to record run", err)
		}
		ropts = append(ropts, reasoner.WithObserver(runLog.Observer(ctx, runID)))
		logger.Info("recording run", "run", runID, "db", opts.Database)
	}

	res, err := reasoner.New(eng, ropts...).Run(ctx, st)
	if runLog != nil {
		// the run context may be cancelled; the outcome is still recorded
		if ferr := runLog.FinishRun(context.WithoutCancel(ctx), runID, res.Rounds, res.Added, err); ferr != nil {
			logger.Error("failed to record run outcome", "run", runID, "error", ferr)
		}
	}
	if err != nil {
		details := map[string]int{"rounds": res.Rounds, "added": res.Added}
		_ = formatter.Error(ErrCodeReasoning, err.Error(), details)
		return WrapExitError(ExitFailure, "reasoning failed", err)
	}

	stmts := res.Conclusions()
	if opts.Inferred {
		stmts = res.Inferred()
	}
	out := ReasonOutput{
		Run:         runID,
		Rounds:      res.Rounds,
		Added:       res.Added,
		Conclusions: renderStatements(stmts),
		Output:      res.Strings(),
	}
	formatter.VerboseLog("rounds=%d added=%d", out.Rounds, out.Added)
	return formatter.Success(out)
}

// effectiveSettings overlays the options a scenario sets on the config.
func effectiveSettings(base config.Reasoner, o harness.Options) config.Reasoner {
	if o.Think != nil {
		base.Think = *o.Think
	}
	if o.MaxRounds > 0 {
		base.MaxRounds = o.MaxRounds
	}
	if o.NativeLists {
		base.NativeLists = true
	}
	return base
}

func renderStatements(stmts []term.Statement) []string {
	out := make([]string, 0, len(stmts))
	for _, st := range stmts {
		out = append(out, st.String())
	}
	return out
}
