package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/n3reason/internal/builtin"
	"github.com/roach88/n3reason/internal/engine"
	"github.com/roach88/n3reason/internal/reasoner"
	"github.com/roach88/n3reason/internal/store"
	"github.com/roach88/n3reason/internal/term"
	"github.com/roach88/n3reason/internal/testutil"
)

// Harness runs scenarios with a fixed clock and sequential blank node IDs,
// so the same scenario always reaches byte-identical conclusions.
type Harness struct {
	scenario *Scenario
	clock    *testutil.FixedClock
	ids      *testutil.SequenceGenerator
	logger   *slog.Logger
}

// Option configures a run.
type Option func(*Harness)

// WithLogger routes engine and reasoner logs. Default: discarded.
func WithLogger(l *slog.Logger) Option {
	return func(h *Harness) {
		h.logger = l
	}
}

// Run executes a scenario and evaluates its expectations.
//
// Execution flow:
//  1. Parse facts and rules into a fresh store
//  2. Reason with the scenario's options
//  3. Check expect, absent, output and error
func Run(ctx context.Context, scenario *Scenario, opts ...Option) (*Result, error) {
	now, err := scenario.now()
	if err != nil {
		return nil, err
	}
	h := &Harness{
		scenario: scenario,
		clock:    testutil.NewFixedClock(now),
		ids:      testutil.NewSequenceGenerator("g"),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(h)
	}

	input, err := scenario.Input()
	if err != nil {
		return nil, err
	}
	st, _, err := store.New().Merge(input, store.Meta{})
	if err != nil {
		return nil, fmt.Errorf("failed to load facts: %w", err)
	}

	eng := engine.New(
		engine.WithLogger(h.logger),
		engine.WithNow(h.clock.Now),
		engine.WithIDGenerator(h.ids),
		engine.WithLoader(scenario.Loader()),
	)
	r := reasoner.New(eng, h.reasonerOptions()...)

	res, runErr := r.Run(ctx, st)
	result := NewResult(scenario.Name, res)
	h.logger.Info("scenario reasoned",
		"scenario", scenario.Name,
		"rounds", res.Rounds,
		"added", res.Added,
	)

	switch {
	case runErr == nil && scenario.Error != "":
		result.AddError(&AssertionError{Type: AssertError, Expected: scenario.Error, Actual: "run succeeded"})
	case runErr != nil && !matchesExpectedError(runErr, scenario.Error):
		return nil, fmt.Errorf("failed to reason: %w", runErr)
	}

	for _, aerr := range h.evaluate(res) {
		result.AddError(aerr)
	}
	return result, nil
}

func (h *Harness) reasonerOptions() []reasoner.Option {
	o := h.scenario.Options
	think := true
	if o.Think != nil {
		think = *o.Think
	}
	return []reasoner.Option{
		reasoner.WithLogger(h.logger),
		reasoner.WithThink(think),
		reasoner.WithMaxRounds(o.MaxRounds),
		reasoner.WithNativeLists(o.NativeLists),
	}
}

func matchesExpectedError(err error, want string) bool {
	switch want {
	case ErrorRoundsExceeded:
		return reasoner.IsRoundsExceededError(err)
	}
	return false
}

// documentLoader serves log:semantics from a scenario's documents.
type documentLoader struct {
	scenario *Scenario
}

// Loader returns the builtin.Loader backed by the scenario's documents.
func (s *Scenario) Loader() builtin.Loader {
	return documentLoader{scenario: s}
}

func (l documentLoader) Semantics(doc term.IRI) (*term.Formula, error) {
	f, ok, err := l.scenario.document(doc)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("no document %s", doc)
	}
	return f, nil
}

// ParseN3 is unsupported: scenarios carry structured terms, not N3 text.
func (documentLoader) ParseN3(string, term.IRI) (*term.Formula, error) {
	return nil, errors.New("harness: N3 text parsing is not available")
}
