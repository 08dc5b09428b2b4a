package reasoner

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/roach88/n3reason/internal/engine"
	"github.com/roach88/n3reason/internal/store"
	"github.com/roach88/n3reason/internal/term"
)

// Reasoner runs the fixpoint loop over an engine.
type Reasoner struct {
	engine      *engine.Engine
	logger      *slog.Logger
	think       bool
	maxRounds   int
	nativeLists bool
	observer    RoundObserver
}

// RoundObserver is told what each round derived, in derivation order.
// A non-nil error stops the run.
type RoundObserver func(round int, derived []term.Statement) error

// Option configures a Reasoner.
type Option func(*Reasoner)

// WithThink enables deep mode: repeat rounds until nothing new is derived.
// Without it, Run makes a single pass.
func WithThink(think bool) Option {
	return func(r *Reasoner) {
		r.think = think
	}
}

// WithMaxRounds caps the number of rounds. Zero means unbounded.
//
// Use WithMaxRounds(1000) for untrusted rule sets.
func WithMaxRounds(n int) Option {
	return func(r *Reasoner) {
		r.maxRounds = n
	}
}

// WithNativeLists makes result views keep List terms instead of
// flattening them into first/rest chains.
func WithNativeLists(native bool) Option {
	return func(r *Reasoner) {
		r.nativeLists = native
	}
}

// WithObserver registers a callback run after every round.
func WithObserver(o RoundObserver) Option {
	return func(r *Reasoner) {
		r.observer = o
	}
}

// WithLogger sets the logger. Default: the engine's logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Reasoner) {
		r.logger = l
	}
}

// New creates a reasoner and registers it with e as the log:conclusion
// collaborator.
func New(e *engine.Engine, opts ...Option) *Reasoner {
	r := &Reasoner{
		engine:    e,
		logger:    e.Logger(),
		maxRounds: DefaultMaxRounds,
	}
	for _, opt := range opts {
		opt(r)
	}
	e.SetConcluder(r)
	return r
}

// Run reasons over st. The input store is not modified; the result holds
// the new version. On error the result holds the last completed round.
func (r *Reasoner) Run(ctx context.Context, st *store.Store) (*Result, error) {
	quota := newRoundQuota(r.maxRounds)
	res := &Result{Store: st, nativeLists: r.nativeLists}
	r.logger.Info("reasoning started", "statements", st.Count(), "think", r.think)

	for {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if err := quota.Check(); err != nil {
			r.logger.Warn("reasoning stopped", "error", err)
			return res, err
		}

		next, derived := r.round(res.Store)
		added := len(derived)
		res.Store = next
		res.Rounds = quota.Current()
		res.Added += added
		if r.observer != nil {
			if err := r.observer(res.Rounds, derived); err != nil {
				return res, fmt.Errorf("observe round %d: %w", res.Rounds, err)
			}
		}
		r.logger.Debug("round complete",
			"round", res.Rounds,
			"added", added,
			"statements", next.Count(),
		)
		if added == 0 || !r.think {
			break
		}
	}

	r.logger.Info("reasoning finished",
		"rounds", res.Rounds,
		"added", res.Added,
		"statements", res.Store.Count(),
	)
	return res, nil
}

// round executes the store as one formula and merges what it emits. Only
// statements not yet present are inserted, so asserted facts never pick up
// the inferred tag.
func (r *Reasoner) round(st *store.Store) (*store.Store, []term.Statement) {
	plan := r.engine.CompileAsserted(st.Formula(nil))
	plan.Execute(st, term.Unit())

	next := st
	var derived []term.Statement
	plan.Each(func(s term.Statement, meta store.Meta) {
		if next.Has(s) {
			return
		}
		grown, err := next.Insert(s, meta)
		if err != nil {
			r.logger.Warn("derived statement rejected", "statement", s.String(), "error", err)
			return
		}
		next = grown
		derived = append(derived, s)
	})
	return next, derived
}

// Conclude returns the deductive closure of f in think mode. It implements
// the collaborator behind log:conclusion.
func (r *Reasoner) Conclude(f *term.Formula) (*term.Formula, error) {
	st, err := store.FromFormula(f)
	if err != nil {
		return nil, fmt.Errorf("conclusion: %w", err)
	}
	inner := &Reasoner{engine: r.engine, logger: r.logger, think: true, maxRounds: r.maxRounds}
	res, err := inner.Run(context.Background(), st)
	if err != nil {
		return nil, fmt.Errorf("conclusion: %w", err)
	}
	return res.Store.Formula(r.engine.NewBlank()), nil
}
