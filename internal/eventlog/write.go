package eventlog

import (
	"context"
	"fmt"

	"github.com/roach88/n3reason/internal/reasoner"
	"github.com/roach88/n3reason/internal/term"
)

// BeginRun inserts a run in the running state.
// Uses ON CONFLICT(id) DO NOTHING for idempotency - duplicate IDs are silently ignored.
func (l *Log) BeginRun(ctx context.Context, id, scenario string, opts Options) error {
	optsJSON, err := marshalOptions(opts)
	if err != nil {
		return fmt.Errorf("begin run: %w", err)
	}

	_, err = l.db.ExecContext(ctx, `
		INSERT INTO runs (id, scenario, options, status)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`, id, scenario, optsJSON, string(StatusRunning))
	if err != nil {
		return fmt.Errorf("begin run: %w", err)
	}
	return nil
}

// WriteDerivations records the statements one round of runID inferred.
// Returns how many were new; statements already logged for the run are skipped.
//
// Note: The run must exist (foreign key constraint).
func (l *Log) WriteDerivations(ctx context.Context, runID string, round int, stmts []term.Statement) (int, error) {
	if len(stmts) == 0 {
		return 0, nil
	}

	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("write derivations: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO derivations (run_id, round, statement_id, statement)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(run_id, statement_id) DO NOTHING
	`)
	if err != nil {
		return 0, fmt.Errorf("write derivations: prepare: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for _, st := range stmts {
		res, err := stmt.ExecContext(ctx, runID, round, term.StatementID(st), st.String())
		if err != nil {
			return 0, fmt.Errorf("write derivations: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("write derivations: rows affected: %w", err)
		}
		inserted += int(n)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("write derivations: commit: %w", err)
	}
	return inserted, nil
}

// FinishRun stores a run's outcome. A nil runErr marks it completed.
func (l *Log) FinishRun(ctx context.Context, runID string, rounds, added int, runErr error) error {
	status, msg := StatusCompleted, ""
	if runErr != nil {
		status, msg = StatusFailed, runErr.Error()
	}

	res, err := l.db.ExecContext(ctx, `
		UPDATE runs SET status = ?, rounds = ?, added = ?, error = ?
		WHERE id = ?
	`, string(status), rounds, added, msg, runID)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("finish run: rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("finish run %s: %w", runID, ErrRunNotFound)
	}
	return nil
}

// Observer returns a round observer that logs each round's derivations
// under runID.
func (l *Log) Observer(ctx context.Context, runID string) reasoner.RoundObserver {
	return func(round int, derived []term.Statement) error {
		_, err := l.WriteDerivations(ctx, runID, round, derived)
		return err
	}
}
