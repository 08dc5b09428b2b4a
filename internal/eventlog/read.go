package eventlog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ReadRun returns the run with the given ID.
func (l *Log) ReadRun(ctx context.Context, id string) (Run, error) {
	row := l.db.QueryRowContext(ctx, `
		SELECT seq, id, scenario, options, status, rounds, added, error
		FROM runs
		WHERE id = ?
	`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("read run %s: %w", id, ErrRunNotFound)
	}
	if err != nil {
		return Run{}, fmt.Errorf("read run %s: %w", id, err)
	}
	return run, nil
}

// ListRuns returns every run, oldest first.
//
// Returns an empty slice (not nil) if no runs exist.
func (l *Log) ListRuns(ctx context.Context) ([]Run, error) {
	rows, err := l.db.QueryContext(ctx, `
		SELECT seq, id, scenario, options, status, rounds, added, error
		FROM runs
		ORDER BY seq ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// ReadDerivations returns what runID inferred, in derivation order.
//
// Returns an empty slice (not nil) if the run derived nothing.
func (l *Log) ReadDerivations(ctx context.Context, runID string) ([]Derivation, error) {
	rows, err := l.db.QueryContext(ctx, `
		SELECT seq, run_id, round, statement_id, statement
		FROM derivations
		WHERE run_id = ?
		ORDER BY round ASC, seq ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query derivations: %w", err)
	}
	defer rows.Close()

	out := []Derivation{}
	for rows.Next() {
		var d Derivation
		if err := rows.Scan(&d.Seq, &d.RunID, &d.Round, &d.StatementID, &d.Statement); err != nil {
			return nil, fmt.Errorf("scan derivation: %w", err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate derivations: %w", err)
	}
	return out, nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (Run, error) {
	var (
		run      Run
		optsJSON string
		status   string
	)
	if err := s.Scan(&run.Seq, &run.ID, &run.Scenario, &optsJSON, &status, &run.Rounds, &run.Added, &run.Error); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, err
		}
		return Run{}, fmt.Errorf("scan run: %w", err)
	}
	opts, err := unmarshalOptions(optsJSON)
	if err != nil {
		return Run{}, err
	}
	run.Options = opts
	run.Status = Status(status)
	return run, nil
}
