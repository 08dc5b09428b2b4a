// Package eventlog records reasoning runs in SQLite.
//
// The log is append-only:
//   - Runs: one row per reasoner invocation, with its effective options
//     and outcome
//   - Derivations: every statement a run inferred, tagged with the round
//     that produced it
//
// # Ordering
//
// Rows are ordered by seq, a logical clock assigned on insert, and never
// by wall time. Queries that return several rows always end in
// ORDER BY seq ASC so reads are identical across replays.
//
// # Identity
//
// A derivation is keyed by (run_id, statement_id), where statement_id is
// term.StatementID. Writing the same statement twice for a run is a no-op.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package eventlog
