package eventlog

import (
	"errors"
)

// ErrRunNotFound is returned when no run has the requested ID.
var ErrRunNotFound = errors.New("run not found")

// Status is the lifecycle state of a run.
type Status string

const (
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Options are the effective reasoner settings of a run.
type Options struct {
	Think       bool `json:"think"`
	MaxRounds   int  `json:"max_rounds"`
	NativeLists bool `json:"native_lists"`
}

// Run is one reasoner invocation.
type Run struct {
	Seq      int64   `json:"seq"`
	ID       string  `json:"id"`
	Scenario string  `json:"scenario"`
	Options  Options `json:"options"`
	Status   Status  `json:"status"`
	Rounds   int     `json:"rounds"`
	Added    int     `json:"added"`
	Error    string  `json:"error,omitempty"`
}

// Derivation is one statement a run inferred.
type Derivation struct {
	Seq         int64  `json:"seq"`
	RunID       string `json:"run_id"`
	Round       int    `json:"round"`
	StatementID string `json:"statement_id"`
	Statement   string `json:"statement"`
}
