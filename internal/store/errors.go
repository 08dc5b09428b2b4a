package store

import (
	"errors"
	"fmt"

	"github.com/roach88/n3reason/internal/term"
)

// ErrIncompleteStatement is the sentinel behind every rejected insert.
var ErrIncompleteStatement = errors.New("incomplete statement")

// StatementErrorCode categorizes rejected mutations.
type StatementErrorCode string

const (
	// ErrCodeIncomplete indicates a missing position or an unbound variable.
	ErrCodeIncomplete StatementErrorCode = "INCOMPLETE_STATEMENT"
)

// StatementError reports a statement the store refused. Inserting an
// incomplete statement is a programmer error and is always reported.
type StatementError struct {
	Code      StatementErrorCode
	Statement term.Statement
	Message   string
}

func (e *StatementError) Error() string {
	if e.Statement.Complete() {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Statement)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap lets errors.Is match ErrIncompleteStatement.
func (e *StatementError) Unwrap() error {
	return ErrIncompleteStatement
}

// IsIncompleteError returns true if err was caused by a non-ground insert.
// Uses errors.As to handle wrapped errors.
func IsIncompleteError(err error) bool {
	var se *StatementError
	if errors.As(err, &se) {
		return se.Code == ErrCodeIncomplete
	}
	return false
}
