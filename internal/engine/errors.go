package engine

import (
	"errors"
	"fmt"

	"github.com/roach88/n3reason/internal/term"
)

// RuntimeError represents a problem detected while executing a plan.
//
// The one runtime condition is an unbound variable: a consequent statement
// still holds a universal variable after instantiation, so it cannot be
// asserted. It is logged and the statement skipped.
type RuntimeError struct {
	// Code identifies the error category.
	Code RuntimeErrorCode

	// Message is a human-readable description.
	Message string

	// Statement is the offending statement, when there is one.
	Statement *term.Statement

	// BindingHash identifies the solution being instantiated.
	BindingHash string
}

// RuntimeErrorCode categorizes runtime errors.
type RuntimeErrorCode string

const (
	// ErrCodeUnboundVariable indicates a statement could not be made ground.
	ErrCodeUnboundVariable RuntimeErrorCode = "UNBOUND_VARIABLE"
)

// Error implements the error interface.
func (e *RuntimeError) Error() string {
	if e.Statement != nil {
		return fmt.Sprintf("%s: %s (statement=%s)", e.Code, e.Message, e.Statement)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsUnboundError returns true if the error is an unbound variable error.
// Uses errors.As to handle wrapped errors.
func IsUnboundError(err error) bool {
	var re *RuntimeError
	if errors.As(err, &re) {
		return re.Code == ErrCodeUnboundVariable
	}
	return false
}
