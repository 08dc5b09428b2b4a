package builtin

import (
	"errors"
	"fmt"

	"github.com/roach88/n3reason/internal/term"
)

// ErrNoBinding marks a soft failure: the relation simply does not hold.
var ErrNoBinding = errors.New("no binding")

// TypeError reports an operand a builtin cannot interpret. It excludes the
// candidate solution; it is logged at debug level and never surfaced.
type TypeError struct {
	Builtin term.IRI
	Operand term.Term
	Want    string
	Err     error
}

func (e *TypeError) Error() string {
	msg := fmt.Sprintf("%s: operand %s is not %s", e.Builtin, e.Operand, e.Want)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *TypeError) Unwrap() error { return e.Err }

// IsTypeError returns true if err is a TypeError.
// Uses errors.As to handle wrapped errors.
func IsTypeError(err error) bool {
	var te *TypeError
	return errors.As(err, &te)
}

// UnimplementedError is raised (as a panic) when an operator lacks both
// capabilities. It is a programmer error.
type UnimplementedError struct {
	Builtin term.IRI
}

func (e *UnimplementedError) Error() string {
	return fmt.Sprintf("builtin %s implements neither Executable nor Evaluatable", e.Builtin)
}
