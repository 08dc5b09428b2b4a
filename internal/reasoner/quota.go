package reasoner

import (
	"errors"
	"fmt"
)

// DefaultMaxRounds is the round limit when none is configured: unbounded.
const DefaultMaxRounds = 0

// roundQuota counts fixpoint rounds and enforces a maximum.
// A zero limit disables the check.
type roundQuota struct {
	limit   int
	current int
}

func newRoundQuota(limit int) *roundQuota {
	return &roundQuota{limit: limit}
}

// Check increments the round counter and validates against the limit.
func (q *roundQuota) Check() error {
	q.current++
	if q.limit > 0 && q.current > q.limit {
		return &RoundsExceededError{Rounds: q.current, Limit: q.limit}
	}
	return nil
}

// Current returns the number of rounds started.
func (q *roundQuota) Current() int {
	return q.current
}

// RoundsExceededError is returned when the store is still growing after
// the configured number of rounds. The partial result is returned with it.
type RoundsExceededError struct {
	Rounds int // Round that would have run
	Limit  int // Maximum allowed rounds
}

// Error implements the error interface.
func (e *RoundsExceededError) Error() string {
	return fmt.Sprintf("reasoning exceeded max rounds quota: %d rounds > %d limit", e.Rounds, e.Limit)
}

// IsRoundsExceededError returns true if the error is a RoundsExceededError.
// Uses errors.As to handle wrapped errors.
func IsRoundsExceededError(err error) bool {
	var re *RoundsExceededError
	return errors.As(err, &re)
}
