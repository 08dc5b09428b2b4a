// Package reasoner drives forward chaining to a fixpoint.
//
// Each round wraps the current store in one asserted formula, compiles it,
// runs the query pass and merges everything the materialization pass emits
// back into the store. Rounds repeat until a round adds nothing, or stop
// after the first when think mode is off. Rounds re-derive from scratch;
// there is no incremental bookkeeping.
//
// Termination holds for rule sets that are not infinitely productive. The
// reasoner does not check this itself: callers set WithMaxRounds or cancel
// the context.
package reasoner
