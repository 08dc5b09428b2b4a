package eventlog

import (
	"context"
	"errors"
	"testing"

	"github.com/roach88/n3reason/internal/term"
)

func TestCompareRuns(t *testing.T) {
	l := createTestLog(t)
	ctx := context.Background()
	beginTestRun(t, l, "a")
	beginTestRun(t, l, "b")

	shared := triple("alice", "homeRegion", "france")
	if _, err := l.WriteDerivations(ctx, "a", 1, []term.Statement{shared, triple("x", "y", "z")}); err != nil {
		t.Fatal(err)
	}
	// same statement in a different round still matches
	if _, err := l.WriteDerivations(ctx, "b", 2, []term.Statement{shared}); err != nil {
		t.Fatal(err)
	}

	diff, err := l.CompareRuns(ctx, "a", "b")
	if err != nil {
		t.Fatalf("CompareRuns() failed: %v", err)
	}
	if diff.Same() {
		t.Fatal("runs reported identical")
	}
	if len(diff.OnlyBase) != 1 || diff.OnlyBase[0].Statement != triple("x", "y", "z").String() {
		t.Errorf("OnlyBase = %+v", diff.OnlyBase)
	}
	if len(diff.OnlyOther) != 0 {
		t.Errorf("OnlyOther = %+v", diff.OnlyOther)
	}

	self, err := l.CompareRuns(ctx, "a", "a")
	if err != nil || !self.Same() {
		t.Errorf("CompareRuns(a, a) = %+v, %v", self, err)
	}
}

func TestCompareRuns_UnknownRun(t *testing.T) {
	l := createTestLog(t)
	beginTestRun(t, l, "a")

	_, err := l.CompareRuns(context.Background(), "a", "missing")
	if !errors.Is(err, ErrRunNotFound) {
		t.Errorf("CompareRuns() = %v, want ErrRunNotFound", err)
	}
}
