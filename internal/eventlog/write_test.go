package eventlog

import (
	"context"
	"errors"
	"testing"

	"github.com/roach88/n3reason/internal/term"
)

func TestBeginRun_Idempotent(t *testing.T) {
	l := createTestLog(t)
	ctx := context.Background()

	beginTestRun(t, l, "r1")
	if err := l.BeginRun(ctx, "r1", "other", Options{}); err != nil {
		t.Fatalf("second BeginRun() failed: %v", err)
	}

	run, err := l.ReadRun(ctx, "r1")
	if err != nil {
		t.Fatalf("ReadRun() failed: %v", err)
	}
	if run.Scenario != "test" {
		t.Errorf("Scenario = %q, first write should win", run.Scenario)
	}
	if run.Status != StatusRunning {
		t.Errorf("Status = %q, want running", run.Status)
	}
	if !run.Options.Think {
		t.Error("Options.Think lost")
	}
}

func TestWriteDerivations(t *testing.T) {
	l := createTestLog(t)
	ctx := context.Background()
	beginTestRun(t, l, "r1")

	n, err := l.WriteDerivations(ctx, "r1", 1, []term.Statement{
		triple("alice", "homeRegion", "france"),
		triple("bob", "homeRegion", "spain"),
	})
	if err != nil {
		t.Fatalf("WriteDerivations() failed: %v", err)
	}
	if n != 2 {
		t.Errorf("inserted = %d, want 2", n)
	}

	// a repeat in a later round is skipped
	n, err = l.WriteDerivations(ctx, "r1", 2, []term.Statement{
		triple("alice", "homeRegion", "france"),
		triple("carol", "homeRegion", "italy"),
	})
	if err != nil {
		t.Fatalf("WriteDerivations() failed: %v", err)
	}
	if n != 1 {
		t.Errorf("inserted = %d, want 1", n)
	}

	ds, err := l.ReadDerivations(ctx, "r1")
	if err != nil {
		t.Fatalf("ReadDerivations() failed: %v", err)
	}
	if len(ds) != 3 {
		t.Fatalf("got %d derivations, want 3", len(ds))
	}
	want := triple("carol", "homeRegion", "italy")
	if ds[2].Round != 2 || ds[2].Statement != want.String() || ds[2].StatementID != term.StatementID(want) {
		t.Errorf("last derivation = %+v", ds[2])
	}
}

func TestWriteDerivations_Empty(t *testing.T) {
	l := createTestLog(t)

	n, err := l.WriteDerivations(context.Background(), "missing", 1, nil)
	if err != nil || n != 0 {
		t.Errorf("WriteDerivations(nil) = %d, %v", n, err)
	}
}

func TestWriteDerivations_UnknownRun(t *testing.T) {
	l := createTestLog(t)

	_, err := l.WriteDerivations(context.Background(), "missing", 1, []term.Statement{triple("a", "b", "c")})
	if err == nil {
		t.Fatal("expected foreign key violation")
	}
}

func TestFinishRun(t *testing.T) {
	l := createTestLog(t)
	ctx := context.Background()
	beginTestRun(t, l, "ok")
	beginTestRun(t, l, "bad")

	if err := l.FinishRun(ctx, "ok", 2, 1, nil); err != nil {
		t.Fatalf("FinishRun(ok) failed: %v", err)
	}
	if err := l.FinishRun(ctx, "bad", 3, 6, errors.New("rounds exceeded")); err != nil {
		t.Fatalf("FinishRun(bad) failed: %v", err)
	}

	ok, _ := l.ReadRun(ctx, "ok")
	if ok.Status != StatusCompleted || ok.Rounds != 2 || ok.Added != 1 || ok.Error != "" {
		t.Errorf("ok run = %+v", ok)
	}
	bad, _ := l.ReadRun(ctx, "bad")
	if bad.Status != StatusFailed || bad.Error != "rounds exceeded" {
		t.Errorf("bad run = %+v", bad)
	}
}

func TestFinishRun_UnknownRun(t *testing.T) {
	l := createTestLog(t)

	err := l.FinishRun(context.Background(), "missing", 1, 0, nil)
	if !errors.Is(err, ErrRunNotFound) {
		t.Errorf("FinishRun() = %v, want ErrRunNotFound", err)
	}
}
