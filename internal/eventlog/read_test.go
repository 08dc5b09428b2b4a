package eventlog

import (
	"context"
	"errors"
	"testing"

	"github.com/roach88/n3reason/internal/engine"
	"github.com/roach88/n3reason/internal/reasoner"
	"github.com/roach88/n3reason/internal/store"
	"github.com/roach88/n3reason/internal/term"
)

func TestReadRun_NotFound(t *testing.T) {
	l := createTestLog(t)

	_, err := l.ReadRun(context.Background(), "missing")
	if !errors.Is(err, ErrRunNotFound) {
		t.Errorf("ReadRun() = %v, want ErrRunNotFound", err)
	}
}

func TestListRuns_Order(t *testing.T) {
	l := createTestLog(t)
	ctx := context.Background()

	runs, err := l.ListRuns(ctx)
	if err != nil {
		t.Fatalf("ListRuns() failed: %v", err)
	}
	if runs == nil || len(runs) != 0 {
		t.Fatalf("ListRuns() on empty log = %#v, want empty slice", runs)
	}

	for _, id := range []string{"zeta", "alpha", "mid"} {
		beginTestRun(t, l, id)
	}
	runs, err = l.ListRuns(ctx)
	if err != nil {
		t.Fatalf("ListRuns() failed: %v", err)
	}
	var ids []string
	for _, r := range runs {
		ids = append(ids, r.ID)
	}
	if len(ids) != 3 || ids[0] != "zeta" || ids[1] != "alpha" || ids[2] != "mid" {
		t.Errorf("ListRuns() order = %v, want insertion order", ids)
	}
}

func TestReadDerivations_Empty(t *testing.T) {
	l := createTestLog(t)
	beginTestRun(t, l, "r1")

	ds, err := l.ReadDerivations(context.Background(), "r1")
	if err != nil {
		t.Fatalf("ReadDerivations() failed: %v", err)
	}
	if ds == nil || len(ds) != 0 {
		t.Errorf("ReadDerivations() = %#v, want empty slice", ds)
	}
}

func TestObserver_RecordsReasonerRounds(t *testing.T) {
	l := createTestLog(t)
	ctx := context.Background()
	beginTestRun(t, l, "r1")

	v := func(n string) term.Variable { return term.NewUniversal(n) }
	rule := term.Triple(
		term.MustFormula(nil,
			term.Triple(v("x"), term.IRI(ex+"parent"), v("y")),
			term.Triple(v("y"), term.IRI(ex+"parent"), v("z")),
		),
		term.LogImplies,
		term.MustFormula(nil, term.Triple(v("x"), term.IRI(ex+"grandparent"), v("z"))),
	)
	st, _, err := store.New().Merge([]term.Statement{
		triple("a", "parent", "b"),
		triple("b", "parent", "c"),
		rule,
	}, store.Meta{})
	if err != nil {
		t.Fatalf("Merge() failed: %v", err)
	}

	r := reasoner.New(engine.New(), reasoner.WithThink(true), reasoner.WithObserver(l.Observer(ctx, "r1")))
	res, err := r.Run(ctx, st)
	if err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	if err := l.FinishRun(ctx, "r1", res.Rounds, res.Added, nil); err != nil {
		t.Fatalf("FinishRun() failed: %v", err)
	}

	ds, err := l.ReadDerivations(ctx, "r1")
	if err != nil {
		t.Fatalf("ReadDerivations() failed: %v", err)
	}
	if len(ds) != 1 {
		t.Fatalf("got %d derivations, want 1", len(ds))
	}
	if want := triple("a", "grandparent", "c").String(); ds[0].Statement != want || ds[0].Round != 1 {
		t.Errorf("derivation = %+v, want %s in round 1", ds[0], want)
	}
}
