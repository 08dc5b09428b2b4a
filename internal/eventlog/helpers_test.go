package eventlog

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/roach88/n3reason/internal/term"
)

const ex = "http://example.org/#"

// createTestLog opens a fresh log in a temp directory.
func createTestLog(t *testing.T) *Log {
	t.Helper()
	l, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { l.Close() })
	return l
}

// beginTestRun starts a run with default options.
func beginTestRun(t *testing.T, l *Log, id string) {
	t.Helper()
	if err := l.BeginRun(context.Background(), id, "test", Options{Think: true}); err != nil {
		t.Fatalf("BeginRun(%s) failed: %v", id, err)
	}
}

func triple(s, p, o string) term.Statement {
	return term.Triple(term.IRI(ex+s), term.IRI(ex+p), term.IRI(ex+o))
}
