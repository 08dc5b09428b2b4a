package testutil

import (
	"strconv"
	"sync"
)

// SequenceGenerator issues blank node IDs "<prefix>1", "<prefix>2", ...
//
// Fresh formulae and nodes get these IDs instead of UUIDs, so the same
// scenario produces byte-identical conclusions on every run.
//
// Implements engine.IDGenerator.
//
// Thread-safety: SequenceGenerator is safe for concurrent use via internal mutex.
type SequenceGenerator struct {
	mu     sync.Mutex
	prefix string
	seq    int
}

// NewSequenceGenerator creates a generator. An empty prefix means "g".
func NewSequenceGenerator(prefix string) *SequenceGenerator {
	if prefix == "" {
		prefix = "g"
	}
	return &SequenceGenerator{prefix: prefix}
}

// Generate returns the next ID.
func (g *SequenceGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq++
	return g.prefix + strconv.Itoa(g.seq)
}

// Reset restarts the sequence. After Reset, Generate returns "<prefix>1".
func (g *SequenceGenerator) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq = 0
}
