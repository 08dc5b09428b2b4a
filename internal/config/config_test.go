package config

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, Reasoner{Think: true}, cfg.Reasoner)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, slog.LevelInfo, cfg.Level())
	assert.Len(t, cfg.Options(), 3)
}

func TestParse_Overrides(t *testing.T) {
	src := `
reasoner: {
	think:     false
	maxRounds: 12
}
log: level: "debug"
`
	cfg, err := Parse("n3reason.cue", []byte(src))
	require.NoError(t, err)
	assert.Equal(t, Reasoner{Think: false, MaxRounds: 12}, cfg.Reasoner)
	assert.Equal(t, slog.LevelDebug, cfg.Level())
	assert.Equal(t, "think=false maxRounds=12 nativeLists=false log=debug", cfg.String())
}

func TestParse_Rejects(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"negative rounds", `reasoner: maxRounds: -1`},
		{"wrong type", `reasoner: think: "yes"`},
		{"unknown level", `log: level: "trace"`},
		{"syntax", `reasoner: {`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse("bad.cue", []byte(tc.src))
			require.Error(t, err)
			var cfgErr *Error
			assert.True(t, errors.As(err, &cfgErr))
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "n3reason.cue")
	require.NoError(t, os.WriteFile(path, []byte(`reasoner: nativeLists: true`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.True(t, cfg.Reasoner.NativeLists)
	assert.True(t, cfg.Reasoner.Think)

	_, err = Load(filepath.Join(t.TempDir(), "missing.cue"))
	var cfgErr *Error
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "file", cfgErr.Field)
}

func TestError_Format(t *testing.T) {
	assert.Equal(t, "cue: boom", (&Error{Field: "cue", Message: "boom"}).Error())
}
