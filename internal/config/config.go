// Package config loads reasoner settings from a CUE file.
//
// The file is unified with a fixed schema, so omitted fields take their
// defaults and out-of-range values are rejected with a source position:
//
//	reasoner: {
//		think:       true
//		maxRounds:   50
//		nativeLists: false
//	}
//	log: level: "debug"
package config

import (
	"fmt"
	"log/slog"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"

	"github.com/roach88/n3reason/internal/reasoner"
)

// Schema constrains configuration files. Every field has a default.
const Schema = `
reasoner: {
	think:       bool | *true
	maxRounds:   int & >=0 | *0
	nativeLists: bool | *false
}
log: {
	level: "debug" | "info" | "warn" | "error" | *"info"
}
`

// Config is the decoded configuration.
type Config struct {
	Reasoner Reasoner `json:"reasoner"`
	Log      Log      `json:"log"`
}

// Reasoner mirrors the reasoner options.
type Reasoner struct {
	Think       bool `json:"think"`
	MaxRounds   int  `json:"maxRounds"`
	NativeLists bool `json:"nativeLists"`
}

// Log holds logging settings.
type Log struct {
	Level string `json:"level"`
}

// Default returns the configuration an empty file produces.
func Default() *Config {
	cfg, err := Parse("default.cue", nil)
	if err != nil {
		// the schema alone always decodes
		panic(err)
	}
	return cfg
}

// Load reads and decodes the CUE file at path.
func Load(path string) (*Config, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, &Error{Field: "file", Message: err.Error()}
	}
	return Parse(path, src)
}

// Parse decodes src, reporting positions against filename.
func Parse(filename string, src []byte) (*Config, error) {
	ctx := cuecontext.New()
	schema := ctx.CompileString(Schema, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	v := ctx.CompileBytes(src, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	unified := schema.Unify(v)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return nil, formatCUEError(err)
	}

	var cfg Config
	if err := unified.Decode(&cfg); err != nil {
		return nil, formatCUEError(err)
	}
	return &cfg, nil
}

// Options converts the reasoner section into reasoner options.
func (c *Config) Options() []reasoner.Option {
	return c.Reasoner.Options()
}

// Options converts the settings into reasoner options.
func (r Reasoner) Options() []reasoner.Option {
	return []reasoner.Option{
		reasoner.WithThink(r.Think),
		reasoner.WithMaxRounds(r.MaxRounds),
		reasoner.WithNativeLists(r.NativeLists),
	}
}

// Level returns the configured slog level.
func (c *Config) Level() slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

// String renders the effective settings for logs.
func (c *Config) String() string {
	return fmt.Sprintf("think=%t maxRounds=%d nativeLists=%t log=%s",
		c.Reasoner.Think, c.Reasoner.MaxRounds, c.Reasoner.NativeLists, c.Log.Level)
}
