package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const homeRegion = `name: home_region
description: "People live in the region of their city"
facts:
  - [":alice", ":livesIn", ":paris"]
  - [":paris", ":locatedIn", ":france"]
rules:
  - if:
      - ["?p", ":livesIn", "?c"]
      - ["?c", ":locatedIn", "?r"]
    then:
      - ["?p", ":homeRegion", "?r"]
expect:
  - [":alice", ":homeRegion", ":france"]
`

const runaway = `name: runaway
description: "A rule that keeps inventing nodes"
options:
  max_rounds: 3
facts:
  - [":n0", ":next", ":n1"]
rules:
  - if:
      - ["?a", ":next", "?b"]
    then:
      - ["?b", ":next", "_:fresh"]
error: rounds_exceeded
`

// writeFile creates name under dir with content and returns its path.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// execute runs the root command with args and returns stdout and stderr.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()

	assert.Equal(t, "n3reason", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)

	assert.NotNil(t, cmd.PersistentFlags().Lookup("verbose"))
	assert.NotNil(t, cmd.PersistentFlags().Lookup("format"))
	assert.NotNil(t, cmd.PersistentFlags().Lookup("config"))
}

func TestRootCommandSubcommands(t *testing.T) {
	cmd := NewRootCommand()

	var names []string
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	assert.ElementsMatch(t, []string{"reason", "validate", "test", "history"}, names)
}

func TestRootCommandFlagDefaults(t *testing.T) {
	cmd := NewRootCommand()

	format, err := cmd.PersistentFlags().GetString("format")
	require.NoError(t, err)
	assert.Equal(t, "text", format)

	verbose, err := cmd.PersistentFlags().GetBool("verbose")
	require.NoError(t, err)
	assert.False(t, verbose)
}

func TestRootCommandInvalidFormat(t *testing.T) {
	path := writeFile(t, t.TempDir(), "s.yaml", homeRegion)

	_, _, err := execute(t, "--format", "xml", "validate", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid format "xml"`)
}

func TestRootOptionsLoadConfig(t *testing.T) {
	t.Run("default", func(t *testing.T) {
		cfg, err := (&RootOptions{}).loadConfig()
		require.NoError(t, err)
		assert.True(t, cfg.Reasoner.Think)
	})

	t.Run("file", func(t *testing.T) {
		path := writeFile(t, t.TempDir(), "c.cue", "reasoner: think: false\n")
		cfg, err := (&RootOptions{Config: path}).loadConfig()
		require.NoError(t, err)
		assert.False(t, cfg.Reasoner.Think)
	})

	t.Run("missing", func(t *testing.T) {
		_, err := (&RootOptions{Config: "/nonexistent/c.cue"}).loadConfig()
		require.Error(t, err)
	})
}

func TestRootOptionsLoggerVerbose(t *testing.T) {
	cfg, err := (&RootOptions{}).loadConfig()
	require.NoError(t, err)

	buf := &bytes.Buffer{}
	(&RootOptions{}).logger(buf, cfg).Debug("hidden")
	assert.Empty(t, buf.String())

	(&RootOptions{Verbose: true}).logger(buf, cfg).Debug("shown")
	assert.Contains(t, buf.String(), "shown")
}
