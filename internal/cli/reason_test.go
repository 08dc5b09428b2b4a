package cli

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const scenarioDir = "../harness/testdata/scenarios"

func decodeReason(t *testing.T, stdout string) ReasonOutput {
	t.Helper()
	var resp struct {
		Status string       `json:"status"`
		Data   ReasonOutput `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	require.Equal(t, "ok", resp.Status)
	return resp.Data
}

func TestReasonText(t *testing.T) {
	path := writeFile(t, t.TempDir(), "s.yaml", homeRegion)

	stdout, stderr, err := execute(t, "reason", path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	assert.Len(t, lines, 4)
	assert.Contains(t, lines,
		"<http://example.org/#alice> <http://example.org/#homeRegion> <http://example.org/#france> .")
	assert.Contains(t, stderr, "reasoning finished")
}

func TestReasonJSONInferred(t *testing.T) {
	path := writeFile(t, t.TempDir(), "s.yaml", homeRegion)

	stdout, _, err := execute(t, "--format", "json", "reason", "--inferred", path)
	require.NoError(t, err)

	out := decodeReason(t, stdout)
	assert.Equal(t, 2, out.Rounds)
	assert.Equal(t, 1, out.Added)
	assert.Equal(t, []string{
		"<http://example.org/#alice> <http://example.org/#homeRegion> <http://example.org/#france> .",
	}, out.Conclusions)
}

func TestReasonOutputString(t *testing.T) {
	stdout, _, err := execute(t, "--format", "json", "reason", filepath.Join(scenarioDir, "builtins.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "Hello, Alice", decodeReason(t, stdout).Output)
}

func TestReasonRoundsExceeded(t *testing.T) {
	path := writeFile(t, t.TempDir(), "s.yaml", runaway)

	stdout, _, err := execute(t, "reason", path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, stdout, "Error [E401]")
}

func TestReasonConfigDisablesThink(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "s.yaml", runaway)
	cfg := writeFile(t, dir, "c.cue", "reasoner: think: false\n")

	stdout, _, err := execute(t, "--config", cfg, "--format", "json", "reason", path)
	require.NoError(t, err)

	out := decodeReason(t, stdout)
	assert.Equal(t, 1, out.Rounds)
	assert.Equal(t, 1, out.Added)
}

func TestReasonVerboseLogsToStderr(t *testing.T) {
	path := writeFile(t, t.TempDir(), "s.yaml", homeRegion)

	stdout, stderr, err := execute(t, "-v", "--format", "json", "reason", path)
	require.NoError(t, err)

	assert.Contains(t, stderr, "round complete")
	assert.Contains(t, stderr, "rounds=2 added=1")
	decodeReason(t, stdout)
}

func TestReasonErrors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		args []string
		code string
	}{
		{"missing scenario", []string{"reason", filepath.Join(dir, "nope.yaml")}, ErrCodeNotFound},
		{"bad scenario", []string{"reason", writeFile(t, dir, "bad.yaml", "name: x\nfacts: [[1, 2]]\n")}, ErrCodeInvalidScenario},
		{"bad term", []string{"reason", writeFile(t, dir, "term.yaml", "name: x\ndescription: d\nfacts:\n  - [\"nope:a\", \":p\", \":o\"]\n")}, ErrCodeInvalidScenario},
		{"bad config", []string{"--config", writeFile(t, dir, "c.cue", "reasoner: maxRounds: -1\n"), "reason", writeFile(t, dir, "ok.yaml", homeRegion)}, ErrCodeInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, _, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))
			assert.Contains(t, stdout, "Error ["+tt.code+"]")
		})
	}
}

func TestReasonRequiresOneArg(t *testing.T) {
	_, _, err := execute(t, "reason")
	require.Error(t, err)
}
