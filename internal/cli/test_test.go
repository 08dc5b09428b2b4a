package cli

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTestCommandPasses(t *testing.T) {
	stdout, _, err := execute(t, "test", scenarioDir)
	require.NoError(t, err)
	assert.Contains(t, stdout, "4 passed, 0 failed, 4 total")
}

func TestTestCommandFailure(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "good.yaml", homeRegion)
	failing := writeFile(t, dir, "wrong.yaml", homeRegion+"  - [\":alice\", \":homeRegion\", \":spain\"]\n")

	stdout, _, err := execute(t, "--format", "json", "test", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp struct {
		Status string `json:"status"`
		Data   struct {
			Total    int `json:"total"`
			Passed   int `json:"passed"`
			Failed   int `json:"failed"`
			Failures []struct {
				ScenarioPath string `json:"scenario_path"`
			} `json:"failures"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 2, resp.Data.Total)
	assert.Equal(t, 1, resp.Data.Passed)
	require.Len(t, resp.Data.Failures, 1)
	assert.Equal(t, failing, resp.Data.Failures[0].ScenarioPath)
}

func TestTestCommandMissingPath(t *testing.T) {
	stdout, _, err := execute(t, "test", filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, stdout, "Error [E005]")
}
