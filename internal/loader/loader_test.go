package loader

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/missiongrid/internal/mission"
)

func writeMission(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadYAML(t *testing.T) {
	path := writeMission(t, "mission.yaml", `
version: "1.0"
name: greet
description: says hello
steps:
  - id: hello
    name: Say hello
    capability: print
    parameters:
      message: "hello world"
  - id: after
    name: After hello
    capability: noop
    depends_on: [hello]
    timeout_seconds: 5
    continue_on_error: true
`)

	m, err := Load(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, "greet", m.Name)
	assert.Equal(t, "says hello", m.Description)
	require.Len(t, m.Steps, 2)
	assert.Equal(t, "hello world", m.Steps[0].Parameters["message"])
	assert.Equal(t, []string{"hello"}, m.Steps[1].DependsOn)
	assert.Equal(t, 5, m.Steps[1].TimeoutSeconds)
	assert.True(t, m.Steps[1].ContinueOnError)
	assert.True(t, m.FailFast(), "fail_fast defaults to true when unset")
}

func TestLoadJSON(t *testing.T) {
	path := writeMission(t, "mission.json", `{
  "version": "1.0",
  "name": "from-json",
  "steps": [
    {"id": "a", "name": "A", "capability": "noop"}
  ],
  "config": {"fail_fast": false, "timeout_seconds": 30}
}`)

	m, err := Load(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, "from-json", m.Name)
	assert.False(t, m.FailFast())
	assert.Equal(t, 30, m.DefaultTimeoutSeconds())
}

func TestLoadHCL(t *testing.T) {
	path := writeMission(t, "mission.hcl", `
version = "1.0"
name    = "from-hcl"

config {
  max_parallel_steps = 3
  fail_fast          = false
}

step "fetch" {
  name       = "Fetch data"
  capability = "http_request"
  parameters = {
    url    = "https://example.com"
    method = "GET"
    tags   = ["a", "b"]
    limit  = 10
  }
}

step "report" {
  name       = "Report"
  capability = "print"
  depends_on = ["fetch"]
}
`)

	m, err := Load(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, "from-hcl", m.Name)
	assert.Equal(t, 3, m.MaxParallelSteps())
	assert.False(t, m.FailFast())
	require.Len(t, m.Steps, 2)

	params := m.Steps[0].Parameters
	assert.Equal(t, "https://example.com", params["url"])
	assert.Equal(t, float64(10), params["limit"])
	assert.Equal(t, []any{"a", "b"}, params["tags"])
	assert.Equal(t, []string{"fetch"}, m.Steps[1].DependsOn)
}

func TestLoadEmptyPath(t *testing.T) {
	_, err := Load(context.Background(), "")
	require.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(context.Background(), filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading mission file")
}

func TestLoadRejectsInvalidMission(t *testing.T) {
	path := writeMission(t, "empty.yaml", `
version: "1.0"
name: empty
steps: []
`)

	_, err := Load(context.Background(), path)
	require.ErrorIs(t, err, mission.ErrNoSteps)
}

func TestLoadRejectsDuplicateStepIDs(t *testing.T) {
	path := writeMission(t, "dupes.yaml", `
version: "1.0"
name: dupes
steps:
  - id: a
    name: first
    capability: noop
  - id: a
    name: second
    capability: noop
`)

	_, err := Load(context.Background(), path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate")
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := writeMission(t, "broken.yaml", "steps: [unclosed")

	_, err := Load(context.Background(), path)
	require.Error(t, err)
}
