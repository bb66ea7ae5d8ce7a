package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--log-level", "error"}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func runID(t *testing.T, out string) string {
	t.Helper()
	for _, line := range strings.Split(out, "\n") {
		if id, ok := strings.CutPrefix(line, "run id: "); ok {
			return strings.TrimSpace(id)
		}
	}
	t.Fatalf("no run id in output:\n%s", out)
	return ""
}

func TestRootCommand_Subcommands(t *testing.T) {
	cmd := newRootCommand()
	names := make([]string, 0)
	for _, c := range cmd.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"run", "list", "show", "plot", "export-csv", "export-json", "history", "schemes", "presets"} {
		assert.Contains(t, names, want)
	}
}

func TestRunCommand_CSV(t *testing.T) {
	out, err := execute(t, "run", "--preset", "coarse", "--scheme", "euler", "--scheme", "rk4", "--csv",
		"--data", t.TempDir())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 7)
	assert.Equal(t, "scheme,step_pi,step_size,drift", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "euler,0.5,"))
	assert.True(t, strings.HasPrefix(lines[4], "rk4,0.5,"))
}

func TestRunCommand_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sweep.yaml")
	require.NoError(t, os.WriteFile(path, []byte("step_sizes_pi: [0.2]\nschemes: [midpoint]\n"), 0644))

	out, err := execute(t, "run", "--config", path, "--data", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Midpoint")
	assert.Contains(t, out, "0.2π")
	assert.NotContains(t, out, "Euler")
}

func TestRunCommand_PresetUnderConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "schemes.yaml")
	require.NoError(t, os.WriteFile(path, []byte("schemes: [rk4]\n"), 0644))

	out, err := execute(t, "run", "--preset", "coarse", "--config", path, "--csv", "--data", dir)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[1], "rk4,0.5,"))
	assert.True(t, strings.HasPrefix(lines[3], "rk4,0.1,"))
}

func TestRunCommand_Errors(t *testing.T) {
	_, err := execute(t, "run", "--preset", "nope")
	assert.ErrorContains(t, err, "unknown preset")

	_, err = execute(t, "run", "--scheme", "leapfrog")
	assert.ErrorContains(t, err, "leapfrog")

	_, err = execute(t, "run", "--log-level", "loud")
	assert.Error(t, err)
}

func TestSavedRunLifecycle(t *testing.T) {
	data := t.TempDir()

	out, err := execute(t, "run", "--preset", "coarse", "--parallel", "--save", "--plot", "--data", data)
	require.NoError(t, err)
	assert.Contains(t, out, "Predictor-Corrector")
	assert.Contains(t, out, "analytic")
	id := runID(t, out)

	out, err = execute(t, "list", "--data", data)
	require.NoError(t, err)
	assert.Contains(t, out, id)

	out, err = execute(t, "show", id, "--data", data)
	require.NoError(t, err)
	assert.Contains(t, out, "Runge-Kutta")
	assert.Contains(t, out, "0.25π")

	out, err = execute(t, "export-csv", id, "--data", data)
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(out), "\n"), 1+4*3)

	out, err = execute(t, "export-json", id, "--data", data)
	require.NoError(t, err)
	var exported struct {
		Series []struct {
			Times     []float64 `json:"times"`
			Positions []float64 `json:"positions"`
		} `json:"series"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &exported))
	require.Len(t, exported.Series, 12)
	for _, s := range exported.Series {
		assert.Equal(t, len(s.Times), len(s.Positions))
	}

	svg := filepath.Join(t.TempDir(), "midpoint.svg")
	out, err = execute(t, "plot", id, "midpoint", "--energy", "--phase", "--svg", svg, "--data", data)
	require.NoError(t, err)
	assert.Contains(t, out, "time step: 0.5π")
	assert.Contains(t, out, "•")
	assert.Contains(t, out, "energy vs time")
	raw, err := os.ReadFile(svg)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "<title>Midpoint</title>")

	out, err = execute(t, "plot", id, "--data", data)
	require.NoError(t, err)
	assert.Contains(t, out, "log10 drift")

	out, err = execute(t, "history", "euler", "--data", data)
	require.NoError(t, err)
	assert.Contains(t, out, id)
	assert.Contains(t, out, "0.1π")
	assert.Contains(t, out, "from 1 indexed runs")
}

func TestListAndHistory_Empty(t *testing.T) {
	data := t.TempDir()

	out, err := execute(t, "list", "--data", data)
	require.NoError(t, err)
	assert.Contains(t, out, "no runs found")

	out, err = execute(t, "history", "rk4", "--data", data)
	require.NoError(t, err)
	assert.Contains(t, out, "no history for Runge-Kutta")

	_, err = execute(t, "show", "missing", "--data", data)
	assert.Error(t, err)
}

func TestCatalogCommands(t *testing.T) {
	out, err := execute(t, "schemes")
	require.NoError(t, err)
	assert.Contains(t, out, "pc")
	assert.Contains(t, out, "Predictor-Corrector")

	out, err = execute(t, "presets")
	require.NoError(t, err)
	for _, name := range []string{"coarse", "fine", "long", "reference"} {
		assert.Contains(t, out, name)
	}
}
