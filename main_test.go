package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"q.log/tabsimplex/simplex"
)

const twoPhaseYAML = `
objective: [1, 2, 0]
constraints:
  - [1, 1, 1, 4]
  - [-1, 1, 0, 2]
basis: [x2, x3]
`

const maxYAML = `
maximize: true
objective: [3, 5, 0, 0, 0]
constraints:
  - [1, 0, 1, 0, 0, 4]
  - [0, 2, 0, 1, 0, 12]
  - [3, 2, 0, 0, 1, 18]
basis: [x3, x4, x5]
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func execCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Chdir(t.TempDir())
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestArtificialCommand(t *testing.T) {
	path := writeFile(t, "p.yaml", twoPhaseYAML)
	out, err := execCmd(t, "artificial", "--problem", path, "--fractional", "--verify", "--trace")
	require.NoError(t, err)
	assert.Contains(t, out, "status: optimal")
	assert.Contains(t, out, "x2 = 2")
	assert.Contains(t, out, "x3 = 2")
	assert.Contains(t, out, "Z = 4")
	assert.Contains(t, out, "artificial tableau 0")
	assert.Contains(t, out, "simplex tableau 4")
	assert.Contains(t, out, "gonum:")
}

func TestSolveCommand(t *testing.T) {
	// x2 and x3 basic: x2 = 2, x3 = 2 is already optimal
	path := writeFile(t, "p.yaml", twoPhaseYAML)
	out, err := execCmd(t, "solve", "--problem", path, "--show-model")
	require.NoError(t, err)
	assert.Contains(t, out, "A = ")
	assert.Contains(t, out, "T = ")
	assert.Contains(t, out, "rows [x2 x3], columns [x1]")
	assert.Contains(t, out, "status: optimal")
	assert.Contains(t, out, "Z = 4")
}

func TestMaximizeCommand(t *testing.T) {
	// max 3x1 + 5x2 is 36 at x1 = 2, x2 = 6
	path := writeFile(t, "p.yaml", maxYAML)
	for _, args := range [][]string{
		{"solve", "--problem", path, "--verify"},
		{"artificial", "--problem", path, "--verify", "--fractional"},
	} {
		out, err := execCmd(t, args...)
		require.NoError(t, err)
		assert.Contains(t, out, "x1 = 2")
		assert.Contains(t, out, "x2 = 6")
		assert.Equal(t, 2, strings.Count(out, "Z = 36"), out)
		assert.NotContains(t, out, "Z = -36")
	}
}

func TestCommandErrors(t *testing.T) {
	_, err := execCmd(t, "artificial")
	assert.Error(t, err)

	infeasible := writeFile(t, "p.yaml", "objective: [1, 1]\nconstraints: [[1, 1, -3]]\n")
	_, err = execCmd(t, "--problem", infeasible, "--fractional")
	assert.True(t, errors.Is(err, simplex.ErrInfeasibleProblem), "got %v", err)

	unbounded := writeFile(t, "p.yaml", "objective: [-1, 0]\nconstraints: [[-1, 1, 2]]\nbasis: [x2]\n")
	out, err := execCmd(t, "solve", "--problem", unbounded)
	assert.True(t, errors.Is(err, simplex.ErrUnbounded), "got %v", err)
	assert.Contains(t, out, "status: unbounded")

	_, err = execCmd(t, "--problem", unbounded, "--rule", "steepest")
	assert.Error(t, err)
}

func TestLoadConfig(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("TABSIMPLEX_RULE", "bland")
	t.Setenv("TABSIMPLEX_LOG_LEVEL", "debug")

	cmd := newRootCmd()
	require.NoError(t, cmd.ParseFlags([]string{"--max-iterations", "7"}))
	cfg, err := loadConfig(cmd)
	require.NoError(t, err)
	assert.Equal(t, "bland", cfg.Rule)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 7, cfg.MaxIterations)
	assert.Equal(t, "artificial", cfg.Method)
	assert.Equal(t, 3, cfg.Precision)
	assert.False(t, cfg.Fractional)
}

func TestLoadConfigFile(t *testing.T) {
	path := writeFile(t, "simplex.yaml", "fractional: true\nmethod: simplex\nlog:\n  format: json\n")
	cmd := newRootCmd()
	require.NoError(t, cmd.ParseFlags([]string{"--config", path}))
	cfg, err := loadConfig(cmd)
	require.NoError(t, err)
	assert.True(t, cfg.Fractional)
	assert.Equal(t, "simplex", cfg.Method)
	assert.Equal(t, "json", cfg.Log.Format)

	bad := writeFile(t, "simplex.yaml", "method: interior\n")
	cmd = newRootCmd()
	require.NoError(t, cmd.ParseFlags([]string{"--config", bad}))
	_, err = loadConfig(cmd)
	assert.Error(t, err)
}
