package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/theapemachine/qsim"
	"gopkg.in/yaml.v3"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	out := &bytes.Buffer{}
	root.SetOut(out)
	root.SetErr(out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestRootCmd_Definition(t *testing.T) {
	root := newRootCmd()
	assert.Equal(t, "qsim", root.Use)

	var names []string
	for _, cmd := range root.Commands() {
		names = append(names, cmd.Name())
	}
	assert.Contains(t, names, "run")
	assert.Contains(t, names, "info")

	qubits := root.PersistentFlags().Lookup("qubits")
	require.NotNil(t, qubits)
	assert.Equal(t, "n", qubits.Shorthand)
	assert.Equal(t, "2", qubits.DefValue)
}

func TestLoadSettings(t *testing.T) {
	t.Run("defaults without a config file", func(t *testing.T) {
		t.Chdir(t.TempDir())

		run := newRunCmd(&globalFlags{})
		resolved, err := loadSettings(run, "")
		require.NoError(t, err)

		defaults := qsim.NewSimulationConfig()
		assert.Equal(t, defaults.OptimizationLevel, resolved.config.OptimizationLevel)
		assert.Equal(t, defaults.MemoryLimitGB, resolved.config.MemoryLimitGB)
		assert.Equal(t, defaults.MaxParallelGates, resolved.config.MaxParallelGates)
		assert.Equal(t, uint64(0), resolved.seed)
	})

	t.Run("config file values", func(t *testing.T) {
		dir := t.TempDir()
		path := writeFile(t, dir, "custom.yaml", "level: basic\nmemory_limit_gb: 2\nmax_parallel_gates: 3\nparallel_threshold: 64\nseed: 17\n")

		run := newRunCmd(&globalFlags{})
		resolved, err := loadSettings(run, path)
		require.NoError(t, err)

		assert.Equal(t, qsim.OptimizationBasic, resolved.config.OptimizationLevel)
		assert.Equal(t, 2.0, resolved.config.MemoryLimitGB)
		assert.Equal(t, 3, resolved.config.MaxParallelGates)
		assert.Equal(t, 64, resolved.config.ParallelThreshold)
		assert.Equal(t, uint64(17), resolved.seed)
	})

	t.Run("environment overrides the file, flags override both", func(t *testing.T) {
		dir := t.TempDir()
		path := writeFile(t, dir, "qsim.yaml", "level: basic\nmemory_limit_gb: 2\n")
		t.Setenv("QSIM_LEVEL", "aggressive")
		t.Setenv("QSIM_MEMORY_LIMIT_GB", "4")

		run := newRunCmd(&globalFlags{})
		require.NoError(t, run.Flags().Set("memory-limit", "1.5"))

		resolved, err := loadSettings(run, path)
		require.NoError(t, err)
		assert.Equal(t, qsim.OptimizationAggressive, resolved.config.OptimizationLevel)
		assert.Equal(t, 1.5, resolved.config.MemoryLimitGB)
	})

	t.Run("bad level", func(t *testing.T) {
		t.Chdir(t.TempDir())
		t.Setenv("QSIM_LEVEL", "turbo")

		_, err := loadSettings(newRunCmd(&globalFlags{}), "")
		assert.Error(t, err)
	})

	t.Run("missing explicit config file", func(t *testing.T) {
		_, err := loadSettings(newRunCmd(&globalFlags{}), filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})
}

func TestRunCmd(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	script := writeFile(t, dir, "bell.qs", "H 0\nCNOT 0 1\nMEASURE_ALL\n")

	t.Run("text output", func(t *testing.T) {
		out, err := execute(t, "run", script, "-n", "2", "--seed", "3", "--shots", "10")
		require.NoError(t, err)
		assert.Contains(t, out, "bell (2 qubits, level ultra)")
		assert.Contains(t, out, "Measurements:")
		assert.Contains(t, out, "Counts:")
	})

	t.Run("yaml output", func(t *testing.T) {
		out, err := execute(t, "run", script, "-n", "2", "--seed", "3", "--optimize", "--format", "yaml", "--level", "none")
		require.NoError(t, err)

		var report runReport
		require.NoError(t, yaml.Unmarshal([]byte(out), &report))
		assert.Equal(t, "bell", report.Circuit)
		assert.Equal(t, "none", report.Level)
		assert.Len(t, report.Measurements, 2)
		assert.Len(t, report.Bitstring, 2)
		assert.Equal(t, report.Bitstring[0], report.Bitstring[1])
		require.NotNil(t, report.Optimization)
		assert.Equal(t, 2, report.Optimization.GatesAfter)
	})

	t.Run("unknown format", func(t *testing.T) {
		_, err := execute(t, "run", script, "--format", "xml")
		assert.Error(t, err)
	})

	t.Run("script errors surface", func(t *testing.T) {
		bad := writeFile(t, dir, "bad.qs", "H 5\n")
		_, err := execute(t, "run", bad, "-n", "2")
		assert.ErrorIs(t, err, qsim.ErrQubitOutOfBounds)
	})

	t.Run("memory budget", func(t *testing.T) {
		_, err := execute(t, "run", script, "-n", "40", "--memory-limit", "1")
		assert.ErrorIs(t, err, qsim.ErrMemoryBudgetExceeded)
	})
}

func TestInfoCmd(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	script := writeFile(t, dir, "ghz.qs", "H 0\nCNOT 0 1\nCNOT 1 2\nMEASURE 2\n")

	out, err := execute(t, "info", script, "-n", "3", "--dump")
	require.NoError(t, err)
	assert.Contains(t, out, "Circuit: ghz")
	assert.Contains(t, out, "CNOT: 2")
	assert.Contains(t, out, "q1: [0 2]")
	assert.Contains(t, out, "Measured: [2]")
	assert.Contains(t, out, "ParallelGroups")
}
