package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestRootCmd_ProcessesFile(t *testing.T) {
	t.Setenv("METRICS_TEXTFILE", "")

	stdout, _, err := execute(t, "--log-level", "disabled", "testdata/transactions.csv")
	require.NoError(t, err)

	want, err := os.ReadFile("testdata/expected.csv")
	require.NoError(t, err)
	assert.Equal(t, string(want), stdout)
}

func TestRootCmd_RequiresExactlyOneArg(t *testing.T) {
	_, _, err := execute(t)
	require.Error(t, err)

	_, _, err = execute(t, "a.csv", "b.csv")
	require.Error(t, err)
}

func TestRootCmd_MissingFile(t *testing.T) {
	stdout, _, err := execute(t, "--log-level", "disabled", filepath.Join(t.TempDir(), "missing.csv"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open input")
	assert.Empty(t, stdout)
}

func TestRootCmd_LogsGoToStderr(t *testing.T) {
	t.Setenv("METRICS_TEXTFILE", "")

	stdout, stderr, err := execute(t, "--log-level", "info", "testdata/transactions.csv")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(stdout, "client,available,held,total,locked\n"))
	assert.Contains(t, stderr, "transactions processed")
	assert.NotContains(t, stdout, "run_id")
}

func TestRootCmd_WritesMetricsTextfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "txledger.prom")
	t.Setenv("METRICS_TEXTFILE", path)

	_, _, err := execute(t, "--log-level", "disabled", "testdata/transactions.csv")
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `txledger_runs_total{status="ok"} 1`)
	assert.Contains(t, string(data), "txledger_locked_accounts 1")
}

func TestGenerateCmd_RoundTrip(t *testing.T) {
	t.Setenv("METRICS_TEXTFILE", "")

	dir := t.TempDir()
	input := filepath.Join(dir, "input.csv")
	expected := filepath.Join(dir, "expected.csv")

	_, _, err := execute(t, "--log-level", "disabled", "generate",
		"--clients", "20", "--transactions", "2000", "--seed", "7",
		"--input", input, "--expected", expected)
	require.NoError(t, err)

	stdout, _, err := execute(t, "--log-level", "disabled", input)
	require.NoError(t, err)

	want, err := os.ReadFile(expected)
	require.NoError(t, err)
	assert.Equal(t, string(want), stdout)
}

func TestGenerateCmd_RejectsBadConfig(t *testing.T) {
	_, _, err := execute(t, "--log-level", "disabled", "generate", "--clients", "0")
	require.Error(t, err)
}

func TestRootCmd_HelpDescribesReadFailures(t *testing.T) {
	stdout, _, err := execute(t, "--help")
	require.NoError(t, err)

	assert.Contains(t, stdout, "Rows that cannot be decoded are skipped")
	assert.Contains(t, stdout, "no summary is written and txledger exits with status 1")
}

func TestRootCmd_DirectoryInputFailsWithoutSummary(t *testing.T) {
	t.Setenv("METRICS_TEXTFILE", "")

	stdout, _, err := execute(t, "--log-level", "disabled", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read transaction 1")
	assert.Empty(t, stdout)
}
