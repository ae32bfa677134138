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

func TestPrepPrintsTrainRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.csv")
	require.NoError(t, os.WriteFile(path, []byte("a,b\n1,10\n2,NA\n3,30\n4,40\n"), 0o644))

	stdout, stderr, err := execute(t, path, "--seed", "1", "--fraction", "0.5", "--show", "train", "--log-level", "error")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(stdout, "\n"), "\n")
	assert.Len(t, lines, 2)
	for _, l := range lines {
		assert.Len(t, strings.Fields(l), 2)
		assert.False(t, strings.HasSuffix(l, " "))
	}
	assert.Contains(t, stderr, "rows=4 train=2 test=2")
}

func TestPrepPreviewLimitsRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.csv")
	require.NoError(t, os.WriteFile(path, []byte("a\n1\n2\n3\n4\n"), 0o644))

	stdout, _, err := execute(t, path, "--seed", "3", "--show", "raw", "--preview", "2", "--log-level", "error")
	require.NoError(t, err)
	assert.Equal(t, "1\n2\n", stdout)
}

func TestPrepRequiresInput(t *testing.T) {
	_, _, err := execute(t, "--log-level", "error")
	assert.Error(t, err)
}

func TestPrepRejectsBadFraction(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.csv")
	require.NoError(t, os.WriteFile(path, []byte("a\n1\n2\n"), 0o644))

	_, _, err := execute(t, path, "--fraction", "2", "--log-level", "error")
	assert.Error(t, err)
}

func TestPrepReportsMalformedInput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.csv")
	require.NoError(t, os.WriteFile(path, []byte("a\n1\nx\n"), 0o644))

	stdout, _, err := execute(t, path, "--log-level", "error")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "malformed")
	assert.Empty(t, stdout)
}

func TestPrepRejectsUnknownShowBeforeLoading(t *testing.T) {
	// The input does not exist, so reaching the loader would fail differently.
	path := filepath.Join(t.TempDir(), "missing.csv")

	stdout, stderr, err := execute(t, path, "--show", "everything", "--log-level", "error")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown table")
	assert.NotContains(t, err.Error(), "file unreadable")
	assert.NotContains(t, stderr, "rows=")
	assert.Empty(t, stdout)
}
