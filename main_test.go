package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/term"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestLevelsCommand(t *testing.T) {
	out, err := execute(t, "levels", "--config", filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)

	assert.Contains(t, out, "Preview")
	assert.Contains(t, out, "10s")
	assert.Contains(t, out, "28 pairs in total, 30 icons available")
}

func TestLevelsCommand_FromConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[[levels]]\npairs = 2\npreview_ms = 250\n"), 0o644))

	out, err := execute(t, "levels", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "250ms")
	assert.Contains(t, out, "2 pairs in total")
}

func TestSimulateCommand(t *testing.T) {
	out, err := execute(t, "simulate",
		"--config", filepath.Join(t.TempDir(), "missing.toml"),
		"--seed", "5",
		"--log-level", "error",
		"--misses", "0",
		"--think", "0s",
	)
	require.NoError(t, err)

	assert.Contains(t, out, "seed: 5")
	assert.Contains(t, out, "Total misses: 0")
	assert.Contains(t, out, "Total time: 9.8s")
}

func TestInvalidFlagValue(t *testing.T) {
	_, err := execute(t, "levels",
		"--config", filepath.Join(t.TempDir(), "missing.toml"),
		"--log-level", "chatty",
	)
	assert.Error(t, err)
}

func TestPlayCommand_NeedsTerminal(t *testing.T) {
	if term.IsTerminal(int(os.Stdout.Fd())) {
		t.Skip("stdout is a terminal")
	}
	_, err := execute(t, "play", "--config", filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorIs(t, err, errNotTerminal)
}

type failingCloser struct{}

func (failingCloser) Close() error { return errors.New("disk gone") }

func TestCloseLog_ReportsError(t *testing.T) {
	var buf bytes.Buffer
	orig := errOut
	errOut = &buf
	t.Cleanup(func() { errOut = orig })

	closeLog(failingCloser{})
	assert.Equal(t, "failed to close log file: disk gone\n", buf.String())

	buf.Reset()
	f, err := os.CreateTemp(t.TempDir(), "log")
	require.NoError(t, err)
	closeLog(f)
	assert.Empty(t, buf.String())
}
