package process

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func skipOnWindows(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("POSIX shell assumptions do not hold on Windows")
	}
}

func TestRunStreaming_Success(t *testing.T) {
	skipOnWindows(t)

	var stdout bytes.Buffer
	cmd := exec.Command("echo", "hello world")
	cmd.Stdout = &stdout

	result, err := RunStreaming(cmd)
	require.NoError(t, err)
	assert.Equal(t, "hello world", result.Stdout)
	assert.Equal(t, "", result.Stderr)
	assert.Equal(t, 0, result.ExitCode)
	assert.Equal(t, "hello world\n", stdout.String())
}

func TestRunStreaming_ExitCode(t *testing.T) {
	skipOnWindows(t)

	var stdout, stderr bytes.Buffer
	cmd := exec.Command("sh", "-c", "echo 'normal output'; echo 'error message' >&2; exit 3")
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	result, err := RunStreaming(cmd)
	require.Error(t, err)
	assert.Equal(t, 3, result.ExitCode)
	assert.Equal(t, "normal output", result.Stdout)
	assert.Equal(t, "error message", result.Stderr)
	assert.Equal(t, "error message\n", stderr.String())

	code, ok := ExitCode(err)
	assert.True(t, ok)
	assert.Equal(t, 3, code)
}

func TestOSRunnerFeedsStdin(t *testing.T) {
	skipOnWindows(t)

	var stdout bytes.Buffer
	result, err := OSRunner{}.Run(context.Background(), Command{
		Name:   "cat",
		Stdin:  strings.NewReader("FROM alpine\n"),
		Stdout: &stdout,
	})
	require.NoError(t, err)
	assert.Equal(t, "FROM alpine", result.Stdout)
	assert.Equal(t, "FROM alpine\n", stdout.String())
}

func TestOSRunnerHonoursContext(t *testing.T) {
	skipOnWindows(t)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := OSRunner{}.Run(ctx, Command{Name: "sleep", Args: []string{"5"}, Stdout: &bytes.Buffer{}})
	require.Error(t, err)
	assert.Less(t, time.Since(start), 4*time.Second)
}

func TestOSRunnerCommandNotFound(t *testing.T) {
	t.Parallel()

	result, err := OSRunner{}.Run(context.Background(), Command{Name: "voila-command-that-does-not-exist"})
	require.Error(t, err)
	assert.Zero(t, result.ExitCode)

	_, ok := ExitCode(err)
	assert.False(t, ok)
}

func TestExitCodeIgnoresOtherErrors(t *testing.T) {
	t.Parallel()

	_, ok := ExitCode(errors.New("boom"))
	assert.False(t, ok)
	_, ok = ExitCode(nil)
	assert.False(t, ok)
}

func TestPrimaryOutput(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "error message", PrimaryOutput(Result{Stdout: "normal output", Stderr: "error message"}))
	assert.Equal(t, "normal output", PrimaryOutput(Result{Stdout: "normal output"}))
	assert.Equal(t, "", PrimaryOutput(Result{}))
}
