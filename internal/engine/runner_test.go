package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/voila/internal/logger"
	voilaerrors "github.com/alexisbeaulieu97/voila/pkg/errors"
)

type logEntry map[string]any

func newTestRunner(t *testing.T) (*Runner, *bytes.Buffer) {
	t.Helper()

	buf := &bytes.Buffer{}
	log, err := logger.New(logger.Options{Level: "debug", Writer: buf})
	require.NoError(t, err)
	return NewRunner(log), buf
}

func entries(t *testing.T, buf *bytes.Buffer) []logEntry {
	t.Helper()

	var out []logEntry
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry logEntry
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		out = append(out, entry)
	}
	return out
}

func lastError(t *testing.T, buf *bytes.Buffer) logEntry {
	t.Helper()

	all := entries(t, buf)
	for i := len(all) - 1; i >= 0; i-- {
		if all[i]["level"] == "error" {
			return all[i]
		}
	}
	t.Fatalf("no error entry in %q", buf.String())
	return nil
}

func emit(msgs ...string) Action {
	return func(context.Context, *Context) ([]string, error) { return msgs, nil }
}

func TestRunStopsAtFirstFailure(t *testing.T) {
	t.Parallel()

	runner, buf := newTestRunner(t)
	var ran []string

	record := func(name string, out []string, err error) Action {
		return func(context.Context, *Context) ([]string, error) {
			ran = append(ran, name)
			return out, err
		}
	}

	tasks := []Task{
		{Title: "A", Action: record("A", []string{"a done"}, nil)},
		{Title: "B", Skip: func(*Context) bool { return true }, Action: record("B", []string{"b done"}, nil)},
		{Title: "C", Action: record("C", []string{"c partial"}, voilaerrors.StackNotRunning("web"))},
		{Title: "D", Action: record("D", []string{"d done"}, nil)},
	}

	output, err := runner.Run(context.Background(), tasks, &Context{})
	require.ErrorIs(t, err, ErrAborted)
	assert.Equal(t, []string{"a done"}, output)
	assert.Equal(t, []string{"A", "C"}, ran)

	entry := lastError(t, buf)
	assert.Equal(t, `Stack "web" is not running. Start it with `+"`voila start`.", entry["message"])
	assert.NotContains(t, entry, "error")
}

func TestRunReturnsAccumulatedOutput(t *testing.T) {
	t.Parallel()

	runner, buf := newTestRunner(t)
	execCtx := &Context{Output: []string{"stale"}}

	output, err := runner.Run(context.Background(), []Task{
		{Title: "Loading config", Action: emit("one")},
		{Action: emit()},
		{Action: emit("two", "three")},
	}, execCtx)

	require.NoError(t, err)
	assert.Equal(t, []string{"one", "two", "three"}, output)
	assert.Equal(t, output, execCtx.Output)

	logged := entries(t, buf)
	require.Len(t, logged, 1)
	assert.Equal(t, "Loading config", logged[0]["message"])
}

func TestSkipSeesEarlierMutations(t *testing.T) {
	t.Parallel()

	runner, _ := newTestRunner(t)
	ran := false

	tasks := []Task{
		{Action: func(_ context.Context, execCtx *Context) ([]string, error) {
			execCtx.ConfigPath = "/tmp/.voila.yml"
			return nil, nil
		}},
		{
			Skip: func(execCtx *Context) bool { return execCtx.ConfigPath != "" },
			Action: func(context.Context, *Context) ([]string, error) {
				ran = true
				return nil, nil
			},
		},
	}

	_, err := runner.Run(context.Background(), tasks, nil)
	require.NoError(t, err)
	assert.False(t, ran)
}

func TestRunReportsByClass(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name      string
		err       error
		class     Class
		message   string
		withError bool
	}{
		{
			name:    "schema violation shows path and value",
			err:     fmt.Errorf("load: %w", voilaerrors.NewValidationError("stacks[0].ports[1]", "must be a port mapping", "http", nil)),
			class:   ClassSchema,
			message: `Config validation failed: stacks[0].ports[1] must be a port mapping (got "http")`,
		},
		{
			name:    "parse error is schema class",
			err:     voilaerrors.NewParseError(".voila.yml", 3, errors.New("mapping values are not allowed")),
			class:   ClassSchema,
			message: "Config validation failed: parse error: .voila.yml:3: mapping values are not allowed",
		},
		{
			name:    "domain error shows message only",
			err:     fmt.Errorf("select: %w", voilaerrors.SpecifyStackName()),
			class:   ClassDomain,
			message: "Could not determine which stack to use. Please specify a stack name.",
		},
		{
			name:      "unexpected error shows detail",
			err:       fmt.Errorf("wrapped: %w", errors.New("disk on fire")),
			class:     ClassUnexpected,
			message:   "Unexpected error: wrapped: disk on fire",
			withError: true,
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.class, Classify(tc.err))

			runner, buf := newTestRunner(t)
			_, err := runner.Run(context.Background(), []Task{{
				Action: func(context.Context, *Context) ([]string, error) { return nil, tc.err },
			}}, &Context{})
			require.ErrorIs(t, err, ErrAborted)
			require.NotErrorIs(t, err, tc.err)

			entry := lastError(t, buf)
			assert.Equal(t, tc.message, entry["message"])
			if tc.withError {
				assert.Equal(t, "*fmt.wrapError", entry["type"])
				assert.Equal(t, tc.err.Error(), entry["error"])
			}
		})
	}
}

func TestRunWithoutActionIsUnexpected(t *testing.T) {
	t.Parallel()

	runner, buf := newTestRunner(t)
	_, err := runner.Run(context.Background(), []Task{{Title: "Broken"}}, &Context{})
	require.ErrorIs(t, err, ErrAborted)
	assert.Contains(t, lastError(t, buf)["message"], `task "Broken" has no action`)
}

func TestClassString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "schema", ClassSchema.String())
	assert.Equal(t, "domain", ClassDomain.String())
	assert.Equal(t, "unexpected", ClassUnexpected.String())
}
