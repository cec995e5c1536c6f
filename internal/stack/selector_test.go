package stack

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/voila/internal/config"
	voilaerrors "github.com/alexisbeaulieu97/voila/pkg/errors"
)

type fakePrompter struct {
	choice  string
	err     error
	calls   int
	offered []string
}

func (p *fakePrompter) ChooseStack(_ context.Context, _ string, names []string) (string, error) {
	p.calls++
	p.offered = names
	return p.choice, p.err
}

func mappedAt(name, host string) config.StackDefinition {
	def := named(webDefinition(), name)
	def.Workdir = pathSpec(config.Mapped(host, "/app"))
	return def
}

// web and api live under configDir; admin nests inside web; db elsewhere.
func selectorRegistry(t *testing.T) *Registry {
	t.Helper()

	return loadRegistry(t,
		mappedAt("web", "./web"),
		mappedAt("api", "/home/dev/shop/api"),
		mappedAt("admin", "./web/admin"),
		mappedAt("db", "/opt/db"),
	)
}

func stackNames(stacks []*CompiledStack) []string {
	return names(stacks)
}

func TestSelectPrecedence(t *testing.T) {
	t.Parallel()

	reg := selectorRegistry(t)
	ctx := context.Background()

	cases := []struct {
		name string
		sel  Selection
		cwd  string
		want []string
	}{
		{"all wins over positional", Selection{All: true, Positional: "db"}, "/", []string{"web", "api", "admin", "db"}},
		{"positional wins over flag", Selection{Positional: "db", Flag: "api"}, "/", []string{"db"}},
		{"flag wins over path", Selection{Flag: "api"}, "/home/dev/shop/web", []string{"api"}},
		{"single stack in path", Selection{}, "/home/dev/shop/api/internal", []string{"api"}},
		{"relative host dir resolved against config dir", Selection{}, "/home/dev/shop/web/src", []string{"web"}},
		{"absolute host dir", Selection{}, "/opt/db", []string{"db"}},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			prompter := &fakePrompter{}
			got, err := Select(ctx, reg, tc.sel, tc.cwd, prompter)
			require.NoError(t, err)
			assert.Equal(t, tc.want, stackNames(got))
			assert.Zero(t, prompter.calls)
		})
	}
}

func TestSelectExplicitUnknownStack(t *testing.T) {
	t.Parallel()

	reg := selectorRegistry(t)

	_, err := Select(context.Background(), reg, Selection{Positional: "nope"}, "/", nil)
	require.ErrorIs(t, err, voilaerrors.ErrStackNotFound)

	_, err = Select(context.Background(), reg, Selection{Flag: "nope"}, "/home/dev/shop/web", nil)
	require.ErrorIs(t, err, voilaerrors.ErrStackNotFound)
}

func TestSelectSingleStackIgnoresPath(t *testing.T) {
	t.Parallel()

	reg := loadRegistry(t, mappedAt("db", "/opt/db"))

	got, err := Select(context.Background(), reg, Selection{}, "/somewhere/else", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"db"}, stackNames(got))
}

func TestSelectPromptsWhenAmbiguous(t *testing.T) {
	t.Parallel()

	reg := selectorRegistry(t)
	prompter := &fakePrompter{choice: "admin"}

	got, err := Select(context.Background(), reg, Selection{}, "/home/dev/shop/web/admin/views", prompter)
	require.NoError(t, err)
	assert.Equal(t, []string{"admin"}, stackNames(got))
	assert.Equal(t, 1, prompter.calls)
	assert.Equal(t, []string{"web", "admin"}, prompter.offered)
}

func TestSelectPromptFailures(t *testing.T) {
	t.Parallel()

	reg := selectorRegistry(t)
	cwd := "/home/dev/shop/web/admin"

	cancelled := errors.New("cancelled")
	_, err := Select(context.Background(), reg, Selection{}, cwd, &fakePrompter{err: cancelled})
	require.ErrorIs(t, err, cancelled)

	_, err = Select(context.Background(), reg, Selection{}, cwd, &fakePrompter{choice: "db"})
	require.ErrorIs(t, err, voilaerrors.ErrStackNotFound)

	_, err = Select(context.Background(), reg, Selection{}, cwd, nil)
	require.ErrorIs(t, err, voilaerrors.ErrNotInteractive)
}

func TestSelectRequiresNameOutsideStacks(t *testing.T) {
	t.Parallel()

	reg := selectorRegistry(t)

	_, err := Select(context.Background(), reg, Selection{}, "/home/dev", &fakePrompter{})
	require.ErrorIs(t, err, voilaerrors.ErrSpecifyStackName)
}

func TestInPathUsesBareWorkdirConfigDir(t *testing.T) {
	t.Parallel()

	reg := loadRegistry(t, webDefinition(), mappedAt("db", "/opt/db"))

	got := InPath(reg, "/home/dev/shop/src")
	assert.Equal(t, []string{"web"}, stackNames(got))
	assert.Equal(t, configDir, HostPath(reg, got[0]))
}
