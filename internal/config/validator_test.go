package config

import (
	"testing"

	"github.com/stretchr/testify/require"

	voilaerrors "github.com/alexisbeaulieu97/voila/pkg/errors"
)

func validConfig() *Config {
	workdir := Bare("/app")
	return &Config{
		ID: "shop",
		Stacks: []StackDefinition{
			{
				Name:    "web",
				Workdir: &workdir,
				Env:     []EnvVar{{Name: "NODE_ENV", Value: "development"}},
				Ports:   []string{"3000:3000"},
				Stages: Stages{
					Build: BuildStage{Images: []string{"node:18"}},
				},
			},
		},
	}
}

func TestValidateConfig(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name      string
		mutate    func(cfg *Config)
		wantField string
		wantValue any
		wantMsg   string
	}{
		{
			name:   "valid configuration passes",
			mutate: func(cfg *Config) {},
		},
		{
			name:      "id is required",
			mutate:    func(cfg *Config) { cfg.ID = "" },
			wantField: "id",
			wantMsg:   "is required",
		},
		{
			name:      "stack name must be usable as a container name",
			mutate:    func(cfg *Config) { cfg.Stacks[0].Name = "my web" },
			wantField: "stacks[0].name",
			wantValue: "my web",
		},
		{
			name:      "workdir is required",
			mutate:    func(cfg *Config) { cfg.Stacks[0].Workdir = nil },
			wantField: "stacks[0].workdir",
			wantMsg:   "is required",
		},
		{
			name: "mapped workdir needs a container path",
			mutate: func(cfg *Config) {
				wd := Mapped("./src", "")
				cfg.Stacks[0].Workdir = &wd
			},
			wantField: "stacks[0].workdir.container",
		},
		{
			name:      "at least one image is required",
			mutate:    func(cfg *Config) { cfg.Stacks[0].Stages.Build.Images = []string{} },
			wantField: "stacks[0].stages.build.images",
			wantMsg:   "must contain at least 1 item(s)",
		},
		{
			name:      "env names are checked",
			mutate:    func(cfg *Config) { cfg.Stacks[0].Env[0].Name = "1BAD" },
			wantField: "stacks[0].env[0].name",
			wantValue: "1BAD",
		},
		{
			name:      "env values must fit on one line",
			mutate:    func(cfg *Config) { cfg.Stacks[0].Env[0].Value = "line1\nline2" },
			wantField: "stacks[0].env[0].value",
			wantValue: "line1\nline2",
			wantMsg:   "must fit on one line (no line breaks or control characters)",
		},
		{
			name: "build env values must fit on one line",
			mutate: func(cfg *Config) {
				cfg.Stacks[0].Stages.Build.Env = []EnvVar{{Name: "TOKEN", Value: "abc\r"}}
			},
			wantField: "stacks[0].stages.build.env[0].value",
			wantValue: "abc\r",
		},
		{
			name:   "tabs are allowed in env values",
			mutate: func(cfg *Config) { cfg.Stacks[0].Env[0].Value = "a\tb" },
		},
		{
			name:      "ports must be mappings",
			mutate:    func(cfg *Config) { cfg.Stacks[0].Ports = []string{"3000:3000", "http"} },
			wantField: "stacks[0].ports[1]",
			wantValue: "http",
		},
		{
			name:      "stack names are unique",
			mutate:    func(cfg *Config) { cfg.Stacks = append(cfg.Stacks, cfg.Stacks[0]) },
			wantField: "stacks[1].name",
			wantValue: "web",
			wantMsg:   "duplicate stack name (first declared at stacks[0])",
		},
		{
			name: "execute lines must tokenize",
			mutate: func(cfg *Config) {
				cfg.Stacks[0].Stages.Build.Actions = []Action{
					{Kind: ActionExecute, Execute: &Command{Line: `echo "unterminated`}},
				}
			},
			wantField: "stacks[0].stages.build.actions[0].execute",
			wantValue: `echo "unterminated`,
		},
		{
			name: "execute lines are checked past shell operators",
			mutate: func(cfg *Config) {
				cfg.Stacks[0].Stages.Build.Actions = []Action{
					{Kind: "cache"},
					{Kind: ActionExecute, Execute: &Command{Line: `npm ci && echo "unterminated`}},
				}
			},
			wantField: "stacks[0].stages.build.actions[1].execute",
		},
		{
			name: "unknown actions are not validated",
			mutate: func(cfg *Config) {
				cfg.Stacks[0].Stages.Build.Actions = []Action{{Kind: "cache"}}
			},
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			cfg := validConfig()
			tc.mutate(cfg)

			err := ValidateConfig(cfg)
			if tc.wantField == "" {
				require.NoError(t, err)
				return
			}

			var validationErr *voilaerrors.ValidationError
			require.ErrorAs(t, err, &validationErr)
			require.Equal(t, tc.wantField, validationErr.Field)
			if tc.wantValue != nil {
				require.Equal(t, tc.wantValue, validationErr.Value)
			}
			if tc.wantMsg != "" {
				require.Equal(t, tc.wantMsg, validationErr.Message)
			}
		})
	}
}

func TestValidateConfigNil(t *testing.T) {
	t.Parallel()

	err := ValidateConfig(nil)
	var validationErr *voilaerrors.ValidationError
	require.ErrorAs(t, err, &validationErr)
}
