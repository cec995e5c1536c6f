package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/alexisbeaulieu97/voila/internal/app/stacks"
	"github.com/alexisbeaulieu97/voila/internal/infrastructure/docker"
	"github.com/alexisbeaulieu97/voila/internal/logger"
	"github.com/alexisbeaulieu97/voila/internal/ports"
	"github.com/alexisbeaulieu97/voila/internal/tui/prompt"
)

// newEngine is replaced in tests to keep docker out of the loop.
var newEngine = func(cmd *cobra.Command) stacks.EngineFactory {
	return func(configDir string) ports.ContainerEngine {
		client := docker.New(configDir)
		client.Stdout = cmd.OutOrStdout()
		client.Stderr = cmd.ErrOrStderr()
		return client
	}
}

func newService(cmd *cobra.Command, flags *rootFlags) (*stacks.Service, error) {
	stderr := cmd.ErrOrStderr()
	noColor := true
	if f, ok := stderr.(*os.File); ok {
		noColor = !term.IsTerminal(int(f.Fd()))
	}

	log, err := logger.New(logger.Options{Verbose: flags.verbose, HumanReadable: true, NoColor: noColor, Writer: stderr})
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}

	svc := stacks.NewService(newEngine(cmd), prompt.New(), log)
	svc.Out = cmd.OutOrStdout()
	return svc, nil
}

func source(flags *rootFlags) (stacks.Source, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return stacks.Source{}, fmt.Errorf("get working directory: %w", err)
	}

	src := stacks.Source{Cwd: cwd}
	if flags.configPath != "" {
		abs, err := filepath.Abs(flags.configPath)
		if err != nil {
			return stacks.Source{}, fmt.Errorf("resolve config path: %w", err)
		}
		src.ConfigPath = abs
	}
	return src, nil
}

// report prints the output of a successful run. Output of the tasks that
// completed before a failure is dropped; the failure was already logged.
func report(cmd *cobra.Command, output []string, err error) error {
	if err != nil {
		return err
	}
	for _, line := range output {
		fmt.Fprintln(cmd.OutOrStdout(), line)
	}
	return nil
}
