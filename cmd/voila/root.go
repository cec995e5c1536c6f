package main

import (
	"github.com/spf13/cobra"
)

type rootFlags struct {
	configPath string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:           "voila",
		Short:         "Voila builds and runs local development stacks from a declarative config",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "Path to the config file (default: discovered .voila.yml)")
	cmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Enable verbose logging")

	cmd.AddCommand(newStartCmd(flags))
	cmd.AddCommand(newBuildCmd(flags))
	cmd.AddCommand(newExecCmd(flags))
	cmd.AddCommand(newDockerfileCmd(flags))
	cmd.AddCommand(newVersionCmd(flags))

	return cmd
}
