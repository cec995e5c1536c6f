package main

import (
	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/voila/internal/app/stacks"
)

type execFlags struct {
	stackName string
	stackPath string
	detach    bool
}

func newExecCmd(root *rootFlags) *cobra.Command {
	flags := &execFlags{}

	cmd := &cobra.Command{
		Use:     "exec [command...]",
		Aliases: []string{"$"},
		Short:   "Run a shell command inside of a running stack",
		Long: `Run a shell command inside of a running stack.

Without a command the stack's run command is used. The command runs in the
container directory matching the current directory unless --stack-path is
given.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newService(cmd, root)
			if err != nil {
				return err
			}
			src, err := source(root)
			if err != nil {
				return err
			}

			output, err := svc.Exec(cmd.Context(), stacks.ExecRequest{
				Source:    src,
				Args:      args,
				StackName: flags.stackName,
				StackPath: flags.stackPath,
				Detach:    flags.detach,
			})
			return report(cmd, output, err)
		},
	}

	// Everything after the first argument belongs to the command.
	cmd.Flags().SetInterspersed(false)
	cmd.Flags().StringVar(&flags.stackName, "stack-name", "", "Specify stack name")
	cmd.Flags().StringVar(&flags.stackPath, "stack-path", "", "Absolute path inside the container to run the command in")
	cmd.Flags().BoolVar(&flags.detach, "detach-command", false, "Run command asynchronously")

	return cmd
}
