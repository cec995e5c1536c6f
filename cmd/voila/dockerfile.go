package main

import (
	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/voila/internal/app/stacks"
)

func newDockerfileCmd(root *rootFlags) *cobra.Command {
	var sel selectionFlags

	cmd := &cobra.Command{
		Use:   "dockerfile [stack-name]",
		Short: "Print the Dockerfile generated for the selected stacks",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newService(cmd, root)
			if err != nil {
				return err
			}
			src, err := source(root)
			if err != nil {
				return err
			}

			output, err := svc.Dockerfile(cmd.Context(), stacks.DockerfileRequest{
				Source:    src,
				Selection: sel.selection(args),
			})
			return report(cmd, output, err)
		},
	}

	addSelectionFlags(cmd, &sel)
	return cmd
}
