package main

import (
	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/voila/internal/app/stacks"
	"github.com/alexisbeaulieu97/voila/internal/stack"
)

type selectionFlags struct {
	all       bool
	stackName string
}

func (f selectionFlags) selection(args []string) stack.Selection {
	sel := stack.Selection{All: f.all, Flag: f.stackName}
	if len(args) > 0 {
		sel.Positional = args[0]
	}
	return sel
}

func addSelectionFlags(cmd *cobra.Command, f *selectionFlags) {
	cmd.Flags().BoolVar(&f.all, "all", false, "Apply to every stack")
	cmd.Flags().StringVar(&f.stackName, "stack-name", "", "Specify stack name")
}

func newBuildCmd(root *rootFlags) *cobra.Command {
	var (
		build stacks.BuildFlags
		sel   selectionFlags
	)

	cmd := &cobra.Command{
		Use:   "build [stack-name]",
		Short: "Build the images of the selected stacks",
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

			output, err := svc.Build(cmd.Context(), stacks.BuildRequest{
				Source:     src,
				BuildFlags: build,
				Selection:  sel.selection(args),
			})
			return report(cmd, output, err)
		},
	}

	addBuildFlags(cmd, &build)
	addSelectionFlags(cmd, &sel)
	return cmd
}
