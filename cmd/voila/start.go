package main

import (
	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/voila/internal/app/stacks"
)

func newStartCmd(root *rootFlags) *cobra.Command {
	var build stacks.BuildFlags

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Build every stack and start its container",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newService(cmd, root)
			if err != nil {
				return err
			}
			src, err := source(root)
			if err != nil {
				return err
			}

			output, err := svc.Start(cmd.Context(), stacks.StartRequest{Source: src, BuildFlags: build})
			return report(cmd, output, err)
		},
	}

	addBuildFlags(cmd, &build)
	return cmd
}

func addBuildFlags(cmd *cobra.Command, build *stacks.BuildFlags) {
	cmd.Flags().BoolVar(&build.NoCache, "no-cache", false, "Don't use cache when building the image")
	cmd.Flags().BoolVar(&build.Pull, "pull", false, "Always attempt to pull a newer version of the image")
}
