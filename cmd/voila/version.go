package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/voila/internal/config"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func newVersionCmd(root *rootFlags) *cobra.Command {
	var short bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Display build information and the config in effect",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if short {
				fmt.Fprintln(out, version)
				return nil
			}

			fmt.Fprintf(out, "Voila %s\ncommit: %s\nbuilt: %s\nplatform: %s/%s (%s)\n",
				version, commit, date, runtime.GOOS, runtime.GOARCH, runtime.Version())
			fmt.Fprintf(out, "config: %s\n", describeConfig(root))
			return nil
		},
	}

	cmd.Flags().BoolVar(&short, "short", false, "Print only the version number")
	return cmd
}

// describeConfig names the config a stack command would load from here.
// Lookup failures are reported inline; version never fails on them.
func describeConfig(root *rootFlags) string {
	src, err := source(root)
	if err != nil {
		return "unavailable"
	}

	path := src.ConfigPath
	if path == "" {
		loc, err := config.Locate(src.Cwd)
		if err != nil {
			return "none found"
		}
		path = loc.Path
	}

	cfg, err := config.ParseConfig(path)
	if err != nil {
		return fmt.Sprintf("%s (invalid)", path)
	}
	return fmt.Sprintf("%s (id %s, %d stack(s))", path, cfg.ID, len(cfg.Stacks))
}
