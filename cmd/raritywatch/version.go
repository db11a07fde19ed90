package main

import (
	"fmt"
	"runtime"

	"github.com/rickgao/raritywatch/internal/version"
	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	var extended bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if !extended {
				fmt.Fprintf(out, "raritywatch %s\n", version.Version)
				return nil
			}
			fmt.Fprintf(out, "raritywatch %s\n", version.Version)
			fmt.Fprintf(out, "Commit: %s\n", version.Commit)
			fmt.Fprintf(out, "Built: %s\n", version.BuildTime)
			fmt.Fprintf(out, "Go: %s\n", runtime.Version())
			return nil
		},
	}

	cmd.Flags().BoolVarP(&extended, "extended", "e", false, "show commit, build time and Go version")
	return cmd
}
