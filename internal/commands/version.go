package commands

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/simonhull/nest"
)

// VersionCmd prints version information.
func VersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "nest %s (%s, %s/%s)\n",
				nest.Version, runtime.Version(), runtime.GOOS, runtime.GOARCH)
		},
	}
}
