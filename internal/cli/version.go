package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"patches.dev/patches/internal/cli/helpers"
)

// newVersionCmd creates the version command
func newVersionCmd(build BuildInfo) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  helpers.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "patches %s\ncommit: %s\nbuilt: %s\n", build.Version, build.Commit, build.Date)
			return err
		},
	}
}
