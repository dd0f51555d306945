package cli

import (
	"github.com/spf13/cobra"

	"patches.dev/patches/internal/actions"
	"patches.dev/patches/internal/cli/helpers"
)

// newResetCmd creates the reset command
func newResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Discard all changes and return the work directory to the base ref",
		Long: `Remove untracked files, fetch branches and tags from origin and hard
reset the work directory to the configured base ref. Local commits and
uncommitted changes are lost.`,
		Args: helpers.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return helpers.Run(cmd, actions.ResetAction)
		},
	}
}
