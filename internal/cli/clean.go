package cli

import (
	"github.com/spf13/cobra"

	"patches.dev/patches/internal/actions"
	"patches.dev/patches/internal/cli/helpers"
	"patches.dev/patches/internal/runtime"
)

// newCleanCmd creates the clean command
func newCleanCmd() *cobra.Command {
	var opts actions.CleanOptions

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Delete the work directory",
		Args:  helpers.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return helpers.Run(cmd, func(ctx *runtime.Context) error {
				return actions.CleanAction(ctx, opts)
			})
		},
	}

	cmd.Flags().BoolVarP(&opts.Force, "force", "f", false, "Do not ask for confirmation")
	return cmd
}
