package cli

import (
	"github.com/spf13/cobra"

	"patches.dev/patches/internal/actions"
	"patches.dev/patches/internal/cli/helpers"
	"patches.dev/patches/internal/runtime"
)

// newApplyCmd creates the apply command
func newApplyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "apply",
		Short: "Commit every patch onto the work directory, in file name order",
		Args:  helpers.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return helpers.Run(cmd, func(ctx *runtime.Context) error {
				_, err := actions.ApplyAction(ctx)
				return err
			})
		},
	}
}
