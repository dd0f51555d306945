package cli

import (
	"github.com/spf13/cobra"

	"patches.dev/patches/internal/actions"
	"patches.dev/patches/internal/cli/helpers"
	"patches.dev/patches/internal/runtime"
)

// newConvertCmd creates the convert-patches command
func newConvertCmd() *cobra.Command {
	var opts actions.ConvertOptions

	cmd := &cobra.Command{
		Use:   "convert-patches",
		Short: "Write the plain diff of every patch into the converted directory",
		Args:  helpers.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return helpers.Run(cmd, func(ctx *runtime.Context) error {
				_, err := actions.ConvertAction(ctx, opts)
				return err
			})
		},
	}

	cmd.Flags().BoolVar(&opts.Check, "check", false, "Report converted files that are out of date instead of writing them")
	return cmd
}
