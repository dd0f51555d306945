package cli

import (
	"github.com/spf13/cobra"

	"patches.dev/patches/internal/actions"
	"patches.dev/patches/internal/cli/helpers"
	"patches.dev/patches/internal/runtime"
)

// newInitCmd creates the init command
func newInitCmd() *cobra.Command {
	var opts actions.InitOptions

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create the configuration and clone the base repository",
		Long: `Create the configuration file if it does not exist yet, then clone the
base repository at the base ref into the work directory.

A configuration created without --url holds a placeholder URL; edit it and
run init again.`,
		Args: helpers.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return helpers.Run(cmd, func(ctx *runtime.Context) error {
				return actions.InitAction(ctx, opts)
			})
		},
	}

	cmd.Flags().StringVar(&opts.URL, "url", "", "Base repository URL for a newly created configuration")
	return cmd
}
