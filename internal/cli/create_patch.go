package cli

import (
	"github.com/spf13/cobra"

	"patches.dev/patches/internal/actions"
	"patches.dev/patches/internal/cli/helpers"
	"patches.dev/patches/internal/runtime"
)

// newCreatePatchCmd creates the create-patch command
func newCreatePatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create-patch [name]",
		Short: "Record the newest commit of the work directory as a patch file",
		Long: `Record the difference between HEAD~1 and HEAD of the work directory,
together with the commit's author, date and message, as <name>.patch in the
patches directory. An existing file of that name is replaced.

Without a name you are prompted for one.`,
		Aliases: []string{"create"},
		Args:    helpers.MaxArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var opts actions.CreatePatchOptions
			if len(args) > 0 {
				opts.Name = args[0]
			}
			return helpers.Run(cmd, func(ctx *runtime.Context) error {
				_, err := actions.CreatePatchAction(ctx, opts)
				return err
			})
		},
	}
}
