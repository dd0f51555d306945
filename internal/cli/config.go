package cli

import (
	"github.com/spf13/cobra"

	"patches.dev/patches/internal/actions"
	"patches.dev/patches/internal/cli/helpers"
	"patches.dev/patches/internal/runtime"
)

// newConfigCmd creates the config command
func newConfigCmd() *cobra.Command {
	var (
		baseURL    string
		baseRef    string
		patchesDir string
		metadata   bool
	)

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or update the configuration",
		Long: `Show the configuration, or update the keys given as flags.

Examples:
  patches config
  patches config --base-repo-url https://example.com/base.git
  patches config --base-repo-ref refs/tags/v2.1.0
  patches config --patches-directory-path queue
  patches config --metadata=false`,
		Args: helpers.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var opts actions.ConfigOptions
			flags := cmd.Flags()
			if flags.Changed("base-repo-url") {
				opts.BaseURL = &baseURL
			}
			if flags.Changed("base-repo-ref") {
				opts.BaseRef = &baseRef
			}
			if flags.Changed("patches-directory-path") {
				opts.PatchesDir = &patchesDir
			}
			if flags.Changed("metadata") {
				opts.Metadata = &metadata
			}
			return helpers.Run(cmd, func(ctx *runtime.Context) error {
				return actions.ConfigAction(ctx, opts)
			})
		},
	}

	cmd.Flags().StringVar(&baseURL, "base-repo-url", "", "URL of the base repository")
	cmd.Flags().StringVar(&baseRef, "base-repo-ref", "", "Branch, tag or commit the patches apply to")
	cmd.Flags().StringVar(&patchesDir, "patches-directory-path", "", "Move the patches directory to this path")
	cmd.Flags().BoolVar(&metadata, "metadata", true, "Keep author, date and message in patch files")
	return cmd
}
