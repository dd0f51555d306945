// Package helpers provides shared helper functions for CLI commands.
package helpers

import (
	"github.com/spf13/cobra"

	patcheserrors "patches.dev/patches/internal/errors"
	"patches.dev/patches/internal/runtime"
)

// Run is a helper that provides a runtime context to a command's execution function
func Run(cmd *cobra.Command, fn func(ctx *runtime.Context) error) error {
	ctx, err := runtime.GetContext(cmd.Context())
	if err != nil {
		return err
	}
	return fn(ctx)
}

// MaxArgs is cobra.MaximumNArgs reporting a usage error
func MaxArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) > n {
			return patcheserrors.NewUsageError("%s accepts at most %d arg(s), received %d", cmd.CommandPath(), n, len(args))
		}
		return nil
	}
}

// NoArgs is cobra.NoArgs reporting a usage error
func NoArgs(cmd *cobra.Command, args []string) error {
	return MaxArgs(0)(cmd, args)
}
