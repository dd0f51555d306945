package actions

import (
	"errors"
	"os"

	patcheserrors "patches.dev/patches/internal/errors"
	"patches.dev/patches/internal/runtime"
	"patches.dev/patches/internal/tui"
	"patches.dev/patches/internal/tui/style"
)

// CleanOptions contains options for the clean command
type CleanOptions struct {
	// Force skips the confirmation prompt.
	Force bool
}

// CleanAction deletes the working directory
func CleanAction(ctx *runtime.Context, opts CleanOptions) error {
	cfg, err := ctx.LoadConfig()
	if err != nil {
		return err
	}

	dir := cfg.WorkDir()
	if _, err := os.Stat(dir); err != nil {
		return patcheserrors.NewIOError("remove", dir, err)
	}

	if !opts.Force {
		confirmed, err := ctx.PromptConfirm("Delete "+dir+"?", false)
		if err != nil {
			if errors.Is(err, tui.ErrInteractiveDisabled) {
				return patcheserrors.NewUsageError("refusing to delete %s without confirmation (use --force): %v", dir, err)
			}
			return err
		}
		if !confirmed {
			ctx.Splog.Info("Aborted.")
			return nil
		}
	}

	if err := os.RemoveAll(dir); err != nil {
		return patcheserrors.NewIOError("remove", dir, err)
	}
	ctx.Splog.Info("Deleted %s.", style.ColorPath(dir))
	return nil
}
