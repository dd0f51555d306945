package actions

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	patcheserrors "patches.dev/patches/internal/errors"
	"patches.dev/patches/internal/runtime"
	"patches.dev/patches/internal/tui/style"
)

// ConfigOptions holds the keys to update. Nil fields are left unchanged.
type ConfigOptions struct {
	BaseURL    *string
	BaseRef    *string
	PatchesDir *string
	Metadata   *bool
}

func (o ConfigOptions) empty() bool {
	return o.BaseURL == nil && o.BaseRef == nil && o.PatchesDir == nil && o.Metadata == nil
}

// ConfigAction updates the config file. Changing the patches directory
// renames the existing directory. Without options it prints the current
// configuration.
func ConfigAction(ctx *runtime.Context, opts ConfigOptions) error {
	cfg, err := ctx.LoadConfig()
	if err != nil {
		return err
	}

	if opts.empty() {
		printConfig(ctx)
		return nil
	}

	if opts.BaseURL != nil {
		if *opts.BaseURL == "" {
			return patcheserrors.NewUsageError("base repository URL must not be empty")
		}
		cfg.BaseRepoURL = *opts.BaseURL
	}
	if opts.BaseRef != nil {
		if *opts.BaseRef == "" {
			return patcheserrors.NewUsageError("base repository ref must not be empty")
		}
		cfg.BaseRepoRef = *opts.BaseRef
	}
	if opts.Metadata != nil {
		cfg.SetMetadata(*opts.Metadata)
	}

	if opts.PatchesDir != nil && *opts.PatchesDir != cfg.PatchesDirectoryPath {
		if *opts.PatchesDir == "" {
			return patcheserrors.NewUsageError("patches directory path must not be empty")
		}
		oldDir, oldPath := cfg.PatchesDir(), cfg.PatchesDirectoryPath
		cfg.PatchesDirectoryPath = *opts.PatchesDir
		if err := movePatchesDir(oldDir, cfg.PatchesDir()); err != nil {
			cfg.PatchesDirectoryPath = oldPath
			return err
		}
		ctx.Splog.Info("Moved %s to %s.", style.ColorPath(oldDir), style.ColorPath(cfg.PatchesDir()))
	}

	if err := cfg.Save(); err != nil {
		return err
	}
	ctx.Splog.Info("Updated %s.", style.ColorPath(cfg.Path()))
	return nil
}

func movePatchesDir(oldDir, newDir string) error {
	if oldDir == newDir {
		return nil
	}
	info, err := os.Stat(oldDir)
	if err != nil {
		return patcheserrors.NewIOError("move", oldDir, err)
	}
	if !info.IsDir() {
		return patcheserrors.NewIOError("move", oldDir, fmt.Errorf("not a directory"))
	}
	if _, err := os.Stat(newDir); err == nil {
		return patcheserrors.NewPreconditionError("cannot move patches to %s: it already exists", newDir)
	} else if !errors.Is(err, os.ErrNotExist) {
		return patcheserrors.NewIOError("stat", newDir, err)
	}

	if err := os.MkdirAll(filepath.Dir(newDir), 0750); err != nil {
		return patcheserrors.NewIOError("create", filepath.Dir(newDir), err)
	}
	if err := os.Rename(oldDir, newDir); err != nil {
		return patcheserrors.NewIOError("move", oldDir, err)
	}
	return nil
}

func printConfig(ctx *runtime.Context) {
	cfg := ctx.Config
	line := func(key string, value any) {
		ctx.Splog.Info("%s: %v", style.ColorRef(key), value)
	}
	line("config", cfg.Path())
	line("baseRepoUrl", cfg.BaseRepoURL)
	line("baseRepoRef", cfg.BaseRepoRef)
	line("patchesDirectoryPath", cfg.PatchesDir())
	line("workDirectoryPath", cfg.WorkDir())
	line("convertedDirectoryPath", cfg.ConvertedDir())
	line("metadata", cfg.MetadataEnabled())
}
