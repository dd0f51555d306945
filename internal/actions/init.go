package actions

import (
	"os"

	"patches.dev/patches/internal/config"
	patcheserrors "patches.dev/patches/internal/errors"
	"patches.dev/patches/internal/runtime"
	"patches.dev/patches/internal/tui/style"
)

// InitOptions contains options for the init command
type InitOptions struct {
	// URL seeds baseRepoUrl when the config file is created.
	URL string
}

// InitAction creates the config file when it is missing and clones the base
// repository into the working directory.
//
// A config created with the example URL is only reported: the user has to
// fill in baseRepoUrl and run init again.
func InitAction(ctx *runtime.Context, opts InitOptions) error {
	cfg, created, err := config.LoadOrCreate(ctx.ConfigPath, opts.URL)
	if err != nil {
		return err
	}
	ctx.Config = cfg

	if created {
		ctx.Splog.Info("Created %s.", style.ColorPath(cfg.Path()))
		if cfg.IsExample() {
			ctx.Splog.Tip("Set baseRepoUrl in %s (or run patches config --base-repo-url <url>), then run patches init again.", cfg.Path())
			return nil
		}
	} else if opts.URL != "" && opts.URL != cfg.BaseRepoURL {
		ctx.Splog.Warn("Ignoring --url, %s already sets baseRepoUrl to %s.", cfg.Path(), cfg.BaseRepoURL)
	}

	if cfg.IsExample() {
		return patcheserrors.NewUsageError("%s still has the example baseRepoUrl %s; set the base repository URL first", cfg.Path(), config.ExampleURL)
	}

	patchesDir := cfg.PatchesDir()
	if err := os.MkdirAll(patchesDir, 0750); err != nil {
		return patcheserrors.NewIOError("create", patchesDir, err)
	}

	ctx.Splog.Info("Cloning %s at %s into %s...", cfg.BaseRepoURL, style.ColorRef(cfg.BaseRepoRef), style.ColorPath(cfg.WorkDir()))
	if _, err := ctx.CloneBackend(ctx.Context, cfg.BaseRepoURL, cfg.BaseRepoRef, cfg.WorkDir()); err != nil {
		return err
	}

	ctx.Splog.Info("%s", style.ColorSuccess("Initialized."))
	return nil
}
