package actions

import (
	"patches.dev/patches/internal/refs"
	"patches.dev/patches/internal/runtime"
	"patches.dev/patches/internal/tui/style"
)

// ResetRefSpecs are fetched from the remote before resolving the base ref
var ResetRefSpecs = []string{
	"+refs/heads/*:refs/remotes/" + refs.DefaultRemote + "/*",
	"+refs/tags/*:refs/tags/*",
}

// ResetAction returns the working checkout to the configured base ref:
// untracked files are removed, the remote is fetched and the checkout is
// hard reset to the resolved commit. Any failure is returned as is.
func ResetAction(ctx *runtime.Context) error {
	cfg, backend, err := ctx.OpenWorkDir()
	if err != nil {
		return err
	}

	if err := backend.CleanUntracked(true); err != nil {
		return err
	}

	ctx.Splog.Debug("Fetching %s", refs.DefaultRemote)
	if err := backend.Fetch(ctx.Context, refs.DefaultRemote, ResetRefSpecs, true); err != nil {
		return err
	}

	id, err := refs.NewResolver(backend).Resolve(cfg.BaseRepoRef)
	if err != nil {
		return err
	}
	if err := backend.HardReset(id); err != nil {
		return err
	}

	ctx.Splog.Info("Reset %s to %s (%s).", style.ColorPath(cfg.WorkDir()), style.ColorRef(cfg.BaseRepoRef), style.ColorCommit(id))
	return nil
}
