package actions

import (
	"path/filepath"

	patcheserrors "patches.dev/patches/internal/errors"
	"patches.dev/patches/internal/git"
	"patches.dev/patches/internal/patch"
	"patches.dev/patches/internal/runtime"
	"patches.dev/patches/internal/tui/style"
)

// ApplyResult lists the patch files that were applied, in order
type ApplyResult struct {
	Applied []string
	// Commits holds the commit created for each applied file. It is empty
	// when patches carry no metadata and are only staged.
	Commits []string
}

// ApplyAction replays every patch file onto the working checkout in file
// name order. The first failure stops the run; patches applied before it
// stay committed and are reported in the result.
func ApplyAction(ctx *runtime.Context) (*ApplyResult, error) {
	cfg, err := ctx.LoadConfig()
	if err != nil {
		return nil, err
	}

	dir := cfg.PatchesDir()
	names, err := listPatchFiles(dir)
	if err != nil {
		return nil, err
	}
	result := &ApplyResult{}
	if len(names) == 0 {
		ctx.Splog.Info("No patches found in %s.", style.ColorPath(dir))
		return result, nil
	}

	_, backend, err := ctx.OpenWorkDir()
	if err != nil {
		return nil, err
	}
	if err := requireClean(backend, cfg.WorkDir()); err != nil {
		return nil, err
	}

	for _, name := range names {
		path := filepath.Join(dir, name)
		if cfg.MetadataEnabled() {
			id, err := applyRecord(ctx, backend, path)
			if err != nil {
				return result, patcheserrors.NewPatchError(name, err.stage, err.err)
			}
			result.Commits = append(result.Commits, id)
			ctx.Splog.Info("Applied %s as %s.", style.ColorPatchName(name), style.ColorCommit(id))
		} else {
			if err := stagePlainDiff(ctx, backend, path); err != nil {
				return result, patcheserrors.NewPatchError(name, err.stage, err.err)
			}
			ctx.Splog.Info("Applied %s.", style.ColorPatchName(name))
		}
		result.Applied = append(result.Applied, name)
	}

	if !cfg.MetadataEnabled() {
		ctx.Splog.Tip("Changes are staged in %s but not committed.", style.ColorPath(cfg.WorkDir()))
	}
	return result, nil
}

type stageError struct {
	stage string
	err   error
}

func applyRecord(ctx *runtime.Context, backend git.Backend, path string) (string, *stageError) {
	record, err := patch.Read(path)
	if err != nil {
		return "", &stageError{stageDecode, err}
	}
	if err := backend.ApplyRawDiff(ctx.Context, []byte(record.DiffText)); err != nil {
		return "", &stageError{stageApply, err}
	}
	if err := backend.StageAll(ctx.Context); err != nil {
		return "", &stageError{stageStage, err}
	}
	id, err := backend.Commit(record.Message(), git.Signature{
		Name:  record.AuthorName,
		Email: record.AuthorEmail,
		When:  record.AuthorDate,
	})
	if err != nil {
		return "", &stageError{stageCommit, err}
	}
	return id, nil
}

func stagePlainDiff(ctx *runtime.Context, backend git.Backend, path string) *stageError {
	diff, err := readPlainDiff(path)
	if err != nil {
		return &stageError{stageDecode, err}
	}
	if err := backend.ApplyRawDiff(ctx.Context, diff); err != nil {
		return &stageError{stageApply, err}
	}
	if err := backend.StageAll(ctx.Context); err != nil {
		return &stageError{stageStage, err}
	}
	return nil
}
