package actions

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	patcheserrors "patches.dev/patches/internal/errors"
	"patches.dev/patches/internal/patch"
	"patches.dev/patches/internal/runtime"
	"patches.dev/patches/internal/tui/style"
)

// ConvertOptions contains options for the convert-patches command
type ConvertOptions struct {
	// Check compares instead of writing and fails when any output is stale.
	Check bool
}

// ConvertResult reports what convert-patches did
type ConvertResult struct {
	Converted []string
	// Stale lists outputs that differ from disk. Only set with Check.
	Stale []string
}

// ConvertAction writes the plain diff of every patch file into the converted
// directory under the same file name. It does not touch the repository.
func ConvertAction(ctx *runtime.Context, opts ConvertOptions) (*ConvertResult, error) {
	cfg, err := ctx.LoadConfig()
	if err != nil {
		return nil, err
	}

	dir := cfg.PatchesDir()
	names, err := listPatchFiles(dir)
	if err != nil {
		return nil, err
	}

	outDir := cfg.ConvertedDir()
	if !opts.Check && len(names) > 0 {
		if err := os.MkdirAll(outDir, 0750); err != nil {
			return nil, patcheserrors.NewIOError("create", outDir, err)
		}
	}

	result := &ConvertResult{}
	for _, name := range names {
		diff, err := convertedDiff(filepath.Join(dir, name), cfg.MetadataEnabled())
		if err != nil {
			return result, patcheserrors.NewPatchError(name, stageDecode, err)
		}
		target := filepath.Join(outDir, name)

		if opts.Check {
			stale, err := checkConverted(ctx, target, diff)
			if err != nil {
				return result, err
			}
			if stale {
				result.Stale = append(result.Stale, name)
			}
			continue
		}

		if err := os.WriteFile(target, diff, 0644); err != nil {
			return result, patcheserrors.NewPatchError(name, stageWrite, patcheserrors.NewIOError("write", target, err))
		}
		result.Converted = append(result.Converted, name)
		ctx.Splog.Debug("Converted %s", name)
	}

	if opts.Check {
		if len(result.Stale) > 0 {
			return result, patcheserrors.NewPreconditionError("%d converted file(s) in %s are out of date (run patches convert-patches)", len(result.Stale), outDir)
		}
		ctx.Splog.Info("Converted patches in %s are up to date.", style.ColorPath(outDir))
		return result, nil
	}

	ctx.Splog.Info("Converted %d patch(es) into %s.", len(result.Converted), style.ColorPath(outDir))
	return result, nil
}

// convertedDiff returns the diff text held by a patch file. Files written
// without metadata already are plain diffs.
func convertedDiff(path string, metadata bool) ([]byte, error) {
	if !metadata {
		return readPlainDiff(path)
	}
	record, err := patch.Read(path)
	if err != nil {
		return nil, err
	}
	return []byte(record.DiffText), nil
}

// checkConverted reports whether target differs from want, printing the
// difference when it does
func checkConverted(ctx *runtime.Context, target string, want []byte) (bool, error) {
	have, err := os.ReadFile(target)
	switch {
	case errors.Is(err, os.ErrNotExist):
		ctx.Splog.Warn("%s is missing", style.ColorPath(target))
		return true, nil
	case err != nil:
		return false, patcheserrors.NewIOError("read", target, err)
	case bytes.Equal(have, want):
		return false, nil
	}

	text, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(have)),
		B:        difflib.SplitLines(string(want)),
		FromFile: target,
		ToFile:   target + " (converted)",
		Context:  3,
	})
	if err != nil {
		return true, err
	}
	ctx.Splog.Warn("%s is out of date", style.ColorPath(target))
	for _, line := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
		ctx.Splog.Info("%s", style.ColorDiffLine(line))
	}
	return true, nil
}
