package actions

import (
	"os"
	"sort"
	"strings"

	patcheserrors "patches.dev/patches/internal/errors"
	"patches.dev/patches/internal/git"
	"patches.dev/patches/internal/patch"
)

// Pipeline stages reported in a PatchError
const (
	stageDecode = "decode"
	stageApply  = "apply"
	stageStage  = "stage"
	stageCommit = "commit"
	stageWrite  = "write"
)

// listPatchFiles returns the patch file names in dir in byte-wise order
func listPatchFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, patcheserrors.NewIOError("list", dir, err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !patch.IsPatchFile(entry.Name()) {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	return names, nil
}

const maxDirtyListed = 5

// requireClean fails unless the working checkout has no changes
func requireClean(backend git.Backend, dir string) error {
	status, err := backend.Status()
	if err != nil {
		return err
	}
	if status.Clean {
		return nil
	}

	dirty := status.Dirty
	suffix := ""
	if len(dirty) > maxDirtyListed {
		suffix = ", ..."
		dirty = dirty[:maxDirtyListed]
	}
	return patcheserrors.NewPreconditionError("unclean state in %s: %s%s", dir, strings.Join(dirty, ", "), suffix)
}

// readPlainDiff reads a patch file written without metadata
func readPlainDiff(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, patcheserrors.NewIOError("read", path, err)
	}
	if !strings.HasPrefix(string(data), patch.DiffMarker) {
		return nil, &patcheserrors.FormatError{File: path, Line: 1, Message: "expected a diff"}
	}
	return data, nil
}
