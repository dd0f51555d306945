package actions

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	patcheserrors "patches.dev/patches/internal/errors"
	"patches.dev/patches/internal/git"
	"patches.dev/patches/internal/patch"
	"patches.dev/patches/internal/runtime"
	"patches.dev/patches/internal/tui"
	"patches.dev/patches/internal/tui/style"
)

// CreatePatchOptions contains options for the create-patch command
type CreatePatchOptions struct {
	// Name of the patch file, with or without the .patch extension. Prompted
	// for when empty.
	Name string
}

// CreatePatchAction records the newest commit of the working checkout as a
// patch file and returns the path written
func CreatePatchAction(ctx *runtime.Context, opts CreatePatchOptions) (string, error) {
	cfg, backend, err := ctx.OpenWorkDir()
	if err != nil {
		return "", err
	}

	name := opts.Name
	if name != "" {
		if err := validatePatchName(name); err != nil {
			return "", err
		}
	}

	if err := requireClean(backend, cfg.WorkDir()); err != nil {
		return "", err
	}

	parent, err := resolveCommit(backend, "HEAD~1")
	if err != nil {
		return "", err
	}
	head, err := resolveCommit(backend, "HEAD")
	if err != nil {
		return "", err
	}

	entries, err := backend.DiffTrees(parent, head)
	if err != nil {
		return "", err
	}
	diff, err := backend.RenderDiff(entries)
	if err != nil {
		return "", err
	}
	commit, err := backend.CommitInfo(head)
	if err != nil {
		return "", err
	}
	ctx.Splog.Debug("Diff of %s against %s touches %d file(s)", style.ShortID(head), style.ShortID(parent), len(entries))

	if name == "" {
		name, err = promptPatchName(ctx, cfg.PatchesDir(), commit.Message)
		if err != nil {
			return "", err
		}
	}

	dir := cfg.PatchesDir()
	if err := os.MkdirAll(dir, 0750); err != nil {
		return "", patcheserrors.NewIOError("create", dir, err)
	}
	path := filepath.Join(dir, patchFileName(name))

	if cfg.MetadataEnabled() {
		subject, body, err := patch.SplitMessage(commit.Message)
		if err != nil {
			return "", fmt.Errorf("failed to read message of %s: %w", style.ShortID(head), err)
		}
		record := &patch.Record{
			DiffText:    string(diff),
			Subject:     subject,
			Body:        body,
			AuthorName:  commit.Author.Name,
			AuthorEmail: commit.Author.Email,
			AuthorDate:  commit.Author.When,
		}
		if err := patch.Write(record, path); err != nil {
			return "", err
		}
	} else {
		if !strings.HasPrefix(string(diff), patch.DiffMarker) {
			return "", patcheserrors.NewValidationError("diff", "commit "+style.ShortID(head)+" has no changes")
		}
		if err := os.WriteFile(path, diff, 0644); err != nil {
			return "", patcheserrors.NewIOError("write", path, err)
		}
	}

	ctx.Splog.Info("Created %s from %s.", style.ColorPatchName(filepath.Base(path)), style.ColorCommit(head))
	return path, nil
}

func resolveCommit(backend git.Backend, rev string) (string, error) {
	id, ok, err := backend.Resolve(rev)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", patcheserrors.NewRefNotFoundError(rev)
	}
	return id, nil
}

// patchFileName appends the patch extension unless the name already has it
func patchFileName(name string) string {
	if patch.IsPatchFile(name) {
		return name
	}
	return name + patch.Extension
}

func validatePatchName(name string) error {
	base := name
	if patch.IsPatchFile(base) {
		base = base[:len(base)-len(patch.Extension)]
	}
	switch {
	case strings.TrimSpace(base) == "":
		return patcheserrors.NewValidationError("patch name", "blank")
	case strings.ContainsAny(name, `/\`):
		return patcheserrors.NewValidationError("patch name", "must not contain path separators")
	case base == "." || base == "..":
		return patcheserrors.NewValidationError("patch name", "must not be a relative directory")
	}
	return nil
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

const maxSlugLength = 50

// suggestPatchName proposes "<next number>-<subject slug>"
func suggestPatchName(dir, message string) string {
	existing, _ := listPatchFiles(dir)

	slug := ""
	if subject, _, err := patch.SplitMessage(message); err == nil {
		slug = strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(subject), "-"), "-")
	}
	if len(slug) > maxSlugLength {
		slug = strings.TrimRight(slug[:maxSlugLength], "-")
	}

	number := fmt.Sprintf("%04d", len(existing)+1)
	if slug == "" {
		return number
	}
	return number + "-" + slug
}

func promptPatchName(ctx *runtime.Context, dir, message string) (string, error) {
	name, err := ctx.PromptText("Patch name:", suggestPatchName(dir, message), validatePatchName)
	if err != nil {
		if errors.Is(err, tui.ErrInteractiveDisabled) {
			return "", patcheserrors.NewUsageError("a patch name is required: %v", err)
		}
		return "", err
	}
	if err := validatePatchName(name); err != nil {
		return "", err
	}
	return name, nil
}
