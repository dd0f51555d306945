package git

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	patcheserrors "patches.dev/patches/internal/errors"
)

// Clone clones url into dir and checks out ref. ref may be a branch name, a
// tag name, a fully qualified ref or a full commit id. dir must be missing
// or empty.
func Clone(ctx context.Context, url, ref, dir string) (*Repository, error) {
	if err := requireEmptyDir(dir); err != nil {
		return nil, err
	}

	if plumbing.IsHash(ref) {
		repo, err := cloneRef(ctx, url, "", dir)
		if err != nil {
			return nil, err
		}
		if err := repo.HardReset(ref); err != nil {
			return nil, err
		}
		return repo, nil
	}

	var candidates []plumbing.ReferenceName
	if strings.HasPrefix(ref, "refs/") {
		candidates = []plumbing.ReferenceName{plumbing.ReferenceName(ref)}
	} else {
		candidates = []plumbing.ReferenceName{
			plumbing.NewBranchReferenceName(ref),
			plumbing.NewTagReferenceName(ref),
		}
	}

	var lastErr error
	for _, name := range candidates {
		repo, err := cloneRef(ctx, url, name, dir)
		if err == nil {
			return repo, nil
		}
		lastErr = err
		// a failed clone leaves a partial checkout behind
		if rmErr := os.RemoveAll(dir); rmErr != nil {
			return nil, patcheserrors.NewIOError("remove", dir, rmErr)
		}
		if !errors.Is(err, git.NoMatchingRefSpecError{}) && !errors.Is(err, plumbing.ErrReferenceNotFound) {
			break
		}
	}
	return nil, lastErr
}

func cloneRef(ctx context.Context, url string, name plumbing.ReferenceName, dir string) (*Repository, error) {
	repo, err := git.PlainCloneContext(ctx, dir, false, &git.CloneOptions{
		URL:           url,
		ReferenceName: name,
		Tags:          git.AllTags,
	})
	if err != nil {
		return nil, patcheserrors.NewBackendError("clone "+url, err)
	}
	absPath, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path: %w", err)
	}
	return newRepository(repo, absPath), nil
}

func requireEmptyDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return patcheserrors.NewIOError("read", dir, err)
	}
	if len(entries) > 0 {
		return patcheserrors.NewPreconditionError("%s already exists and is not empty (run patches clean first)", dir)
	}
	return nil
}
