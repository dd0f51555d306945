package git

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/utils/merkletrie"

	patcheserrors "patches.dev/patches/internal/errors"
)

// maxTagDepth bounds how many annotated tags are followed when peeling
const maxTagDepth = 16

// Repository is the Backend for a checkout on disk
type Repository struct {
	repo   *git.Repository
	path   string
	runner *CommandRunner
}

var _ Backend = (*Repository)(nil)

// Open opens the checkout at dir
func Open(dir string) (*Repository, error) {
	absPath, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path: %w", err)
	}

	repo, err := git.PlainOpen(absPath)
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return nil, patcheserrors.NewPreconditionError("%s is not a git checkout (run patches init first)", absPath)
		}
		return nil, patcheserrors.NewBackendError("open repository", err)
	}

	return newRepository(repo, absPath), nil
}

func newRepository(repo *git.Repository, path string) *Repository {
	return &Repository{
		repo:   repo,
		path:   path,
		runner: NewCommandRunner(path),
	}
}

// Root returns the working tree directory
func (r *Repository) Root() string {
	return r.path
}

func (r *Repository) worktree() (*git.Worktree, error) {
	wt, err := r.repo.Worktree()
	if err != nil {
		return nil, patcheserrors.NewBackendError("open worktree", err)
	}
	return wt, nil
}

func (r *Repository) Status() (Status, error) {
	wt, err := r.worktree()
	if err != nil {
		return Status{}, err
	}
	st, err := wt.Status()
	if err != nil {
		return Status{}, patcheserrors.NewBackendError("status", err)
	}

	var dirty []string
	for path, fs := range st {
		if fs.Staging != git.Unmodified || fs.Worktree != git.Unmodified {
			dirty = append(dirty, path)
		}
	}
	sort.Strings(dirty)
	return Status{Clean: len(dirty) == 0, Dirty: dirty}, nil
}

func (r *Repository) Resolve(rev string) (string, bool, error) {
	// ResolveRevision only peels one tag level, so full ids are peeled here
	if base, ok := strings.CutSuffix(rev, "^{commit}"); ok && plumbing.IsHash(base) {
		commit, err := r.peelToCommit(plumbing.NewHash(base))
		if err != nil {
			return "", false, nil
		}
		return commit.Hash.String(), true, nil
	}

	hash, err := r.repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		// unknown refs, missing parents and non-commit objects all land here
		return "", false, nil
	}
	return hash.String(), true, nil
}

func (r *Repository) peelToCommit(hash plumbing.Hash) (*object.Commit, error) {
	for range maxTagDepth {
		tag, err := r.repo.TagObject(hash)
		if err != nil {
			return r.repo.CommitObject(hash)
		}
		hash = tag.Target
	}
	return nil, fmt.Errorf("tag chain at %s is deeper than %d", hash, maxTagDepth)
}

func (r *Repository) CommitInfo(id string) (*Commit, error) {
	c, err := r.repo.CommitObject(plumbing.NewHash(id))
	if err != nil {
		return nil, patcheserrors.NewBackendError("read commit "+id, err)
	}
	return &Commit{
		ID: c.Hash.String(),
		Author: Signature{
			Name:  c.Author.Name,
			Email: c.Author.Email,
			When:  c.Author.When,
		},
		Message: c.Message,
	}, nil
}

func (r *Repository) commitTree(id string) (*object.Tree, error) {
	c, err := r.repo.CommitObject(plumbing.NewHash(id))
	if err != nil {
		return nil, patcheserrors.NewBackendError("read commit "+id, err)
	}
	tree, err := c.Tree()
	if err != nil {
		return nil, patcheserrors.NewBackendError("read tree of "+id, err)
	}
	return tree, nil
}

func (r *Repository) DiffTrees(oldID, newID string) ([]DiffEntry, error) {
	oldTree, err := r.commitTree(oldID)
	if err != nil {
		return nil, err
	}
	newTree, err := r.commitTree(newID)
	if err != nil {
		return nil, err
	}

	changes, err := object.DiffTree(oldTree, newTree)
	if err != nil {
		return nil, patcheserrors.NewBackendError("diff trees", err)
	}

	entries := make([]DiffEntry, 0, len(changes))
	for _, change := range changes {
		action, err := change.Action()
		if err != nil {
			return nil, patcheserrors.NewBackendError("diff trees", err)
		}
		entry := DiffEntry{change: change}
		switch action {
		case merkletrie.Insert:
			entry.Action = ChangeAdd
			entry.Path = change.To.Name
		case merkletrie.Delete:
			entry.Action = ChangeDelete
			entry.Path = change.From.Name
		default:
			entry.Action = ChangeModify
			entry.Path = change.To.Name
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (r *Repository) RenderDiff(entries []DiffEntry) ([]byte, error) {
	changes := make(object.Changes, 0, len(entries))
	for _, entry := range entries {
		if entry.change == nil {
			return nil, fmt.Errorf("diff entry for %s was not produced by this repository", entry.Path)
		}
		changes = append(changes, entry.change)
	}

	p, err := changes.Patch()
	if err != nil {
		return nil, patcheserrors.NewBackendError("render diff", err)
	}
	return []byte(p.String()), nil
}

func (r *Repository) ApplyRawDiff(ctx context.Context, diff []byte) error {
	if len(diff) == 0 {
		return patcheserrors.NewValidationError("diff", "empty")
	}
	if _, err := r.runner.RunWithInput(ctx, string(diff), "apply", "--whitespace=nowarn", "-"); err != nil {
		return patcheserrors.NewBackendError("apply diff", err)
	}
	return nil
}

func (r *Repository) StageAll(ctx context.Context) error {
	if _, err := r.runner.Run(ctx, "add", "-A"); err != nil {
		return patcheserrors.NewBackendError("stage all changes", err)
	}
	return nil
}

func (r *Repository) Commit(message string, author Signature) (string, error) {
	wt, err := r.worktree()
	if err != nil {
		return "", err
	}

	sig := &object.Signature{Name: author.Name, Email: author.Email, When: author.When}
	hash, err := wt.Commit(message, &git.CommitOptions{
		Author:            sig,
		Committer:         sig,
		AllowEmptyCommits: true,
	})
	if err != nil {
		return "", patcheserrors.NewBackendError("commit", err)
	}
	return hash.String(), nil
}

func (r *Repository) ExactRef(name string) (*Ref, error) {
	ref, err := r.repo.Reference(plumbing.ReferenceName(name), true)
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return nil, nil
		}
		return nil, patcheserrors.NewBackendError("read ref "+name, err)
	}
	return &Ref{Name: ref.Name().String(), Target: ref.Hash().String()}, nil
}

func (r *Repository) FindRef(name string) (*Ref, error) {
	for _, rule := range plumbing.RefRevParseRules {
		ref, err := r.ExactRef(fmt.Sprintf(rule, name))
		if err != nil {
			return nil, err
		}
		if ref != nil {
			return ref, nil
		}
	}
	return nil, nil
}

func (r *Repository) ParseAny(id string) (*Object, error) {
	if !plumbing.IsHash(id) {
		return nil, nil
	}
	hash := plumbing.NewHash(id)

	obj, err := r.repo.Object(plumbing.AnyObject, hash)
	if err != nil {
		if errors.Is(err, plumbing.ErrObjectNotFound) {
			return nil, nil
		}
		return nil, patcheserrors.NewBackendError("read object "+id, err)
	}

	switch o := obj.(type) {
	case *object.Tag:
		return &Object{ID: id, Type: ObjectTag, Target: o.Target.String()}, nil
	case *object.Commit:
		return &Object{ID: id, Type: ObjectCommit}, nil
	case *object.Tree:
		return &Object{ID: id, Type: ObjectTree}, nil
	case *object.Blob:
		return &Object{ID: id, Type: ObjectBlob}, nil
	default:
		return &Object{ID: id, Type: ObjectOther}, nil
	}
}

func (r *Repository) Fetch(ctx context.Context, remote string, refspecs []string, allTags bool) error {
	specs := make([]config.RefSpec, 0, len(refspecs))
	for _, s := range refspecs {
		spec := config.RefSpec(s)
		if err := spec.Validate(); err != nil {
			return patcheserrors.NewValidationError("refspec", fmt.Sprintf("%s: %v", s, err))
		}
		specs = append(specs, spec)
	}

	opts := &git.FetchOptions{
		RemoteName: remote,
		RefSpecs:   specs,
		Force:      true,
	}
	if allTags {
		opts.Tags = git.AllTags
	}

	err := r.repo.FetchContext(ctx, opts)
	if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		return patcheserrors.NewBackendError("fetch from "+remote, err)
	}
	return nil
}

func (r *Repository) CleanUntracked(dirs bool) error {
	wt, err := r.worktree()
	if err != nil {
		return err
	}
	if err := wt.Clean(&git.CleanOptions{Dir: dirs}); err != nil {
		return patcheserrors.NewBackendError("clean", err)
	}
	return nil
}

func (r *Repository) HardReset(id string) error {
	wt, err := r.worktree()
	if err != nil {
		return err
	}
	err = wt.Reset(&git.ResetOptions{
		Commit: plumbing.NewHash(id),
		Mode:   git.HardReset,
	})
	if err != nil {
		return patcheserrors.NewBackendError("hard reset to "+id, err)
	}
	return nil
}
