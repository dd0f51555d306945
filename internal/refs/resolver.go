// Package refs resolves user-supplied ref specs (commit ids, qualified refs
// and short names) to the commit they designate.
package refs

import (
	"regexp"
	"strings"

	patcheserrors "patches.dev/patches/internal/errors"
	"patches.dev/patches/internal/git"
)

// DefaultRemote is the remote whose tracking refs are searched first
const DefaultRemote = "origin"

var fullCommitID = regexp.MustCompile(`^[0-9a-fA-F]{40}$`)

// Backend is the subset of git.Backend the resolver reads from
type Backend interface {
	Resolve(rev string) (string, bool, error)
	ExactRef(name string) (*git.Ref, error)
	FindRef(name string) (*git.Ref, error)
	ParseAny(id string) (*git.Object, error)
}

// Resolver maps a ref spec to a commit id
type Resolver struct {
	Backend Backend
	// Remote names the remote whose tracking refs are tried for short
	// names. Empty means DefaultRemote.
	Remote string
}

// NewResolver returns a Resolver that searches the default remote
func NewResolver(backend Backend) *Resolver {
	return &Resolver{Backend: backend, Remote: DefaultRemote}
}

// Resolve returns the commit id spec designates. Precedence:
//  1. a full 40 hex digit id is resolved as a commit and nothing else
//  2. a name starting with refs/ is looked up exactly and peeled
//  3. refs/remotes/<remote>/<spec>, refs/tags/<spec>, refs/heads/<spec>,
//     the first that exists and peels to a commit wins
//  4. git's own short name search
//
// Anything else is a RefNotFoundError.
func (r *Resolver) Resolve(spec string) (string, error) {
	if fullCommitID.MatchString(spec) {
		if id, ok := r.resolveCommit(spec); ok {
			return id, nil
		}
		return "", patcheserrors.NewRefNotFoundError(spec)
	}

	if strings.HasPrefix(spec, "refs/") {
		if id, ok := r.peelRef(r.exact(spec)); ok {
			return id, nil
		}
		return "", patcheserrors.NewRefNotFoundError(spec)
	}

	for _, candidate := range r.candidates(spec) {
		if id, ok := r.peelRef(r.exact(candidate)); ok {
			return id, nil
		}
	}

	ref, err := r.Backend.FindRef(spec)
	if err == nil {
		if id, ok := r.peelRef(ref); ok {
			return id, nil
		}
	}
	return "", patcheserrors.NewRefNotFoundError(spec)
}

func (r *Resolver) remote() string {
	if r.Remote == "" {
		return DefaultRemote
	}
	return r.Remote
}

func (r *Resolver) candidates(name string) []string {
	return []string{
		"refs/remotes/" + r.remote() + "/" + name,
		"refs/tags/" + name,
		"refs/heads/" + name,
	}
}

// exact looks up a qualified ref, treating lookup failures as absence
func (r *Resolver) exact(name string) *git.Ref {
	ref, err := r.Backend.ExactRef(name)
	if err != nil {
		return nil
	}
	return ref
}

// peelRef follows ref's target through annotated tags to a commit
func (r *Resolver) peelRef(ref *git.Ref) (string, bool) {
	if ref == nil || ref.Target == "" {
		return "", false
	}

	obj, err := r.Backend.ParseAny(ref.Target)
	if err != nil || obj == nil {
		return "", false
	}

	switch obj.Type {
	case git.ObjectTag:
		if obj.Target == "" {
			return "", false
		}
		return r.resolveCommit(obj.Target)
	case git.ObjectCommit:
		return obj.ID, true
	default:
		return "", false
	}
}

func (r *Resolver) resolveCommit(id string) (string, bool) {
	commit, ok, err := r.Backend.Resolve(id + "^{commit}")
	if err != nil || !ok {
		return "", false
	}
	return commit, true
}
