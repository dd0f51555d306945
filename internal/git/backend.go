package git

import (
	"context"
	"time"

	"github.com/go-git/go-git/v5/plumbing/object"
)

// Backend is the set of repository capabilities the patch workflows need.
// A Backend is opened per command invocation and never shared.
type Backend interface {
	// Status reports whether the working tree and index match HEAD.
	Status() (Status, error)
	// Resolve resolves a revision expression (HEAD, HEAD~1, <sha>^{commit})
	// to a commit id. ok is false when the expression names nothing.
	Resolve(rev string) (id string, ok bool, err error)
	CommitInfo(id string) (*Commit, error)
	// DiffTrees lists the changes between the trees of two commits.
	DiffTrees(oldID, newID string) ([]DiffEntry, error)
	// RenderDiff renders entries as one git-style unified diff.
	RenderDiff(entries []DiffEntry) ([]byte, error)
	// ApplyRawDiff applies a unified diff to the working tree only.
	ApplyRawDiff(ctx context.Context, diff []byte) error
	// StageAll stages every change in the working tree, deletions included.
	StageAll(ctx context.Context) error
	// Commit records the index with author as both author and committer.
	Commit(message string, author Signature) (string, error)
	// ExactRef looks up a fully qualified ref. It returns nil when absent.
	ExactRef(name string) (*Ref, error)
	// FindRef looks up a short name with git's rev-parse search rules.
	// It returns nil when absent.
	FindRef(name string) (*Ref, error)
	// ParseAny reads the object with the given id. It returns nil when absent.
	ParseAny(id string) (*Object, error)
	Fetch(ctx context.Context, remote string, refspecs []string, allTags bool) error
	// CleanUntracked removes untracked files, and untracked directories when dirs is set.
	CleanUntracked(dirs bool) error
	// HardReset moves HEAD to id and resets the index and working tree to match.
	HardReset(id string) error
}

// Status is the cleanliness of a working tree
type Status struct {
	Clean bool
	// Dirty lists the paths that differ from HEAD, sorted.
	Dirty []string
}

// Signature identifies who made a commit and when
type Signature struct {
	Name  string
	Email string
	When  time.Time
}

// Commit is the subset of commit data the workflows read
type Commit struct {
	ID      string
	Author  Signature
	Message string
}

// ChangeAction is the kind of change a DiffEntry describes
type ChangeAction string

const (
	ChangeAdd    ChangeAction = "add"
	ChangeDelete ChangeAction = "delete"
	ChangeModify ChangeAction = "modify"
)

// DiffEntry is one changed path between two trees
type DiffEntry struct {
	Path   string
	Action ChangeAction

	change *object.Change
}

// Ref is a resolved reference
type Ref struct {
	Name string
	// Target is the object the ref points at after following symbolic refs.
	Target string
}

// ObjectType is the kind of a repository object
type ObjectType int

const (
	ObjectOther ObjectType = iota
	ObjectCommit
	ObjectTag
	ObjectTree
	ObjectBlob
)

func (t ObjectType) String() string {
	switch t {
	case ObjectCommit:
		return "commit"
	case ObjectTag:
		return "tag"
	case ObjectTree:
		return "tree"
	case ObjectBlob:
		return "blob"
	default:
		return "other"
	}
}

// Object is a parsed repository object
type Object struct {
	ID   string
	Type ObjectType
	// Target is the tagged object's id for annotated tags, empty otherwise.
	Target string
}
