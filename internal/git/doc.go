// Package git is the version-control backend used by the patch workflows.
//
// Backend is the narrow capability set the rest of the module depends on.
// Repository implements it on top of go-git for reads, commits, refs, fetch,
// clean and reset, and shells out to the git executable for the two
// operations that need git's own behaviour:
//   - applying a raw unified diff to the working tree (git apply)
//   - staging every change including deletions (git add -A)
//
// This package should be the only place where the git executable is run.
package git
