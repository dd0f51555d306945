package refs_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	patcheserrors "patches.dev/patches/internal/errors"
	"patches.dev/patches/internal/git"
	"patches.dev/patches/internal/refs"
)

func sha(c string) string { return strings.Repeat(c, 40) }

// fakeBackend is an in-memory object and ref store. Function fields
// override the map lookups when set.
type fakeBackend struct {
	refs    map[string]string      // ref name -> target id
	objects map[string]*git.Object // id -> object

	exactRefFn func(name string) (*git.Ref, error)
	findRefFn  func(name string) (*git.Ref, error)

	resolveCalls []string
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{refs: map[string]string{}, objects: map[string]*git.Object{}}
}

func (f *fakeBackend) commit(id string) {
	f.objects[id] = &git.Object{ID: id, Type: git.ObjectCommit}
}

func (f *fakeBackend) tag(id, target string) {
	f.objects[id] = &git.Object{ID: id, Type: git.ObjectTag, Target: target}
}

func (f *fakeBackend) Resolve(rev string) (string, bool, error) {
	f.resolveCalls = append(f.resolveCalls, rev)
	id := strings.TrimSuffix(rev, "^{commit}")
	for range 10 {
		obj, ok := f.objects[id]
		if !ok {
			return "", false, nil
		}
		switch obj.Type {
		case git.ObjectCommit:
			return id, true, nil
		case git.ObjectTag:
			id = obj.Target
		default:
			return "", false, nil
		}
	}
	return "", false, nil
}

func (f *fakeBackend) ExactRef(name string) (*git.Ref, error) {
	if f.exactRefFn != nil {
		return f.exactRefFn(name)
	}
	target, ok := f.refs[name]
	if !ok {
		return nil, nil
	}
	return &git.Ref{Name: name, Target: target}, nil
}

func (f *fakeBackend) FindRef(name string) (*git.Ref, error) {
	if f.findRefFn != nil {
		return f.findRefFn(name)
	}
	return f.ExactRef(name)
}

func (f *fakeBackend) ParseAny(id string) (*git.Object, error) {
	obj, ok := f.objects[id]
	if !ok {
		return nil, nil
	}
	return obj, nil
}

func TestResolveFullCommitID(t *testing.T) {
	t.Run("resolves an existing commit", func(t *testing.T) {
		backend := newFakeBackend()
		backend.commit(sha("a"))

		id, err := refs.NewResolver(backend).Resolve(sha("a"))
		require.NoError(t, err)
		require.Equal(t, sha("a"), id)
		require.Equal(t, []string{sha("a") + "^{commit}"}, backend.resolveCalls)
	})

	t.Run("does not fall through to ref search", func(t *testing.T) {
		backend := newFakeBackend()
		backend.commit(sha("b"))
		// a branch literally named after a missing id must be ignored
		backend.refs["refs/heads/"+sha("a")] = sha("b")
		backend.refs["refs/remotes/origin/"+sha("a")] = sha("b")

		_, err := refs.NewResolver(backend).Resolve(sha("a"))
		require.ErrorIs(t, err, patcheserrors.ErrNotFound)
		require.Contains(t, err.Error(), sha("a"))
	})
}

func TestResolveQualifiedRef(t *testing.T) {
	backend := newFakeBackend()
	backend.commit(sha("1"))
	backend.refs["refs/heads/main"] = sha("1")

	resolver := refs.NewResolver(backend)

	id, err := resolver.Resolve("refs/heads/main")
	require.NoError(t, err)
	require.Equal(t, sha("1"), id)

	_, err = resolver.Resolve("refs/heads/missing")
	require.ErrorIs(t, err, patcheserrors.ErrNotFound)
}

func TestResolveShortNamePrecedence(t *testing.T) {
	backend := newFakeBackend()
	backend.commit(sha("1"))
	backend.commit(sha("2"))
	backend.commit(sha("3"))
	backend.refs["refs/remotes/origin/main"] = sha("1")
	backend.refs["refs/tags/main"] = sha("2")
	backend.refs["refs/heads/main"] = sha("3")
	backend.refs["refs/tags/v1"] = sha("2")
	backend.refs["refs/heads/v1"] = sha("3")
	backend.refs["refs/heads/feature"] = sha("3")

	resolver := refs.NewResolver(backend)

	cases := map[string]string{
		"main":    sha("1"), // remote tracking beats tag and branch
		"v1":      sha("2"), // tag beats branch
		"feature": sha("3"),
	}
	for name, want := range cases {
		id, err := resolver.Resolve(name)
		require.NoError(t, err, name)
		require.Equal(t, want, id, name)
	}
}

func TestResolveSkipsCandidatesThatDoNotPeel(t *testing.T) {
	backend := newFakeBackend()
	backend.commit(sha("3"))
	backend.objects[sha("f")] = &git.Object{ID: sha("f"), Type: git.ObjectTree}
	backend.refs["refs/remotes/origin/main"] = sha("f") // a tree, not a commit
	backend.refs["refs/tags/main"] = sha("e")           // dangling
	backend.refs["refs/heads/main"] = sha("3")

	id, err := refs.NewResolver(backend).Resolve("main")
	require.NoError(t, err)
	require.Equal(t, sha("3"), id)
}

func TestResolvePeelsAnnotatedTags(t *testing.T) {
	backend := newFakeBackend()
	backend.commit(sha("c"))
	backend.tag(sha("1"), sha("c"))
	backend.tag(sha("2"), sha("1"))
	backend.tag(sha("3"), sha("2"))
	backend.refs["refs/tags/v1"] = sha("1")
	backend.refs["refs/tags/chain"] = sha("3")
	backend.refs["refs/tags/broken"] = sha("4")
	backend.tag(sha("4"), sha("9")) // points at nothing

	resolver := refs.NewResolver(backend)

	id, err := resolver.Resolve("v1")
	require.NoError(t, err)
	require.Equal(t, sha("c"), id)

	id, err = resolver.Resolve("refs/tags/chain")
	require.NoError(t, err)
	require.Equal(t, sha("c"), id)

	_, err = resolver.Resolve("broken")
	require.ErrorIs(t, err, patcheserrors.ErrNotFound)
}

func TestResolveFallsBackToFindRef(t *testing.T) {
	backend := newFakeBackend()
	backend.commit(sha("5"))
	backend.findRefFn = func(name string) (*git.Ref, error) {
		if name == "HEAD" {
			return &git.Ref{Name: "HEAD", Target: sha("5")}, nil
		}
		return nil, nil
	}

	resolver := refs.NewResolver(backend)

	id, err := resolver.Resolve("HEAD")
	require.NoError(t, err)
	require.Equal(t, sha("5"), id)

	_, err = resolver.Resolve("nothing")
	require.ErrorIs(t, err, patcheserrors.ErrNotFound)
}

func TestResolveTreatsLookupErrorsAsAbsent(t *testing.T) {
	backend := newFakeBackend()
	backend.commit(sha("6"))
	backend.exactRefFn = func(name string) (*git.Ref, error) {
		if name == "refs/heads/main" {
			return &git.Ref{Name: name, Target: sha("6")}, nil
		}
		return nil, errors.New("corrupt ref store")
	}
	backend.findRefFn = func(string) (*git.Ref, error) {
		return nil, errors.New("corrupt ref store")
	}

	resolver := refs.NewResolver(backend)

	id, err := resolver.Resolve("main")
	require.NoError(t, err)
	require.Equal(t, sha("6"), id)

	_, err = resolver.Resolve("other")
	require.ErrorIs(t, err, patcheserrors.ErrNotFound)
}

func TestResolveUsesConfiguredRemote(t *testing.T) {
	backend := newFakeBackend()
	backend.commit(sha("1"))
	backend.commit(sha("2"))
	backend.refs["refs/remotes/origin/main"] = sha("1")
	backend.refs["refs/remotes/upstream/main"] = sha("2")

	id, err := (&refs.Resolver{Backend: backend, Remote: "upstream"}).Resolve("main")
	require.NoError(t, err)
	require.Equal(t, sha("2"), id)

	id, err = (&refs.Resolver{Backend: backend}).Resolve("main")
	require.NoError(t, err)
	require.Equal(t, sha("1"), id)
}
