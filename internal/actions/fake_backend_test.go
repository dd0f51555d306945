package actions_test

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"patches.dev/patches/internal/config"
	"patches.dev/patches/internal/git"
	"patches.dev/patches/internal/patch"
	"patches.dev/patches/internal/runtime"
	"patches.dev/patches/internal/tui"
)

type commitCall struct {
	message string
	author  git.Signature
}

// fakeBackend records the calls made by actions. Failures are injected with
// the *Err fields; applyErrs fails ApplyRawDiff for a given diff text.
type fakeBackend struct {
	status  git.Status
	revs    map[string]string
	commits map[string]*git.Commit
	entries []git.DiffEntry
	diff    string
	refs    map[string]*git.Ref
	objects map[string]*git.Object

	applyErrs map[string]error
	stageErr  error
	commitErr error
	fetchErr  error
	cleanErr  error

	calls     []string
	applied   []string
	committed []commitCall
	fetched   []string
	resetTo   string
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		status:    git.Status{Clean: true},
		revs:      map[string]string{},
		commits:   map[string]*git.Commit{},
		refs:      map[string]*git.Ref{},
		objects:   map[string]*git.Object{},
		applyErrs: map[string]error{},
	}
}

func (f *fakeBackend) record(call string) {
	f.calls = append(f.calls, call)
}

func (f *fakeBackend) Status() (git.Status, error) {
	f.record("status")
	return f.status, nil
}

func (f *fakeBackend) Resolve(rev string) (string, bool, error) {
	f.record("resolve " + rev)
	id, ok := f.revs[rev]
	return id, ok, nil
}

func (f *fakeBackend) CommitInfo(id string) (*git.Commit, error) {
	f.record("commit-info " + id)
	c, ok := f.commits[id]
	if !ok {
		return nil, fmt.Errorf("no commit %s", id)
	}
	return c, nil
}

func (f *fakeBackend) DiffTrees(oldID, newID string) ([]git.DiffEntry, error) {
	f.record("diff-trees " + oldID + " " + newID)
	return f.entries, nil
}

func (f *fakeBackend) RenderDiff(entries []git.DiffEntry) ([]byte, error) {
	f.record("render-diff")
	return []byte(f.diff), nil
}

func (f *fakeBackend) ApplyRawDiff(_ context.Context, diff []byte) error {
	f.record("apply")
	if err := f.applyErrs[string(diff)]; err != nil {
		return err
	}
	f.applied = append(f.applied, string(diff))
	return nil
}

func (f *fakeBackend) StageAll(context.Context) error {
	f.record("stage")
	return f.stageErr
}

func (f *fakeBackend) Commit(message string, author git.Signature) (string, error) {
	f.record("commit")
	if f.commitErr != nil {
		return "", f.commitErr
	}
	f.committed = append(f.committed, commitCall{message: message, author: author})
	return fmt.Sprintf("%040d", len(f.committed)), nil
}

func (f *fakeBackend) ExactRef(name string) (*git.Ref, error) {
	return f.refs[name], nil
}

func (f *fakeBackend) FindRef(string) (*git.Ref, error) {
	return nil, nil
}

func (f *fakeBackend) ParseAny(id string) (*git.Object, error) {
	return f.objects[id], nil
}

func (f *fakeBackend) Fetch(_ context.Context, remote string, refspecs []string, allTags bool) error {
	f.record(fmt.Sprintf("fetch %s tags=%t", remote, allTags))
	f.fetched = append(f.fetched, refspecs...)
	return f.fetchErr
}

func (f *fakeBackend) CleanUntracked(dirs bool) error {
	f.record(fmt.Sprintf("clean dirs=%t", dirs))
	return f.cleanErr
}

func (f *fakeBackend) HardReset(id string) error {
	f.record("reset " + id)
	f.resetTo = id
	return nil
}

type fakeEnv struct {
	ctx     *runtime.Context
	backend *fakeBackend
	cfg     *config.Config
	output  *bytes.Buffer
	opened  []string
}

// newFakeEnv writes a config into a temp directory and wires a context whose
// backend is a fakeBackend and whose prompts are disabled
func newFakeEnv(t *testing.T) *fakeEnv {
	t.Helper()

	cfg := config.Example(filepath.Join(t.TempDir(), config.DefaultFileName), "https://example.com/base.git")
	require.NoError(t, cfg.Save())

	output := &bytes.Buffer{}
	splog, err := tui.NewSplogWithOptions(tui.SplogOptions{Writer: output})
	require.NoError(t, err)

	env := &fakeEnv{
		backend: newFakeBackend(),
		cfg:     cfg,
		output:  output,
	}
	env.ctx = runtime.NewContext(context.Background(), cfg.Path(), splog)
	env.ctx.Config = cfg
	env.ctx.OpenBackend = func(dir string) (git.Backend, error) {
		env.opened = append(env.opened, dir)
		return env.backend, nil
	}
	env.ctx.CloneBackend = func(context.Context, string, string, string) (git.Backend, error) {
		t.Fatal("unexpected clone")
		return nil, nil
	}
	env.ctx.PromptText = func(string, string, func(string) error) (string, error) {
		return "", tui.ErrInteractiveDisabled
	}
	env.ctx.PromptConfirm = func(string, bool) (bool, error) {
		return false, tui.ErrInteractiveDisabled
	}
	return env
}

var testDate = time.Date(2024, time.March, 5, 14, 30, 0, 0, time.FixedZone("", 2*60*60))

func testDiff(file string) string {
	return "diff --git a/" + file + " b/" + file + "\n" +
		"--- a/" + file + "\n" +
		"+++ b/" + file + "\n" +
		"@@ -1 +1 @@\n" +
		"-old\n" +
		"+new\n"
}

func testRecord(subject, file string) *patch.Record {
	return &patch.Record{
		DiffText:    testDiff(file),
		Subject:     subject,
		Body:        "Body of " + subject,
		AuthorName:  "Ada Lovelace",
		AuthorEmail: "ada@example.com",
		AuthorDate:  testDate,
	}
}

// writePatch writes a metadata patch for file into the patches directory
func (e *fakeEnv) writePatch(t *testing.T, name, subject, file string) {
	t.Helper()
	require.NoError(t, mkdir(e.cfg.PatchesDir()))
	require.NoError(t, patch.Write(testRecord(subject, file), filepath.Join(e.cfg.PatchesDir(), name)))
}
