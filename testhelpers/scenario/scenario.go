// Package scenario provides a high-level test scenario that combines a Scene
// and a runtime Context to provide a terse API for integration tests.
package scenario

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"patches.dev/patches/internal/runtime"
	"patches.dev/patches/internal/tui"
	"patches.dev/patches/testhelpers"
)

// Scenario represents a high-level test scenario that combines a Scene and
// a runtime Context whose output is captured.
type Scenario struct {
	T       *testing.T
	Scene   *testhelpers.Scene
	Context *runtime.Context
	// Work is the working checkout, set by WithWorkDir.
	Work   *testhelpers.GitRepo
	output *bytes.Buffer
}

// NewScenario creates a new Scenario with an optional setup function. The
// scene is not entered, so scenarios can run in parallel. Prompts fail with
// tui.ErrInteractiveDisabled unless replaced.
func NewScenario(t *testing.T, setup testhelpers.SceneSetup) *Scenario {
	t.Helper()

	scene := testhelpers.NewSceneParallel(t, setup)
	output := &bytes.Buffer{}
	splog, err := tui.NewSplogWithOptions(tui.SplogOptions{Writer: output})
	require.NoError(t, err)

	ctx := runtime.NewContext(context.Background(), scene.ConfigPath(), splog)
	ctx.PromptText = func(string, string, func(string) error) (string, error) {
		return "", tui.ErrInteractiveDisabled
	}
	ctx.PromptConfirm = func(string, bool) (bool, error) {
		return false, tui.ErrInteractiveDisabled
	}

	return &Scenario{
		T:       t,
		Scene:   scene,
		Context: ctx,
		output:  output,
	}
}

// Output returns everything the scenario's splog has printed so far.
func (s *Scenario) Output() string {
	return s.output.String()
}

// WithWorkDir clones upstream into the working directory.
func (s *Scenario) WithWorkDir() *Scenario {
	s.T.Helper()
	_, err := s.Scene.CloneWorkDir()
	require.NoError(s.T, err)
	s.Work, err = s.Scene.WorkRepo()
	require.NoError(s.T, err)
	return s
}

// WithPatch writes a patch file into the patches directory.
func (s *Scenario) WithPatch(name, content string) *Scenario {
	s.T.Helper()
	require.NoError(s.T, s.Scene.WritePatch(name, content))
	return s
}

// WithUpstreamCommit commits a change to <prefix>_test.txt upstream.
func (s *Scenario) WithUpstreamCommit(prefix, text string) *Scenario {
	s.T.Helper()
	require.NoError(s.T, s.Scene.Upstream.CreateChangeAndCommit(text, prefix))
	return s
}

// CommitChange writes <prefix>_test.txt in the working checkout and commits
// it with message, authored by name <email> at date.
func (s *Scenario) CommitChange(prefix, text, message, name, email, date string) *Scenario {
	s.T.Helper()
	require.NoError(s.T, s.Work.CreateChange(text, prefix, false))
	require.NoError(s.T, s.Work.CommitAllAs(message, name, email, date))
	return s
}

// WithUncommittedChange leaves an unstaged change in the working checkout.
func (s *Scenario) WithUncommittedChange(prefix string) *Scenario {
	s.T.Helper()
	require.NoError(s.T, s.Work.CreateChange("unstaged content", prefix, true))
	return s
}

// RunGit runs a git command in the working checkout.
func (s *Scenario) RunGit(args ...string) *Scenario {
	s.T.Helper()
	require.NoError(s.T, s.Work.RunGitCommand(args...))
	return s
}

// ExpectCommits asserts the newest commit subjects in the working checkout.
func (s *Scenario) ExpectCommits(expected ...string) *Scenario {
	s.T.Helper()
	testhelpers.ExpectCommits(s.T, s.Work, expected)
	return s
}

// ExpectClean asserts the working checkout has no changes.
func (s *Scenario) ExpectClean() *Scenario {
	s.T.Helper()
	testhelpers.ExpectClean(s.T, s.Work)
	return s
}
