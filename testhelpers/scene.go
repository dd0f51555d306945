package testhelpers

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

// Scene is a throwaway project directory next to an upstream base repository.
//
//	<tmp>/upstream   base repository the project clones from
//	<tmp>/project    Dir: patches.yaml, patches/, _workdir/
type Scene struct {
	Dir      string
	Upstream *GitRepo
	oldDir   string
}

// SceneSetup is a function type for setting up a scene.
type SceneSetup func(*Scene) error

// NewScene creates a scene and changes into its project directory for the
// duration of the test. It is not safe for parallel tests.
func NewScene(t *testing.T, setup SceneSetup) *Scene {
	t.Helper()
	scene := newScene(t, setup)

	oldDir, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get current directory: %v", err)
	}
	if err := os.Chdir(scene.Dir); err != nil {
		t.Fatalf("Failed to change directory: %v", err)
	}
	scene.oldDir = oldDir
	t.Cleanup(func() {
		_ = os.Chdir(oldDir)
	})
	return scene
}

// NewSceneParallel creates a scene without touching the process working
// directory, so it can be used from parallel tests.
func NewSceneParallel(t *testing.T, setup SceneSetup) *Scene {
	t.Helper()
	return newScene(t, setup)
}

func newScene(t *testing.T, setup SceneSetup) *Scene {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "patches-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() {
		if os.Getenv("DEBUG") == "" {
			_ = os.RemoveAll(tmpDir)
		}
	})

	upstream, err := NewGitRepo(filepath.Join(tmpDir, "upstream"))
	if err != nil {
		t.Fatalf("Failed to create Git repo: %v", err)
	}

	scene := &Scene{
		Dir:      filepath.Join(tmpDir, "project"),
		Upstream: upstream,
	}
	if err := os.MkdirAll(scene.Dir, 0750); err != nil {
		t.Fatalf("Failed to create project dir: %v", err)
	}

	if setup != nil {
		if err := setup(scene); err != nil {
			t.Fatalf("Setup failed: %v", err)
		}
	}
	return scene
}

// ConfigPath returns the path of the scene's patches.yaml.
func (s *Scene) ConfigPath() string {
	return filepath.Join(s.Dir, "patches.yaml")
}

// PatchesDir returns the scene's patches directory.
func (s *Scene) PatchesDir() string {
	return filepath.Join(s.Dir, "patches")
}

// WorkDir returns the scene's working checkout directory.
func (s *Scene) WorkDir() string {
	return filepath.Join(s.Dir, "_workdir")
}

// ConvertedDir returns the scene's converted-diff output directory.
func (s *Scene) ConvertedDir() string {
	return filepath.Join(s.Dir, "converted")
}

// WriteConfig writes a patches.yaml pointing at the upstream repository.
func (s *Scene) WriteConfig(baseRef string) error {
	content := fmt.Sprintf("baseRepoUrl: %s\nbaseRepoRef: %s\npatchesDirectoryPath: patches\n", s.Upstream.Dir, baseRef)
	return os.WriteFile(s.ConfigPath(), []byte(content), 0600)
}

// WritePatch writes a patch file into the patches directory.
func (s *Scene) WritePatch(name, content string) error {
	if err := os.MkdirAll(s.PatchesDir(), 0750); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(s.PatchesDir(), name), []byte(content), 0600)
}

// CloneWorkDir clones upstream into the working checkout directory.
func (s *Scene) CloneWorkDir() (*GitRepo, error) {
	return NewGitRepoFromURL(s.WorkDir(), s.Upstream.Dir)
}

// WorkRepo returns a GitRepo for an existing working checkout with a commit
// identity configured.
func (s *Scene) WorkRepo() (*GitRepo, error) {
	repo := OpenGitRepo(s.WorkDir())
	if err := repo.RunGitCommand("config", "user.name", "Test User"); err != nil {
		return nil, err
	}
	if err := repo.RunGitCommand("config", "user.email", "test@example.com"); err != nil {
		return nil, err
	}
	return repo, nil
}

// BasicSceneSetup gives upstream a single commit on main and writes a
// config pointing at it.
func BasicSceneSetup(scene *Scene) error {
	if err := scene.Upstream.CreateChangeAndCommit("1", "1"); err != nil {
		return err
	}
	return scene.WriteConfig("main")
}
