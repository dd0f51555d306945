package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"patches.dev/patches/internal/config"
	patcheserrors "patches.dev/patches/internal/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), config.DefaultFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoad(t *testing.T) {
	t.Parallel()

	t.Run("applies defaults and resolves paths against the file", func(t *testing.T) {
		t.Parallel()
		path := writeConfig(t, "baseRepoUrl: https://example.com/base.git\nbaseRepoRef: v1.2.3\npatchesDirectoryPath: my-patches\n")
		dir := filepath.Dir(path)

		cfg, err := config.Load(path)
		require.NoError(t, err)
		require.Equal(t, "https://example.com/base.git", cfg.BaseRepoURL)
		require.Equal(t, "v1.2.3", cfg.BaseRepoRef)
		require.Equal(t, filepath.Join(dir, "my-patches"), cfg.PatchesDir())
		require.Equal(t, filepath.Join(dir, "_workdir"), cfg.WorkDir())
		require.Equal(t, filepath.Join(dir, "converted"), cfg.ConvertedDir())
		require.True(t, cfg.MetadataEnabled())
		require.False(t, cfg.IsExample())
	})

	t.Run("honours optional keys", func(t *testing.T) {
		t.Parallel()
		abs := filepath.Join(t.TempDir(), "elsewhere")
		path := writeConfig(t, "baseRepoUrl: u\nbaseRepoRef: r\npatchesDirectoryPath: p\n"+
			"workDirectoryPath: "+abs+"\nconvertedDirectoryPath: out/diffs\nmetadata: false\n")

		cfg, err := config.Load(path)
		require.NoError(t, err)
		require.Equal(t, abs, cfg.WorkDir())
		require.Equal(t, filepath.Join(filepath.Dir(path), "out", "diffs"), cfg.ConvertedDir())
		require.False(t, cfg.MetadataEnabled())
	})

	t.Run("missing file is a usage error", func(t *testing.T) {
		t.Parallel()
		_, err := config.Load(filepath.Join(t.TempDir(), "patches.yaml"))
		require.ErrorIs(t, err, patcheserrors.ErrUsage)
		require.Contains(t, err.Error(), "patches init")
	})

	t.Run("missing key is a usage error", func(t *testing.T) {
		t.Parallel()
		path := writeConfig(t, "baseRepoUrl: u\npatchesDirectoryPath: p\n")
		_, err := config.Load(path)
		require.ErrorIs(t, err, patcheserrors.ErrUsage)
		require.Contains(t, err.Error(), "baseRepoRef")
	})

	t.Run("unknown keys are rejected", func(t *testing.T) {
		t.Parallel()
		path := writeConfig(t, "baseRepoUrl: u\nbaseRepoRef: r\npatchesDirectoryPath: p\nbaseRepoURL: typo\n")
		_, err := config.Load(path)
		require.ErrorIs(t, err, patcheserrors.ErrFormat)
	})

	t.Run("invalid yaml is a format error", func(t *testing.T) {
		t.Parallel()
		path := writeConfig(t, "baseRepoUrl: [unterminated\n")
		_, err := config.Load(path)
		require.ErrorIs(t, err, patcheserrors.ErrFormat)
		require.Contains(t, err.Error(), path)
	})
}

func TestLoadOrCreate(t *testing.T) {
	t.Parallel()

	t.Run("creates an example config", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "nested", config.DefaultFileName)

		cfg, created, err := config.LoadOrCreate(path, "")
		require.NoError(t, err)
		require.True(t, created)
		require.True(t, cfg.IsExample())
		require.Equal(t, config.DefaultBaseRef, cfg.BaseRepoRef)
		require.FileExists(t, path)

		again, created, err := config.LoadOrCreate(path, "ignored")
		require.NoError(t, err)
		require.False(t, created)
		require.Equal(t, config.ExampleURL, again.BaseRepoURL)
	})

	t.Run("seeds the URL", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), config.DefaultFileName)

		cfg, created, err := config.LoadOrCreate(path, "https://example.com/base.git")
		require.NoError(t, err)
		require.True(t, created)
		require.False(t, cfg.IsExample())
	})
}

func TestSaveRoundTrip(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), config.DefaultFileName)

	cfg := config.Example(path, "https://example.com/base.git")
	cfg.BaseRepoRef = "refs/tags/v2"
	cfg.ConvertedDirectoryPath = "diffs"
	cfg.SetMetadata(false)
	require.NoError(t, cfg.Save())

	loaded, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, cfg.BaseRepoURL, loaded.BaseRepoURL)
	require.Equal(t, "refs/tags/v2", loaded.BaseRepoRef)
	require.Equal(t, cfg.ConvertedDir(), loaded.ConvertedDir())
	require.False(t, loaded.MetadataEnabled())

	loaded.SetMetadata(true)
	require.NoError(t, loaded.Save())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NotContains(t, string(data), "metadata")
	require.NotContains(t, string(data), "workDirectoryPath")
	require.Contains(t, string(data), "baseRepoUrl: https://example.com/base.git\n")
}
