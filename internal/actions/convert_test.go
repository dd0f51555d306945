package actions_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"patches.dev/patches/internal/actions"
	patcheserrors "patches.dev/patches/internal/errors"
)

func TestConvertAction(t *testing.T) {
	t.Parallel()

	t.Run("writes plain diffs without touching the repository", func(t *testing.T) {
		t.Parallel()
		env := newFakeEnv(t)
		env.writePatch(t, "0002-b.patch", "Second", "b.txt")
		env.writePatch(t, "0001-a.patch", "First", "a.txt")

		result, err := actions.ConvertAction(env.ctx, actions.ConvertOptions{})
		require.NoError(t, err)
		require.Equal(t, []string{"0001-a.patch", "0002-b.patch"}, result.Converted)
		require.Equal(t, testDiff("a.txt"), readFile(t, filepath.Join(env.cfg.ConvertedDir(), "0001-a.patch")))
		require.Equal(t, testDiff("b.txt"), readFile(t, filepath.Join(env.cfg.ConvertedDir(), "0002-b.patch")))
		require.Empty(t, env.opened)
		require.Empty(t, env.backend.calls)
	})

	t.Run("is idempotent", func(t *testing.T) {
		t.Parallel()
		env := newFakeEnv(t)
		env.writePatch(t, "0001-a.patch", "First", "a.txt")
		target := filepath.Join(env.cfg.ConvertedDir(), "0001-a.patch")

		_, err := actions.ConvertAction(env.ctx, actions.ConvertOptions{})
		require.NoError(t, err)
		first := readFile(t, target)

		_, err = actions.ConvertAction(env.ctx, actions.ConvertOptions{})
		require.NoError(t, err)
		require.Equal(t, first, readFile(t, target))
	})

	t.Run("empty patches directory creates no output", func(t *testing.T) {
		t.Parallel()
		env := newFakeEnv(t)
		require.NoError(t, mkdir(env.cfg.PatchesDir()))

		result, err := actions.ConvertAction(env.ctx, actions.ConvertOptions{})
		require.NoError(t, err)
		require.Empty(t, result.Converted)
		require.NoDirExists(t, env.cfg.ConvertedDir())
	})

	t.Run("malformed patch stops the conversion", func(t *testing.T) {
		t.Parallel()
		env := newFakeEnv(t)
		env.writePatch(t, "0001-a.patch", "First", "a.txt")
		writeFile(t, filepath.Join(env.cfg.PatchesDir(), "0002-b.patch"), "Subject: x\n")

		result, err := actions.ConvertAction(env.ctx, actions.ConvertOptions{})
		require.ErrorIs(t, err, patcheserrors.ErrFormat)
		require.Contains(t, err.Error(), "0002-b.patch")
		require.Equal(t, []string{"0001-a.patch"}, result.Converted)
	})

	t.Run("check passes when outputs are current", func(t *testing.T) {
		t.Parallel()
		env := newFakeEnv(t)
		env.writePatch(t, "0001-a.patch", "First", "a.txt")
		_, err := actions.ConvertAction(env.ctx, actions.ConvertOptions{})
		require.NoError(t, err)

		result, err := actions.ConvertAction(env.ctx, actions.ConvertOptions{Check: true})
		require.NoError(t, err)
		require.Empty(t, result.Stale)
		require.Contains(t, env.output.String(), "up to date")
	})

	t.Run("check reports stale and missing outputs without writing", func(t *testing.T) {
		t.Parallel()
		env := newFakeEnv(t)
		env.writePatch(t, "0001-a.patch", "First", "a.txt")
		env.writePatch(t, "0002-b.patch", "Second", "b.txt")
		stale := filepath.Join(env.cfg.ConvertedDir(), "0001-a.patch")
		writeFile(t, stale, "diff --git a/a.txt b/a.txt\nstale\n")

		result, err := actions.ConvertAction(env.ctx, actions.ConvertOptions{Check: true})
		require.ErrorIs(t, err, patcheserrors.ErrPrecondition)
		require.Equal(t, []string{"0001-a.patch", "0002-b.patch"}, result.Stale)
		require.Equal(t, "diff --git a/a.txt b/a.txt\nstale\n", readFile(t, stale))
		_, statErr := os.Stat(filepath.Join(env.cfg.ConvertedDir(), "0002-b.patch"))
		require.True(t, os.IsNotExist(statErr))

		out := env.output.String()
		require.Contains(t, out, "-stale")
		require.Contains(t, out, "+new")
		require.Contains(t, out, "is missing")
	})

	t.Run("diff-only patches are copied", func(t *testing.T) {
		t.Parallel()
		env := newFakeEnv(t)
		env.cfg.SetMetadata(false)
		writeFile(t, filepath.Join(env.cfg.PatchesDir(), "0001-a.patch"), testDiff("a.txt"))

		_, err := actions.ConvertAction(env.ctx, actions.ConvertOptions{})
		require.NoError(t, err)
		require.Equal(t, testDiff("a.txt"), readFile(t, filepath.Join(env.cfg.ConvertedDir(), "0001-a.patch")))
	})
}
