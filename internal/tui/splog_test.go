package tui

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSplogConsole(t *testing.T) {
	t.Setenv("DEBUG", "")
	var buf bytes.Buffer
	splog, err := NewSplogWithOptions(SplogOptions{Writer: &buf})
	require.NoError(t, err)

	splog.Info("applied %d patches", 2)
	splog.Debug("hidden")
	splog.Warn("careful")
	require.Equal(t, "applied 2 patches\n⚠️  careful\n", buf.String())
}

func TestSplogDebugAndQuiet(t *testing.T) {
	var buf bytes.Buffer
	splog, err := NewSplogWithOptions(SplogOptions{Writer: &buf, Debug: true})
	require.NoError(t, err)

	splog.Debug("visible")
	splog.SetQuiet(true)
	require.True(t, splog.IsQuiet())
	splog.Info("suppressed")
	splog.Newline()
	splog.Error("still shown")
	require.Equal(t, "visible\n❌ still shown\n", buf.String())
}

func TestSplogFileLog(t *testing.T) {
	t.Setenv("DEBUG", "")
	logFile := filepath.Join(t.TempDir(), "logs", "patches.log")
	var buf bytes.Buffer
	splog, err := NewSplogWithOptions(SplogOptions{Writer: &buf, LogFile: logFile})
	require.NoError(t, err)

	splog.Debug("only in file")
	splog.Info("both")
	require.NoError(t, splog.Close())

	require.Equal(t, "both\n", buf.String())
	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	require.Contains(t, string(data), "only in file")
	require.Contains(t, string(data), "level=INFO")
}

func TestEnvInt(t *testing.T) {
	t.Setenv("PATCHES_LOG_MAX_SIZE", "5")
	require.Equal(t, 5, envInt("PATCHES_LOG_MAX_SIZE", 1, false))

	t.Setenv("PATCHES_LOG_MAX_SIZE", "0")
	require.Equal(t, 1, envInt("PATCHES_LOG_MAX_SIZE", 1, false))

	t.Setenv("PATCHES_LOG_MAX_BACKUPS", "0")
	require.Equal(t, 0, envInt("PATCHES_LOG_MAX_BACKUPS", 2, true))

	t.Setenv("PATCHES_LOG_MAX_AGE", "soon")
	require.Equal(t, 30, envInt("PATCHES_LOG_MAX_AGE", 30, false))

	rotating := newRotatingWriter("x.log")
	require.Equal(t, 1, rotating.MaxSize)
	require.Equal(t, 0, rotating.MaxBackups)
}

func TestPromptsRespectNoInteractive(t *testing.T) {
	t.Setenv("PATCHES_NO_INTERACTIVE", "1")

	_, err := PromptTextInput("name?", "", nil)
	require.ErrorIs(t, err, ErrInteractiveDisabled)

	_, err = PromptConfirm("sure?", false)
	require.ErrorIs(t, err, ErrInteractiveDisabled)
}

func TestLogFilePath(t *testing.T) {
	t.Setenv("PATCHES_LOG_FILE", "/tmp/env.log")
	require.Equal(t, "/tmp/flag.log", LogFilePath("/tmp/flag.log"))
	require.Equal(t, "/tmp/env.log", LogFilePath(""))
}
