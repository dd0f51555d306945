package actions_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func mkdir(dir string) error {
	return os.MkdirAll(dir, 0750)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, mkdir(filepath.Dir(path)))
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}
