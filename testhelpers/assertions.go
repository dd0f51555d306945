// Package testhelpers provides testing utilities for the patches CLI,
// including a scene system, Git repository helpers, and custom assertions.
package testhelpers

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// Must is a generic helper function that panics if err is not nil,
// otherwise returns the value. This is useful for test setup code
// where errors are not expected and should halt execution immediately.
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// ExpectCommits asserts that the newest commit subjects on the current
// branch match expected, newest first. Older commits are ignored.
func ExpectCommits(t *testing.T, repo *GitRepo, expected []string) {
	t.Helper()

	messages, err := repo.ListCurrentBranchCommitMessages()
	require.NoError(t, err, "Failed to list commits")

	if len(messages) < len(expected) {
		require.Fail(t, "Not enough commits", "Expected %d commits, got %d", len(expected), len(messages))
		return
	}
	require.Equal(t, expected, messages[:len(expected)], "Commits do not match")
}

// ExpectCommitsString asserts the newest commit subjects as a
// comma-separated string.
func ExpectCommitsString(t *testing.T, repo *GitRepo, expected string) {
	t.Helper()

	messages, err := repo.ListCurrentBranchCommitMessages()
	require.NoError(t, err, "Failed to list commit messages")

	expectedCount := len(strings.Split(expected, ","))
	if len(messages) < expectedCount {
		require.Fail(t, "Not enough commits", "Expected %d commits, got %d", expectedCount, len(messages))
		return
	}
	require.Equal(t, expected, strings.Join(messages[:expectedCount], ", "), "Commits do not match")
}

// ExpectClean asserts that the repository has no staged, unstaged or untracked changes.
func ExpectClean(t *testing.T, repo *GitRepo) {
	t.Helper()

	status, err := repo.StatusPorcelain()
	require.NoError(t, err)
	require.Empty(t, status, "working tree is not clean")
}

// ExpectFileContent asserts the exact content of a file.
func ExpectFileContent(t *testing.T, path, expected string) {
	t.Helper()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, expected, string(data))
}
