// Package config loads and saves the patches.yaml project file.
//
// It handles:
//   - The base repository URL and ref the working checkout is cloned from
//   - Where patch files, the working checkout and converted diffs live
//   - Whether patch files carry commit metadata
//
// Relative paths in the file are resolved against the directory that
// contains it, so commands behave the same from any working directory.
package config
