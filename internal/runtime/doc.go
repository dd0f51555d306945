// Package runtime provides the execution context for patches commands.
//
// It carries the loaded configuration, the logger, the backend opener and
// the interactive prompts, so actions receive their dependencies explicitly
// and tests can substitute any of them.
package runtime
