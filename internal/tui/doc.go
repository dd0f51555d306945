// Package tui provides the terminal user interface for patches.
//
// It handles:
//   - Interactive prompts (using survey and bubbletea)
//   - Console and rotating file logging (Splog)
//   - TTY detection for deciding when prompts are allowed
package tui
