package tui

import (
	"os"
)

// LogFilePath returns the file log requested by flag, falling back to
// PATCHES_LOG_FILE. An empty result means console-only logging.
func LogFilePath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return os.Getenv("PATCHES_LOG_FILE")
}
