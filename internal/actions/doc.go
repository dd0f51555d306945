// Package actions implements the patches commands.
//
// Each action corresponds to a command (init, apply, create-patch, etc.)
// and orchestrates the config, the patch codec and the git backend.
//
// Key patterns:
//   - Actions accept runtime.Context which provides Config, Splog and the backend opener
//   - Actions keep no state between invocations; a backend is opened per call
//   - Errors are typed (see internal/errors) so the CLI can map them to exit codes
package actions
