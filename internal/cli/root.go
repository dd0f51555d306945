package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"patches.dev/patches/internal/config"
	patcheserrors "patches.dev/patches/internal/errors"
	"patches.dev/patches/internal/runtime"
	"patches.dev/patches/internal/tui"
)

// BuildInfo identifies the binary
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

type globalFlags struct {
	configPath string
	logFile    string
	debug      bool
	quiet      bool
}

// app holds the state shared by the root command and Execute
type app struct {
	build BuildInfo
	flags globalFlags
	// started is set once flag and argument parsing succeeded
	started bool
	ctx     *runtime.Context
}

// NewRootCmd creates the root cobra command
func NewRootCmd(build BuildInfo) *cobra.Command {
	return (&app{build: build}).rootCmd()
}

func (a *app) rootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "patches",
		Short: "Maintain a queue of patch files on top of a base repository",
		Long: `patches keeps an ordered directory of patch files that are replayed as
commits onto a clean checkout of a base repository.

A typical session:
  patches init              clone the base repository into the work directory
  patches apply             commit every patch onto the checkout
  patches create-patch      record the newest commit as a patch file
  patches reset             return the checkout to the base ref`,
		Version:       fmt.Sprintf("%s (commit %s, built %s)", a.build.Version, a.build.Commit, a.build.Date),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			a.started = true
			return a.setup(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&a.flags.configPath, "config", "F", config.DefaultFileName, "Path to the configuration file")
	flags.StringVar(&a.flags.logFile, "log-file", "", "Also write a detailed log to this file (or set PATCHES_LOG_FILE)")
	flags.BoolVar(&a.flags.debug, "debug", false, "Print debug output")
	flags.BoolVarP(&a.flags.quiet, "quiet", "q", false, "Only print errors")

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return patcheserrors.NewUsageError("%v\nRun '%s --help' for usage.", err, cmd.CommandPath())
	})

	rootCmd.AddCommand(
		newInitCmd(),
		newApplyCmd(),
		newCreatePatchCmd(),
		newConvertCmd(),
		newResetCmd(),
		newCleanCmd(),
		newConfigCmd(),
		newVersionCmd(a.build),
	)
	return rootCmd
}

// setup builds the runtime context for the command about to run
func (a *app) setup(cmd *cobra.Command) error {
	logFile := tui.LogFilePath(a.flags.logFile)
	splog, err := tui.NewSplogWithOptions(tui.SplogOptions{
		LogFile: logFile,
		Debug:   a.flags.debug,
		Quiet:   a.flags.quiet,
	})
	if err != nil {
		return patcheserrors.NewIOError("open log file", logFile, err)
	}

	a.ctx = runtime.NewContext(cmd.Context(), a.flags.configPath, splog)
	splog.Debug("Running %s with config %s", cmd.CommandPath(), a.flags.configPath)
	cmd.SetContext(runtime.WithContext(cmd.Context(), a.ctx))
	return nil
}

// Execute runs the command line and returns the process exit code
func Execute(args []string, build BuildInfo) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	a := &app{build: build}
	rootCmd := a.rootCmd()
	rootCmd.SetArgs(args)

	err := rootCmd.ExecuteContext(ctx)
	if err != nil && !a.started && !errors.Is(err, patcheserrors.ErrUsage) {
		// cobra rejected the command line before any command ran
		err = patcheserrors.NewUsageError("%v\nRun 'patches --help' for usage.", err)
	}

	splog := tui.NewSplog()
	if a.ctx != nil {
		splog = a.ctx.Splog
		defer func() {
			_ = splog.Close()
		}()
	}
	if err != nil {
		splog.Error("%v", err)
	}
	return patcheserrors.ExitCode(err)
}
