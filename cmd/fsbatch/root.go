package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/fsbatch/fsbatch/cmd/fsbatch/commands"
	"github.com/fsbatch/fsbatch/pkg/batch"
	"github.com/fsbatch/fsbatch/pkg/fileset"
	"github.com/fsbatch/fsbatch/pkg/transform"
)

var (
	// Flags
	configFile string
	verbose    bool
	quiet      bool
)

// newRootCmd builds the root command and wires in the subcommands.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "fsbatch",
		Short: "A batch file processor",
		Long: `fsbatch resolves a set of files (literal paths, glob patterns, directories)
and applies a transform (hash, count, size, lines) to each one, isolating
per-file failures and emitting a human table or JSON depending on where
the output goes.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging()
		},
	}

	addRootFlags(rootCmd)

	opts := &commands.RootOpts{
		ConfigFile: &configFile,
		Verbose:    &verbose,
		Quiet:      &quiet,
	}

	rootCmd.AddCommand(
		commands.NewProcessCmd(opts),
		commands.NewAnalyzeCmd(opts),
		commands.NewConfigCmd(opts),
	)

	return rootCmd
}

// addRootFlags adds shared flags to the root command
func addRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file path")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	cmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress status output")
}

// setupLogging configures zerolog based on flags. Logs go to stderr; stdout
// is reserved for formatted results.
func setupLogging() {
	switch {
	case quiet:
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	case verbose:
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	log := zerolog.New(os.Stderr).With().Timestamp().Logger()
	zerolog.DefaultContextLogger = &log
}

// exitCodeFor maps an error to the process exit code.
func exitCodeFor(err error) int {
	var coded *commands.CodedError
	switch {
	case err == nil:
		return commands.ExitOK
	case errors.Is(err, batch.ErrAborted):
		// Declining a prompt is a user choice, not an error.
		return commands.ExitOK
	case errors.As(err, &coded):
		return coded.Code
	case errors.Is(err, fileset.ErrNoInput), errors.Is(err, transform.ErrUnknownKind):
		return commands.ExitUsage
	default:
		return commands.ExitError
	}
}
