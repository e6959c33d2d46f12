package commands

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/fsbatch/fsbatch/pkg/config"
)

// Exit codes. 0 and 1 follow Unix convention, 2 is the usual usage-error
// code, 78 matches sysexits EX_CONFIG.
const (
	// ExitOK indicates success, including a user declining a prompt.
	ExitOK = 0

	// ExitError indicates a runtime failure (empty file set, write error).
	ExitError = 1

	// ExitUsage indicates an invalid invocation (bad transform name, no
	// input given).
	ExitUsage = 2

	// ExitConfig indicates a configuration management failure.
	ExitConfig = 78
)

// CodedError pins an explicit exit code onto an error.
type CodedError struct {
	Code int
	Err  error
}

func (e *CodedError) Error() string {
	if e == nil || e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

func (e *CodedError) Unwrap() error {
	return e.Err
}

// RootOpts carries the persistent root flag values into the subcommands.
type RootOpts struct {
	ConfigFile *string
	Verbose    *bool
	Quiet      *bool
}

// overlayFromFlags converts explicitly-set flags into a config overlay.
// Only flags the user actually changed participate, so unset flags fall
// through to env, file, and defaults.
func overlayFromFlags(cmd *cobra.Command) config.FlagOverlay {
	var o config.FlagOverlay
	flags := cmd.Flags()

	setString := func(name string, dst **string) {
		if flags.Changed(name) {
			v, _ := flags.GetString(name)
			*dst = &v
		}
	}
	setBool := func(name string, dst **bool) {
		if flags.Changed(name) {
			v, _ := flags.GetBool(name)
			*dst = &v
		}
	}
	setInt := func(name string, dst **int) {
		if flags.Changed(name) {
			v, _ := flags.GetInt(name)
			*dst = &v
		}
	}

	setString("output", &o.Output)
	setString("output-dir", &o.OutputDir)
	setString("transform", &o.Transform)
	setBool("recursive", &o.Recursive)
	setBool("verbose", &o.Verbose)
	setBool("quiet", &o.Quiet)
	setBool("json", &o.JSON)
	setBool("force", &o.Force)
	setInt("jobs", &o.Jobs)

	return o
}

// applySettings re-levels logging and color once the full overlay is known,
// since a config file or env var may have flipped verbose/quiet/no_color.
func applySettings(s config.Settings) {
	switch {
	case s.Quiet:
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	case s.Verbose:
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	if s.NoColor {
		color.NoColor = true
		pterm.DisableColor()
	}
}

// printConfigWarnings surfaces non-fatal configuration problems on the
// status stream. Configuration failures degrade to defaults, never abort.
func printConfigWarnings(cmd *cobra.Command, warnings []config.Warning, quiet bool) {
	if quiet {
		return
	}
	for _, w := range warnings {
		pterm.Warning.WithWriter(cmd.ErrOrStderr()).Println(fmt.Sprintf("config: %s", w))
	}
}
