package commands

import (
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/fsbatch/fsbatch/pkg/batch"
	"github.com/fsbatch/fsbatch/pkg/config"
	"github.com/fsbatch/fsbatch/pkg/fileset"
	"github.com/fsbatch/fsbatch/pkg/prompt"
	"github.com/fsbatch/fsbatch/pkg/transform"
)

// NewProcessCmd creates the process command
func NewProcessCmd(root *RootOpts) *cobra.Command {
	var (
		dryRun   bool
		noInput  bool
		useStdin bool
	)

	cmd := &cobra.Command{
		Use:   "process [files...]",
		Short: "Apply a transform to a set of files and emit the results",
		Long: `Process resolves the given files (literal paths, glob patterns, and with
--recursive, directories), applies the selected transform to each one, and
emits the collected results. A failing file becomes a failure entry in the
output; it never aborts the batch.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			settings, warns := config.Resolve(ctx, *root.ConfigFile, overlayFromFlags(cmd))
			applySettings(settings)
			printConfigWarnings(cmd, warns, settings.Quiet)

			specs := args
			if useStdin {
				if len(args) > 0 && !settings.Quiet {
					pterm.Warning.WithWriter(cmd.ErrOrStderr()).
						Printfln("--stdin given, ignoring %d positional operand(s)", len(args))
				}
				var err error
				specs, err = fileset.ReadSpecsFrom(cmd.InOrStdin())
				if err != nil {
					return err
				}
			}

			// --stdin consumes the input stream, so prompting is off the
			// table even when a terminal is attached.
			interactive := !noInput && !useStdin && prompt.StdinIsInteractive()

			orch := &batch.Orchestrator{
				Settings: settings,
				Gate: prompt.Gate{
					In:          cmd.InOrStdin(),
					Out:         cmd.ErrOrStderr(),
					Interactive: interactive,
				},
				Out:                 cmd.OutOrStdout(),
				Status:              cmd.ErrOrStderr(),
				OutIsInteractive:    prompt.StdoutIsInteractive(),
				StatusIsInteractive: prompt.StderrIsInteractive(),
				DryRun:              dryRun,
			}

			_, err := orch.Run(ctx, specs)
			return err
		},
	}

	cmd.Flags().StringP("output", "o", "", "write results to this file instead of stdout")
	cmd.Flags().String("output-dir", "", "directory a relative --output is resolved against")
	cmd.Flags().StringP("transform", "t", "hash", "transform to apply ("+strings.Join(transform.Names(), ", ")+")")
	cmd.Flags().BoolP("recursive", "r", false, "enumerate files under directory operands")
	cmd.Flags().Bool("json", false, "force JSON output")
	cmd.Flags().BoolP("force", "f", false, "overwrite existing output without prompting")
	cmd.Flags().Int("jobs", 1, "number of parallel workers")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "list the files that would be processed and exit")
	cmd.Flags().BoolVar(&noInput, "no-input", false, "never prompt, treat the run as non-interactive")
	cmd.Flags().BoolVar(&useStdin, "stdin", false, "read the file list from stdin, one path per line")

	return cmd
}
