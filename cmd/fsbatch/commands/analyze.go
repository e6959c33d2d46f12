package commands

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/fsbatch/fsbatch/pkg/batch"
	"github.com/fsbatch/fsbatch/pkg/config"
	"github.com/fsbatch/fsbatch/pkg/fileset"
	"github.com/fsbatch/fsbatch/pkg/prompt"
	"github.com/fsbatch/fsbatch/pkg/transform"
)

// NewAnalyzeCmd creates the analyze command
func NewAnalyzeCmd(root *RootOpts) *cobra.Command {
	var useStdin bool

	cmd := &cobra.Command{
		Use:   "analyze [files...]",
		Short: "Run a transform over files without writing anything",
		Long: `Analyze is process without side effects: it resolves and transforms the
same way but never writes an output file and never prompts, so it is safe
in pipelines and pre-flight checks.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			settings, warns := config.Resolve(ctx, *root.ConfigFile, overlayFromFlags(cmd))
			applySettings(settings)
			printConfigWarnings(cmd, warns, settings.Quiet)

			specs := args
			if useStdin {
				var err error
				specs, err = fileset.ReadSpecsFrom(cmd.InOrStdin())
				if err != nil {
					return err
				}
			}

			orch := &batch.Orchestrator{
				Settings:            settings,
				Gate:                prompt.Gate{In: cmd.InOrStdin(), Out: cmd.ErrOrStderr()},
				Out:                 cmd.OutOrStdout(),
				Status:              cmd.ErrOrStderr(),
				OutIsInteractive:    prompt.StdoutIsInteractive(),
				StatusIsInteractive: prompt.StderrIsInteractive(),
				ReadOnly:            true,
			}

			_, err := orch.Run(ctx, specs)
			return err
		},
	}

	cmd.Flags().StringP("transform", "t", "hash", "transform to apply ("+strings.Join(transform.Names(), ", ")+")")
	cmd.Flags().BoolP("recursive", "r", false, "enumerate files under directory operands")
	cmd.Flags().Bool("json", false, "force JSON output")
	cmd.Flags().Int("jobs", 1, "number of parallel workers")
	cmd.Flags().BoolVar(&useStdin, "stdin", false, "read the file list from stdin, one path per line")

	return cmd
}
