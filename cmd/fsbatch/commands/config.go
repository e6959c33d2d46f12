package commands

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/fsbatch/fsbatch/pkg/config"
)

// NewConfigCmd creates the config command group
func NewConfigCmd(root *RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and manage the configuration file",
	}

	cmd.AddCommand(
		newConfigShowCmd(root),
		newConfigPathCmd(root),
		newConfigInitCmd(root),
	)

	return cmd
}

// newConfigShowCmd prints the effective settings after the full overlay.
func newConfigShowCmd(root *RootOpts) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective settings after merging all sources",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			// The persistent root flags participate in the overlay like
			// any other explicitly-set flag.
			overlay := config.FlagOverlay{}
			if cmd.Flags().Changed("verbose") {
				overlay.Verbose = root.Verbose
			}
			if cmd.Flags().Changed("quiet") {
				overlay.Quiet = root.Quiet
			}

			settings, warns := config.Resolve(ctx, *root.ConfigFile, overlay)
			printConfigWarnings(cmd, warns, *root.Quiet)

			if jsonOut {
				out, err := json.MarshalIndent(settings, "", "  ")
				if err != nil {
					return &CodedError{Code: ExitConfig, Err: errors.Errorf("encoding settings: %w", err)}
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(out))
				return nil
			}

			data := pterm.TableData{
				{"KEY", "VALUE"},
				{"output", settings.Output},
				{"output_dir", settings.OutputDir},
				{"transform", settings.Transform},
				{"recursive", strconv.FormatBool(settings.Recursive)},
				{"verbose", strconv.FormatBool(settings.Verbose)},
				{"quiet", strconv.FormatBool(settings.Quiet)},
				{"json", strconv.FormatBool(settings.JSON)},
				{"no_color", strconv.FormatBool(settings.NoColor)},
				{"jobs", strconv.Itoa(settings.Jobs)},
			}
			table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
			if err != nil {
				return &CodedError{Code: ExitConfig, Err: errors.Errorf("rendering settings: %w", err)}
			}
			fmt.Fprintln(cmd.OutOrStdout(), table)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "print settings as JSON")

	return cmd
}

func newConfigPathCmd(root *RootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the config file path this invocation would read",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.ResolvePath(*root.ConfigFile)
			if path == "" {
				return &CodedError{Code: ExitConfig, Err: errors.New("cannot determine config path")}
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
}

func newConfigInitCmd(root *RootOpts) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a starter config file at the default location",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			path := config.ResolvePath(*root.ConfigFile)
			if path == "" {
				return &CodedError{Code: ExitConfig, Err: errors.New("cannot determine config path")}
			}

			if err := config.Init(ctx, path, force); err != nil {
				return &CodedError{Code: ExitConfig, Err: err}
			}

			pterm.Success.WithWriter(cmd.ErrOrStderr()).Printfln("wrote %s", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config file")

	return cmd
}
