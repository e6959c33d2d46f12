package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fsbatch/fsbatch/pkg/config"
)

// newConfigCLI builds a minimal command tree around NewConfigCmd with the
// same persistent flags the real root carries.
func newConfigCLI() (*cobra.Command, *bytes.Buffer) {
	var (
		configFile string
		verbose    bool
		quiet      bool
	)

	root := &cobra.Command{Use: "fsbatch", SilenceUsage: true, SilenceErrors: true}
	root.PersistentFlags().StringVarP(&configFile, "config", "c", "", "")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "")
	root.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "")
	root.AddCommand(NewConfigCmd(&RootOpts{
		ConfigFile: &configFile,
		Verbose:    &verbose,
		Quiet:      &quiet,
	}))

	out := &bytes.Buffer{}
	root.SetOut(out)
	root.SetErr(&bytes.Buffer{})

	return root, out
}

// isolateConfigEnv points the config lookup at a nonexistent file and clears
// the overlay variables so the host environment cannot leak into a test.
func isolateConfigEnv(t *testing.T) {
	t.Helper()
	t.Setenv(config.EnvConfigPath, filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv(config.EnvOutputDir, "")
	t.Setenv(config.EnvVerbose, "")
	t.Setenv(config.EnvNoColor, "")
}

func TestConfigShowJSONRoundTrip(t *testing.T) {
	isolateConfigEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("transform: lines\njobs: 3\nrecursive: true\n"), 0o644))

	cli, out := newConfigCLI()
	cli.SetArgs([]string{"config", "show", "--json", "--config", path})
	require.NoError(t, cli.ExecuteContext(context.Background()))

	var got config.Settings
	require.NoError(t, json.Unmarshal(out.Bytes(), &got), "show --json output must be valid settings JSON")

	want, warns := config.Resolve(context.Background(), path, config.FlagOverlay{})
	require.Empty(t, warns)
	assert.Equal(t, want, got, "printed settings must round-trip to the resolved settings")
	assert.Equal(t, "lines", got.Transform)
	assert.Equal(t, 3, got.Jobs)
	assert.True(t, got.Recursive)
}

func TestConfigShowReflectsRootFlags(t *testing.T) {
	isolateConfigEnv(t)

	t.Run("verbose_flag_overlays", func(t *testing.T) {
		cli, out := newConfigCLI()
		cli.SetArgs([]string{"config", "show", "--json", "--verbose"})
		require.NoError(t, cli.ExecuteContext(context.Background()))

		var got config.Settings
		require.NoError(t, json.Unmarshal(out.Bytes(), &got))
		assert.True(t, got.Verbose, "persistent --verbose is part of the effective settings")
		assert.False(t, got.Quiet)
	})

	t.Run("unset_flags_keep_defaults", func(t *testing.T) {
		cli, out := newConfigCLI()
		cli.SetArgs([]string{"config", "show", "--json"})
		require.NoError(t, cli.ExecuteContext(context.Background()))

		var got config.Settings
		require.NoError(t, json.Unmarshal(out.Bytes(), &got))
		assert.Equal(t, config.Defaults(), got)
	})
}
