// Copyright 2025 the fsbatch authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// Environment variables consulted during resolution. All are optional and
// all lose to explicit flags.
const (
	EnvConfigPath = "FSBATCH_CONFIG"     // config file override path
	EnvOutputDir  = "FSBATCH_OUTPUT_DIR" // default output directory
	EnvVerbose    = "FSBATCH_VERBOSE"    // verbosity toggle
	EnvNoColor    = "NO_COLOR"           // disable colored output
)

// 📚 Settings is the fully merged configuration for one invocation.
// It is built once by Resolve and treated as immutable afterwards.
type Settings struct {
	Output    string `json:"output"`     // output file path, empty means stdout
	OutputDir string `json:"output_dir"` // directory joined onto a relative Output
	Transform string `json:"transform"`  // transform name (hash, count, size, lines)
	Recursive bool   `json:"recursive"`  // walk directories given as operands
	Verbose   bool   `json:"verbose"`    // debug logging
	Quiet     bool   `json:"quiet"`      // suppress status output
	JSON      bool   `json:"json"`       // force machine-readable output
	Force     bool   `json:"force"`      // skip confirmation prompts
	NoColor   bool   `json:"no_color"`   // disable colored output
	Jobs      int    `json:"jobs"`       // worker count, 1 means sequential
}

// 🔧 FileSettings is the subset of Settings a config file may provide.
// Fields are pointers so an absent key never overlays a lower-precedence
// value with a zero.
type FileSettings struct {
	OutputDir *string `yaml:"output_dir" hcl:"output_dir,optional"`
	Transform *string `yaml:"transform" hcl:"transform,optional"`
	Recursive *bool   `yaml:"recursive" hcl:"recursive,optional"`
	Verbose   *bool   `yaml:"verbose" hcl:"verbose,optional"`
	Quiet     *bool   `yaml:"quiet" hcl:"quiet,optional"`
	JSON      *bool   `yaml:"json" hcl:"json,optional"`
	NoColor   *bool   `yaml:"no_color" hcl:"no_color,optional"`
	Jobs      *int    `yaml:"jobs" hcl:"jobs,optional"`
}

// 🚩 FlagOverlay carries the command-line values that were explicitly set.
// Unset flags stay nil so they fall through to lower-precedence sources.
type FlagOverlay struct {
	Output    *string
	OutputDir *string
	Transform *string
	Recursive *bool
	Verbose   *bool
	Quiet     *bool
	JSON      *bool
	Force     *bool
	NoColor   *bool
	Jobs      *int
}

// ⚠️ Warning is a non-fatal configuration problem. Warnings degrade the run
// to defaults, they never abort it.
type Warning struct {
	Path    string // offending config file, if any
	Message string
}

func (w Warning) String() string {
	if w.Path != "" {
		return fmt.Sprintf("%s: %s", w.Path, w.Message)
	}
	return w.Message
}

// 🎯 Defaults returns the built-in settings every run starts from.
func Defaults() Settings {
	return Settings{
		Transform: "hash",
		Jobs:      1,
	}
}

// 🔀 Resolve merges the four configuration sources into one Settings value.
// Precedence, highest first: explicit flags, environment variables, config
// file, built-in defaults. A missing config file is skipped silently; an
// unparseable one produces a Warning and the run proceeds on defaults.
func Resolve(ctx context.Context, explicitPath string, flags FlagOverlay) (Settings, []Warning) {
	logger := zerolog.Ctx(ctx)
	s := Defaults()
	var warnings []Warning

	path := ResolvePath(explicitPath)
	if path != "" {
		fs, err := LoadFile(ctx, path)
		switch {
		case err == nil:
			fs.apply(&s)
			logger.Debug().Str("path", path).Msg("applied config file")
		case errors.Is(err, os.ErrNotExist):
			logger.Debug().Str("path", path).Msg("config file not found, skipping")
		default:
			warnings = append(warnings, Warning{Path: path, Message: err.Error()})
			logger.Warn().Str("path", path).Err(err).Msg("ignoring unparseable config file")
		}
	}

	applyEnv(&s)
	flags.apply(&s)

	logger.Debug().Stringer("settings", s).Msg("resolved settings")
	return s, warnings
}

// 🧭 ResolvePath picks the config file to consult: explicit flag, then
// FSBATCH_CONFIG, then the default per-tool location.
func ResolvePath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if env := os.Getenv(EnvConfigPath); env != "" {
		return env
	}
	path, err := DefaultPath()
	if err != nil {
		return ""
	}
	return path
}

// 📍 DefaultPath returns the per-tool default config file location,
// honoring XDG_CONFIG_HOME via os.UserConfigDir.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", errors.Errorf("locating user config dir: %w", err)
	}
	return filepath.Join(dir, "fsbatch", "config.yaml"), nil
}

// applyEnv overlays the recognized environment variables. Unset or empty
// variables never overlay a file-provided value.
func applyEnv(s *Settings) {
	if v := os.Getenv(EnvOutputDir); v != "" {
		s.OutputDir = v
	}
	if v := os.Getenv(EnvVerbose); v != "" {
		s.Verbose = envTruthy(v)
	}
	if v := os.Getenv(EnvNoColor); v != "" {
		s.NoColor = true
	}
}

func envTruthy(v string) bool {
	switch strings.ToLower(v) {
	case "0", "false", "no", "off":
		return false
	}
	return true
}

func (f *FileSettings) apply(s *Settings) {
	if f.OutputDir != nil {
		s.OutputDir = *f.OutputDir
	}
	if f.Transform != nil {
		s.Transform = *f.Transform
	}
	if f.Recursive != nil {
		s.Recursive = *f.Recursive
	}
	if f.Verbose != nil {
		s.Verbose = *f.Verbose
	}
	if f.Quiet != nil {
		s.Quiet = *f.Quiet
	}
	if f.JSON != nil {
		s.JSON = *f.JSON
	}
	if f.NoColor != nil {
		s.NoColor = *f.NoColor
	}
	if f.Jobs != nil {
		s.Jobs = *f.Jobs
	}
}

func (f FlagOverlay) apply(s *Settings) {
	if f.Output != nil {
		s.Output = *f.Output
	}
	if f.OutputDir != nil {
		s.OutputDir = *f.OutputDir
	}
	if f.Transform != nil {
		s.Transform = *f.Transform
	}
	if f.Recursive != nil {
		s.Recursive = *f.Recursive
	}
	if f.Verbose != nil {
		s.Verbose = *f.Verbose
	}
	if f.Quiet != nil {
		s.Quiet = *f.Quiet
	}
	if f.JSON != nil {
		s.JSON = *f.JSON
	}
	if f.Force != nil {
		s.Force = *f.Force
	}
	if f.NoColor != nil {
		s.NoColor = *f.NoColor
	}
	if f.Jobs != nil {
		s.Jobs = *f.Jobs
	}
}

// 📝 String returns a compact one-line rendering of the settings.
func (s Settings) String() string {
	out := s.Output
	if out == "" {
		out = "stdout"
	}
	return fmt.Sprintf("transform=%s output=%s recursive=%t jobs=%d", s.Transform, out, s.Recursive, s.Jobs)
}
