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

package fileset

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

var (
	// ErrNoInput means no path specifications were given at all.
	ErrNoInput = errors.New("no input files given")

	// ErrEmptyFileSet means specifications were given but every candidate
	// was filtered out. Callers must report this distinctly from ErrNoInput.
	ErrEmptyFileSet = errors.New("no files remain after filtering")
)

// ⚠️ Warning records one skipped input entry and why it was dropped.
type Warning struct {
	Spec   string // the offending path or pattern
	Reason string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %s", w.Spec, w.Reason)
}

// 📦 FileSet is an ordered, duplicate-free list of absolute regular-file
// paths plus the warnings produced while resolving it.
type FileSet struct {
	Files    []string
	Warnings []Warning
}

// 🔧 Options controls resolution behavior.
type Options struct {
	Recursive bool // enumerate regular files under directory operands
}

// 🎯 Resolve expands an ordered list of path specifications (literal paths,
// glob patterns, directories) into a FileSet. Duplicates are collapsed by
// absolute path, first occurrence wins. Nonexistent entries and directories
// given without Recursive are dropped with a warning rather than failing
// the whole set.
func Resolve(ctx context.Context, specs []string, opts Options) (*FileSet, error) {
	logger := zerolog.Ctx(ctx)

	if len(specs) == 0 {
		return nil, ErrNoInput
	}

	set := &FileSet{}
	seen := make(map[string]struct{})

	add := func(abs string) {
		if _, ok := seen[abs]; ok {
			return
		}
		seen[abs] = struct{}{}
		set.Files = append(set.Files, abs)
	}
	warn := func(spec, reason string) {
		set.Warnings = append(set.Warnings, Warning{Spec: spec, Reason: reason})
		logger.Warn().Str("spec", spec).Msg(reason)
	}

	// Expand globs first so candidates carry through in input order.
	var candidates []string
	for _, spec := range specs {
		if spec == "" {
			continue
		}
		if !hasMeta(spec) {
			candidates = append(candidates, spec)
			continue
		}
		matches, err := doublestar.FilepathGlob(spec)
		if err != nil {
			warn(spec, "invalid glob pattern")
			continue
		}
		if len(matches) == 0 {
			warn(spec, "pattern matched no files")
			continue
		}
		candidates = append(candidates, matches...)
	}

	for _, cand := range candidates {
		abs, err := filepath.Abs(cand)
		if err != nil {
			warn(cand, "cannot resolve absolute path")
			continue
		}
		info, err := os.Stat(abs)
		switch {
		case err != nil:
			warn(cand, "no such file")
		case info.IsDir():
			if !opts.Recursive {
				warn(cand, "is a directory (use --recursive)")
				continue
			}
			if err := walkDir(abs, add); err != nil {
				warn(cand, "walking directory: "+err.Error())
			}
		case !info.Mode().IsRegular():
			warn(cand, "not a regular file")
		default:
			add(abs)
		}
	}

	if len(set.Files) == 0 {
		return set, ErrEmptyFileSet
	}

	logger.Debug().Int("files", len(set.Files)).Int("warnings", len(set.Warnings)).Msg("resolved file set")
	return set, nil
}

// walkDir appends every regular file beneath dir, in lexical walk order.
func walkDir(dir string, add func(string)) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() {
			add(path)
		}
		return nil
	})
}

// hasMeta reports whether the spec contains glob metacharacters.
func hasMeta(spec string) bool {
	return strings.ContainsAny(spec, "*?[{")
}

// 📥 ReadSpecsFrom reads one path specification per line, skipping blank
// lines. Used for --stdin mode.
func ReadSpecsFrom(r io.Reader) ([]string, error) {
	var specs []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		specs = append(specs, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Errorf("reading file list: %w", err)
	}
	return specs, nil
}
