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

package transform

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"gitlab.com/tozd/go/errors"
)

// 🏷️ Kind names one supported transformation.
type Kind string

const (
	KindHash  Kind = "hash"
	KindCount Kind = "count"
	KindSize  Kind = "size"
	KindLines Kind = "lines"
)

// ErrUnknownKind is returned by Parse for unrecognized transform names.
// Callers must reject the run before any file is processed.
var ErrUnknownKind = errors.New("unknown transform")

// 🔍 Parse validates a transform name from config or flags.
func Parse(name string) (Kind, error) {
	k := Kind(name)
	if _, ok := registry[k]; !ok {
		return "", errors.Errorf("%w: %q (supported: %s)", ErrUnknownKind, name, strings.Join(Names(), ", "))
	}
	return k, nil
}

// 📛 Names lists the registered transform names, sorted for stable help text.
func Names() []string {
	names := make([]string, 0, len(registry))
	for k := range registry {
		names = append(names, string(k))
	}
	sort.Strings(names)
	return names
}

// 📊 Result is the outcome of applying one transform to one file. Exactly
// one of the variant fields is populated on success; Err is set instead on
// failure. Results are append-only once created.
type Result struct {
	Path  string     `json:"path"`
	Err   string     `json:"error,omitempty"`
	Hash  string     `json:"hash,omitempty"`
	Count *CountInfo `json:"count,omitempty"`
	Size  *SizeInfo  `json:"size,omitempty"`
	Lines *LinesInfo `json:"lines,omitempty"`
}

// CountInfo distinguishes byte length from character length because file
// content may be multi-byte encoded.
type CountInfo struct {
	ByteLength int `json:"byte_length"`
	CharLength int `json:"char_length"`
}

type SizeInfo struct {
	SizeBytes int64     `json:"size_bytes"`
	Modified  time.Time `json:"modified"`
}

type LinesInfo struct {
	LineCount int `json:"line_count"`
}

// OK reports whether the transform succeeded.
func (r Result) OK() bool {
	return r.Err == ""
}

// Func computes one transform over one file. I/O errors are returned and
// captured into the Failure variant by Apply.
type Func func(ctx context.Context, path string) (Result, error)

var registry = map[Kind]Func{
	KindHash:  applyHash,
	KindCount: applyCount,
	KindSize:  applySize,
	KindLines: applyLines,
}

// 🔌 Register adds a transform to the table. Existing kinds are replaced,
// which lets tests substitute instrumented transforms.
func Register(kind Kind, fn Func) {
	registry[kind] = fn
}

// 🎯 Apply runs the named transform against one file. It never returns an
// error: I/O failures are folded into the Failure variant so one bad file
// cannot abort a batch. Unknown kinds must be rejected earlier via Parse.
func Apply(ctx context.Context, kind Kind, path string) Result {
	fn, ok := registry[kind]
	if !ok {
		return Result{Path: path, Err: "unknown transform: " + string(kind)}
	}
	res, err := fn(ctx, path)
	if err != nil {
		return Result{Path: path, Err: err.Error()}
	}
	return res
}

func applyHash(ctx context.Context, path string) (Result, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Result{}, errors.Errorf("reading file: %w", err)
	}
	sum := sha256.Sum256(content)
	return Result{Path: path, Hash: hex.EncodeToString(sum[:])}, nil
}

func applyCount(ctx context.Context, path string) (Result, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Result{}, errors.Errorf("reading file: %w", err)
	}
	return Result{Path: path, Count: &CountInfo{
		ByteLength: len(content),
		CharLength: utf8.RuneCount(content),
	}}, nil
}

// applySize reads filesystem metadata only, never the file content.
func applySize(ctx context.Context, path string) (Result, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Result{}, errors.Errorf("stating file: %w", err)
	}
	return Result{Path: path, Size: &SizeInfo{
		SizeBytes: info.Size(),
		Modified:  info.ModTime(),
	}}, nil
}

// applyLines counts line boundaries. A trailing unterminated line counts as
// a line: "a\nb" has 2 lines, "a\n" has 1, the empty file has 0.
func applyLines(ctx context.Context, path string) (Result, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Result{}, errors.Errorf("reading file: %w", err)
	}
	count := strings.Count(string(content), "\n")
	if len(content) > 0 && content[len(content)-1] != '\n' {
		count++
	}
	return Result{Path: path, Lines: &LinesInfo{LineCount: count}}, nil
}
