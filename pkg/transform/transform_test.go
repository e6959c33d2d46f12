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
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "file.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestParse(t *testing.T) {
	for _, name := range []string{"hash", "count", "size", "lines"} {
		k, err := Parse(name)
		require.NoError(t, err, "built-in transform %q should parse", name)
		assert.Equal(t, Kind(name), k)
	}

	_, err := Parse("bogus")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownKind)
	assert.Contains(t, err.Error(), "bogus")
}

func TestApplyHash(t *testing.T) {
	path := writeFile(t, "hello world")

	res := Apply(context.Background(), KindHash, path)
	require.True(t, res.OK(), "hash should succeed: %s", res.Err)
	assert.Equal(t, path, res.Path)
	assert.Equal(t, "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9", res.Hash)
}

func TestApplyCount(t *testing.T) {
	// "héllo" is 5 characters but 6 bytes in UTF-8.
	path := writeFile(t, "héllo")

	res := Apply(context.Background(), KindCount, path)
	require.True(t, res.OK())
	require.NotNil(t, res.Count)
	assert.Equal(t, 6, res.Count.ByteLength)
	assert.Equal(t, 5, res.Count.CharLength)
}

func TestApplySize(t *testing.T) {
	path := writeFile(t, "0123456789")

	res := Apply(context.Background(), KindSize, path)
	require.True(t, res.OK())
	require.NotNil(t, res.Size)
	assert.Equal(t, int64(10), res.Size.SizeBytes)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.True(t, res.Size.Modified.Equal(info.ModTime()), "modified timestamp should be the file mtime")
	assert.WithinDuration(t, time.Now(), res.Size.Modified, time.Minute)
}

func TestApplyLines(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    int
	}{
		{"empty", "", 0},
		{"single_terminated", "a\n", 1},
		{"trailing_unterminated_counts", "a\nb", 2},
		{"three_terminated", "a\nb\nc\n", 3},
		{"only_newlines", "\n\n", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, tt.content)
			res := Apply(context.Background(), KindLines, path)
			require.True(t, res.OK())
			require.NotNil(t, res.Lines)
			assert.Equal(t, tt.want, res.Lines.LineCount)
		})
	}
}

func TestApplyCapturesIOErrors(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.txt")

	for _, kind := range []Kind{KindHash, KindCount, KindSize, KindLines} {
		res := Apply(context.Background(), kind, missing)
		assert.False(t, res.OK(), "%s on a missing file must be a failure result", kind)
		assert.Equal(t, missing, res.Path, "failure must carry the originating path")
		assert.NotEmpty(t, res.Err)
	}
}

func TestRegister(t *testing.T) {
	Register("noop", func(ctx context.Context, path string) (Result, error) {
		return Result{Path: path}, nil
	})

	k, err := Parse("noop")
	require.NoError(t, err)
	res := Apply(context.Background(), k, "whatever")
	assert.True(t, res.OK())
	assert.Contains(t, Names(), "noop")
}
