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

package format

import (
	"encoding/json"
	"testing"

	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fsbatch/fsbatch/pkg/transform"
)

func init() {
	pterm.DisableStyling()
}

func sampleResults() []transform.Result {
	return []transform.Result{
		{Path: "/tmp/a.txt", Hash: "aaaa"},
		{Path: "/tmp/b.txt", Err: "reading file: permission denied"},
		{Path: "/tmp/c.txt", Hash: "cccc"},
	}
}

func TestFormatAutoDetection(t *testing.T) {
	tests := []struct {
		name        string
		mode        Mode
		interactive bool
		wantJSON    bool
	}{
		{"auto_interactive_is_table", ModeAuto, true, false},
		{"auto_piped_is_json", ModeAuto, false, true},
		{"explicit_json_wins_on_terminal", ModeJSON, true, true},
		{"explicit_table_wins_on_pipe", ModeTable, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Format(sampleResults(), transform.KindHash, tt.mode, tt.interactive)
			require.NoError(t, err)

			var doc Document
			jsonErr := json.Unmarshal([]byte(out), &doc)
			if tt.wantJSON {
				assert.NoError(t, jsonErr, "output should be valid JSON")
			} else {
				assert.Error(t, jsonErr, "table output should not parse as JSON")
				assert.Contains(t, out, "/tmp/a.txt")
			}
		})
	}
}

func TestFormatJSONDocument(t *testing.T) {
	out, err := Format(sampleResults(), transform.KindHash, ModeJSON, false)
	require.NoError(t, err)

	var doc Document
	require.NoError(t, json.Unmarshal([]byte(out), &doc))

	assert.Equal(t, "hash", doc.Transform)
	require.Len(t, doc.Results, 3)
	assert.Equal(t, Summary{Total: 3, Succeeded: 2, Failed: 1}, doc.Summary)
	assert.Equal(t, "/tmp/a.txt", doc.Results[0].Path, "result order must be preserved")
	assert.Equal(t, "aaaa", doc.Results[0].Hash)
	assert.False(t, doc.Results[1].OK())
	assert.Contains(t, doc.Results[1].Err, "permission denied")
}

func TestFormatJSONEmptyResults(t *testing.T) {
	out, err := Format(nil, transform.KindLines, ModeJSON, false)
	require.NoError(t, err)

	var doc Document
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.NotNil(t, doc.Results, "results must encode as [], not null")
	assert.Equal(t, Summary{}, doc.Summary)
}

func TestFormatTable(t *testing.T) {
	out, err := Format(sampleResults(), transform.KindHash, ModeTable, false)
	require.NoError(t, err)

	assert.Contains(t, out, "PATH")
	assert.Contains(t, out, "SHA-256")
	assert.Contains(t, out, "/tmp/a.txt")
	assert.Contains(t, out, "aaaa")
	assert.Contains(t, out, "permission denied")
	assert.Contains(t, out, "3 processed")
	assert.Contains(t, out, "2 succeeded")
	assert.Contains(t, out, "1 failed")
}

func TestFormatTablePerKindColumns(t *testing.T) {
	tests := []struct {
		name    string
		kind    transform.Kind
		result  transform.Result
		headers []string
	}{
		{
			name:    "count",
			kind:    transform.KindCount,
			result:  transform.Result{Path: "/f", Count: &transform.CountInfo{ByteLength: 6, CharLength: 5}},
			headers: []string{"BYTES", "CHARS"},
		},
		{
			name:    "size",
			kind:    transform.KindSize,
			result:  transform.Result{Path: "/f", Size: &transform.SizeInfo{SizeBytes: 10}},
			headers: []string{"SIZE", "MODIFIED"},
		},
		{
			name:    "lines",
			kind:    transform.KindLines,
			result:  transform.Result{Path: "/f", Lines: &transform.LinesInfo{LineCount: 3}},
			headers: []string{"LINES"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Format([]transform.Result{tt.result}, tt.kind, ModeTable, false)
			require.NoError(t, err)
			for _, h := range tt.headers {
				assert.Contains(t, out, h)
			}
		})
	}
}

func TestDryRun(t *testing.T) {
	files := []string{"/tmp/a.txt", "/tmp/b.txt", "/tmp/c.txt"}

	human, err := DryRun(files, ModeAuto, true)
	require.NoError(t, err)
	assert.Contains(t, human, "would process 3 file(s)")
	for _, f := range files {
		assert.Contains(t, human, f)
	}

	machine, err := DryRun(files, ModeAuto, false)
	require.NoError(t, err)
	var doc struct {
		DryRun bool     `json:"dry_run"`
		Files  []string `json:"files"`
	}
	require.NoError(t, json.Unmarshal([]byte(machine), &doc))
	assert.True(t, doc.DryRun)
	assert.Equal(t, files, doc.Files)
}
