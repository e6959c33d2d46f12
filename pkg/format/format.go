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
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/pterm/pterm"
	"gitlab.com/tozd/go/errors"

	"github.com/fsbatch/fsbatch/pkg/transform"
)

// 🖨️ Mode selects the rendering of a result collection.
type Mode int

const (
	// ModeAuto picks a human table for interactive destinations and JSON
	// for piped ones. Scripts get parseable output without asking for it.
	ModeAuto Mode = iota
	ModeJSON
	ModeTable
)

// Document is the machine-readable output envelope.
type Document struct {
	Transform string             `json:"transform"`
	Results   []transform.Result `json:"results"`
	Summary   Summary            `json:"summary"`
}

type Summary struct {
	Total     int `json:"total"`
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
}

// 🎯 Format renders the final result collection. An explicit mode always
// wins; ModeAuto resolves by destination interactivity.
func Format(results []transform.Result, kind transform.Kind, mode Mode, interactive bool) (string, error) {
	switch resolve(mode, interactive) {
	case ModeJSON:
		return renderJSON(results, kind)
	default:
		return renderTable(results, kind)
	}
}

// 📋 DryRun renders the list of files that would be processed.
func DryRun(files []string, mode Mode, interactive bool) (string, error) {
	if resolve(mode, interactive) == ModeJSON {
		doc := struct {
			DryRun bool     `json:"dry_run"`
			Files  []string `json:"files"`
		}{DryRun: true, Files: files}
		out, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return "", errors.Errorf("encoding dry-run list: %w", err)
		}
		return string(out), nil
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("would process %d file(s):\n", len(files)))
	for _, f := range files {
		b.WriteString("  " + f + "\n")
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

func resolve(mode Mode, interactive bool) Mode {
	if mode != ModeAuto {
		return mode
	}
	if interactive {
		return ModeTable
	}
	return ModeJSON
}

func renderJSON(results []transform.Result, kind transform.Kind) (string, error) {
	if results == nil {
		results = []transform.Result{}
	}
	doc := Document{
		Transform: string(kind),
		Results:   results,
		Summary:   summarize(results),
	}
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", errors.Errorf("encoding results: %w", err)
	}
	return string(out), nil
}

func renderTable(results []transform.Result, kind transform.Kind) (string, error) {
	data := pterm.TableData{header(kind)}
	for _, r := range results {
		data = append(data, row(r, kind))
	}

	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return "", errors.Errorf("rendering table: %w", err)
	}

	s := summarize(results)
	footer := fmt.Sprintf("%d processed, %s, %s",
		s.Total,
		color.GreenString("%d succeeded", s.Succeeded),
		color.RedString("%d failed", s.Failed),
	)
	return table + "\n" + footer, nil
}

func header(kind transform.Kind) []string {
	switch kind {
	case transform.KindHash:
		return []string{"PATH", "SHA-256"}
	case transform.KindCount:
		return []string{"PATH", "BYTES", "CHARS"}
	case transform.KindSize:
		return []string{"PATH", "SIZE", "MODIFIED"}
	case transform.KindLines:
		return []string{"PATH", "LINES"}
	default:
		return []string{"PATH", "RESULT"}
	}
}

func row(r transform.Result, kind transform.Kind) []string {
	if !r.OK() {
		cells := []string{r.Path, color.RedString("✗ %s", r.Err)}
		for len(cells) < len(header(kind)) {
			cells = append(cells, "")
		}
		return cells
	}

	switch {
	case r.Hash != "":
		return []string{r.Path, r.Hash}
	case r.Count != nil:
		return []string{r.Path, strconv.Itoa(r.Count.ByteLength), strconv.Itoa(r.Count.CharLength)}
	case r.Size != nil:
		return []string{r.Path, strconv.FormatInt(r.Size.SizeBytes, 10), r.Size.Modified.Format(time.RFC3339)}
	case r.Lines != nil:
		return []string{r.Path, strconv.Itoa(r.Lines.LineCount)}
	default:
		return []string{r.Path, ""}
	}
}

func summarize(results []transform.Result) Summary {
	s := Summary{Total: len(results)}
	for _, r := range results {
		if r.OK() {
			s.Succeeded++
		} else {
			s.Failed++
		}
	}
	return s
}
