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

package progress

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// DefaultWidth is the bar width used when callers pass width <= 0.
const DefaultWidth = 30

// 📊 State tracks batch completion. Total is fixed at batch start;
// Completed only ever increases and never exceeds Total.
type State struct {
	Completed int
	Total     int
}

// Advance records one more completed task, clamped at Total.
func (s *State) Advance() {
	if s.Completed < s.Total {
		s.Completed++
	}
}

// Percent returns the integer-rounded completion percentage, defined as 0
// when Total is 0.
func (s State) Percent() int {
	return percent(s.Completed, s.Total)
}

// 🎯 Render produces a fixed-width bracketed bar with percentage and
// fraction, e.g. "[=========>          ]  50% (5/10)". It is a pure
// function: writing it to a status stream is the caller's job.
func Render(completed, total, width int) string {
	if width <= 0 {
		width = DefaultWidth
	}
	if completed < 0 {
		completed = 0
	}
	if total >= 0 && completed > total {
		completed = total
	}

	filled := 0
	if total > 0 {
		filled = width * completed / total
	}

	var bar string
	switch {
	case filled >= width:
		bar = strings.Repeat("=", width)
	case filled > 0:
		bar = strings.Repeat("=", filled-1) + ">" + strings.Repeat(" ", width-filled)
	default:
		bar = strings.Repeat(" ", width)
	}

	return fmt.Sprintf("[%s] %3d%% (%d/%d)", bar, percent(completed, total), completed, total)
}

// 🎨 RenderColored is Render with the bar dimmed for terminal display.
// Honors the global color.NoColor toggle.
func RenderColored(completed, total, width int) string {
	plain := Render(completed, total, width)
	return color.CyanString(plain)
}

func percent(completed, total int) int {
	if total <= 0 {
		return 0
	}
	return (completed*100 + total/2) / total
}
