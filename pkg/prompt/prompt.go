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

package prompt

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

// 🚪 Gate decides whether potentially destructive actions proceed. It never
// blocks in non-interactive contexts, which keeps unattended runs total.
type Gate struct {
	In          io.Reader // answer source, normally os.Stdin
	Out         io.Writer // status stream the prompt is written to
	Interactive bool      // whether a controlling terminal is attached
}

// 🎯 Confirm asks the user to approve an action.
//
// Force short-circuits to true without prompting. Non-interactive contexts
// return defaultYes without reading anything. Otherwise one line is read:
// empty input yields the default, case-insensitive "y"/"yes" yields true,
// anything else false.
func (g Gate) Confirm(ctx context.Context, message string, defaultYes, force bool) bool {
	logger := zerolog.Ctx(ctx)

	if force {
		logger.Debug().Str("message", message).Msg("confirmation forced")
		return true
	}
	if !g.Interactive {
		logger.Debug().Str("message", message).Bool("default", defaultYes).Msg("non-interactive, using default")
		return defaultYes
	}

	hint := "[y/N]"
	if defaultYes {
		hint = "[Y/n]"
	}
	fmt.Fprintf(g.Out, "%s %s ", message, hint)

	line, err := bufio.NewReader(g.In).ReadString('\n')
	if err != nil && line == "" {
		// Input stream closed under us, treat like non-interactive.
		return defaultYes
	}

	answer := strings.ToLower(strings.TrimSpace(line))
	switch answer {
	case "":
		return defaultYes
	case "y", "yes":
		return true
	default:
		return false
	}
}

// 🖥️ StdinIsInteractive reports whether stdin is attached to a terminal.
func StdinIsInteractive() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// 🖥️ StdoutIsInteractive reports whether stdout is attached to a terminal.
func StdoutIsInteractive() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// 🖥️ StderrIsInteractive reports whether stderr is attached to a terminal.
func StderrIsInteractive() bool {
	fd := os.Stderr.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
