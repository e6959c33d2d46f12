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

package batch

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"

	"github.com/fsbatch/fsbatch/pkg/config"
	"github.com/fsbatch/fsbatch/pkg/fileset"
	"github.com/fsbatch/fsbatch/pkg/format"
	"github.com/fsbatch/fsbatch/pkg/progress"
	"github.com/fsbatch/fsbatch/pkg/prompt"
	"github.com/fsbatch/fsbatch/pkg/transform"
)

var (
	// ErrAborted means the user declined the confirmation prompt. This is a
	// user choice, not an error condition: callers exit 0.
	ErrAborted = errors.New("aborted by user")

	// ErrOutputExists means the output file exists, force was not given,
	// and no terminal was available to ask.
	ErrOutputExists = errors.New("output file already exists (use --force)")
)

// 🎼 Orchestrator sequences one batch run: resolve files, gate destructive
// writes, apply transforms with progress, format and emit the results. It
// is the only component that knows the ordering; everything it calls is a
// pure or near-pure function over explicit inputs.
type Orchestrator struct {
	Settings config.Settings
	Gate     prompt.Gate

	Out    io.Writer // data stream, normally stdout
	Status io.Writer // status stream, normally stderr

	OutIsInteractive    bool // picks table vs JSON under ModeAuto
	StatusIsInteractive bool // gates the progress bar

	DryRun   bool
	ReadOnly bool // analyze mode: never writes an output file, never prompts
}

// 📊 Summary aggregates the outcome of one batch run.
type Summary struct {
	Total     int
	Succeeded int
	Failed    int
	Results   []transform.Result
}

// FailedResults returns only the failure entries.
func (s *Summary) FailedResults() []transform.Result {
	var failed []transform.Result
	for _, r := range s.Results {
		if !r.OK() {
			failed = append(failed, r)
		}
	}
	return failed
}

// 🎯 Run executes the batch. The result sequence always has exactly one
// entry per resolved file, in resolution order; a failing transform never
// aborts the remaining tasks. On interrupt, in-flight tasks finish, nothing
// new is dispatched, and the partial results are still emitted.
func (o *Orchestrator) Run(ctx context.Context, specs []string) (*Summary, error) {
	logger := zerolog.Ctx(ctx)

	// Reject a bad transform name before touching any file.
	kind, err := transform.Parse(o.Settings.Transform)
	if err != nil {
		return nil, err
	}

	set, err := fileset.Resolve(ctx, specs, fileset.Options{Recursive: o.Settings.Recursive})
	if set != nil {
		o.reportWarnings(set.Warnings)
	}
	if err != nil {
		return nil, err
	}

	if o.DryRun {
		rendered, err := format.DryRun(set.Files, o.mode(), o.OutIsInteractive)
		if err != nil {
			return nil, err
		}
		fmt.Fprintln(o.Out, rendered)
		return &Summary{Total: len(set.Files)}, nil
	}

	outPath := o.outputPath()
	if o.ReadOnly {
		// Analyze mode: results go to the data stream no matter what the
		// configuration says about output files.
		outPath = ""
	}
	if outPath != "" {
		if err := o.gateOverwrite(ctx, outPath); err != nil {
			return nil, err
		}
	}

	var results []transform.Result
	if o.Settings.Jobs > 1 {
		results = o.executeParallel(ctx, kind, set.Files, o.Settings.Jobs)
	} else {
		results = o.executeSerial(ctx, kind, set.Files)
	}

	summary := summarize(results)

	rendered, err := format.Format(results, kind, o.mode(), outPath == "" && o.OutIsInteractive)
	if err != nil {
		return summary, err
	}

	if outPath != "" {
		if err := o.writeOutput(ctx, outPath, rendered); err != nil {
			return summary, err
		}
		if !o.Settings.Quiet {
			pterm.Success.WithWriter(o.Status).Printfln("wrote %d result(s) to %s", summary.Total, outPath)
		}
	} else {
		fmt.Fprintln(o.Out, rendered)
	}

	if ctx.Err() != nil {
		logger.Warn().Int("completed", summary.Total).Msg("batch interrupted, partial results emitted")
		return summary, errors.Errorf("batch interrupted: %w", ctx.Err())
	}

	return summary, nil
}

// gateOverwrite asks before clobbering a pre-existing output file. Without
// a terminal the answer defaults to no: declining non-interactively is an
// error, declining at a prompt is a user choice.
func (o *Orchestrator) gateOverwrite(ctx context.Context, outPath string) error {
	if o.Settings.Force {
		return nil
	}
	if _, err := os.Stat(outPath); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Errorf("checking output path: %w", err)
	}

	msg := fmt.Sprintf("Output file %s exists. Overwrite?", outPath)
	if o.Gate.Confirm(ctx, msg, false, false) {
		return nil
	}
	if !o.Gate.Interactive {
		return errors.Errorf("%w: %s", ErrOutputExists, outPath)
	}
	return ErrAborted
}

func (o *Orchestrator) executeSerial(ctx context.Context, kind transform.Kind, files []string) []transform.Result {
	results := make([]transform.Result, 0, len(files))
	state := progress.State{Total: len(files)}

	for _, f := range files {
		if ctx.Err() != nil {
			break
		}
		res := transform.Apply(ctx, kind, f)
		results = append(results, res)
		state.Advance()
		o.afterTask(ctx, res, state)
	}

	o.finishProgress(state)
	return results
}

// executeParallel fans tasks out over a bounded worker pool. Each worker
// writes into a pre-sized slot keyed by original index, so output order is
// the resolution order regardless of completion order. On cancellation the
// dispatch loop stops; workers already running finish their file.
func (o *Orchestrator) executeParallel(ctx context.Context, kind transform.Kind, files []string, jobs int) []transform.Result {
	results := make([]transform.Result, len(files))
	state := progress.State{Total: len(files)}
	var mu sync.Mutex

	g := new(errgroup.Group)
	g.SetLimit(jobs)

	dispatched := 0
	for i, f := range files {
		if ctx.Err() != nil {
			break
		}
		dispatched++
		i, f := i, f
		g.Go(func() error {
			res := transform.Apply(ctx, kind, f)
			mu.Lock()
			results[i] = res
			state.Advance()
			o.afterTask(ctx, res, state)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	o.finishProgress(state)
	return results[:dispatched]
}

// afterTask logs per-file failures and redraws the progress bar.
func (o *Orchestrator) afterTask(ctx context.Context, res transform.Result, state progress.State) {
	if !res.OK() {
		zerolog.Ctx(ctx).Warn().Str("path", res.Path).Str("error", res.Err).Msg("transform failed")
	}
	if o.progressEnabled() {
		fmt.Fprintf(o.Status, "\r%s", progress.RenderColored(state.Completed, state.Total, progress.DefaultWidth))
	}
}

func (o *Orchestrator) finishProgress(state progress.State) {
	if o.progressEnabled() && state.Total > 0 {
		fmt.Fprintln(o.Status)
	}
}

// progressEnabled suppresses the bar when the status stream is piped or
// quiet mode is set, so machine-readable output is never corrupted.
func (o *Orchestrator) progressEnabled() bool {
	return o.StatusIsInteractive && !o.Settings.Quiet
}

func (o *Orchestrator) reportWarnings(warnings []fileset.Warning) {
	if o.Settings.Quiet {
		return
	}
	for _, w := range warnings {
		pterm.Warning.WithWriter(o.Status).Println(w.String())
	}
}

func (o *Orchestrator) mode() format.Mode {
	if o.Settings.JSON {
		return format.ModeJSON
	}
	return format.ModeAuto
}

// outputPath resolves the destination file, joining a relative --output
// onto the configured output directory.
func (o *Orchestrator) outputPath() string {
	out := o.Settings.Output
	if out == "" {
		return ""
	}
	if !filepath.IsAbs(out) && o.Settings.OutputDir != "" {
		return filepath.Join(o.Settings.OutputDir, out)
	}
	return out
}

func summarize(results []transform.Result) *Summary {
	s := &Summary{Total: len(results), Results: results}
	for _, r := range results {
		if r.OK() {
			s.Succeeded++
		} else {
			s.Failed++
		}
	}
	return s
}
