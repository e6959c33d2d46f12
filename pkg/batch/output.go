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
	"os"
	"path/filepath"
	"time"

	"gitlab.com/tozd/go/errors"

	"github.com/fsbatch/fsbatch/pkg/retry"
)

const (
	writeAttempts = 3
	writeBackoff  = 100 * time.Millisecond
)

// writeOutput persists the rendered results with a bounded retry around an
// atomic write. The output file is the only shared writable resource of a
// run, so tmp+rename keeps readers from ever seeing a torn document.
func (o *Orchestrator) writeOutput(ctx context.Context, path, content string) error {
	err := retry.Do(ctx, writeAttempts, retry.Constant(writeBackoff), func(ctx context.Context) error {
		return writeFileAtomic(path, []byte(content))
	})
	if err != nil {
		return errors.Errorf("writing output file: %w", err)
	}
	return nil
}

func writeFileAtomic(path string, content []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Errorf("creating parent directories: %w", err)
	}

	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, content, 0644); err != nil {
		return errors.Errorf("writing temp file: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath) // Clean up temp file
		return errors.Errorf("renaming temp file: %w", err)
	}

	return nil
}
