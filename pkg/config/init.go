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
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// starterConfig is the commented template written by `config init`.
const starterConfig = `# fsbatch configuration
#
# Every key here is optional and is overridden by environment variables
# and command-line flags.

# transform: hash
# output_dir: ""
# recursive: false
# verbose: false
# quiet: false
# json: false
# no_color: false
# jobs: 1
`

// ErrExists is returned by Init when the target file is already present
// and force was not given.
var ErrExists = errors.New("config file already exists")

// ✨ Init writes a starter config file at path, creating parent directories
// as needed. An existing file is never clobbered unless force is set.
func Init(ctx context.Context, path string, force bool) error {
	logger := zerolog.Ctx(ctx)

	if _, err := os.Stat(path); err == nil && !force {
		return errors.Errorf("%w: %s", ErrExists, path)
	} else if err != nil && !os.IsNotExist(err) {
		return errors.Errorf("checking config path: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(path, []byte(starterConfig), 0644); err != nil {
		return errors.Errorf("writing config file: %w", err)
	}

	logger.Debug().Str("path", path).Msg("wrote starter config")
	return nil
}
