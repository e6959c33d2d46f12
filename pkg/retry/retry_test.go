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

package retry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"
)

var errBoom = errors.New("boom")

func TestDoSucceedsAfterRetries(t *testing.T) {
	calls := 0
	err := Do(context.Background(), 3, Constant(time.Millisecond), func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return errBoom
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDoExhaustsAttempts(t *testing.T) {
	calls := 0
	err := Do(context.Background(), 3, Constant(time.Millisecond), func(ctx context.Context) error {
		calls++
		return errBoom
	})
	require.Error(t, err)
	assert.Equal(t, 3, calls)
	assert.ErrorIs(t, err, errBoom, "last error must stay inspectable")
	assert.Contains(t, err.Error(), "3 attempt")
}

func TestDoFirstTrySkipsBackoff(t *testing.T) {
	start := time.Now()
	err := Do(context.Background(), 5, Constant(time.Hour), func(ctx context.Context) error {
		return nil
	})
	require.NoError(t, err)
	assert.Less(t, time.Since(start), time.Second, "no backoff on immediate success")
}

func TestDoHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	err := Do(ctx, 10, Constant(time.Hour), func(ctx context.Context) error {
		calls++
		return errBoom
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls, "cancellation must stop further attempts")
}

func TestBackoffPolicies(t *testing.T) {
	c := Constant(50 * time.Millisecond)
	assert.Equal(t, 50*time.Millisecond, c(1))
	assert.Equal(t, 50*time.Millisecond, c(4))

	e := Exponential(10 * time.Millisecond)
	assert.Equal(t, 10*time.Millisecond, e(1))
	assert.Equal(t, 20*time.Millisecond, e(2))
	assert.Equal(t, 40*time.Millisecond, e(3))
}
