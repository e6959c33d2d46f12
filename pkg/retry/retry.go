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
	"time"

	"gitlab.com/tozd/go/errors"
)

// BackoffFunc returns the delay before the given 1-based attempt is retried.
type BackoffFunc func(attempt int) time.Duration

// Constant waits the same duration between every attempt.
func Constant(d time.Duration) BackoffFunc {
	return func(int) time.Duration { return d }
}

// Exponential doubles the base duration after each attempt.
func Exponential(base time.Duration) BackoffFunc {
	return func(attempt int) time.Duration {
		return base << (attempt - 1)
	}
}

// 🔁 Do runs op up to attempts times, sleeping per backoff between failed
// attempts. Cancellation is honored between attempts, never mid-op.
func Do(ctx context.Context, attempts int, backoff BackoffFunc, op func(context.Context) error) error {
	if attempts < 1 {
		attempts = 1
	}

	var last error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := op(ctx); err == nil {
			return nil
		} else {
			last = err
		}

		if attempt == attempts {
			break
		}
		select {
		case <-ctx.Done():
			return errors.Errorf("retry cancelled: %w", ctx.Err())
		case <-time.After(backoff(attempt)):
		}
	}

	return errors.Errorf("after %d attempt(s): %w", attempts, last)
}
