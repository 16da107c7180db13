/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package repository

import (
	"context"
	"time"
)

// Verb-default timeouts. Single-item reads and writes default shorter;
// range reads longer; range deletes and updates longest since they may
// touch many records. A non-zero builder override always wins.
const (
	DefaultSingleTimeout     = 15 * time.Second
	DefaultRangeReadTimeout  = 30 * time.Second
	DefaultRangeWriteTimeout = 60 * time.Second
)

// effectiveTimeout picks the builder override when non-zero, else the
// verb default.
func effectiveTimeout(override, verbDefault time.Duration) time.Duration {
	if override > 0 {
		return override
	}
	return verbDefault
}

// boundedContext derives the execution context for one operation: the
// caller's cancellation signal combined with a timer at the effective
// timeout. Either source cancels the in-flight adapter call.
func boundedContext(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, timeout)
}
