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

package types

import (
	"errors"
	"fmt"
)

// The domain error taxonomy. Every public repository operation either
// returns a result or one of these types; raw adapter errors never cross
// the repository boundary.
//
//   - ConfigError: invalid builder input, the caller's bug. Raised at
//     configuration time and returned unwrapped.
//   - TimeoutError: the bounded execution context fired, whether by the
//     per-operation timeout or the caller's own cancellation signal.
//   - StoreError: an adapter-level failure with the original cause kept
//     for diagnostics.
//   - StrategyError: a command reached execution without a resolvable
//     target-selection strategy or with its payload missing.

// ConfigError reports invalid builder configuration: a nil predicate,
// out-of-range pagination, a tie-breaker without a primary ordering.
type ConfigError struct {
	Op     string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration: %s: %s", e.Op, e.Reason)
}

// NewConfigError constructs a ConfigError for the named builder setter.
func NewConfigError(op, format string, args ...any) *ConfigError {
	return &ConfigError{Op: op, Reason: fmt.Sprintf(format, args...)}
}

// TimeoutError reports that an operation was aborted because its bounded
// execution context fired. The message intentionally does not distinguish
// the timeout from a manual cancellation.
type TimeoutError struct {
	Op    string
	Cause error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s: operation cancelled due to timeout or manual cancellation: %v", e.Op, e.Cause)
}

func (e *TimeoutError) Unwrap() error { return e.Cause }

// StoreError reports an adapter-level failure: connectivity, constraint
// violation, query translation. The adapter's original error is preserved
// as the cause.
type StoreError struct {
	Op    string
	Cause error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: store failure: %v", e.Op, e.Cause)
}

func (e *StoreError) Unwrap() error { return e.Cause }

// StrategyError reports a remove/update/restore command that reached
// execution with no resolvable target-selection strategy, or whose payload
// for the active strategy is absent.
type StrategyError struct {
	Op       string
	Strategy RemoveStrategy
	Reason   string
}

func (e *StrategyError) Error() string {
	return fmt.Sprintf("%s: unresolvable strategy %q: %s", e.Op, e.Strategy, e.Reason)
}

// IsConfigError reports whether err is a builder configuration error.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}

// IsTimeout reports whether err is a bounded-context cancellation.
func IsTimeout(err error) bool {
	var te *TimeoutError
	return errors.As(err, &te)
}

// IsStoreError reports whether err is an adapter-level failure.
func IsStoreError(err error) bool {
	var se *StoreError
	return errors.As(err, &se)
}

// IsStrategyError reports whether err is a target-selection failure.
func IsStrategyError(err error) bool {
	var se *StrategyError
	return errors.As(err, &se)
}
