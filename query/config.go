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

package query

import (
	"time"

	"github.com/tomoncle/osprey/types"
)

// Pagination defaults and bounds. The take cap guards against accidental
// unbounded scans; lifting it requires ignoring constraints explicitly.
const (
	DefaultSkip = 0
	DefaultTake = 100
	MaxTake     = 1000
)

// Ordering pairs an opaque ordering key with its direction. The first
// ordering in a config is primary; the rest break ties in declaration
// order.
type Ordering struct {
	Key       OrderingKey
	Direction types.SortDirection
}

// RangeConfig is the finalized, immutable configuration of a range query.
// Adapters consume it read-only; builders produce it exactly once.
type RangeConfig struct {
	Predicates []Predicate
	Projection Projection
	Orderings  []Ordering

	Skip int
	Take int
	// Uncapped disables the take limit entirely. Only set through the
	// explicit escape setter, which itself requires ignored constraints.
	Uncapped bool

	IgnoreDefaultFilters bool
	IgnoreAutoInclude    bool
	SplitFetch           bool
	NoTracking           bool
	ConstraintsIgnored   bool

	// Timeout overrides the verb default when non-zero.
	Timeout time.Duration
}

// SingleConfig is the finalized, immutable configuration of a
// single-result query. TakeFirst selects the first match under the given
// ordering; when false, the last match is taken.
type SingleConfig struct {
	Predicates []Predicate
	Projection Projection
	Orderings  []Ordering

	TakeFirst bool

	IgnoreDefaultFilters bool
	IgnoreAutoInclude    bool
	SplitFetch           bool
	NoTracking           bool
	ConstraintsIgnored   bool

	Timeout time.Duration
}
