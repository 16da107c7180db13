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

// RangeBuilder accumulates the configuration of a range query through
// fluent setters. Each setter validates its argument and records the first
// failure; the recorded error surfaces unwrapped when the builder is
// consumed. Builders are created fresh per operation and consumed exactly
// once.
type RangeBuilder[T any] struct {
	cfg   RangeConfig
	err   error
	built bool
}

// NewRange returns a range query builder with default pagination
// (skip=0, take=100).
func NewRange[T any]() *RangeBuilder[T] {
	return &RangeBuilder[T]{cfg: RangeConfig{Skip: DefaultSkip, Take: DefaultTake}}
}

func (b *RangeBuilder[T]) fail(op, format string, args ...any) {
	if b.err == nil {
		b.err = types.NewConfigError(op, format, args...)
	}
}

// Err returns the first configuration error recorded by a setter, or nil.
func (b *RangeBuilder[T]) Err() error { return b.err }

// WithFilter appends a predicate. Predicates accumulate conjunctively:
// every predicate must match.
func (b *RangeBuilder[T]) WithFilter(p Predicate) *RangeBuilder[T] {
	if p == nil {
		b.fail("WithFilter", "predicate must not be nil")
		return b
	}
	b.cfg.Predicates = append(b.cfg.Predicates, p)
	return b
}

// WithProjection sets the optional projection.
func (b *RangeBuilder[T]) WithProjection(p Projection) *RangeBuilder[T] {
	if p == nil {
		b.fail("WithProjection", "projection must not be nil")
		return b
	}
	b.cfg.Projection = p
	return b
}

// WithOrdering sets the primary ordering, replacing any existing ordering
// list including previously appended tie-breakers.
func (b *RangeBuilder[T]) WithOrdering(key OrderingKey, dir types.SortDirection) *RangeBuilder[T] {
	if key == nil {
		b.fail("WithOrdering", "ordering key must not be nil")
		return b
	}
	if !dir.IsValid() {
		b.fail("WithOrdering", "invalid sort direction %d", int(dir))
		return b
	}
	b.cfg.Orderings = []Ordering{{Key: key, Direction: dir}}
	return b
}

// WithThenOrdering appends a tie-breaker ordering. A primary ordering must
// already exist; calling this first is a usage error.
func (b *RangeBuilder[T]) WithThenOrdering(key OrderingKey, dir types.SortDirection) *RangeBuilder[T] {
	if len(b.cfg.Orderings) == 0 {
		b.fail("WithThenOrdering", "a primary ordering must be set before tie-breakers")
		return b
	}
	if key == nil {
		b.fail("WithThenOrdering", "ordering key must not be nil")
		return b
	}
	if !dir.IsValid() {
		b.fail("WithThenOrdering", "invalid sort direction %d", int(dir))
		return b
	}
	b.cfg.Orderings = append(b.cfg.Orderings, Ordering{Key: key, Direction: dir})
	return b
}

// WithPagination sets the pagination window. skip must be >= 0; take must
// be in (0, MaxTake] unless constraints are ignored.
func (b *RangeBuilder[T]) WithPagination(skip, take int) *RangeBuilder[T] {
	if skip < 0 {
		b.fail("WithPagination", "skip must be >= 0, got %d", skip)
		return b
	}
	if take <= 0 {
		b.fail("WithPagination", "take must be > 0, got %d", take)
		return b
	}
	if take > MaxTake && !b.cfg.ConstraintsIgnored {
		b.fail("WithPagination", "take must be <= %d unless constraints are ignored, got %d", MaxTake, take)
		return b
	}
	b.cfg.Skip = skip
	b.cfg.Take = take
	b.cfg.Uncapped = false
	return b
}

// WithoutPaginationCap removes the pagination window entirely, allowing an
// unbounded scan. Guarded by the constraints-ignored flag: intended for
// trusted internal call sites only.
func (b *RangeBuilder[T]) WithoutPaginationCap() *RangeBuilder[T] {
	if !b.cfg.ConstraintsIgnored {
		b.fail("WithoutPaginationCap", "removing the pagination cap requires ignored constraints")
		return b
	}
	b.cfg.Uncapped = true
	return b
}

// WithIgnoreConstraints disables builder-side safety constraints such as
// the pagination cap.
func (b *RangeBuilder[T]) WithIgnoreConstraints() *RangeBuilder[T] {
	b.cfg.ConstraintsIgnored = true
	return b
}

// WithIgnoreDefaultFilters includes logically deleted records that the
// default filters would otherwise exclude.
func (b *RangeBuilder[T]) WithIgnoreDefaultFilters() *RangeBuilder[T] {
	b.cfg.IgnoreDefaultFilters = true
	return b
}

// WithIgnoreAutoInclude disables automatic relation loading for adapters
// that support it.
func (b *RangeBuilder[T]) WithIgnoreAutoInclude() *RangeBuilder[T] {
	b.cfg.IgnoreAutoInclude = true
	return b
}

// WithSplitFetch hints adapters that support it to split relation fetches
// into separate queries.
func (b *RangeBuilder[T]) WithSplitFetch() *RangeBuilder[T] {
	b.cfg.SplitFetch = true
	return b
}

// WithNoTracking hints adapters that track fetched records to skip
// tracking for this query.
func (b *RangeBuilder[T]) WithNoTracking() *RangeBuilder[T] {
	b.cfg.NoTracking = true
	return b
}

// WithTimeout overrides the verb-default timeout for this operation.
func (b *RangeBuilder[T]) WithTimeout(d time.Duration) *RangeBuilder[T] {
	if d < 0 {
		b.fail("WithTimeout", "timeout must be >= 0, got %s", d)
		return b
	}
	b.cfg.Timeout = d
	return b
}

// Build finalizes the configuration. It returns the recorded configuration
// error, if any, and fails on reuse: a builder is consumed exactly once.
func (b *RangeBuilder[T]) Build() (*RangeConfig, error) {
	if b.err != nil {
		return nil, b.err
	}
	if b.built {
		return nil, types.NewConfigError("Build", "builder already consumed; create a fresh builder per operation")
	}
	b.built = true
	cfg := b.cfg
	cfg.Predicates = append([]Predicate(nil), b.cfg.Predicates...)
	cfg.Orderings = append([]Ordering(nil), b.cfg.Orderings...)
	return &cfg, nil
}
