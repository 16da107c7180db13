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

// SingleBuilder accumulates the configuration of a single-result query.
// It shares the predicate, projection, and ordering surface of
// RangeBuilder and selects the first match under the ordering by default.
type SingleBuilder[T any] struct {
	cfg   SingleConfig
	err   error
	built bool
}

// NewSingle returns a single-result query builder (takeFirst=true).
func NewSingle[T any]() *SingleBuilder[T] {
	return &SingleBuilder[T]{cfg: SingleConfig{TakeFirst: true}}
}

func (b *SingleBuilder[T]) fail(op, format string, args ...any) {
	if b.err == nil {
		b.err = types.NewConfigError(op, format, args...)
	}
}

// Err returns the first configuration error recorded by a setter, or nil.
func (b *SingleBuilder[T]) Err() error { return b.err }

// WithFilter appends a predicate; predicates accumulate conjunctively.
func (b *SingleBuilder[T]) WithFilter(p Predicate) *SingleBuilder[T] {
	if p == nil {
		b.fail("WithFilter", "predicate must not be nil")
		return b
	}
	b.cfg.Predicates = append(b.cfg.Predicates, p)
	return b
}

// WithProjection sets the optional projection.
func (b *SingleBuilder[T]) WithProjection(p Projection) *SingleBuilder[T] {
	if p == nil {
		b.fail("WithProjection", "projection must not be nil")
		return b
	}
	b.cfg.Projection = p
	return b
}

// WithOrdering sets the primary ordering, replacing the ordering list.
func (b *SingleBuilder[T]) WithOrdering(key OrderingKey, dir types.SortDirection) *SingleBuilder[T] {
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

// WithThenOrdering appends a tie-breaker; requires a primary ordering.
func (b *SingleBuilder[T]) WithThenOrdering(key OrderingKey, dir types.SortDirection) *SingleBuilder[T] {
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

// WithTakeLast selects the last match under the configured ordering
// instead of the first.
func (b *SingleBuilder[T]) WithTakeLast() *SingleBuilder[T] {
	b.cfg.TakeFirst = false
	return b
}

// WithIgnoreDefaultFilters includes logically deleted records.
func (b *SingleBuilder[T]) WithIgnoreDefaultFilters() *SingleBuilder[T] {
	b.cfg.IgnoreDefaultFilters = true
	return b
}

// WithIgnoreAutoInclude disables automatic relation loading.
func (b *SingleBuilder[T]) WithIgnoreAutoInclude() *SingleBuilder[T] {
	b.cfg.IgnoreAutoInclude = true
	return b
}

// WithSplitFetch hints adapters to split relation fetches.
func (b *SingleBuilder[T]) WithSplitFetch() *SingleBuilder[T] {
	b.cfg.SplitFetch = true
	return b
}

// WithNoTracking hints adapters to skip tracking for this query.
func (b *SingleBuilder[T]) WithNoTracking() *SingleBuilder[T] {
	b.cfg.NoTracking = true
	return b
}

// WithIgnoreConstraints disables builder-side safety constraints.
func (b *SingleBuilder[T]) WithIgnoreConstraints() *SingleBuilder[T] {
	b.cfg.ConstraintsIgnored = true
	return b
}

// WithTimeout overrides the verb-default timeout for this operation.
func (b *SingleBuilder[T]) WithTimeout(d time.Duration) *SingleBuilder[T] {
	if d < 0 {
		b.fail("WithTimeout", "timeout must be >= 0, got %s", d)
		return b
	}
	b.cfg.Timeout = d
	return b
}

// Build finalizes the configuration; single-use like RangeBuilder.Build.
func (b *SingleBuilder[T]) Build() (*SingleConfig, error) {
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
