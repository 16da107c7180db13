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

package command

import (
	"time"

	"github.com/tomoncle/osprey/query"
	"github.com/tomoncle/osprey/types"
)

// RemoveBuilder accumulates the configuration of a remove command. The
// target-selection strategy is a small state machine over the payload
// setters: whichever of WithEntity, WithIdentifier, or WithFilter was
// called last determines the active strategy. WithRemoveStrategy forces
// the state without touching payloads; the repository validates payload
// presence for the active strategy at execution time and fails loudly
// when it is absent.
type RemoveBuilder[T any] struct {
	strategy   types.RemoveStrategy
	entities   []*T
	identifier any
	predicates []query.Predicate

	actor           string
	saveImmediately bool
	executeDirectly bool
	timeout         time.Duration
	err             error
}

// NewRemove returns a remove command builder with no strategy configured.
func NewRemove[T any]() *RemoveBuilder[T] {
	return &RemoveBuilder[T]{strategy: types.RemoveStrategyUnset, saveImmediately: true}
}

func (b *RemoveBuilder[T]) fail(op, format string, args ...any) {
	if b.err == nil {
		b.err = types.NewConfigError(op, format, args...)
	}
}

// Err returns the first configuration error recorded by a setter, or nil.
func (b *RemoveBuilder[T]) Err() error { return b.err }

// WithEntity targets the supplied record instance(s); the active strategy
// becomes ByInstance.
func (b *RemoveBuilder[T]) WithEntity(entities ...*T) *RemoveBuilder[T] {
	for _, e := range entities {
		if e == nil {
			b.fail("WithEntity", "entity must not be nil")
			return b
		}
	}
	b.entities = append(b.entities, entities...)
	b.strategy = types.RemoveByInstance
	return b
}

// WithIdentifier targets the record with the given identifier; the active
// strategy becomes ByIdentifier.
func (b *RemoveBuilder[T]) WithIdentifier(id any) *RemoveBuilder[T] {
	if id == nil {
		b.fail("WithIdentifier", "identifier must not be nil")
		return b
	}
	b.identifier = id
	b.strategy = types.RemoveByIdentifier
	return b
}

// WithFilter targets every record matching the predicate; the active
// strategy becomes ByPredicate. Predicates accumulate conjunctively.
func (b *RemoveBuilder[T]) WithFilter(p query.Predicate) *RemoveBuilder[T] {
	if p == nil {
		b.fail("WithFilter", "predicate must not be nil")
		return b
	}
	b.predicates = append(b.predicates, p)
	b.strategy = types.RemoveByPredicate
	return b
}

// WithRemoveStrategy forces the active strategy without touching payloads.
// Advanced override: no reconciliation happens between the forced state
// and previously supplied payloads.
func (b *RemoveBuilder[T]) WithRemoveStrategy(s types.RemoveStrategy) *RemoveBuilder[T] {
	if !s.IsValid() {
		b.fail("WithRemoveStrategy", "invalid remove strategy %d", int(s))
		return b
	}
	b.strategy = s
	return b
}

// WithExecuteDirectly bypasses in-memory tracking and soft-delete, issuing
// a physical delete at the store. Irreversible; ignores the
// save-immediately setting.
func (b *RemoveBuilder[T]) WithExecuteDirectly() *RemoveBuilder[T] {
	b.executeDirectly = true
	return b
}

// WithActor sets the acting user stamped into the audit metadata on
// soft deletes.
func (b *RemoveBuilder[T]) WithActor(actor string) *RemoveBuilder[T] {
	b.actor = actor
	return b
}

// WithDeferredSave stages the command on the caller's unit of work.
func (b *RemoveBuilder[T]) WithDeferredSave() *RemoveBuilder[T] {
	b.saveImmediately = false
	return b
}

// WithSaveImmediately restores the default persist-now behavior.
func (b *RemoveBuilder[T]) WithSaveImmediately() *RemoveBuilder[T] {
	b.saveImmediately = true
	return b
}

// WithTimeout overrides the verb-default timeout for this operation.
func (b *RemoveBuilder[T]) WithTimeout(d time.Duration) *RemoveBuilder[T] {
	if d < 0 {
		b.fail("WithTimeout", "timeout must be >= 0, got %s", d)
		return b
	}
	b.timeout = d
	return b
}

// Strategy returns the active target-selection strategy.
func (b *RemoveBuilder[T]) Strategy() types.RemoveStrategy { return b.strategy }

// Entities returns the ByInstance payload.
func (b *RemoveBuilder[T]) Entities() []*T { return b.entities }

// Identifier returns the ByIdentifier payload.
func (b *RemoveBuilder[T]) Identifier() any { return b.identifier }

// Predicates returns the ByPredicate payload.
func (b *RemoveBuilder[T]) Predicates() []query.Predicate { return b.predicates }

// Actor returns the acting user.
func (b *RemoveBuilder[T]) Actor() string { return b.actor }

// SaveImmediately reports whether the command persists now.
func (b *RemoveBuilder[T]) SaveImmediately() bool { return b.saveImmediately }

// ExecuteDirectly reports whether the command bypasses soft-delete.
func (b *RemoveBuilder[T]) ExecuteDirectly() bool { return b.executeDirectly }

// Timeout returns the timeout override (zero means verb default).
func (b *RemoveBuilder[T]) Timeout() time.Duration { return b.timeout }
