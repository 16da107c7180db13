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

	"github.com/tomoncle/osprey/types"
)

// RestoreBuilder accumulates the configuration of a restore command,
// reversing a prior logical delete on the target instance(s). Restored
// records that arrive detached are re-attached before the flag flip is
// persisted; tracked and detached paths converge on the same state.
type RestoreBuilder[T any] struct {
	entities        []*T
	actor           string
	saveImmediately bool
	timeout         time.Duration
	err             error
}

// NewRestore returns a restore command builder.
func NewRestore[T any]() *RestoreBuilder[T] {
	return &RestoreBuilder[T]{saveImmediately: true}
}

func (b *RestoreBuilder[T]) fail(op, format string, args ...any) {
	if b.err == nil {
		b.err = types.NewConfigError(op, format, args...)
	}
}

// Err returns the first configuration error recorded by a setter, or nil.
func (b *RestoreBuilder[T]) Err() error { return b.err }

// WithEntity appends the record(s) to restore.
func (b *RestoreBuilder[T]) WithEntity(entities ...*T) *RestoreBuilder[T] {
	for _, e := range entities {
		if e == nil {
			b.fail("WithEntity", "entity must not be nil")
			return b
		}
	}
	b.entities = append(b.entities, entities...)
	return b
}

// WithActor sets the acting user stamped into the audit metadata.
func (b *RestoreBuilder[T]) WithActor(actor string) *RestoreBuilder[T] {
	b.actor = actor
	return b
}

// WithDeferredSave stages the command on the caller's unit of work.
func (b *RestoreBuilder[T]) WithDeferredSave() *RestoreBuilder[T] {
	b.saveImmediately = false
	return b
}

// WithSaveImmediately restores the default persist-now behavior.
func (b *RestoreBuilder[T]) WithSaveImmediately() *RestoreBuilder[T] {
	b.saveImmediately = true
	return b
}

// WithTimeout overrides the verb-default timeout for this operation.
func (b *RestoreBuilder[T]) WithTimeout(d time.Duration) *RestoreBuilder[T] {
	if d < 0 {
		b.fail("WithTimeout", "timeout must be >= 0, got %s", d)
		return b
	}
	b.timeout = d
	return b
}

// Entities returns the records to restore.
func (b *RestoreBuilder[T]) Entities() []*T { return b.entities }

// Actor returns the acting user.
func (b *RestoreBuilder[T]) Actor() string { return b.actor }

// SaveImmediately reports whether the command persists now.
func (b *RestoreBuilder[T]) SaveImmediately() bool { return b.saveImmediately }

// Timeout returns the timeout override (zero means verb default).
func (b *RestoreBuilder[T]) Timeout() time.Duration { return b.timeout }
