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

// AddBuilder accumulates the configuration of an insert command: the
// record(s) to insert, the acting user, whether to persist now or defer to
// the caller's unit of work, and an optional timeout override.
type AddBuilder[T any] struct {
	entities        []*T
	actor           string
	saveImmediately bool
	timeout         time.Duration
	err             error
}

// NewAdd returns an add command builder. Commands persist immediately by
// default; use WithDeferredSave to stage them on a unit of work instead.
func NewAdd[T any]() *AddBuilder[T] {
	return &AddBuilder[T]{saveImmediately: true}
}

func (b *AddBuilder[T]) fail(op, format string, args ...any) {
	if b.err == nil {
		b.err = types.NewConfigError(op, format, args...)
	}
}

// Err returns the first configuration error recorded by a setter, or nil.
func (b *AddBuilder[T]) Err() error { return b.err }

// WithEntity appends the record(s) to insert.
func (b *AddBuilder[T]) WithEntity(entities ...*T) *AddBuilder[T] {
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
func (b *AddBuilder[T]) WithActor(actor string) *AddBuilder[T] {
	b.actor = actor
	return b
}

// WithDeferredSave stages the command on the caller's unit of work instead
// of persisting immediately.
func (b *AddBuilder[T]) WithDeferredSave() *AddBuilder[T] {
	b.saveImmediately = false
	return b
}

// WithSaveImmediately restores the default persist-now behavior.
func (b *AddBuilder[T]) WithSaveImmediately() *AddBuilder[T] {
	b.saveImmediately = true
	return b
}

// WithTimeout overrides the verb-default timeout for this operation.
func (b *AddBuilder[T]) WithTimeout(d time.Duration) *AddBuilder[T] {
	if d < 0 {
		b.fail("WithTimeout", "timeout must be >= 0, got %s", d)
		return b
	}
	b.timeout = d
	return b
}

// Entities returns the records to insert.
func (b *AddBuilder[T]) Entities() []*T { return b.entities }

// Actor returns the acting user.
func (b *AddBuilder[T]) Actor() string { return b.actor }

// SaveImmediately reports whether the command persists now.
func (b *AddBuilder[T]) SaveImmediately() bool { return b.saveImmediately }

// Timeout returns the timeout override (zero means verb default).
func (b *AddBuilder[T]) Timeout() time.Duration { return b.timeout }
