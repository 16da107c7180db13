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

// UpdateBuilder accumulates the configuration of an update command: the
// target instance(s), the acting user, the save mode, and an optional
// timeout override.
type UpdateBuilder[T any] struct {
	entities        []*T
	actor           string
	saveImmediately bool
	timeout         time.Duration
	err             error
}

// NewUpdate returns an update command builder.
func NewUpdate[T any]() *UpdateBuilder[T] {
	return &UpdateBuilder[T]{saveImmediately: true}
}

func (b *UpdateBuilder[T]) fail(op, format string, args ...any) {
	if b.err == nil {
		b.err = types.NewConfigError(op, format, args...)
	}
}

// Err returns the first configuration error recorded by a setter, or nil.
func (b *UpdateBuilder[T]) Err() error { return b.err }

// WithEntity appends the record(s) to update.
func (b *UpdateBuilder[T]) WithEntity(entities ...*T) *UpdateBuilder[T] {
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
func (b *UpdateBuilder[T]) WithActor(actor string) *UpdateBuilder[T] {
	b.actor = actor
	return b
}

// WithDeferredSave stages the command on the caller's unit of work.
func (b *UpdateBuilder[T]) WithDeferredSave() *UpdateBuilder[T] {
	b.saveImmediately = false
	return b
}

// WithSaveImmediately restores the default persist-now behavior.
func (b *UpdateBuilder[T]) WithSaveImmediately() *UpdateBuilder[T] {
	b.saveImmediately = true
	return b
}

// WithTimeout overrides the verb-default timeout for this operation.
func (b *UpdateBuilder[T]) WithTimeout(d time.Duration) *UpdateBuilder[T] {
	if d < 0 {
		b.fail("WithTimeout", "timeout must be >= 0, got %s", d)
		return b
	}
	b.timeout = d
	return b
}

// Entities returns the records to update.
func (b *UpdateBuilder[T]) Entities() []*T { return b.entities }

// Actor returns the acting user.
func (b *UpdateBuilder[T]) Actor() string { return b.actor }

// SaveImmediately reports whether the command persists now.
func (b *UpdateBuilder[T]) SaveImmediately() bool { return b.saveImmediately }

// Timeout returns the timeout override (zero means verb default).
func (b *UpdateBuilder[T]) Timeout() time.Duration { return b.timeout }
