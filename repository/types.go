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

	"github.com/tomoncle/osprey/command"
	"github.com/tomoncle/osprey/query"
	"github.com/tomoncle/osprey/store"
	"github.com/tomoncle/osprey/types"
	"github.com/tomoncle/osprey/uow"
)

// ReadRepository defines the query operations for a generic record type.
// "Not found" is a normal empty result: single-target lookups return
// (nil, nil) and range operations return empty slices.
type ReadRepository[T any] interface {
	// Check reports whether any record matches the single-query builder.
	Check(ctx context.Context, b *query.SingleBuilder[T]) (bool, error)

	// Count returns the number of records matching the range builder's
	// predicates, independent of its pagination and ordering.
	Count(ctx context.Context, b *query.RangeBuilder[T]) (int, error)

	// Get returns the first (or last) record matching the builder.
	Get(ctx context.Context, b *query.SingleBuilder[T]) (*T, error)

	// GetByID returns the record with the given identity.
	GetByID(ctx context.Context, id any) (*T, error)

	// GetRange returns the records matching the range builder.
	GetRange(ctx context.Context, b *query.RangeBuilder[T]) ([]*T, error)

	// GetRangeEntire returns the paginated subset together with the total
	// match count computed from the filters alone.
	GetRangeEntire(ctx context.Context, b *query.RangeBuilder[T]) (*types.Chunk[T], error)
}

// WriteRepository defines the command operations for a generic record
// type. Every operation returns the affected record count.
type WriteRepository[T any] interface {
	// Add inserts the builder's records.
	Add(ctx context.Context, b *command.AddBuilder[T]) (int, error)

	// Remove logically deletes the single record located by the builder's
	// target-selection strategy, or physically deletes it when the builder
	// executes directly.
	Remove(ctx context.Context, b *command.RemoveBuilder[T]) (int, error)

	// RemoveRange deletes every record located by the builder's strategy.
	RemoveRange(ctx context.Context, b *command.RemoveBuilder[T]) (int, error)

	// Update persists mutations made to the builder's records.
	Update(ctx context.Context, b *command.UpdateBuilder[T]) (int, error)

	// Restore reverses a logical delete on the builder's records.
	Restore(ctx context.Context, b *command.RestoreBuilder[T]) (int, error)
}

// CallbackRepository mirrors the builder operations in an
// inline-configuration form: the caller configures a freshly constructed
// builder inside the callback.
type CallbackRepository[T any] interface {
	GetWith(ctx context.Context, configure func(*query.SingleBuilder[T])) (*T, error)
	GetRangeWith(ctx context.Context, configure func(*query.RangeBuilder[T])) ([]*T, error)
	GetRangeEntireWith(ctx context.Context, configure func(*query.RangeBuilder[T])) (*types.Chunk[T], error)
	AddWith(ctx context.Context, configure func(*command.AddBuilder[T])) (int, error)
	RemoveWith(ctx context.Context, configure func(*command.RemoveBuilder[T])) (int, error)
	UpdateWith(ctx context.Context, configure func(*command.UpdateBuilder[T])) (int, error)
	RestoreWith(ctx context.Context, configure func(*command.RestoreBuilder[T])) (int, error)
}

// Repository combines the read, write, and callback surfaces over one
// store adapter. Distinct operations may run concurrently against the
// same Repository; a single in-flight builder must not be shared.
type Repository[T any] interface {
	ReadRepository[T]
	WriteRepository[T]
	CallbackRepository[T]

	// Bind returns a repository view whose deferred commands stage onto
	// the given unit of work.
	Bind(u *uow.UnitOfWork) Repository[T]

	// Adapter exposes the underlying store adapter for advanced use.
	Adapter() store.Adapter[T]
}
