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

package store

import (
	"context"
	"database/sql"

	"github.com/tomoncle/osprey/query"
	"github.com/tomoncle/osprey/types"
)

// TxHandle is an open transaction on a backend. The handle does not roll
// back implicitly on abandon; callers rollback explicitly on every failure
// path.
type TxHandle interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TxFactory opens transactions. Every adapter is also a transaction
// factory for its backend; backends without native transactions provide a
// best-effort equivalent.
type TxFactory interface {
	BeginTransaction(ctx context.Context, level sql.IsolationLevel) (TxHandle, error)
}

// Adapter executes finalized builder configurations against a concrete
// backend for one record type. Lookup methods return (nil, nil) when no
// record matches: "not found" is a normal empty result, not an error.
// Adapters exclude logically deleted records by default unless the
// configuration ignores default filters, and each adapter owns the
// translation of the opaque predicate/ordering/projection values it
// understands.
type Adapter[T any] interface {
	TxFactory

	// Count returns the number of records matching every predicate.
	Count(ctx context.Context, predicates []query.Predicate, includeDeleted bool) (int, error)

	// FindByID returns the record with the given identity, or nil.
	FindByID(ctx context.Context, id any) (*T, error)

	// FindOne executes a finalized single-result configuration.
	FindOne(ctx context.Context, cfg *query.SingleConfig) (*T, error)

	// FindMany executes a finalized range configuration.
	FindMany(ctx context.Context, cfg *query.RangeConfig) ([]*T, error)

	// Insert persists new records and returns the affected count.
	Insert(ctx context.Context, records []*T) (int, error)

	// DeleteByStrategy removes records located by the given strategy and
	// payload. direct issues a physical delete; otherwise records are
	// marked deleted in place with the acting user stamped on the audit
	// metadata.
	DeleteByStrategy(ctx context.Context, strategy types.RemoveStrategy, payload any, actor string, direct bool) (int, error)

	// UpdateTracked persists mutations made to fetched records.
	UpdateTracked(ctx context.Context, records []*T) (int, error)

	// RestoreTracked persists cleared logical-delete markers, re-attaching
	// detached records as needed.
	RestoreTracked(ctx context.Context, records []*T) (int, error)
}

// TxScoped is implemented by adapters that can rebind themselves to an
// open transaction, so staged unit-of-work operations run inside it.
type TxScoped[T any] interface {
	WithTxHandle(h TxHandle) (Adapter[T], error)
}
