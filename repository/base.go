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
	"errors"
	"time"

	"github.com/tomoncle/osprey/command"
	"github.com/tomoncle/osprey/query"
	"github.com/tomoncle/osprey/store"
	"github.com/tomoncle/osprey/types"
	"github.com/tomoncle/osprey/uow"
)

type baseRepositoryImpl[T any] struct {
	adapter store.Adapter[T]
	unit    *uow.UnitOfWork
}

// NewRepository returns a generic repository executing against the
// provided store adapter.
func NewRepository[T any](adapter store.Adapter[T]) Repository[T] {
	return &baseRepositoryImpl[T]{adapter: adapter}
}

func (r *baseRepositoryImpl[T]) Adapter() store.Adapter[T] { return r.adapter }

func (r *baseRepositoryImpl[T]) Bind(u *uow.UnitOfWork) Repository[T] {
	return &baseRepositoryImpl[T]{adapter: r.adapter, unit: u}
}

// adapterFor rebinds the adapter to an open transaction when it supports
// scoping; otherwise staged work runs against the plain adapter.
func (r *baseRepositoryImpl[T]) adapterFor(tx store.TxHandle) store.Adapter[T] {
	if tx == nil {
		return r.adapter
	}
	if scoped, ok := r.adapter.(store.TxScoped[T]); ok {
		if ad, err := scoped.WithTxHandle(tx); err == nil {
			return ad
		}
	}
	return r.adapter
}

// wrap translates adapter-level failures into the domain taxonomy.
// Configuration errors pass through unwrapped; cancellation of the
// bounded context becomes a TimeoutError regardless of which source
// fired; everything else becomes a StoreError with the cause kept.
func wrap(op string, ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	if types.IsConfigError(err) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) || ctx.Err() != nil {
		return &types.TimeoutError{Op: op, Cause: err}
	}
	return &types.StoreError{Op: op, Cause: err}
}

// asRecord exposes the audit/identity capability of an entity. Records
// that lack it are the caller's bug.
func asRecord[T any](op string, entity *T) (types.Record, error) {
	rec, ok := any(entity).(types.Record)
	if !ok {
		return nil, types.NewConfigError(op, "*%T does not implement types.Record", *entity)
	}
	return rec, nil
}

// Check reports whether any record matches the builder.
func (r *baseRepositoryImpl[T]) Check(ctx context.Context, b *query.SingleBuilder[T]) (bool, error) {
	cfg, err := b.Build()
	if err != nil {
		return false, err
	}
	ctx, cancel := boundedContext(ctx, effectiveTimeout(cfg.Timeout, DefaultSingleTimeout))
	defer cancel()

	rec, err := r.adapter.FindOne(ctx, cfg)
	if err != nil {
		return false, wrap("Check", ctx, err)
	}
	return rec != nil, nil
}

// Count returns the filter-only match count for the builder.
func (r *baseRepositoryImpl[T]) Count(ctx context.Context, b *query.RangeBuilder[T]) (int, error) {
	cfg, err := b.Build()
	if err != nil {
		return 0, err
	}
	ctx, cancel := boundedContext(ctx, effectiveTimeout(cfg.Timeout, DefaultRangeReadTimeout))
	defer cancel()

	n, err := r.adapter.Count(ctx, cfg.Predicates, cfg.IgnoreDefaultFilters)
	if err != nil {
		return 0, wrap("Count", ctx, err)
	}
	return n, nil
}

// Get returns the first (or last) matching record, nil when none match.
func (r *baseRepositoryImpl[T]) Get(ctx context.Context, b *query.SingleBuilder[T]) (*T, error) {
	cfg, err := b.Build()
	if err != nil {
		return nil, err
	}
	ctx, cancel := boundedContext(ctx, effectiveTimeout(cfg.Timeout, DefaultSingleTimeout))
	defer cancel()

	rec, err := r.adapter.FindOne(ctx, cfg)
	if err != nil {
		return nil, wrap("Get", ctx, err)
	}
	return rec, nil
}

// GetByID returns the record with the given identity, nil when absent.
func (r *baseRepositoryImpl[T]) GetByID(ctx context.Context, id any) (*T, error) {
	if id == nil {
		return nil, types.NewConfigError("GetByID", "identifier must not be nil")
	}
	ctx, cancel := boundedContext(ctx, DefaultSingleTimeout)
	defer cancel()

	rec, err := r.adapter.FindByID(ctx, id)
	if err != nil {
		return nil, wrap("GetByID", ctx, err)
	}
	return rec, nil
}

// GetRange returns the records matching the builder.
func (r *baseRepositoryImpl[T]) GetRange(ctx context.Context, b *query.RangeBuilder[T]) ([]*T, error) {
	cfg, err := b.Build()
	if err != nil {
		return nil, err
	}
	ctx, cancel := boundedContext(ctx, effectiveTimeout(cfg.Timeout, DefaultRangeReadTimeout))
	defer cancel()

	records, err := r.adapter.FindMany(ctx, cfg)
	if err != nil {
		return nil, wrap("GetRange", ctx, err)
	}
	return records, nil
}

// GetRangeEntire returns the paginated subset plus the total computed
// from the same predicate set without pagination, ordering, or
// projection.
func (r *baseRepositoryImpl[T]) GetRangeEntire(ctx context.Context, b *query.RangeBuilder[T]) (*types.Chunk[T], error) {
	cfg, err := b.Build()
	if err != nil {
		return nil, err
	}
	ctx, cancel := boundedContext(ctx, effectiveTimeout(cfg.Timeout, DefaultRangeReadTimeout))
	defer cancel()

	total, err := r.adapter.Count(ctx, cfg.Predicates, cfg.IgnoreDefaultFilters)
	if err != nil {
		return nil, wrap("GetRangeEntire", ctx, err)
	}
	chunk := types.NewChunk[T](cfg.Skip, cfg.Take)
	chunk.Total = total
	if total == 0 {
		return chunk, nil
	}
	records, err := r.adapter.FindMany(ctx, cfg)
	if err != nil {
		return nil, wrap("GetRangeEntire", ctx, err)
	}
	chunk.Items = records
	return chunk, nil
}

// Add inserts the builder's records, stamping creation metadata.
func (r *baseRepositoryImpl[T]) Add(ctx context.Context, b *command.AddBuilder[T]) (int, error) {
	if err := b.Err(); err != nil {
		return 0, err
	}
	entities := b.Entities()
	if len(entities) == 0 {
		return 0, nil
	}
	for _, e := range entities {
		rec, err := asRecord("Add", e)
		if err != nil {
			return 0, err
		}
		rec.AuditFields().MarkCreated(b.Actor())
	}

	execute := func(ctx context.Context, ad store.Adapter[T]) (int, error) {
		n, err := ad.Insert(ctx, entities)
		return n, wrap("Add", ctx, err)
	}
	if !b.SaveImmediately() {
		return 0, r.stage("Add", b.Timeout(), DefaultSingleTimeout, execute)
	}
	ctx, cancel := boundedContext(ctx, effectiveTimeout(b.Timeout(), DefaultSingleTimeout))
	defer cancel()
	return execute(ctx, r.adapter)
}

// resolveRemove validates the remove builder's strategy against its
// payloads and returns the payload for the active strategy.
func resolveRemove[T any](op string, b *command.RemoveBuilder[T]) (any, error) {
	switch b.Strategy() {
	case types.RemoveByInstance:
		if len(b.Entities()) == 0 {
			return nil, &types.StrategyError{Op: op, Strategy: b.Strategy(), Reason: "no entity payload supplied"}
		}
		return b.Entities(), nil
	case types.RemoveByIdentifier:
		if b.Identifier() == nil {
			return nil, &types.StrategyError{Op: op, Strategy: b.Strategy(), Reason: "no identifier payload supplied"}
		}
		return b.Identifier(), nil
	case types.RemoveByPredicate:
		if len(b.Predicates()) == 0 {
			return nil, &types.StrategyError{Op: op, Strategy: b.Strategy(), Reason: "no predicate payload supplied"}
		}
		return b.Predicates(), nil
	default:
		return nil, &types.StrategyError{Op: op, Strategy: b.Strategy(), Reason: "no target selection configured"}
	}
}

// Remove logically deletes the single record located by the builder's
// strategy. Direct execution bypasses tracking and soft-delete entirely,
// ignores the save mode, and is irreversible.
func (r *baseRepositoryImpl[T]) Remove(ctx context.Context, b *command.RemoveBuilder[T]) (int, error) {
	return r.remove(ctx, "Remove", b, false)
}

// RemoveRange deletes every record located by the builder's strategy.
func (r *baseRepositoryImpl[T]) RemoveRange(ctx context.Context, b *command.RemoveBuilder[T]) (int, error) {
	return r.remove(ctx, "RemoveRange", b, true)
}

func (r *baseRepositoryImpl[T]) remove(ctx context.Context, op string, b *command.RemoveBuilder[T], ranged bool) (int, error) {
	if err := b.Err(); err != nil {
		return 0, err
	}
	payload, err := resolveRemove(op, b)
	if err != nil {
		return 0, err
	}

	verbDefault := DefaultSingleTimeout
	if ranged || b.ExecuteDirectly() {
		verbDefault = DefaultRangeWriteTimeout
	}

	var execute func(ctx context.Context, ad store.Adapter[T]) (int, error)
	switch {
	case b.ExecuteDirectly():
		// One-way exit from the soft-delete state machine.
		execute = func(ctx context.Context, ad store.Adapter[T]) (int, error) {
			n, err := ad.DeleteByStrategy(ctx, b.Strategy(), payload, b.Actor(), true)
			return n, wrap(op, ctx, err)
		}
	case ranged:
		execute = func(ctx context.Context, ad store.Adapter[T]) (int, error) {
			n, err := ad.DeleteByStrategy(ctx, b.Strategy(), payload, b.Actor(), false)
			return n, wrap(op, ctx, err)
		}
	default:
		execute = func(ctx context.Context, ad store.Adapter[T]) (int, error) {
			return r.softRemoveOne(ctx, op, ad, b)
		}
	}

	if !b.ExecuteDirectly() && !b.SaveImmediately() {
		return 0, r.stage(op, b.Timeout(), verbDefault, execute)
	}
	ctx, cancel := boundedContext(ctx, effectiveTimeout(b.Timeout(), verbDefault))
	defer cancel()
	return execute(ctx, r.adapter)
}

// softRemoveOne resolves the single target record, flips its
// logical-delete marker, and writes it back. A missing target is a normal
// empty result.
func (r *baseRepositoryImpl[T]) softRemoveOne(ctx context.Context, op string, ad store.Adapter[T], b *command.RemoveBuilder[T]) (int, error) {
	var target *T
	switch b.Strategy() {
	case types.RemoveByInstance:
		target = b.Entities()[0]
	case types.RemoveByIdentifier:
		found, err := ad.FindByID(ctx, b.Identifier())
		if err != nil {
			return 0, wrap(op, ctx, err)
		}
		target = found
	case types.RemoveByPredicate:
		cfg := &query.SingleConfig{Predicates: b.Predicates(), TakeFirst: true}
		found, err := ad.FindOne(ctx, cfg)
		if err != nil {
			return 0, wrap(op, ctx, err)
		}
		target = found
	}
	if target == nil {
		return 0, nil
	}
	rec, err := asRecord(op, target)
	if err != nil {
		return 0, err
	}
	rec.AuditFields().MarkDeleted(b.Actor())
	n, err := ad.UpdateTracked(ctx, []*T{target})
	return n, wrap(op, ctx, err)
}

// Update persists mutations made to the builder's records.
func (r *baseRepositoryImpl[T]) Update(ctx context.Context, b *command.UpdateBuilder[T]) (int, error) {
	if err := b.Err(); err != nil {
		return 0, err
	}
	entities := b.Entities()
	if len(entities) == 0 {
		return 0, nil
	}
	for _, e := range entities {
		rec, err := asRecord("Update", e)
		if err != nil {
			return 0, err
		}
		rec.AuditFields().MarkUpdated(b.Actor())
	}

	execute := func(ctx context.Context, ad store.Adapter[T]) (int, error) {
		n, err := ad.UpdateTracked(ctx, entities)
		return n, wrap("Update", ctx, err)
	}
	if !b.SaveImmediately() {
		return 0, r.stage("Update", b.Timeout(), DefaultSingleTimeout, execute)
	}
	ctx, cancel := boundedContext(ctx, effectiveTimeout(b.Timeout(), DefaultSingleTimeout))
	defer cancel()
	return execute(ctx, r.adapter)
}

// Restore reverses a logical delete on the builder's records. Tracked and
// detached instances converge: the cleared marker is written back by
// identity, re-attaching as needed. Restoring an identity that no longer
// exists is a no-op.
func (r *baseRepositoryImpl[T]) Restore(ctx context.Context, b *command.RestoreBuilder[T]) (int, error) {
	if err := b.Err(); err != nil {
		return 0, err
	}
	entities := b.Entities()
	if len(entities) == 0 {
		return 0, nil
	}
	for _, e := range entities {
		rec, err := asRecord("Restore", e)
		if err != nil {
			return 0, err
		}
		rec.AuditFields().MarkRestored(b.Actor())
	}

	execute := func(ctx context.Context, ad store.Adapter[T]) (int, error) {
		n, err := ad.RestoreTracked(ctx, entities)
		return n, wrap("Restore", ctx, err)
	}
	if !b.SaveImmediately() {
		return 0, r.stage("Restore", b.Timeout(), DefaultSingleTimeout, execute)
	}
	ctx, cancel := boundedContext(ctx, effectiveTimeout(b.Timeout(), DefaultSingleTimeout))
	defer cancel()
	return execute(ctx, r.adapter)
}

// stage defers a command onto the bound unit of work. Deferring without a
// bound unit of work is the caller's bug.
func (r *baseRepositoryImpl[T]) stage(op string, override, verbDefault time.Duration, execute func(context.Context, store.Adapter[T]) (int, error)) error {
	if r.unit == nil {
		return types.NewConfigError(op, "deferred save requires a bound unit of work")
	}
	timeout := effectiveTimeout(override, verbDefault)
	r.unit.Stage(func(ctx context.Context, tx store.TxHandle) (int, error) {
		ctx, cancel := boundedContext(ctx, timeout)
		defer cancel()
		return execute(ctx, r.adapterFor(tx))
	})
	return nil
}

// Callback forms: the caller configures a freshly constructed builder.

func (r *baseRepositoryImpl[T]) GetWith(ctx context.Context, configure func(*query.SingleBuilder[T])) (*T, error) {
	b := query.NewSingle[T]()
	configure(b)
	return r.Get(ctx, b)
}

func (r *baseRepositoryImpl[T]) GetRangeWith(ctx context.Context, configure func(*query.RangeBuilder[T])) ([]*T, error) {
	b := query.NewRange[T]()
	configure(b)
	return r.GetRange(ctx, b)
}

func (r *baseRepositoryImpl[T]) GetRangeEntireWith(ctx context.Context, configure func(*query.RangeBuilder[T])) (*types.Chunk[T], error) {
	b := query.NewRange[T]()
	configure(b)
	return r.GetRangeEntire(ctx, b)
}

func (r *baseRepositoryImpl[T]) AddWith(ctx context.Context, configure func(*command.AddBuilder[T])) (int, error) {
	b := command.NewAdd[T]()
	configure(b)
	return r.Add(ctx, b)
}

func (r *baseRepositoryImpl[T]) RemoveWith(ctx context.Context, configure func(*command.RemoveBuilder[T])) (int, error) {
	b := command.NewRemove[T]()
	configure(b)
	return r.Remove(ctx, b)
}

func (r *baseRepositoryImpl[T]) UpdateWith(ctx context.Context, configure func(*command.UpdateBuilder[T])) (int, error) {
	b := command.NewUpdate[T]()
	configure(b)
	return r.Update(ctx, b)
}

func (r *baseRepositoryImpl[T]) RestoreWith(ctx context.Context, configure func(*command.RestoreBuilder[T])) (int, error) {
	b := command.NewRestore[T]()
	configure(b)
	return r.Restore(ctx, b)
}
