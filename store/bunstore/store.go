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

// Package bunstore provides the relational store adapter built on Bun.
// Predicates are *query.Expr (WHERE fragment plus args), ordering keys are
// column names, and projections are column sets. Records follow the module
// convention of an `id` primary key column plus the audit columns of
// types.Audit.
package bunstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/uptrace/bun"

	"github.com/tomoncle/osprey/database"
	"github.com/tomoncle/osprey/query"
	"github.com/tomoncle/osprey/types"
)

// Store is the Bun-backed store adapter for one record type.
type Store[T any] struct {
	db bun.IDB

	initOnce sync.Once
	initErr  error
}

// New returns a Bun store adapter over the given database or transaction.
func New[T any](db bun.IDB) *Store[T] {
	return &Store[T]{db: db}
}

// init resolves the record capability exactly once under concurrent first
// access.
func (s *Store[T]) init() error {
	s.initOnce.Do(func() {
		var probe T
		if _, ok := any(&probe).(types.Record); !ok {
			s.initErr = fmt.Errorf("bunstore: *%T does not implement types.Record", probe)
		}
	})
	return s.initErr
}

// classify annotates SQL-level failures with the database error kind while
// keeping the original error in the chain.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if is, kind := database.IsSqlError(err); is {
		return fmt.Errorf("%s: %w", kind, err)
	}
	return err
}

func applyPredicates[Q interface {
	Where(string, ...any) Q
}](q Q, predicates []query.Predicate) (Q, error) {
	for _, p := range predicates {
		expr, ok := p.(*query.Expr)
		if !ok {
			var zero Q
			return zero, fmt.Errorf("bunstore: untranslatable predicate %T, want *query.Expr", p)
		}
		q = q.Where(expr.Schema, expr.Args...)
	}
	return q, nil
}

func (s *Store[T]) selectQuery(model any, predicates []query.Predicate, includeDeleted bool) (*bun.SelectQuery, error) {
	q := s.db.NewSelect().Model(model)
	for _, p := range predicates {
		expr, ok := p.(*query.Expr)
		if !ok {
			return nil, fmt.Errorf("bunstore: untranslatable predicate %T, want *query.Expr", p)
		}
		q = q.Where(expr.Schema, expr.Args...)
	}
	if !includeDeleted {
		q = q.Where("is_deleted = ?", false)
	}
	return q, nil
}

func orderClause(o query.Ordering, flip bool) (string, error) {
	col, ok := o.Key.(string)
	if !ok {
		return "", fmt.Errorf("bunstore: untranslatable ordering key %T, want column name string", o.Key)
	}
	dir := o.Direction
	if flip {
		if dir == types.SortAsc {
			dir = types.SortDesc
		} else {
			dir = types.SortAsc
		}
	}
	return fmt.Sprintf("%s %s", col, dir.SQL()), nil
}

func applyOrderings(q *bun.SelectQuery, orderings []query.Ordering, flip bool) (*bun.SelectQuery, error) {
	for _, o := range orderings {
		clause, err := orderClause(o, flip)
		if err != nil {
			return nil, err
		}
		q = q.Order(clause)
	}
	return q, nil
}

func applyProjection(q *bun.SelectQuery, p query.Projection) (*bun.SelectQuery, error) {
	if p == nil {
		return q, nil
	}
	cols, ok := p.(query.ColumnSet)
	if !ok {
		return nil, fmt.Errorf("bunstore: untranslatable projection %T, want query.ColumnSet", p)
	}
	return q.Column(cols...), nil
}

// Count implements store.Adapter.
func (s *Store[T]) Count(ctx context.Context, predicates []query.Predicate, includeDeleted bool) (int, error) {
	if err := s.init(); err != nil {
		return 0, err
	}
	q, err := s.selectQuery((*T)(nil), predicates, includeDeleted)
	if err != nil {
		return 0, err
	}
	n, err := q.Count(ctx)
	return n, classify(err)
}

// FindByID implements store.Adapter; (nil, nil) when absent or deleted.
func (s *Store[T]) FindByID(ctx context.Context, id any) (*T, error) {
	if err := s.init(); err != nil {
		return nil, err
	}
	var entity T
	err := s.db.NewSelect().Model(&entity).
		Where("id = ?", id).
		Where("is_deleted = ?", false).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, classify(err)
	}
	return &entity, nil
}

// FindOne implements store.Adapter. Taking the last match under the given
// ordering is executed as the first match under the flipped ordering.
func (s *Store[T]) FindOne(ctx context.Context, cfg *query.SingleConfig) (*T, error) {
	if err := s.init(); err != nil {
		return nil, err
	}
	var entity T
	q, err := s.selectQuery(&entity, cfg.Predicates, cfg.IgnoreDefaultFilters)
	if err != nil {
		return nil, err
	}
	if q, err = applyOrderings(q, cfg.Orderings, !cfg.TakeFirst); err != nil {
		return nil, err
	}
	if q, err = applyProjection(q, cfg.Projection); err != nil {
		return nil, err
	}
	err = q.Limit(1).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, classify(err)
	}
	return &entity, nil
}

// FindMany implements store.Adapter.
func (s *Store[T]) FindMany(ctx context.Context, cfg *query.RangeConfig) ([]*T, error) {
	if err := s.init(); err != nil {
		return nil, err
	}
	var entities []*T
	q, err := s.selectQuery(&entities, cfg.Predicates, cfg.IgnoreDefaultFilters)
	if err != nil {
		return nil, err
	}
	if q, err = applyOrderings(q, cfg.Orderings, false); err != nil {
		return nil, err
	}
	if q, err = applyProjection(q, cfg.Projection); err != nil {
		return nil, err
	}
	if !cfg.Uncapped {
		q = q.Offset(cfg.Skip).Limit(cfg.Take)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, classify(err)
	}
	return entities, nil
}

// Insert implements store.Adapter.
func (s *Store[T]) Insert(ctx context.Context, records []*T) (int, error) {
	if err := s.init(); err != nil {
		return 0, err
	}
	if len(records) == 0 {
		return 0, nil
	}
	res, err := s.db.NewInsert().Model(&records).Exec(ctx)
	if err != nil {
		return 0, classify(err)
	}
	return rowsAffected(res, len(records)), nil
}

// DeleteByStrategy implements store.Adapter. Direct deletes issue a
// physical DELETE; non-direct deletes flip the logical-delete marker and
// stamp the audit columns via UPDATE.
func (s *Store[T]) DeleteByStrategy(ctx context.Context, strategy types.RemoveStrategy, payload any, actor string, direct bool) (int, error) {
	if err := s.init(); err != nil {
		return 0, err
	}
	if direct {
		return s.deleteDirect(ctx, strategy, payload)
	}
	return s.deleteSoft(ctx, strategy, payload, actor)
}

func (s *Store[T]) deleteDirect(ctx context.Context, strategy types.RemoveStrategy, payload any) (int, error) {
	switch strategy {
	case types.RemoveByIdentifier:
		var entity T
		res, err := s.db.NewDelete().Model(&entity).Where("id = ?", payload).Exec(ctx)
		if err != nil {
			return 0, classify(err)
		}
		return rowsAffected(res, 1), nil
	case types.RemoveByInstance:
		records, ok := payload.([]*T)
		if !ok {
			return 0, fmt.Errorf("bunstore: by-instance payload must be []*T, got %T", payload)
		}
		if len(records) == 0 {
			return 0, nil
		}
		res, err := s.db.NewDelete().Model(&records).WherePK().Exec(ctx)
		if err != nil {
			return 0, classify(err)
		}
		return rowsAffected(res, len(records)), nil
	case types.RemoveByPredicate:
		predicates, ok := payload.([]query.Predicate)
		if !ok {
			return 0, fmt.Errorf("bunstore: by-predicate payload must be []query.Predicate, got %T", payload)
		}
		var entity T
		q := s.db.NewDelete().Model(&entity)
		q, err := applyPredicates(q, predicates)
		if err != nil {
			return 0, err
		}
		res, err := q.Exec(ctx)
		if err != nil {
			return 0, classify(err)
		}
		return rowsAffected(res, 0), nil
	default:
		return 0, fmt.Errorf("bunstore: unsupported remove strategy %q", strategy)
	}
}

func (s *Store[T]) deleteSoft(ctx context.Context, strategy types.RemoveStrategy, payload any, actor string) (int, error) {
	var entity T
	q := s.db.NewUpdate().Model(&entity).
		Set("is_deleted = ?", true).
		Set("updated_at = ?", time.Now()).
		Where("is_deleted = ?", false)
	if actor != "" {
		q = q.Set("updated_by = ?", actor)
	}

	switch strategy {
	case types.RemoveByIdentifier:
		q = q.Where("id = ?", payload)
	case types.RemoveByInstance:
		records, ok := payload.([]*T)
		if !ok {
			return 0, fmt.Errorf("bunstore: by-instance payload must be []*T, got %T", payload)
		}
		if len(records) == 0 {
			return 0, nil
		}
		ids := make([]any, 0, len(records))
		for _, rec := range records {
			ids = append(ids, any(rec).(types.Record).RecordID())
		}
		q = q.Where("id IN (?)", bun.In(ids))
	case types.RemoveByPredicate:
		predicates, ok := payload.([]query.Predicate)
		if !ok {
			return 0, fmt.Errorf("bunstore: by-predicate payload must be []query.Predicate, got %T", payload)
		}
		var err error
		if q, err = applyPredicates(q, predicates); err != nil {
			return 0, err
		}
	default:
		return 0, fmt.Errorf("bunstore: unsupported remove strategy %q", strategy)
	}

	res, err := q.Exec(ctx)
	if err != nil {
		return 0, classify(err)
	}
	return rowsAffected(res, 0), nil
}

// UpdateTracked implements store.Adapter: each record is written back by
// primary key, the teacher-style per-entity UPDATE.
func (s *Store[T]) UpdateTracked(ctx context.Context, records []*T) (int, error) {
	if err := s.init(); err != nil {
		return 0, err
	}
	affected := 0
	for _, rec := range records {
		res, err := s.db.NewUpdate().Model(rec).WherePK().Exec(ctx)
		if err != nil {
			return affected, classify(err)
		}
		affected += rowsAffected(res, 1)
	}
	return affected, nil
}

// RestoreTracked implements store.Adapter. The engine has already cleared
// the logical-delete marker on the instances; writing them back by primary
// key re-attaches detached records.
func (s *Store[T]) RestoreTracked(ctx context.Context, records []*T) (int, error) {
	return s.UpdateTracked(ctx, records)
}

func rowsAffected(res sql.Result, fallback int) int {
	n, err := res.RowsAffected()
	if err != nil {
		return fallback
	}
	return int(n)
}
