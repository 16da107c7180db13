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

// Package memstore provides an in-memory store adapter. Predicates are
// match closures (func(*T) bool), ordering keys are field extractors
// (func(*T) any), and transactions are snapshot clones committed by swap.
// It backs tests and small tools that need repository semantics without a
// database.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/tomoncle/osprey/query"
	"github.com/tomoncle/osprey/types"
)

// table is the shared mutable state: records keyed by identity plus the
// insertion sequence for deterministic iteration.
type table[T any] struct {
	mu      sync.RWMutex
	records map[string]*T
	seq     []string
}

func newTable[T any]() *table[T] {
	return &table[T]{records: make(map[string]*T)}
}

// Store is an in-memory store adapter for one record type. The zero value
// is not usable; construct with New.
type Store[T any] struct {
	tbl *table[T]
	// tx is non-nil when this store view is scoped to an open snapshot
	// transaction.
	tx *Tx[T]
}

// New returns an in-memory store adapter. *T must satisfy types.Record.
func New[T any]() (*Store[T], error) {
	var probe T
	if _, ok := any(&probe).(types.Record); !ok {
		return nil, fmt.Errorf("memstore: *%T does not implement types.Record", probe)
	}
	return &Store[T]{tbl: newTable[T]()}, nil
}

func recordKey(id any) string { return fmt.Sprint(id) }

func audit[T any](rec *T) *types.Audit {
	return any(rec).(types.Record).AuditFields()
}

func identity[T any](rec *T) any {
	return any(rec).(types.Record).RecordID()
}

func clone[T any](rec *T) *T {
	c := *rec
	return &c
}

// matchAll translates the conjunctive predicate list. Only match closures
// are understood; any other representation is a translation failure.
func matchAll[T any](predicates []query.Predicate, rec *T) (bool, error) {
	for _, p := range predicates {
		fn, ok := p.(func(*T) bool)
		if !ok {
			return false, fmt.Errorf("memstore: untranslatable predicate %T, want func(*%T) bool", p, rec)
		}
		if !fn(rec) {
			return false, nil
		}
	}
	return true, nil
}

// compareValues orders two extracted field values of the same basic kind.
func compareValues(a, b any) int {
	switch av := a.(type) {
	case string:
		bv, _ := b.(string)
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		}
		return 0
	case int:
		bv, _ := b.(int)
		return av - bv
	case int64:
		bv, _ := b.(int64)
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		}
		return 0
	case float64:
		bv, _ := b.(float64)
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		}
		return 0
	case bool:
		bv, _ := b.(bool)
		switch {
		case !av && bv:
			return -1
		case av && !bv:
			return 1
		}
		return 0
	case time.Time:
		bv, _ := b.(time.Time)
		switch {
		case av.Before(bv):
			return -1
		case av.After(bv):
			return 1
		}
		return 0
	default:
		as, bs := fmt.Sprint(a), fmt.Sprint(b)
		switch {
		case as < bs:
			return -1
		case as > bs:
			return 1
		}
		return 0
	}
}

// sortRecords applies the ordering list: first key primary, the rest
// breaking ties in declaration order.
func sortRecords[T any](records []*T, orderings []query.Ordering) error {
	if len(orderings) == 0 {
		return nil
	}
	extractors := make([]func(*T) any, len(orderings))
	for i, o := range orderings {
		fn, ok := o.Key.(func(*T) any)
		if !ok {
			return fmt.Errorf("memstore: untranslatable ordering key %T, want func(*T) any", o.Key)
		}
		extractors[i] = fn
	}
	sort.SliceStable(records, func(i, j int) bool {
		for k, o := range orderings {
			c := compareValues(extractors[k](records[i]), extractors[k](records[j]))
			if c == 0 {
				continue
			}
			if o.Direction == types.SortDesc {
				return c > 0
			}
			return c < 0
		}
		return false
	})
	return nil
}

// snapshot returns the live records in insertion order, filtered by the
// predicates and the logical-delete default filter.
func (s *Store[T]) snapshot(predicates []query.Predicate, includeDeleted bool) ([]*T, error) {
	s.tbl.mu.RLock()
	defer s.tbl.mu.RUnlock()
	return s.collectLocked(predicates, includeDeleted)
}

// collectLocked is snapshot without the locking; callers hold tbl.mu.
func (s *Store[T]) collectLocked(predicates []query.Predicate, includeDeleted bool) ([]*T, error) {
	out := make([]*T, 0, len(s.tbl.seq))
	for _, k := range s.tbl.seq {
		rec, ok := s.tbl.records[k]
		if !ok {
			continue
		}
		if !includeDeleted && audit(rec).IsDeleted {
			continue
		}
		ok, err := matchAll(predicates, rec)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, clone(rec))
		}
	}
	return out, nil
}

// Count implements store.Adapter.
func (s *Store[T]) Count(ctx context.Context, predicates []query.Predicate, includeDeleted bool) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	matched, err := s.snapshot(predicates, includeDeleted)
	if err != nil {
		return 0, err
	}
	return len(matched), nil
}

// FindByID implements store.Adapter; (nil, nil) when absent or deleted.
func (s *Store[T]) FindByID(ctx context.Context, id any) (*T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.tbl.mu.RLock()
	defer s.tbl.mu.RUnlock()
	rec, ok := s.tbl.records[recordKey(id)]
	if !ok || audit(rec).IsDeleted {
		return nil, nil
	}
	return clone(rec), nil
}

// FindOne implements store.Adapter; (nil, nil) when nothing matches.
func (s *Store[T]) FindOne(ctx context.Context, cfg *query.SingleConfig) (*T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	matched, err := s.snapshot(cfg.Predicates, cfg.IgnoreDefaultFilters)
	if err != nil {
		return nil, err
	}
	if err := sortRecords(matched, cfg.Orderings); err != nil {
		return nil, err
	}
	if len(matched) == 0 {
		return nil, nil
	}
	rec := matched[0]
	if !cfg.TakeFirst {
		rec = matched[len(matched)-1]
	}
	return project(rec, cfg.Projection)
}

// FindMany implements store.Adapter.
func (s *Store[T]) FindMany(ctx context.Context, cfg *query.RangeConfig) ([]*T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	matched, err := s.snapshot(cfg.Predicates, cfg.IgnoreDefaultFilters)
	if err != nil {
		return nil, err
	}
	if err := sortRecords(matched, cfg.Orderings); err != nil {
		return nil, err
	}
	if !cfg.Uncapped {
		if cfg.Skip >= len(matched) {
			matched = nil
		} else {
			matched = matched[cfg.Skip:]
		}
		if cfg.Take < len(matched) {
			matched = matched[:cfg.Take]
		}
	}
	out := make([]*T, 0, len(matched))
	for _, rec := range matched {
		p, err := project(rec, cfg.Projection)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func project[T any](rec *T, p query.Projection) (*T, error) {
	if p == nil {
		return rec, nil
	}
	fn, ok := p.(func(*T) *T)
	if !ok {
		return nil, fmt.Errorf("memstore: untranslatable projection %T, want func(*T) *T", p)
	}
	return fn(rec), nil
}

// Insert implements store.Adapter. Duplicate identities are rejected.
func (s *Store[T]) Insert(ctx context.Context, records []*T) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.tbl.mu.Lock()
	defer s.tbl.mu.Unlock()
	for _, rec := range records {
		k := recordKey(identity(rec))
		if _, exists := s.tbl.records[k]; exists {
			return 0, fmt.Errorf("memstore: duplicate identity %q", k)
		}
	}
	for _, rec := range records {
		k := recordKey(identity(rec))
		s.tbl.records[k] = clone(rec)
		s.tbl.seq = append(s.tbl.seq, k)
	}
	return len(records), nil
}

// DeleteByStrategy implements store.Adapter. Non-direct deletes mark
// records deleted in place; direct deletes remove them physically. Target
// resolution and mutation happen under one write-lock acquisition so a
// concurrent writer cannot change the matches in between.
func (s *Store[T]) DeleteByStrategy(ctx context.Context, strategy types.RemoveStrategy, payload any, actor string, direct bool) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.tbl.mu.Lock()
	defer s.tbl.mu.Unlock()

	keys, err := s.resolveKeysLocked(strategy, payload, direct)
	if err != nil {
		return 0, err
	}
	affected := 0
	for _, k := range keys {
		rec, ok := s.tbl.records[k]
		if !ok {
			continue
		}
		if direct {
			delete(s.tbl.records, k)
			affected++
			continue
		}
		if audit(rec).IsDeleted {
			continue
		}
		audit(rec).MarkDeleted(actor)
		affected++
	}
	if direct && affected > 0 {
		live := s.tbl.seq[:0]
		for _, k := range s.tbl.seq {
			if _, ok := s.tbl.records[k]; ok {
				live = append(live, k)
			}
		}
		s.tbl.seq = live
	}
	return affected, nil
}

func (s *Store[T]) resolveKeysLocked(strategy types.RemoveStrategy, payload any, direct bool) ([]string, error) {
	switch strategy {
	case types.RemoveByIdentifier:
		return []string{recordKey(payload)}, nil
	case types.RemoveByInstance:
		records, ok := payload.([]*T)
		if !ok {
			return nil, fmt.Errorf("memstore: by-instance payload must be []*T, got %T", payload)
		}
		keys := make([]string, 0, len(records))
		for _, rec := range records {
			keys = append(keys, recordKey(identity(rec)))
		}
		return keys, nil
	case types.RemoveByPredicate:
		predicates, ok := payload.([]query.Predicate)
		if !ok {
			return nil, fmt.Errorf("memstore: by-predicate payload must be []query.Predicate, got %T", payload)
		}
		// Direct deletes target every match, deleted or not; soft deletes
		// only the still-live ones.
		matched, err := s.collectLocked(predicates, direct)
		if err != nil {
			return nil, err
		}
		keys := make([]string, 0, len(matched))
		for _, rec := range matched {
			keys = append(keys, recordKey(identity(rec)))
		}
		return keys, nil
	default:
		return nil, fmt.Errorf("memstore: unsupported remove strategy %q", strategy)
	}
}

// UpdateTracked implements store.Adapter: stored records are replaced by
// the given instances, keyed by identity. Missing identities are skipped.
func (s *Store[T]) UpdateTracked(ctx context.Context, records []*T) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.tbl.mu.Lock()
	defer s.tbl.mu.Unlock()
	affected := 0
	for _, rec := range records {
		k := recordKey(identity(rec))
		if _, ok := s.tbl.records[k]; !ok {
			continue
		}
		s.tbl.records[k] = clone(rec)
		affected++
	}
	return affected, nil
}

// RestoreTracked implements store.Adapter: like UpdateTracked, detached
// instances re-attach by identity; identities no longer present (for
// example after a direct delete) are skipped.
func (s *Store[T]) RestoreTracked(ctx context.Context, records []*T) (int, error) {
	return s.UpdateTracked(ctx, records)
}
