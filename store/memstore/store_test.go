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

package memstore

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tomoncle/osprey/query"
	"github.com/tomoncle/osprey/types"
)

type note struct {
	ID    string
	Title string
	Rank  int
	types.Audit
}

func (n *note) RecordID() any { return n.ID }

func newNoteStore(t *testing.T) *Store[note] {
	t.Helper()
	s, err := New[note]()
	require.NoError(t, err)
	return s
}

func seedNotes(t *testing.T, s *Store[note], count int) {
	t.Helper()
	records := make([]*note, 0, count)
	for i := 0; i < count; i++ {
		records = append(records, &note{ID: fmt.Sprintf("n-%03d", i), Title: fmt.Sprintf("note %d", i), Rank: i})
	}
	n, err := s.Insert(context.Background(), records)
	require.NoError(t, err)
	require.Equal(t, count, n)
}

func TestNewRejectsNonRecord(t *testing.T) {
	type bare struct{ ID string }
	_, err := New[bare]()
	require.Error(t, err)
}

func TestInsertAndFindByID(t *testing.T) {
	s := newNoteStore(t)
	ctx := context.Background()

	n, err := s.Insert(ctx, []*note{{ID: "a", Title: "first"}})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := s.FindByID(ctx, "a")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "first", got.Title)

	missing, err := s.FindByID(ctx, "zzz")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestInsertRejectsDuplicateIdentity(t *testing.T) {
	s := newNoteStore(t)
	ctx := context.Background()

	_, err := s.Insert(ctx, []*note{{ID: "a"}})
	require.NoError(t, err)
	_, err = s.Insert(ctx, []*note{{ID: "a"}})
	require.Error(t, err)
}

func TestFindByIDReturnsCopies(t *testing.T) {
	s := newNoteStore(t)
	ctx := context.Background()
	_, err := s.Insert(ctx, []*note{{ID: "a", Title: "orig"}})
	require.NoError(t, err)

	got, err := s.FindByID(ctx, "a")
	require.NoError(t, err)
	got.Title = "mutated"

	again, err := s.FindByID(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "orig", again.Title)
}

func TestFindManyFilterSortPaginate(t *testing.T) {
	s := newNoteStore(t)
	seedNotes(t, s, 10)
	ctx := context.Background()

	cfg := &query.RangeConfig{
		Predicates: []query.Predicate{query.Match(func(n *note) bool { return n.Rank >= 4 })},
		Orderings:  []query.Ordering{{Key: query.Field(func(n *note) any { return n.Rank }), Direction: types.SortDesc}},
		Skip:       1,
		Take:       3,
	}
	got, err := s.FindMany(ctx, cfg)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, 8, got[0].Rank)
	assert.Equal(t, 7, got[1].Rank)
	assert.Equal(t, 6, got[2].Rank)
}

func TestFindManyTieBreaker(t *testing.T) {
	s := newNoteStore(t)
	ctx := context.Background()
	_, err := s.Insert(ctx, []*note{
		{ID: "a", Title: "beta", Rank: 1},
		{ID: "b", Title: "alpha", Rank: 1},
		{ID: "c", Title: "gamma", Rank: 2},
	})
	require.NoError(t, err)

	cfg := &query.RangeConfig{
		Orderings: []query.Ordering{
			{Key: query.Field(func(n *note) any { return n.Rank }), Direction: types.SortDesc},
			{Key: query.Field(func(n *note) any { return n.Title }), Direction: types.SortAsc},
		},
		Take: 10,
	}
	got, err := s.FindMany(ctx, cfg)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "c", got[0].ID)
	assert.Equal(t, "b", got[1].ID)
	assert.Equal(t, "a", got[2].ID)
}

func TestFindManyUntranslatablePredicate(t *testing.T) {
	s := newNoteStore(t)
	seedNotes(t, s, 2)

	cfg := &query.RangeConfig{
		Predicates: []query.Predicate{query.Where("rank > ?", 0)},
		Take:       10,
	}
	_, err := s.FindMany(context.Background(), cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "untranslatable predicate")
}

func TestFindOneFirstAndLast(t *testing.T) {
	s := newNoteStore(t)
	seedNotes(t, s, 5)
	ctx := context.Background()

	ordering := []query.Ordering{{Key: query.Field(func(n *note) any { return n.Rank }), Direction: types.SortAsc}}

	first, err := s.FindOne(ctx, &query.SingleConfig{Orderings: ordering, TakeFirst: true})
	require.NoError(t, err)
	require.NotNil(t, first)
	assert.Equal(t, 0, first.Rank)

	last, err := s.FindOne(ctx, &query.SingleConfig{Orderings: ordering, TakeFirst: false})
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.Equal(t, 4, last.Rank)

	none, err := s.FindOne(ctx, &query.SingleConfig{
		Predicates: []query.Predicate{query.Match(func(n *note) bool { return false })},
		TakeFirst:  true,
	})
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestSoftDeleteVisibility(t *testing.T) {
	s := newNoteStore(t)
	seedNotes(t, s, 3)
	ctx := context.Background()

	n, err := s.DeleteByStrategy(ctx, types.RemoveByIdentifier, "n-001", "librarian", false)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	// default filter hides the deleted record
	got, err := s.FindByID(ctx, "n-001")
	require.NoError(t, err)
	assert.Nil(t, got)

	count, err := s.Count(ctx, nil, false)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	// include-deleted view still sees it, with the acting user stamped
	count, err = s.Count(ctx, nil, true)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	deleted, err := s.FindOne(ctx, &query.SingleConfig{
		Predicates:           []query.Predicate{query.Match(func(n *note) bool { return n.ID == "n-001" })},
		TakeFirst:            true,
		IgnoreDefaultFilters: true,
	})
	require.NoError(t, err)
	require.NotNil(t, deleted)
	require.NotNil(t, deleted.UpdatedBy)
	assert.Equal(t, "librarian", *deleted.UpdatedBy)

	// deleting the same record again affects nothing
	n, err = s.DeleteByStrategy(ctx, types.RemoveByIdentifier, "n-001", "librarian", false)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestDirectDeleteByPredicate(t *testing.T) {
	s := newNoteStore(t)
	seedNotes(t, s, 5)
	ctx := context.Background()

	payload := []query.Predicate{query.Match(func(n *note) bool { return n.Rank < 2 })}
	n, err := s.DeleteByStrategy(ctx, types.RemoveByPredicate, payload, "", true)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	count, err := s.Count(ctx, nil, true)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestDeleteByInstance(t *testing.T) {
	s := newNoteStore(t)
	seedNotes(t, s, 3)
	ctx := context.Background()

	target, err := s.FindByID(ctx, "n-002")
	require.NoError(t, err)
	require.NotNil(t, target)

	n, err := s.DeleteByStrategy(ctx, types.RemoveByInstance, []*note{target}, "", false)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestUpdateTracked(t *testing.T) {
	s := newNoteStore(t)
	seedNotes(t, s, 2)
	ctx := context.Background()

	rec, err := s.FindByID(ctx, "n-000")
	require.NoError(t, err)
	rec.Title = "renamed"

	n, err := s.UpdateTracked(ctx, []*note{rec})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := s.FindByID(ctx, "n-000")
	require.NoError(t, err)
	assert.Equal(t, "renamed", got.Title)

	// unknown identities are skipped, not errors
	n, err = s.UpdateTracked(ctx, []*note{{ID: "ghost"}})
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestRestoreTracked(t *testing.T) {
	s := newNoteStore(t)
	seedNotes(t, s, 1)
	ctx := context.Background()

	_, err := s.DeleteByStrategy(ctx, types.RemoveByIdentifier, "n-000", "", false)
	require.NoError(t, err)

	deleted, err := s.FindByID(ctx, "n-000")
	require.NoError(t, err)
	require.Nil(t, deleted)

	restored := &note{ID: "n-000", Title: "note 0"}
	restored.MarkRestored("")
	n, err := s.RestoreTracked(ctx, []*note{restored})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := s.FindByID(ctx, "n-000")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.False(t, got.IsDeleted)
}

func TestSnapshotTransaction(t *testing.T) {
	t.Run("commit publishes", func(t *testing.T) {
		s := newNoteStore(t)
		seedNotes(t, s, 1)
		ctx := context.Background()

		tx, err := s.BeginTransaction(ctx, sql.LevelDefault)
		require.NoError(t, err)
		scoped, err := s.WithTxHandle(tx)
		require.NoError(t, err)

		_, err = scoped.Insert(ctx, []*note{{ID: "tx-1"}})
		require.NoError(t, err)

		// not visible before commit
		got, err := s.FindByID(ctx, "tx-1")
		require.NoError(t, err)
		assert.Nil(t, got)

		require.NoError(t, tx.Commit(ctx))
		got, err = s.FindByID(ctx, "tx-1")
		require.NoError(t, err)
		assert.NotNil(t, got)
	})

	t.Run("rollback discards", func(t *testing.T) {
		s := newNoteStore(t)
		ctx := context.Background()

		tx, err := s.BeginTransaction(ctx, sql.LevelDefault)
		require.NoError(t, err)
		scoped, err := s.WithTxHandle(tx)
		require.NoError(t, err)

		_, err = scoped.Insert(ctx, []*note{{ID: "tx-2"}})
		require.NoError(t, err)
		require.NoError(t, tx.Rollback(ctx))

		got, err := s.FindByID(ctx, "tx-2")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("double finish rejected", func(t *testing.T) {
		s := newNoteStore(t)
		ctx := context.Background()
		tx, err := s.BeginTransaction(ctx, sql.LevelDefault)
		require.NoError(t, err)
		require.NoError(t, tx.Commit(ctx))
		require.Error(t, tx.Rollback(ctx))
	})

	t.Run("nested on scoped view rejected", func(t *testing.T) {
		s := newNoteStore(t)
		ctx := context.Background()
		tx, err := s.BeginTransaction(ctx, sql.LevelDefault)
		require.NoError(t, err)
		scoped, err := s.WithTxHandle(tx)
		require.NoError(t, err)
		_, err = scoped.(*Store[note]).BeginTransaction(ctx, sql.LevelDefault)
		require.Error(t, err)
	})
}

func TestCancelledContext(t *testing.T) {
	s := newNoteStore(t)
	seedNotes(t, s, 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.FindByID(ctx, "n-000")
	assert.ErrorIs(t, err, context.Canceled)
	_, err = s.Insert(ctx, []*note{{ID: "x"}})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDeleteByPredicateConcurrentWithInserts(t *testing.T) {
	s := newNoteStore(t)
	seedNotes(t, s, 50)
	ctx := context.Background()

	// deletes resolve and mutate under one lock acquisition, so records
	// inserted concurrently are either fully present or fully deleted,
	// never half-processed
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 20; i++ {
			_, _ = s.Insert(ctx, []*note{{ID: fmt.Sprintf("x-%03d", i), Rank: 100 + i}})
		}
	}()
	go func() {
		defer wg.Done()
		payload := []query.Predicate{query.Match(func(n *note) bool { return n.Rank%2 == 0 })}
		for i := 0; i < 20; i++ {
			_, err := s.DeleteByStrategy(ctx, types.RemoveByPredicate, payload, "", true)
			assert.NoError(t, err)
		}
	}()
	wg.Wait()

	// every surviving record is odd-ranked; the final sweep catches
	// anything inserted after the last delete
	_, err := s.DeleteByStrategy(ctx, types.RemoveByPredicate,
		[]query.Predicate{query.Match(func(n *note) bool { return n.Rank%2 == 0 })}, "", true)
	require.NoError(t, err)

	remaining, err := s.FindMany(ctx, &query.RangeConfig{Uncapped: true, IgnoreDefaultFilters: true})
	require.NoError(t, err)
	for _, rec := range remaining {
		assert.Equal(t, 1, rec.Rank%2, "even-ranked record %q survived", rec.ID)
	}
}
