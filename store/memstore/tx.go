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
	"errors"
	"sync"

	"github.com/tomoncle/osprey/store"
)

// Tx is a snapshot transaction: work happens on a clone of the table and
// Commit publishes the clone by swapping it in. Isolation levels beyond
// snapshot semantics are not distinguished.
type Tx[T any] struct {
	parent *Store[T]
	tbl    *table[T]
	mu     sync.Mutex
	done   bool
}

// BeginTransaction implements store.TxFactory. Nested transactions on a
// scoped view are rejected.
func (s *Store[T]) BeginTransaction(ctx context.Context, _ sql.IsolationLevel) (store.TxHandle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.tx != nil {
		return nil, errors.New("memstore: nested transactions are not supported")
	}

	s.tbl.mu.RLock()
	cloned := newTable[T]()
	cloned.seq = append([]string(nil), s.tbl.seq...)
	for k, rec := range s.tbl.records {
		cloned.records[k] = clone(rec)
	}
	s.tbl.mu.RUnlock()

	return &Tx[T]{parent: s, tbl: cloned}, nil
}

// WithTxHandle implements store.TxScoped: the returned adapter reads and
// writes the transaction's snapshot.
func (s *Store[T]) WithTxHandle(h store.TxHandle) (store.Adapter[T], error) {
	tx, ok := h.(*Tx[T])
	if !ok {
		return nil, errors.New("memstore: foreign transaction handle")
	}
	return &Store[T]{tbl: tx.tbl, tx: tx}, nil
}

// Commit publishes the snapshot into the parent store.
func (t *Tx[T]) Commit(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.done {
		return errors.New("memstore: transaction already finished")
	}
	t.done = true

	t.parent.tbl.mu.Lock()
	t.parent.tbl.records = t.tbl.records
	t.parent.tbl.seq = t.tbl.seq
	t.parent.tbl.mu.Unlock()
	return nil
}

// Rollback discards the snapshot.
func (t *Tx[T]) Rollback(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.done {
		return errors.New("memstore: transaction already finished")
	}
	t.done = true
	return nil
}
