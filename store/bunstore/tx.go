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

package bunstore

import (
	"context"
	"database/sql"
	"errors"

	"github.com/uptrace/bun"

	"github.com/tomoncle/osprey/store"
)

// Tx wraps an open Bun transaction as a store.TxHandle.
type Tx struct {
	tx bun.Tx
}

// BeginTransaction implements store.TxFactory. The adapter must wrap a
// *bun.DB; adapters already scoped to a transaction reject nesting.
func (s *Store[T]) BeginTransaction(ctx context.Context, level sql.IsolationLevel) (store.TxHandle, error) {
	db, ok := s.db.(*bun.DB)
	if !ok {
		return nil, errors.New("bunstore: nested transactions are not supported")
	}
	tx, err := db.BeginTx(ctx, &sql.TxOptions{Isolation: level})
	if err != nil {
		return nil, classify(err)
	}
	return &Tx{tx: tx}, nil
}

// WithTxHandle implements store.TxScoped: the returned adapter runs every
// operation inside the transaction.
func (s *Store[T]) WithTxHandle(h store.TxHandle) (store.Adapter[T], error) {
	tx, ok := h.(*Tx)
	if !ok {
		return nil, errors.New("bunstore: foreign transaction handle")
	}
	return New[T](tx.tx), nil
}

// Commit commits the transaction.
func (t *Tx) Commit(_ context.Context) error { return classify(t.tx.Commit()) }

// Rollback rolls the transaction back.
func (t *Tx) Rollback(_ context.Context) error { return classify(t.tx.Rollback()) }
