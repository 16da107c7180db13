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

// Package uow provides the unit of work: a transaction handle plus the
// commands repositories staged instead of persisting immediately. Its
// lifecycle is independent from any repository. There is no implicit
// rollback on abandon; callers rollback explicitly on failure paths.
package uow

import (
	"context"
	"database/sql"
	"sync"

	"github.com/tomoncle/osprey/store"
	"github.com/tomoncle/osprey/types"
)

// StagedOp is one deferred command. It receives the open transaction
// handle (nil when the backend could not scope it) and returns the
// affected record count.
type StagedOp func(ctx context.Context, tx store.TxHandle) (int, error)

// UnitOfWork batches deferred repository commands and commits or rolls
// them back as one transaction.
type UnitOfWork struct {
	factory store.TxFactory

	mu     sync.Mutex
	tx     store.TxHandle
	staged []StagedOp
}

// New returns a unit of work opening transactions through the given
// factory; every store adapter is one.
func New(factory store.TxFactory) *UnitOfWork {
	return &UnitOfWork{factory: factory}
}

// Begin opens a transaction at the given isolation level. Beginning twice
// without finishing the first is a caller bug.
func (u *UnitOfWork) Begin(ctx context.Context, level sql.IsolationLevel) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.tx != nil {
		return types.NewConfigError("Begin", "transaction already open")
	}
	tx, err := u.factory.BeginTransaction(ctx, level)
	if err != nil {
		return &types.StoreError{Op: "Begin", Cause: err}
	}
	u.tx = tx
	return nil
}

// Stage appends a deferred command for the next SaveChanges.
func (u *UnitOfWork) Stage(op StagedOp) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.staged = append(u.staged, op)
}

// Staged returns the number of commands waiting for SaveChanges.
func (u *UnitOfWork) Staged() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return len(u.staged)
}

// SaveChanges flushes every staged command inside the open transaction,
// beginning a default-isolation one when none is open, and returns the
// total affected record count. On the first failure the remaining commands
// are dropped. Commit and rollback only apply to a transaction SaveChanges
// opened itself; a caller-opened transaction stays open either way, so a
// unit can be enlisted in a wider transaction.
func (u *UnitOfWork) SaveChanges(ctx context.Context) (int, error) {
	u.mu.Lock()
	ops := u.staged
	u.staged = nil
	opened := false
	if u.tx == nil {
		tx, err := u.factory.BeginTransaction(ctx, sql.LevelDefault)
		if err != nil {
			u.mu.Unlock()
			return 0, &types.StoreError{Op: "SaveChanges", Cause: err}
		}
		u.tx = tx
		opened = true
	}
	tx := u.tx
	u.mu.Unlock()

	total := 0
	for _, op := range ops {
		n, err := op(ctx, tx)
		if err != nil {
			if opened {
				_ = u.Rollback(ctx)
			}
			return total, err
		}
		total += n
	}
	if opened {
		if err := u.Commit(ctx); err != nil {
			return total, err
		}
	}
	return total, nil
}

// Commit commits the open transaction.
func (u *UnitOfWork) Commit(ctx context.Context) error {
	u.mu.Lock()
	tx := u.tx
	u.tx = nil
	u.mu.Unlock()
	if tx == nil {
		return types.NewConfigError("Commit", "no open transaction")
	}
	if err := tx.Commit(ctx); err != nil {
		return &types.StoreError{Op: "Commit", Cause: err}
	}
	return nil
}

// Rollback rolls the open transaction back.
func (u *UnitOfWork) Rollback(ctx context.Context) error {
	u.mu.Lock()
	tx := u.tx
	u.tx = nil
	u.mu.Unlock()
	if tx == nil {
		return types.NewConfigError("Rollback", "no open transaction")
	}
	if err := tx.Rollback(ctx); err != nil {
		return &types.StoreError{Op: "Rollback", Cause: err}
	}
	return nil
}
