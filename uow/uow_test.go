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

package uow

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tomoncle/osprey/store"
	"github.com/tomoncle/osprey/types"
)

type fakeTx struct {
	committed  bool
	rolledBack bool
}

func (t *fakeTx) Commit(context.Context) error {
	t.committed = true
	return nil
}

func (t *fakeTx) Rollback(context.Context) error {
	t.rolledBack = true
	return nil
}

type fakeFactory struct {
	opened  []*fakeTx
	openErr error
}

func (f *fakeFactory) BeginTransaction(context.Context, sql.IsolationLevel) (store.TxHandle, error) {
	if f.openErr != nil {
		return nil, f.openErr
	}
	tx := &fakeTx{}
	f.opened = append(f.opened, tx)
	return tx, nil
}

func TestUnitOfWorkBegin(t *testing.T) {
	t.Run("double begin rejected", func(t *testing.T) {
		u := New(&fakeFactory{})
		require.NoError(t, u.Begin(context.Background(), sql.LevelDefault))
		err := u.Begin(context.Background(), sql.LevelDefault)
		require.Error(t, err)
		assert.True(t, types.IsConfigError(err))
	})

	t.Run("factory failure surfaces as store error", func(t *testing.T) {
		u := New(&fakeFactory{openErr: errors.New("down")})
		err := u.Begin(context.Background(), sql.LevelDefault)
		require.Error(t, err)
		assert.True(t, types.IsStoreError(err))
	})
}

func TestUnitOfWorkSaveChanges(t *testing.T) {
	t.Run("opens and commits its own transaction", func(t *testing.T) {
		f := &fakeFactory{}
		u := New(f)
		u.Stage(func(context.Context, store.TxHandle) (int, error) { return 2, nil })
		u.Stage(func(context.Context, store.TxHandle) (int, error) { return 3, nil })
		assert.Equal(t, 2, u.Staged())

		total, err := u.SaveChanges(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 5, total)
		assert.Equal(t, 0, u.Staged())
		require.Len(t, f.opened, 1)
		assert.True(t, f.opened[0].committed)
	})

	t.Run("does not commit a caller-opened transaction", func(t *testing.T) {
		f := &fakeFactory{}
		u := New(f)
		require.NoError(t, u.Begin(context.Background(), sql.LevelSerializable))
		u.Stage(func(context.Context, store.TxHandle) (int, error) { return 1, nil })

		total, err := u.SaveChanges(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 1, total)
		require.Len(t, f.opened, 1)
		assert.False(t, f.opened[0].committed)

		require.NoError(t, u.Commit(context.Background()))
		assert.True(t, f.opened[0].committed)
	})

	t.Run("rolls back on first failure and drops the rest", func(t *testing.T) {
		f := &fakeFactory{}
		u := New(f)
		ran := 0
		u.Stage(func(context.Context, store.TxHandle) (int, error) { ran++; return 1, nil })
		u.Stage(func(context.Context, store.TxHandle) (int, error) { ran++; return 0, errors.New("boom") })
		u.Stage(func(context.Context, store.TxHandle) (int, error) { ran++; return 1, nil })

		total, err := u.SaveChanges(context.Background())
		require.Error(t, err)
		assert.Equal(t, 1, total)
		assert.Equal(t, 2, ran)
		require.Len(t, f.opened, 1)
		assert.True(t, f.opened[0].rolledBack)
		assert.False(t, f.opened[0].committed)
		assert.Equal(t, 0, u.Staged())
	})

	t.Run("leaves a caller-opened transaction open on failure", func(t *testing.T) {
		f := &fakeFactory{}
		u := New(f)
		require.NoError(t, u.Begin(context.Background(), sql.LevelSerializable))
		u.Stage(func(context.Context, store.TxHandle) (int, error) { return 0, errors.New("boom") })

		_, err := u.SaveChanges(context.Background())
		require.Error(t, err)
		require.Len(t, f.opened, 1)
		assert.False(t, f.opened[0].rolledBack)
		assert.False(t, f.opened[0].committed)

		// the rollback decision stays with the caller
		require.NoError(t, u.Rollback(context.Background()))
		assert.True(t, f.opened[0].rolledBack)
	})

	t.Run("staged op receives the open handle", func(t *testing.T) {
		f := &fakeFactory{}
		u := New(f)
		var seen store.TxHandle
		u.Stage(func(_ context.Context, tx store.TxHandle) (int, error) {
			seen = tx
			return 0, nil
		})
		_, err := u.SaveChanges(context.Background())
		require.NoError(t, err)
		require.Len(t, f.opened, 1)
		assert.Same(t, f.opened[0], seen)
	})
}

func TestUnitOfWorkCommitRollbackWithoutTransaction(t *testing.T) {
	u := New(&fakeFactory{})
	err := u.Commit(context.Background())
	require.Error(t, err)
	assert.True(t, types.IsConfigError(err))

	err = u.Rollback(context.Background())
	require.Error(t, err)
	assert.True(t, types.IsConfigError(err))
}
