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

package types

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditLifecycle(t *testing.T) {
	a := &Audit{}

	a.MarkCreated("alice")
	created := a.CreatedAt
	require.False(t, created.IsZero())
	require.NotNil(t, a.CreatedBy)
	assert.Equal(t, "alice", *a.CreatedBy)

	// CreatedAt is immutable once set
	time.Sleep(time.Millisecond)
	a.MarkCreated("bob")
	assert.Equal(t, created, a.CreatedAt)

	a.MarkUpdated("carol")
	require.NotNil(t, a.UpdatedAt)
	require.NotNil(t, a.UpdatedBy)
	assert.Equal(t, "carol", *a.UpdatedBy)

	a.MarkDeleted("dave")
	assert.True(t, a.IsDeleted)
	assert.Equal(t, "dave", *a.UpdatedBy)

	a.MarkRestored("erin")
	assert.False(t, a.IsDeleted)
	assert.Equal(t, "erin", *a.UpdatedBy)
}

func TestAuditEmptyActorLeavesAttribution(t *testing.T) {
	a := &Audit{}
	a.MarkCreated("")
	assert.Nil(t, a.CreatedBy)
	a.MarkUpdated("")
	assert.Nil(t, a.UpdatedBy)
	assert.NotNil(t, a.UpdatedAt)
}

func TestNewIDUniqueness(t *testing.T) {
	assert.NotEqual(t, NewID(), NewID())
	assert.NotEmpty(t, NewID())
}

func TestRemoveStrategyEnum(t *testing.T) {
	assert.False(t, RemoveStrategyUnset.IsValid())
	assert.True(t, RemoveByInstance.IsValid())
	assert.True(t, RemoveByIdentifier.IsValid())
	assert.True(t, RemoveByPredicate.IsValid())
	assert.False(t, RemoveStrategy(42).IsValid())
	assert.Equal(t, IllegalName, RemoveStrategy(42).Name())
}

func TestSortDirectionSQL(t *testing.T) {
	assert.Equal(t, "ASC", SortAsc.SQL())
	assert.Equal(t, "DESC", SortDesc.SQL())
	assert.True(t, SortAsc.IsValid())
	assert.False(t, SortDirection(7).IsValid())
}

func TestErrorTaxonomy(t *testing.T) {
	t.Run("config error", func(t *testing.T) {
		err := NewConfigError("WithPagination", "take must be > 0, got %d", -5)
		assert.True(t, IsConfigError(err))
		assert.False(t, IsStoreError(err))
		assert.Contains(t, err.Error(), "invalid configuration")
		assert.Contains(t, err.Error(), "WithPagination")
	})

	t.Run("timeout error keeps the cause", func(t *testing.T) {
		cause := errors.New("context deadline exceeded")
		err := &TimeoutError{Op: "GetRange", Cause: cause}
		assert.True(t, IsTimeout(err))
		assert.ErrorIs(t, err, cause)
		assert.Contains(t, err.Error(), "timeout or manual cancellation")
	})

	t.Run("store error keeps the cause", func(t *testing.T) {
		cause := errors.New("connection refused")
		err := &StoreError{Op: "Add", Cause: cause}
		assert.True(t, IsStoreError(err))
		assert.ErrorIs(t, err, cause)
	})

	t.Run("strategy error names the strategy", func(t *testing.T) {
		err := &StrategyError{Op: "Remove", Strategy: RemoveByInstance, Reason: "no entity payload supplied"}
		assert.True(t, IsStrategyError(err))
		assert.Contains(t, err.Error(), "by_instance")
	})

	t.Run("wrapped errors still classify", func(t *testing.T) {
		inner := NewConfigError("Build", "builder already consumed")
		wrapped := fmt.Errorf("operation failed: %w", inner)
		assert.True(t, IsConfigError(wrapped))
	})
}

func TestChunk(t *testing.T) {
	c := NewChunk[string](0, 10)
	assert.Equal(t, 0, c.Len())
	assert.False(t, c.HasMore())

	a, b := "a", "b"
	c.Items = []*string{&a, &b}
	c.Total = 5
	assert.Equal(t, 2, c.Len())
	assert.True(t, c.HasMore())

	c.Skip = 3
	assert.False(t, c.HasMore())
}
