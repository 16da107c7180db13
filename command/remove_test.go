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

package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tomoncle/osprey/query"
	"github.com/tomoncle/osprey/types"
)

type gadget struct {
	ID   string
	Name string
}

func TestRemoveBuilderStrategyInference(t *testing.T) {
	t.Run("entity selects by-instance", func(t *testing.T) {
		b := NewRemove[gadget]().WithEntity(&gadget{ID: "1"})
		assert.Equal(t, types.RemoveByInstance, b.Strategy())
	})

	t.Run("identifier selects by-identifier", func(t *testing.T) {
		b := NewRemove[gadget]().WithIdentifier("1")
		assert.Equal(t, types.RemoveByIdentifier, b.Strategy())
	})

	t.Run("filter selects by-predicate", func(t *testing.T) {
		b := NewRemove[gadget]().WithFilter(query.Where("name = ?", "x"))
		assert.Equal(t, types.RemoveByPredicate, b.Strategy())
	})

	t.Run("unset without payload", func(t *testing.T) {
		b := NewRemove[gadget]()
		assert.Equal(t, types.RemoveStrategyUnset, b.Strategy())
	})
}

func TestRemoveBuilderLastSetterWins(t *testing.T) {
	t.Run("identifier then entity", func(t *testing.T) {
		b := NewRemove[gadget]().
			WithIdentifier("1").
			WithEntity(&gadget{ID: "2"})
		assert.Equal(t, types.RemoveByInstance, b.Strategy())
		// earlier payloads stay recorded; only the strategy moved
		assert.Equal(t, "1", b.Identifier())
		require.Len(t, b.Entities(), 1)
	})

	t.Run("entity then filter", func(t *testing.T) {
		b := NewRemove[gadget]().
			WithEntity(&gadget{ID: "1"}).
			WithFilter(query.Where("name = ?", "x"))
		assert.Equal(t, types.RemoveByPredicate, b.Strategy())
	})

	t.Run("explicit strategy overrides inference", func(t *testing.T) {
		b := NewRemove[gadget]().
			WithEntity(&gadget{ID: "1"}).
			WithRemoveStrategy(types.RemoveByIdentifier)
		assert.Equal(t, types.RemoveByIdentifier, b.Strategy())
		assert.Nil(t, b.Identifier())
	})
}

func TestRemoveBuilderValidation(t *testing.T) {
	t.Run("nil entity", func(t *testing.T) {
		b := NewRemove[gadget]().WithEntity(nil)
		require.Error(t, b.Err())
		assert.True(t, types.IsConfigError(b.Err()))
	})

	t.Run("nil identifier", func(t *testing.T) {
		b := NewRemove[gadget]().WithIdentifier(nil)
		require.Error(t, b.Err())
		assert.True(t, types.IsConfigError(b.Err()))
	})

	t.Run("nil filter", func(t *testing.T) {
		b := NewRemove[gadget]().WithFilter(nil)
		require.Error(t, b.Err())
		assert.True(t, types.IsConfigError(b.Err()))
	})

	t.Run("invalid forced strategy", func(t *testing.T) {
		b := NewRemove[gadget]().WithRemoveStrategy(types.RemoveStrategy(42))
		require.Error(t, b.Err())
		assert.True(t, types.IsConfigError(b.Err()))
	})
}

func TestRemoveBuilderFlags(t *testing.T) {
	b := NewRemove[gadget]().WithIdentifier("1")
	assert.True(t, b.SaveImmediately())
	assert.False(t, b.ExecuteDirectly())

	b.WithDeferredSave().WithExecuteDirectly()
	assert.False(t, b.SaveImmediately())
	assert.True(t, b.ExecuteDirectly())

	b.WithSaveImmediately()
	assert.True(t, b.SaveImmediately())
}
