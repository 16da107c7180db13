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

package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tomoncle/osprey/types"
)

func TestSingleBuilderDefaults(t *testing.T) {
	cfg, err := NewSingle[widget]().Build()
	require.NoError(t, err)
	assert.True(t, cfg.TakeFirst)
	assert.Empty(t, cfg.Predicates)
	assert.Empty(t, cfg.Orderings)
}

func TestSingleBuilderTakeLast(t *testing.T) {
	cfg, err := NewSingle[widget]().
		WithOrdering("size", types.SortAsc).
		WithTakeLast().
		Build()
	require.NoError(t, err)
	assert.False(t, cfg.TakeFirst)
}

func TestSingleBuilderValidation(t *testing.T) {
	t.Run("nil predicate", func(t *testing.T) {
		_, err := NewSingle[widget]().WithFilter(nil).Build()
		require.Error(t, err)
		assert.True(t, types.IsConfigError(err))
	})

	t.Run("tie-breaker without primary", func(t *testing.T) {
		_, err := NewSingle[widget]().WithThenOrdering("name", types.SortAsc).Build()
		require.Error(t, err)
		assert.True(t, types.IsConfigError(err))
	})

	t.Run("nil projection", func(t *testing.T) {
		_, err := NewSingle[widget]().WithProjection(nil).Build()
		require.Error(t, err)
		assert.True(t, types.IsConfigError(err))
	})
}

func TestSingleBuilderSingleUse(t *testing.T) {
	b := NewSingle[widget]().WithFilter(Where("name = ?", "a"))
	_, err := b.Build()
	require.NoError(t, err)
	_, err = b.Build()
	require.Error(t, err)
	assert.True(t, types.IsConfigError(err))
}
