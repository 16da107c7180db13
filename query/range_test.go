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
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tomoncle/osprey/types"
)

type widget struct {
	Name string
	Size int
}

func TestRangeBuilderDefaults(t *testing.T) {
	cfg, err := NewRange[widget]().Build()
	require.NoError(t, err)
	assert.Equal(t, DefaultSkip, cfg.Skip)
	assert.Equal(t, DefaultTake, cfg.Take)
	assert.False(t, cfg.Uncapped)
	assert.False(t, cfg.IgnoreDefaultFilters)
	assert.Empty(t, cfg.Predicates)
	assert.Empty(t, cfg.Orderings)
}

func TestRangeBuilderPagination(t *testing.T) {
	t.Run("valid window", func(t *testing.T) {
		cfg, err := NewRange[widget]().WithPagination(40, 20).Build()
		require.NoError(t, err)
		assert.Equal(t, 40, cfg.Skip)
		assert.Equal(t, 20, cfg.Take)
	})

	t.Run("negative skip", func(t *testing.T) {
		b := NewRange[widget]().WithPagination(-1, 10)
		require.Error(t, b.Err())
		assert.True(t, types.IsConfigError(b.Err()))
		_, err := b.Build()
		assert.Equal(t, b.Err(), err)
	})

	t.Run("zero take", func(t *testing.T) {
		_, err := NewRange[widget]().WithPagination(0, 0).Build()
		require.Error(t, err)
		assert.True(t, types.IsConfigError(err))
	})

	t.Run("take above cap", func(t *testing.T) {
		_, err := NewRange[widget]().WithPagination(0, MaxTake+1).Build()
		require.Error(t, err)
		assert.True(t, types.IsConfigError(err))
	})

	t.Run("take above cap with ignored constraints", func(t *testing.T) {
		cfg, err := NewRange[widget]().
			WithIgnoreConstraints().
			WithPagination(0, MaxTake+1).
			Build()
		require.NoError(t, err)
		assert.Equal(t, MaxTake+1, cfg.Take)
	})

	t.Run("first error wins", func(t *testing.T) {
		b := NewRange[widget]().WithPagination(-1, 10).WithPagination(0, 0)
		_, err := b.Build()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "skip must be >= 0")
	})
}

func TestRangeBuilderUncapped(t *testing.T) {
	t.Run("requires ignored constraints", func(t *testing.T) {
		_, err := NewRange[widget]().WithoutPaginationCap().Build()
		require.Error(t, err)
		assert.True(t, types.IsConfigError(err))
	})

	t.Run("allowed when constraints ignored", func(t *testing.T) {
		cfg, err := NewRange[widget]().
			WithIgnoreConstraints().
			WithoutPaginationCap().
			Build()
		require.NoError(t, err)
		assert.True(t, cfg.Uncapped)
	})

	t.Run("pagination reinstates the window", func(t *testing.T) {
		cfg, err := NewRange[widget]().
			WithIgnoreConstraints().
			WithoutPaginationCap().
			WithPagination(0, 50).
			Build()
		require.NoError(t, err)
		assert.False(t, cfg.Uncapped)
		assert.Equal(t, 50, cfg.Take)
	})
}

func TestRangeBuilderFilters(t *testing.T) {
	t.Run("nil predicate", func(t *testing.T) {
		_, err := NewRange[widget]().WithFilter(nil).Build()
		require.Error(t, err)
		assert.True(t, types.IsConfigError(err))
	})

	t.Run("predicates accumulate", func(t *testing.T) {
		cfg, err := NewRange[widget]().
			WithFilter(Where("size > ?", 1)).
			WithFilter(Where("name = ?", "a")).
			Build()
		require.NoError(t, err)
		assert.Len(t, cfg.Predicates, 2)
	})
}

func TestRangeBuilderOrdering(t *testing.T) {
	t.Run("tie-breaker without primary", func(t *testing.T) {
		_, err := NewRange[widget]().WithThenOrdering("name", types.SortAsc).Build()
		require.Error(t, err)
		assert.True(t, types.IsConfigError(err))
	})

	t.Run("primary replaces the list", func(t *testing.T) {
		cfg, err := NewRange[widget]().
			WithOrdering("size", types.SortDesc).
			WithThenOrdering("name", types.SortAsc).
			WithOrdering("name", types.SortAsc).
			Build()
		require.NoError(t, err)
		require.Len(t, cfg.Orderings, 1)
		assert.Equal(t, "name", cfg.Orderings[0].Key)
		assert.Equal(t, types.SortAsc, cfg.Orderings[0].Direction)
	})

	t.Run("primary plus tie-breakers", func(t *testing.T) {
		cfg, err := NewRange[widget]().
			WithOrdering("size", types.SortDesc).
			WithThenOrdering("name", types.SortAsc).
			Build()
		require.NoError(t, err)
		require.Len(t, cfg.Orderings, 2)
		assert.Equal(t, types.SortDesc, cfg.Orderings[0].Direction)
		assert.Equal(t, types.SortAsc, cfg.Orderings[1].Direction)
	})

	t.Run("invalid direction", func(t *testing.T) {
		_, err := NewRange[widget]().WithOrdering("name", types.SortDirection(9)).Build()
		require.Error(t, err)
		assert.True(t, types.IsConfigError(err))
	})
}

func TestRangeBuilderTimeout(t *testing.T) {
	cfg, err := NewRange[widget]().WithTimeout(5 * time.Second).Build()
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, cfg.Timeout)

	_, err = NewRange[widget]().WithTimeout(-time.Second).Build()
	require.Error(t, err)
	assert.True(t, types.IsConfigError(err))
}

func TestRangeBuilderSingleUse(t *testing.T) {
	b := NewRange[widget]()
	_, err := b.Build()
	require.NoError(t, err)
	_, err = b.Build()
	require.Error(t, err)
	assert.True(t, types.IsConfigError(err))
}
