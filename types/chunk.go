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

// Chunk pairs a bounded subset of records with the total number of records
// matching the same predicate set independent of pagination, for
// "showing N of M" responses. Total is computed from the filters alone:
// projection, ordering, skip, and take never influence it.
type Chunk[T any] struct {
	Items []*T `json:"items"`
	Total int  `json:"total"`
	Skip  int  `json:"skip"`
	Take  int  `json:"take"`
}

// NewChunk constructs an empty chunk for the given pagination window.
func NewChunk[T any](skip, take int) *Chunk[T] {
	return &Chunk[T]{Items: make([]*T, 0), Skip: skip, Take: take}
}

// Len returns the number of records in the subset.
func (c *Chunk[T]) Len() int { return len(c.Items) }

// HasMore reports whether records beyond this subset match the filters.
func (c *Chunk[T]) HasMore() bool { return c.Skip+len(c.Items) < c.Total }
