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

// Predicate is an opaque, backend-translatable filter expression. There is
// no universal representation: each store adapter owns translation of the
// representations it understands and rejects the rest. The relational
// adapter accepts *Expr; the in-memory adapter accepts match closures of
// the form func(*T) bool (see Match).
type Predicate any

// OrderingKey is an opaque, backend-translatable sort key. The relational
// adapter accepts a column name (string); the in-memory adapter accepts a
// field extractor of the form func(*T) any (see Field).
type OrderingKey any

// Projection is an opaque, backend-translatable column/field selection.
// The relational adapter accepts a ColumnSet; the in-memory adapter
// accepts a transform of the form func(*T) *T.
type Projection any

// Expr is a relational predicate: a WHERE fragment with bind placeholders
// and its argument values, in the shape bun consumes.
type Expr struct {
	Schema string
	Args   []any
}

// Where constructs a relational predicate from a WHERE fragment and args.
//
//	query.Where("status = ? AND age > ?", "active", 18)
func Where(schema string, args ...any) *Expr {
	return &Expr{Schema: schema, Args: args}
}

// ColumnSet is a relational projection: the columns to fetch.
type ColumnSet []string

// Columns constructs a relational projection.
func Columns(names ...string) ColumnSet { return names }

// Match constructs an in-memory predicate evaluated against each record.
func Match[T any](fn func(*T) bool) Predicate { return fn }

// Field constructs an in-memory ordering key extracting a comparable value
// (string, numeric, bool, or time.Time) from a record.
func Field[T any](fn func(*T) any) OrderingKey { return fn }
