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

// Common illegal/default values used by enums.
const (
	IllegalValue = -1
	IllegalName  = "unknown"
	IllegalDesc  = "unknown"
)

// BaseEnum represents a basic enum contract used by domain types.
type BaseEnum interface {
	IsValid() bool
	Number() int
	String() string
	Desc() string
	Name() string
}

// RemoveStrategy selects how a remove command locates its target records:
// by a concrete instance, by an identifier, or by a predicate.
type RemoveStrategy int

const (
	// RemoveStrategyUnset means no target selection has been configured.
	RemoveStrategyUnset RemoveStrategy = iota
	// RemoveByInstance targets the record(s) handed to the builder.
	RemoveByInstance
	// RemoveByIdentifier targets the record with the given identifier.
	RemoveByIdentifier
	// RemoveByPredicate targets every record matching the given predicate.
	RemoveByPredicate
)

func (s RemoveStrategy) IsValid() bool {
	return s == RemoveByInstance || s == RemoveByIdentifier || s == RemoveByPredicate
}

func (s RemoveStrategy) Number() int {
	if !s.IsValid() && s != RemoveStrategyUnset {
		return IllegalValue
	}
	return int(s)
}

func (s RemoveStrategy) Name() string {
	switch s {
	case RemoveStrategyUnset:
		return "unset"
	case RemoveByInstance:
		return "by_instance"
	case RemoveByIdentifier:
		return "by_identifier"
	case RemoveByPredicate:
		return "by_predicate"
	default:
		return IllegalName
	}
}

func (s RemoveStrategy) String() string { return s.Name() }

func (s RemoveStrategy) Desc() string {
	switch s {
	case RemoveStrategyUnset:
		return "no target selection configured"
	case RemoveByInstance:
		return "target the supplied record instance(s)"
	case RemoveByIdentifier:
		return "target the record with the supplied identifier"
	case RemoveByPredicate:
		return "target every record matching the supplied predicate"
	default:
		return IllegalDesc
	}
}

// SortDirection is the direction of an ordering key.
type SortDirection int

const (
	// SortAsc sorts ascending.
	SortAsc SortDirection = iota
	// SortDesc sorts descending.
	SortDesc
)

func (d SortDirection) IsValid() bool { return d == SortAsc || d == SortDesc }

func (d SortDirection) Number() int {
	if !d.IsValid() {
		return IllegalValue
	}
	return int(d)
}

func (d SortDirection) Name() string {
	switch d {
	case SortAsc:
		return "asc"
	case SortDesc:
		return "desc"
	default:
		return IllegalName
	}
}

func (d SortDirection) String() string { return d.Name() }

func (d SortDirection) Desc() string {
	switch d {
	case SortAsc:
		return "ascending"
	case SortDesc:
		return "descending"
	default:
		return IllegalDesc
	}
}

// SQL returns the SQL keyword for the direction, defaulting to ASC.
func (d SortDirection) SQL() string {
	if d == SortDesc {
		return "DESC"
	}
	return "ASC"
}
