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
	"time"

	"github.com/google/uuid"
)

// Identifiable is implemented by records that expose an identity. The
// identity is opaque to the generic layer: a string UUID, an integer key,
// or a backend-native id are all acceptable.
type Identifiable interface {
	RecordID() any
}

// Auditable is implemented by records carrying audit metadata.
type Auditable interface {
	AuditFields() *Audit
}

// Record is the capability contract the repository engine requires from a
// persisted entity or document: identity plus audit metadata. Concrete
// record types compose it by embedding Audit and implementing RecordID.
type Record interface {
	Identifiable
	Auditable
}

// Audit holds the audit metadata shared by every record. CreatedAt is set
// once on insert; UpdatedAt/UpdatedBy change on every mutation; IsDeleted
// toggles only through remove and restore operations, never by direct
// assignment.
type Audit struct {
	CreatedAt time.Time  `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt *time.Time `bun:"updated_at" json:"updated_at,omitempty"`
	CreatedBy *string    `bun:"created_by" json:"created_by,omitempty"`
	UpdatedBy *string    `bun:"updated_by" json:"updated_by,omitempty"`
	IsDeleted bool       `bun:"is_deleted,notnull,default:false" json:"is_deleted"`
}

// AuditFields returns the audit metadata; promoted through embedding so that
// any record embedding Audit satisfies Auditable.
func (a *Audit) AuditFields() *Audit { return a }

// MarkCreated stamps creation metadata. CreatedAt is only set when still
// zero, keeping it immutable across later calls.
func (a *Audit) MarkCreated(actor string) {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}
	if actor != "" {
		a.CreatedBy = &actor
	}
}

// MarkUpdated stamps mutation metadata.
func (a *Audit) MarkUpdated(actor string) {
	now := time.Now()
	a.UpdatedAt = &now
	if actor != "" {
		a.UpdatedBy = &actor
	}
}

// MarkDeleted flips the logical-delete marker and stamps the mutation.
func (a *Audit) MarkDeleted(actor string) {
	a.IsDeleted = true
	a.MarkUpdated(actor)
}

// MarkRestored clears the logical-delete marker and stamps the mutation.
func (a *Audit) MarkRestored(actor string) {
	a.IsDeleted = false
	a.MarkUpdated(actor)
}

// NewID returns a fresh opaque string identity for records that use
// generated UUID keys.
func NewID() string { return uuid.NewString() }
