// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// EditStatus tracks a proposed post edit through its approval lifecycle.
// pending is the only non-terminal state: pending → approved | rejected.
type EditStatus string

const (
	EditStatusPending  EditStatus = "pending"
	EditStatusApproved EditStatus = "approved"
	EditStatusRejected EditStatus = "rejected"
)

// PostEdit is a change request from a non-privileged editor. The proposed
// field values are held as a JSON document and applied to the post only
// when an admin approves the edit.
type PostEdit struct {
	ID           uuid.UUID  `json:"id"`
	PostID       uuid.UUID  `json:"post_id"`
	EditorID     uuid.UUID  `json:"editor_id"`
	ProposedData []byte     `json:"proposed_data"`
	Status       EditStatus `json:"status"`
	ReviewedBy   *uuid.UUID `json:"reviewed_by,omitempty"`
	ReviewedAt   *time.Time `json:"reviewed_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// IsTerminal reports whether the edit has been decided. Terminal edits
// are immutable.
func (e *PostEdit) IsTerminal() bool {
	return e.Status == EditStatusApproved || e.Status == EditStatusRejected
}

// ProposedFields is the subset of post fields an editor may propose to
// change. Nil pointers mean "leave unchanged".
type ProposedFields struct {
	Title    *string  `json:"title,omitempty"`
	Excerpt  *string  `json:"excerpt,omitempty"`
	Content  *string  `json:"content,omitempty"`
	Keywords []string `json:"keywords,omitempty"`
}
