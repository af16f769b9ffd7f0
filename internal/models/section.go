// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Section is a top-level taxonomy node ("Blog", "Recursos", ...).
// Categories hang off sections; posts always reference one section.
type Section struct {
	ID          uuid.UUID `json:"id"`
	Slug        string    `json:"slug"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	PluralLabel string    `json:"plural_label"`
	SortOrder   int       `json:"sort_order"`
	IsMain      bool      `json:"is_main"`
	Icon        Icon      `json:"icon"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Virtual fields populated by store methods.
	Categories []Category `json:"categories,omitempty"`
	PostCount  int        `json:"post_count"`
}
