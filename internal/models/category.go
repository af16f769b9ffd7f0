// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Category is the second taxonomy level. It belongs to exactly one
// section; its slug is unique within that section, not globally.
type Category struct {
	ID        uuid.UUID `json:"id"`
	Slug      string    `json:"slug"`
	Name      string    `json:"name"`
	SectionID uuid.UUID `json:"section_id"`
	Gradient  string    `json:"gradient"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Virtual fields populated by store methods.
	Subcategories []Subcategory `json:"subcategories,omitempty"`
	PostCount     int           `json:"post_count"`
}

// Subcategory is the third taxonomy level. Its implied section is always
// its category's section; a subcategory can never sit under a category
// from a different section.
type Subcategory struct {
	ID         uuid.UUID `json:"id"`
	Slug       string    `json:"slug"`
	Name       string    `json:"name"`
	CategoryID uuid.UUID `json:"category_id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
