// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package taxonomy resolves listing-page URL paths into their taxonomy
// nodes. Paths are one to three slug segments: section, section/category,
// or section/category/subcategory. Each segment is looked up inside its
// parent, so a category slug from another section never resolves.
package taxonomy

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"zonavortex/internal/models"
)

// ErrNotFound reports that a path segment did not resolve to a taxonomy
// node within its parent. Handlers map it to a 404.
var ErrNotFound = errors.New("taxonomy: not found")

// SectionFinder looks up a top-level section by slug. A nil result with
// a nil error means the slug does not exist.
type SectionFinder interface {
	FindBySlug(slug string) (*models.Section, error)
}

// CategoryFinder looks up a category by slug within one section.
type CategoryFinder interface {
	FindBySlugInSection(sectionID uuid.UUID, slug string) (*models.Category, error)
}

// SubcategoryFinder looks up a subcategory by slug within one category.
type SubcategoryFinder interface {
	FindBySlugInCategory(categoryID uuid.UUID, slug string) (*models.Subcategory, error)
}

// Resolver walks slug chains through the three taxonomy levels.
type Resolver struct {
	sections      SectionFinder
	categories    CategoryFinder
	subcategories SubcategoryFinder
}

// NewResolver builds a Resolver over the given finders.
func NewResolver(sections SectionFinder, categories CategoryFinder, subcategories SubcategoryFinder) *Resolver {
	return &Resolver{sections: sections, categories: categories, subcategories: subcategories}
}

// Resolution is a fully resolved listing path. Category and Subcategory
// are nil when the path stops above their level.
type Resolution struct {
	Section     *models.Section
	Category    *models.Category
	Subcategory *models.Subcategory

	Page Page
}

// Page holds the presentation strings for a resolved listing page.
type Page struct {
	Title             string `json:"title"`
	Description       string `json:"description"`
	PluralLabel       string `json:"plural_label"`
	SearchPlaceholder string `json:"search_placeholder"`
	BasePath          string `json:"base_path"`
}

// Resolve walks the given slug segments from the section level down.
// It accepts one to three segments; anything else, or any segment that
// does not exist within its parent, yields ErrNotFound. There is no
// fallback section: an unknown section slug is a miss, not a default.
func (r *Resolver) Resolve(segments []string) (*Resolution, error) {
	if len(segments) < 1 || len(segments) > 3 {
		return nil, ErrNotFound
	}

	section, err := r.sections.FindBySlug(segments[0])
	if err != nil {
		return nil, fmt.Errorf("resolve section %q: %w", segments[0], err)
	}
	if section == nil {
		return nil, ErrNotFound
	}
	res := &Resolution{Section: section}

	if len(segments) >= 2 {
		category, err := r.categories.FindBySlugInSection(section.ID, segments[1])
		if err != nil {
			return nil, fmt.Errorf("resolve category %q: %w", segments[1], err)
		}
		if category == nil {
			return nil, ErrNotFound
		}
		res.Category = category
	}

	if len(segments) == 3 {
		subcategory, err := r.subcategories.FindBySlugInCategory(res.Category.ID, segments[2])
		if err != nil {
			return nil, fmt.Errorf("resolve subcategory %q: %w", segments[2], err)
		}
		if subcategory == nil {
			return nil, ErrNotFound
		}
		res.Subcategory = subcategory
	}

	res.Page = buildPage(res, segments)
	return res, nil
}

// buildPage derives the page presentation from the resolved nodes. The
// title is the deepest node's name; the description falls back to
// "Todos los <plural>" when the section has none.
func buildPage(res *Resolution, segments []string) Page {
	plural := res.Section.PluralLabel
	if plural == "" {
		plural = "artículos"
	}

	title := res.Section.Name
	switch {
	case res.Subcategory != nil:
		title = res.Subcategory.Name
	case res.Category != nil:
		title = res.Category.Name
	}

	description := res.Section.Description
	if description == "" {
		description = "Todos los " + plural
	}

	return Page{
		Title:             title,
		Description:       description,
		PluralLabel:       plural,
		SearchPlaceholder: "Buscar " + plural + "...",
		BasePath:          "/" + strings.Join(segments, "/"),
	}
}
