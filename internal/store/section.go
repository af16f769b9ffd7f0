// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"zonavortex/internal/models"
)

// SectionStore manages top-level taxonomy sections in the database.
type SectionStore struct {
	db *sql.DB
}

// NewSectionStore returns a new SectionStore.
func NewSectionStore(db *sql.DB) *SectionStore {
	return &SectionStore{db: db}
}

const sectionColumns = `id, slug, name, description, plural_label, sort_order, is_main, icon, created_at, updated_at`

// scanSection scans a row into a Section struct and normalizes the icon
// through the fixed lookup table.
func scanSection(scanner interface{ Scan(...any) error }) (*models.Section, error) {
	var s models.Section
	var icon string
	err := scanner.Scan(
		&s.ID, &s.Slug, &s.Name, &s.Description, &s.PluralLabel,
		&s.SortOrder, &s.IsMain, &icon, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	s.Icon = models.ResolveIcon(icon)
	return &s, nil
}

// List returns all sections ordered by sort_order, with post counts.
func (s *SectionStore) List() ([]models.Section, error) {
	rows, err := s.db.Query(`
		SELECT sec.id, sec.slug, sec.name, sec.description, sec.plural_label,
		       sec.sort_order, sec.is_main, sec.icon, sec.created_at, sec.updated_at,
		       COUNT(p.id) AS post_count
		FROM sections sec
		LEFT JOIN posts p ON p.section_id = sec.id AND p.status = 'published'
		GROUP BY sec.id
		ORDER BY sec.sort_order, sec.name
	`)
	if err != nil {
		return nil, fmt.Errorf("list sections: %w", err)
	}
	defer rows.Close()

	var items []models.Section
	for rows.Next() {
		var sec models.Section
		var icon string
		err := rows.Scan(
			&sec.ID, &sec.Slug, &sec.Name, &sec.Description, &sec.PluralLabel,
			&sec.SortOrder, &sec.IsMain, &icon, &sec.CreatedAt, &sec.UpdatedAt,
			&sec.PostCount,
		)
		if err != nil {
			return nil, fmt.Errorf("scan section: %w", err)
		}
		sec.Icon = models.ResolveIcon(icon)
		items = append(items, sec)
	}
	return items, rows.Err()
}

// Nav returns the full navigation tree: every section with its categories
// and their subcategories nested, ordered for display.
func (s *SectionStore) Nav() ([]models.Section, error) {
	sections, err := s.List()
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Query(`
		SELECT c.id, c.slug, c.name, c.section_id, c.gradient, c.created_at, c.updated_at
		FROM categories c
		ORDER BY c.name
	`)
	if err != nil {
		return nil, fmt.Errorf("nav categories: %w", err)
	}
	defer rows.Close()

	catsBySection := make(map[uuid.UUID][]models.Category)
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Slug, &c.Name, &c.SectionID, &c.Gradient, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan nav category: %w", err)
		}
		catsBySection[c.SectionID] = append(catsBySection[c.SectionID], c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	subRows, err := s.db.Query(`
		SELECT sc.id, sc.slug, sc.name, sc.category_id, sc.created_at, sc.updated_at
		FROM subcategories sc
		JOIN categories c ON c.id = sc.category_id
		ORDER BY sc.name
	`)
	if err != nil {
		return nil, fmt.Errorf("nav subcategories: %w", err)
	}
	defer subRows.Close()

	subsByCategory := make(map[uuid.UUID][]models.Subcategory)
	for subRows.Next() {
		var sc models.Subcategory
		if err := subRows.Scan(&sc.ID, &sc.Slug, &sc.Name, &sc.CategoryID, &sc.CreatedAt, &sc.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan nav subcategory: %w", err)
		}
		subsByCategory[sc.CategoryID] = append(subsByCategory[sc.CategoryID], sc)
	}
	if err := subRows.Err(); err != nil {
		return nil, err
	}

	for i := range sections {
		cats := catsBySection[sections[i].ID]
		for j := range cats {
			cats[j].Subcategories = subsByCategory[cats[j].ID]
		}
		sections[i].Categories = cats
	}
	return sections, nil
}

// FindBySlug retrieves a section by its slug. Returns nil if not found.
func (s *SectionStore) FindBySlug(slug string) (*models.Section, error) {
	row := s.db.QueryRow(`SELECT `+sectionColumns+` FROM sections WHERE slug = $1`, slug)
	sec, err := scanSection(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find section by slug: %w", err)
	}
	return sec, nil
}

// FindByID retrieves a section by ID. Returns nil if not found.
func (s *SectionStore) FindByID(id uuid.UUID) (*models.Section, error) {
	row := s.db.QueryRow(`SELECT `+sectionColumns+` FROM sections WHERE id = $1`, id)
	sec, err := scanSection(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find section by id: %w", err)
	}
	return sec, nil
}

// Create inserts a new section and returns it.
func (s *SectionStore) Create(sec *models.Section) (*models.Section, error) {
	row := s.db.QueryRow(`
		INSERT INTO sections (slug, name, description, plural_label, sort_order, is_main, icon)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+sectionColumns,
		sec.Slug, sec.Name, sec.Description, sec.PluralLabel,
		sec.SortOrder, sec.IsMain, string(models.ResolveIcon(string(sec.Icon))),
	)
	result, err := scanSection(row)
	if err != nil {
		return nil, fmt.Errorf("create section: %w", err)
	}
	return result, nil
}

// Update modifies an existing section.
func (s *SectionStore) Update(sec *models.Section) error {
	_, err := s.db.Exec(`
		UPDATE sections SET
			slug = $1, name = $2, description = $3, plural_label = $4,
			sort_order = $5, is_main = $6, icon = $7, updated_at = NOW()
		WHERE id = $8
	`, sec.Slug, sec.Name, sec.Description, sec.PluralLabel,
		sec.SortOrder, sec.IsMain, string(models.ResolveIcon(string(sec.Icon))), sec.ID)
	if err != nil {
		return fmt.Errorf("update section: %w", err)
	}
	return nil
}

// Delete removes a section by ID. Categories, subcategories, and posts
// under it cascade.
func (s *SectionStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM sections WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete section: %w", err)
	}
	return nil
}
