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

// SubcategoryStore manages subcategories. Like category slugs, a
// subcategory slug only resolves together with its parent category's id.
type SubcategoryStore struct {
	db *sql.DB
}

// NewSubcategoryStore returns a new SubcategoryStore.
func NewSubcategoryStore(db *sql.DB) *SubcategoryStore {
	return &SubcategoryStore{db: db}
}

const subcategoryColumns = `id, slug, name, category_id, created_at, updated_at`

func scanSubcategory(scanner interface{ Scan(...any) error }) (*models.Subcategory, error) {
	var sc models.Subcategory
	err := scanner.Scan(&sc.ID, &sc.Slug, &sc.Name, &sc.CategoryID, &sc.CreatedAt, &sc.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &sc, nil
}

// ListByCategory returns the subcategories under a category, ordered by name.
func (s *SubcategoryStore) ListByCategory(categoryID uuid.UUID) ([]models.Subcategory, error) {
	rows, err := s.db.Query(
		`SELECT `+subcategoryColumns+` FROM subcategories WHERE category_id = $1 ORDER BY name`,
		categoryID,
	)
	if err != nil {
		return nil, fmt.Errorf("list subcategories: %w", err)
	}
	defer rows.Close()

	var items []models.Subcategory
	for rows.Next() {
		var sc models.Subcategory
		if err := rows.Scan(&sc.ID, &sc.Slug, &sc.Name, &sc.CategoryID, &sc.CreatedAt, &sc.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan subcategory: %w", err)
		}
		items = append(items, sc)
	}
	return items, rows.Err()
}

// FindBySlugInCategory retrieves a subcategory by slug scoped to its
// parent category. Returns nil if not found.
func (s *SubcategoryStore) FindBySlugInCategory(categoryID uuid.UUID, slug string) (*models.Subcategory, error) {
	row := s.db.QueryRow(
		`SELECT `+subcategoryColumns+` FROM subcategories WHERE category_id = $1 AND slug = $2`,
		categoryID, slug,
	)
	sc, err := scanSubcategory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find subcategory by slug: %w", err)
	}
	return sc, nil
}

// FindByID retrieves a subcategory by ID. Returns nil if not found.
func (s *SubcategoryStore) FindByID(id uuid.UUID) (*models.Subcategory, error) {
	row := s.db.QueryRow(`SELECT `+subcategoryColumns+` FROM subcategories WHERE id = $1`, id)
	sc, err := scanSubcategory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find subcategory by id: %w", err)
	}
	return sc, nil
}

// Create inserts a new subcategory and returns it.
func (s *SubcategoryStore) Create(sc *models.Subcategory) (*models.Subcategory, error) {
	row := s.db.QueryRow(`
		INSERT INTO subcategories (slug, name, category_id)
		VALUES ($1, $2, $3)
		RETURNING `+subcategoryColumns,
		sc.Slug, sc.Name, sc.CategoryID,
	)
	result, err := scanSubcategory(row)
	if err != nil {
		return nil, fmt.Errorf("create subcategory: %w", err)
	}
	return result, nil
}

// Update modifies an existing subcategory.
func (s *SubcategoryStore) Update(sc *models.Subcategory) error {
	_, err := s.db.Exec(`
		UPDATE subcategories SET slug = $1, name = $2, category_id = $3, updated_at = NOW()
		WHERE id = $4
	`, sc.Slug, sc.Name, sc.CategoryID, sc.ID)
	if err != nil {
		return fmt.Errorf("update subcategory: %w", err)
	}
	return nil
}

// Delete removes a subcategory by ID. Posts referencing it keep their
// category but lose the subcategory (ON DELETE SET NULL).
func (s *SubcategoryStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM subcategories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete subcategory: %w", err)
	}
	return nil
}
