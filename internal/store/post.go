// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"zonavortex/internal/models"
)

// visiblePredicate is the anonymous-reader visibility rule: published,
// or scheduled with a publish time that has already passed.
const visiblePredicate = `(p.status = 'published' OR (p.status = 'scheduled' AND p.published_at <= NOW()))`

// PostStore handles all post-related database operations, including the
// filtered listing queries behind section/category/subcategory pages.
type PostStore struct {
	db *sql.DB
}

// NewPostStore creates a new PostStore with the given database connection.
func NewPostStore(db *sql.DB) *PostStore {
	return &PostStore{db: db}
}

const postColumns = `p.id, p.slug, p.title, p.excerpt, p.content, p.status, p.published_at,
	p.section_id, p.category_id, p.subcategory_id, p.author_id, p.main_image_url,
	p.is_featured, p.download, p.price_cents, p.is_premium, p.keywords,
	p.created_at, p.updated_at`

// postJoins connects a post to its taxonomy names. Subcategory is
// optional, so it joins LEFT.
const postJoins = `
	FROM posts p
	JOIN sections s ON s.id = p.section_id
	JOIN categories c ON c.id = p.category_id
	LEFT JOIN subcategories sc ON sc.id = p.subcategory_id`

// scanPost scans a joined listing row, including the taxonomy names.
func scanPost(scanner interface{ Scan(...any) error }) (*models.Post, error) {
	var p models.Post
	var keywords string
	var subcatName sql.NullString
	err := scanner.Scan(
		&p.ID, &p.Slug, &p.Title, &p.Excerpt, &p.Content, &p.Status, &p.PublishedAt,
		&p.SectionID, &p.CategoryID, &p.SubcategoryID, &p.AuthorID, &p.MainImageURL,
		&p.IsFeatured, &p.Download, &p.PriceCents, &p.IsPremium, &keywords,
		&p.CreatedAt, &p.UpdatedAt,
		&p.SectionName, &p.CategoryName, &subcatName,
	)
	if err != nil {
		return nil, err
	}
	p.Keywords = splitKeywords(keywords)
	if subcatName.Valid {
		p.SubcategoryName = subcatName.String
	}
	return &p, nil
}

// queryPosts runs a listing query and scans all rows.
func (s *PostStore) queryPosts(query string, args ...any) ([]models.Post, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		items = append(items, *p)
	}
	return items, rows.Err()
}

// List returns one page of posts matching the filter plus the total
// count of the full filtered set. An empty page is not an error; a
// database failure returns a nil slice, zero count, and a non-nil error
// so callers never mistake a failure for "no results".
func (s *PostStore) List(filter ListFilter) ([]models.Post, int, error) {
	f := filter.normalized()
	where, args := f.where()

	var total int
	countQuery := `SELECT COUNT(*)` + postJoins + ` WHERE ` + where
	if err := s.db.QueryRow(countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count posts: %w", err)
	}

	listArgs := append(args, f.PageSize, f.offset())
	listQuery := `SELECT ` + postColumns + `, s.name, c.name, sc.name` + postJoins +
		` WHERE ` + where +
		` ORDER BY p.created_at DESC, p.id` +
		fmt.Sprintf(` LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)

	items, err := s.queryPosts(listQuery, listArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("list posts: %w", err)
	}
	return items, total, nil
}

// FindBySlug retrieves a post by slug regardless of status. Used by
// admin views. Returns nil if not found.
func (s *PostStore) FindBySlug(slug string) (*models.Post, error) {
	row := s.db.QueryRow(
		`SELECT `+postColumns+`, s.name, c.name, sc.name`+postJoins+` WHERE p.slug = $1`, slug)
	p, err := scanPost(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find post by slug: %w", err)
	}
	return p, nil
}

// FindVisibleBySlug retrieves a post by slug if it is visible to
// anonymous readers. Returns nil for drafts, pending posts, and
// scheduled posts whose publish time has not passed.
func (s *PostStore) FindVisibleBySlug(slug string) (*models.Post, error) {
	row := s.db.QueryRow(
		`SELECT `+postColumns+`, s.name, c.name, sc.name`+postJoins+
			` WHERE p.slug = $1 AND `+visiblePredicate, slug)
	p, err := scanPost(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find visible post by slug: %w", err)
	}
	return p, nil
}

// FindByID retrieves a post by ID regardless of status. Returns nil if
// not found.
func (s *PostStore) FindByID(id uuid.UUID) (*models.Post, error) {
	row := s.db.QueryRow(
		`SELECT `+postColumns+`, s.name, c.name, sc.name`+postJoins+` WHERE p.id = $1`, id)
	p, err := scanPost(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find post by id: %w", err)
	}
	return p, nil
}

// Create inserts a new post and returns it with generated fields. When
// publishing without an explicit timestamp, published_at is set to now.
func (s *PostStore) Create(p *models.Post) (*models.Post, error) {
	if p.Status == models.PostStatusPublished && p.PublishedAt == nil {
		now := time.Now()
		p.PublishedAt = &now
	}

	var id uuid.UUID
	err := s.db.QueryRow(`
		INSERT INTO posts (slug, title, excerpt, content, status, published_at,
		                   section_id, category_id, subcategory_id, author_id,
		                   main_image_url, is_featured, download, price_cents,
		                   is_premium, keywords)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING id
	`, p.Slug, p.Title, p.Excerpt, p.Content, p.Status, p.PublishedAt,
		p.SectionID, p.CategoryID, p.SubcategoryID, p.AuthorID,
		p.MainImageURL, p.IsFeatured, p.Download, p.PriceCents,
		p.IsPremium, joinKeywords(p.Keywords),
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	return s.FindByID(id)
}

// Update modifies an existing post. The same publish-timestamp rule as
// Create applies when the status transitions to published.
func (s *PostStore) Update(p *models.Post) error {
	if p.Status == models.PostStatusPublished && p.PublishedAt == nil {
		now := time.Now()
		p.PublishedAt = &now
	}

	_, err := s.db.Exec(`
		UPDATE posts SET
			slug = $1, title = $2, excerpt = $3, content = $4, status = $5,
			published_at = $6, section_id = $7, category_id = $8,
			subcategory_id = $9, main_image_url = $10, is_featured = $11,
			download = $12, price_cents = $13, is_premium = $14,
			keywords = $15, updated_at = NOW()
		WHERE id = $16
	`, p.Slug, p.Title, p.Excerpt, p.Content, p.Status,
		p.PublishedAt, p.SectionID, p.CategoryID,
		p.SubcategoryID, p.MainImageURL, p.IsFeatured,
		p.Download, p.PriceCents, p.IsPremium,
		joinKeywords(p.Keywords), p.ID)
	if err != nil {
		return fmt.Errorf("update post: %w", err)
	}
	return nil
}

// Delete removes a post by ID. Edits and comments cascade.
func (s *PostStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	return nil
}

// Featured returns published featured posts, newest first. When
// requireImage is set, posts without a main image are skipped.
func (s *PostStore) Featured(limit int, requireImage bool) ([]models.Post, error) {
	query := `SELECT ` + postColumns + `, s.name, c.name, sc.name` + postJoins +
		` WHERE p.status = 'published' AND p.is_featured`
	if requireImage {
		query += ` AND p.main_image_url IS NOT NULL`
	}
	query += ` ORDER BY p.created_at DESC, p.id LIMIT $1`

	items, err := s.queryPosts(query, limit)
	if err != nil {
		return nil, fmt.Errorf("featured posts: %w", err)
	}
	return items, nil
}

// Downloadable returns published posts carrying a downloadable file,
// newest first.
func (s *PostStore) Downloadable(limit int) ([]models.Post, error) {
	query := `SELECT ` + postColumns + `, s.name, c.name, sc.name` + postJoins +
		` WHERE p.status = 'published' AND p.download IS NOT NULL AND p.download <> ''
		 ORDER BY p.created_at DESC, p.id LIMIT $1`

	items, err := s.queryPosts(query, limit)
	if err != nil {
		return nil, fmt.Errorf("downloadable posts: %w", err)
	}
	return items, nil
}

// Related returns up to limit posts related to the given one: visible
// posts sharing at least one keyword come first, then same-category
// posts backfill the remainder. The source post and already-selected
// posts are never repeated.
func (s *PostStore) Related(p *models.Post, limit int) ([]models.Post, error) {
	if limit < 1 {
		return nil, nil
	}

	var picked []models.Post
	if len(p.Keywords) > 0 {
		var conds []string
		args := []any{p.ID}
		for _, kw := range p.Keywords {
			args = append(args, strings.ToLower(strings.TrimSpace(kw)))
			conds = append(conds, fmt.Sprintf(
				"(',' || lower(p.keywords) || ',') LIKE '%%,' || $%d || ',%%'", len(args)))
		}
		args = append(args, limit)

		query := `SELECT ` + postColumns + `, s.name, c.name, sc.name` + postJoins +
			` WHERE p.id <> $1 AND ` + visiblePredicate +
			` AND (` + strings.Join(conds, " OR ") + `)` +
			` ORDER BY p.created_at DESC, p.id` +
			fmt.Sprintf(` LIMIT $%d`, len(args))

		matches, err := s.queryPosts(query, args...)
		if err != nil {
			return nil, fmt.Errorf("related posts by keywords: %w", err)
		}
		picked = matches
	}

	// Backfill with same-category posts until the quota is met or
	// candidates run out.
	if missing := limit - len(picked); missing > 0 {
		exclude := []any{p.CategoryID, p.ID}
		ph := []string{"$2"}
		for _, m := range picked {
			exclude = append(exclude, m.ID)
			ph = append(ph, fmt.Sprintf("$%d", len(exclude)))
		}
		exclude = append(exclude, missing)

		query := `SELECT ` + postColumns + `, s.name, c.name, sc.name` + postJoins +
			` WHERE p.category_id = $1 AND p.id NOT IN (` + strings.Join(ph, ", ") + `)` +
			` AND ` + visiblePredicate +
			` ORDER BY p.created_at DESC, p.id` +
			fmt.Sprintf(` LIMIT $%d`, len(exclude))

		fill, err := s.queryPosts(query, exclude...)
		if err != nil {
			return nil, fmt.Errorf("related posts backfill: %w", err)
		}
		picked = append(picked, fill...)
	}

	return picked, nil
}
