// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"zonavortex/internal/models"
)

// PostEditStore manages the approval queue for editor-proposed changes.
type PostEditStore struct {
	db *sql.DB
}

// NewPostEditStore returns a new PostEditStore.
func NewPostEditStore(db *sql.DB) *PostEditStore {
	return &PostEditStore{db: db}
}

const postEditColumns = `id, post_id, editor_id, proposed_data, status, reviewed_by, reviewed_at, created_at`

func scanPostEdit(scanner interface{ Scan(...any) error }) (*models.PostEdit, error) {
	var e models.PostEdit
	err := scanner.Scan(
		&e.ID, &e.PostID, &e.EditorID, &e.ProposedData, &e.Status,
		&e.ReviewedBy, &e.ReviewedAt, &e.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// Submit records a new pending edit proposal for a post.
func (s *PostEditStore) Submit(postID, editorID uuid.UUID, proposed models.ProposedFields) (*models.PostEdit, error) {
	data, err := json.Marshal(proposed)
	if err != nil {
		return nil, fmt.Errorf("marshal proposed edit: %w", err)
	}

	row := s.db.QueryRow(`
		INSERT INTO post_edits (post_id, editor_id, proposed_data, status)
		VALUES ($1, $2, $3, 'pending')
		RETURNING `+postEditColumns,
		postID, editorID, data,
	)
	e, err := scanPostEdit(row)
	if err != nil {
		return nil, fmt.Errorf("submit post edit: %w", err)
	}
	return e, nil
}

// FindByID retrieves an edit by ID. Returns nil if not found.
func (s *PostEditStore) FindByID(id uuid.UUID) (*models.PostEdit, error) {
	row := s.db.QueryRow(`SELECT `+postEditColumns+` FROM post_edits WHERE id = $1`, id)
	e, err := scanPostEdit(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find post edit: %w", err)
	}
	return e, nil
}

// ListPending returns all pending edits, oldest first, so reviewers work
// the queue in submission order.
func (s *PostEditStore) ListPending() ([]models.PostEdit, error) {
	rows, err := s.db.Query(
		`SELECT ` + postEditColumns + ` FROM post_edits WHERE status = 'pending' ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list pending edits: %w", err)
	}
	defer rows.Close()

	var items []models.PostEdit
	for rows.Next() {
		e, err := scanPostEdit(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post edit: %w", err)
		}
		items = append(items, *e)
	}
	return items, rows.Err()
}

// Approve applies the proposed fields to the post and marks the edit
// approved, in one transaction. Approving a non-pending edit is an
// error: terminal states are immutable.
func (s *PostEditStore) Approve(editID, reviewerID uuid.UUID) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin approve tx: %w", err)
	}
	defer tx.Rollback()

	// Lock the edit row so two reviewers cannot decide it concurrently.
	row := tx.QueryRow(
		`SELECT `+postEditColumns+` FROM post_edits WHERE id = $1 FOR UPDATE`, editID)
	e, err := scanPostEdit(row)
	if err == sql.ErrNoRows {
		return fmt.Errorf("approve edit: not found")
	}
	if err != nil {
		return fmt.Errorf("approve edit lookup: %w", err)
	}
	if e.IsTerminal() {
		return fmt.Errorf("approve edit: already %s", e.Status)
	}

	var proposed models.ProposedFields
	if err := json.Unmarshal(e.ProposedData, &proposed); err != nil {
		return fmt.Errorf("unmarshal proposed edit: %w", err)
	}

	// Apply only the fields the editor actually proposed.
	if proposed.Title != nil {
		if _, err := tx.Exec(`UPDATE posts SET title = $1, updated_at = NOW() WHERE id = $2`, *proposed.Title, e.PostID); err != nil {
			return fmt.Errorf("apply title: %w", err)
		}
	}
	if proposed.Excerpt != nil {
		if _, err := tx.Exec(`UPDATE posts SET excerpt = $1, updated_at = NOW() WHERE id = $2`, *proposed.Excerpt, e.PostID); err != nil {
			return fmt.Errorf("apply excerpt: %w", err)
		}
	}
	if proposed.Content != nil {
		if _, err := tx.Exec(`UPDATE posts SET content = $1, updated_at = NOW() WHERE id = $2`, *proposed.Content, e.PostID); err != nil {
			return fmt.Errorf("apply content: %w", err)
		}
	}
	if proposed.Keywords != nil {
		if _, err := tx.Exec(`UPDATE posts SET keywords = $1, updated_at = NOW() WHERE id = $2`, joinKeywords(proposed.Keywords), e.PostID); err != nil {
			return fmt.Errorf("apply keywords: %w", err)
		}
	}

	if _, err := tx.Exec(`
		UPDATE post_edits SET status = 'approved', reviewed_by = $1, reviewed_at = NOW()
		WHERE id = $2
	`, reviewerID, editID); err != nil {
		return fmt.Errorf("mark edit approved: %w", err)
	}

	return tx.Commit()
}

// Reject marks a pending edit rejected without touching the post.
func (s *PostEditStore) Reject(editID, reviewerID uuid.UUID) error {
	res, err := s.db.Exec(`
		UPDATE post_edits SET status = 'rejected', reviewed_by = $1, reviewed_at = NOW()
		WHERE id = $2 AND status = 'pending'
	`, reviewerID, editID)
	if err != nil {
		return fmt.Errorf("reject edit: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reject edit rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("reject edit: not found or already decided")
	}
	return nil
}
