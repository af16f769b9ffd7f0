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

// CommentStore manages reader comments and their moderation state.
type CommentStore struct {
	db *sql.DB
}

// NewCommentStore returns a new CommentStore.
func NewCommentStore(db *sql.DB) *CommentStore {
	return &CommentStore{db: db}
}

const commentColumns = `id, post_id, author_name, author_email, body, is_approved, created_at`

func scanComment(scanner interface{ Scan(...any) error }) (*models.Comment, error) {
	var c models.Comment
	err := scanner.Scan(&c.ID, &c.PostID, &c.AuthorName, &c.AuthorEmail, &c.Body, &c.IsApproved, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ListApproved returns the approved comments for a post, oldest first.
func (s *CommentStore) ListApproved(postID uuid.UUID) ([]models.Comment, error) {
	rows, err := s.db.Query(
		`SELECT `+commentColumns+` FROM comments
		 WHERE post_id = $1 AND is_approved
		 ORDER BY created_at`, postID)
	if err != nil {
		return nil, fmt.Errorf("list approved comments: %w", err)
	}
	defer rows.Close()

	var items []models.Comment
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		items = append(items, *c)
	}
	return items, rows.Err()
}

// ListPending returns all comments awaiting moderation, oldest first.
func (s *CommentStore) ListPending() ([]models.Comment, error) {
	rows, err := s.db.Query(
		`SELECT ` + commentColumns + ` FROM comments WHERE NOT is_approved ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list pending comments: %w", err)
	}
	defer rows.Close()

	var items []models.Comment
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		items = append(items, *c)
	}
	return items, rows.Err()
}

// Create inserts a new comment, held for moderation.
func (s *CommentStore) Create(c *models.Comment) (*models.Comment, error) {
	row := s.db.QueryRow(`
		INSERT INTO comments (post_id, author_name, author_email, body, is_approved)
		VALUES ($1, $2, $3, $4, FALSE)
		RETURNING `+commentColumns,
		c.PostID, c.AuthorName, c.AuthorEmail, c.Body,
	)
	result, err := scanComment(row)
	if err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	return result, nil
}

// Approve makes a comment publicly visible.
func (s *CommentStore) Approve(id uuid.UUID) error {
	_, err := s.db.Exec(`UPDATE comments SET is_approved = TRUE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("approve comment: %w", err)
	}
	return nil
}

// Delete removes a comment.
func (s *CommentStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	return nil
}
